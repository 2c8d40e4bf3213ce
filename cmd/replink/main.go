// Package main is the entry point for the replink CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a3lem/replink/internal/config"
	"github.com/a3lem/replink/internal/repl"
	"github.com/a3lem/replink/internal/tmux"
	"github.com/a3lem/replink/internal/tui"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "replink",
		Short:         "replink — send code from your editor to a REPL in another tmux pane",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		sendCmd(),
		panesCmd(),
		connectCmd(),
		initCmd(),
	)

	return root
}

func panesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panes",
		Short: "List tmux panes and the commands running in them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}

			panes, err := tmux.NewClient(cfg.Tmux.Bin).ListPanes()
			if err != nil {
				return err
			}

			for _, p := range panes {
				marker := " "
				if repl.IsPythonREPL(p.Command) {
					marker = "●"
				}
				fmt.Printf("%s %-5s %-20s %-12s %s\n", marker, p.ID, p.Location, p.Command, p.Title)
			}
			return nil
		},
	}
}

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Interactively pick a pane and print its id",
		Long: `Interactively pick a tmux pane and print its id to stdout.
Useful for wiring replink into an editor: replink send -t "$(replink connect)".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}

			panes, err := tmux.NewClient(cfg.Tmux.Bin).ListPanes()
			if err != nil {
				return err
			}
			if len(panes) == 0 {
				return fmt.Errorf("no tmux panes found")
			}

			pane, ok, err := tui.Pick(panes, cfg.TUI.AccentColor)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no pane selected")
			}

			fmt.Println(pane.ID)
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default replink.toml in the user config directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.InitFile("")
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}
}
