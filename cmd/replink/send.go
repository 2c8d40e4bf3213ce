package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/a3lem/replink/internal/config"
	"github.com/a3lem/replink/internal/python"
	"github.com/a3lem/replink/internal/repl"
	"github.com/a3lem/replink/internal/send"
	"github.com/a3lem/replink/internal/tmux"
	"github.com/a3lem/replink/internal/tui"
)

// sendFlags are the send command's capability and targeting overrides.
type sendFlags struct {
	noBracketedPaste bool
	forceIPython     bool
	forcePython      bool
	target           string
	pick             bool
}

func sendCmd() *cobra.Command {
	var flags sendFlags

	cmd := &cobra.Command{
		Use:   "send [text]",
		Short: "Send code to a Python REPL in a tmux pane",
		Long: `Send code to a Python REPL in a tmux pane.
Reads from stdin when text is "-" or omitted. The code is dedented and
rewritten so the REPL executes it exactly as if typed interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "-"
			if len(args) == 1 {
				arg = args[0]
			}
			return runSend(arg, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.noBracketedPaste, "no-bracketed-paste", false, "disable bracketed paste framing")
	cmd.Flags().BoolVar(&flags.forceIPython, "ipython", false, "force IPython mode (%cpaste for multiline code)")
	cmd.Flags().BoolVar(&flags.forcePython, "python", false, "force standard Python mode (no %cpaste)")
	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "target pane id (default: pane in the configured direction)")
	cmd.Flags().BoolVar(&flags.pick, "pick", false, "pick the target pane interactively")

	return cmd
}

func runSend(arg string, flags sendFlags) error {
	text, err := readText(arg, os.Stdin)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	client := tmux.NewClient(cfg.Tmux.Bin)

	target, err := resolveTarget(client, cfg, flags)
	if err != nil {
		return err
	}

	command, err := client.PaneCommand(target)
	if err != nil {
		return err
	}
	if !repl.IsPythonREPL(command) {
		fmt.Fprintf(os.Stderr, "Warning: pane %s does not appear to be running a Python REPL (%s)\n", target, command)
	}

	// Pane content distinguishes IPython from plain CPython sessions.
	content, err := client.PaneContent(target)
	if err != nil {
		return err
	}

	profile, err := resolveProfile(repl.Detect(command, content), repl.IsPythonREPL(command), cfg.Send.BracketedPaste, flags)
	if err != nil {
		return err
	}

	normalized := python.Normalize(text, profile)
	ops, err := send.Dispatch(normalized, profile, send.Options{PasteThreshold: cfg.Send.PasteThreshold})
	if err != nil {
		return err
	}

	return client.Send(target, ops)
}

// resolveTarget picks the destination pane: an explicit -t id, the
// interactive picker, or the neighbor in the configured direction.
func resolveTarget(client *tmux.Client, cfg *config.Config, flags sendFlags) (string, error) {
	if flags.target != "" {
		return flags.target, nil
	}

	if flags.pick {
		panes, err := client.ListPanes()
		if err != nil {
			return "", err
		}
		pane, ok, err := tui.Pick(panes, cfg.TUI.AccentColor)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("no pane selected")
		}
		return pane.ID, nil
	}

	direction := cfg.Tmux.Target
	if direction == "" {
		direction = "right"
	}
	return client.NeighborPane(direction)
}

// resolveProfile combines pane detection, configuration, and flag
// overrides into the capability profile handed to the core. detected is
// what the pane looks like; isREPL reports whether detection applies at
// all (for non-Python panes the configured default wins).
func resolveProfile(detected repl.Profile, isREPL, cfgBracketed bool, flags sendFlags) (repl.Profile, error) {
	if flags.forceIPython && flags.forcePython {
		return repl.Profile{}, fmt.Errorf("--ipython and --python are mutually exclusive")
	}
	if flags.forceIPython && flags.noBracketedPaste {
		return repl.Profile{}, fmt.Errorf("--ipython cannot be combined with --no-bracketed-paste")
	}

	p := repl.Profile{BracketedPaste: cfgBracketed}
	if isREPL {
		p = detected
	}

	if flags.forceIPython {
		return repl.Profile{BracketedPaste: true, Cpaste: true}, nil
	}
	if flags.forcePython {
		p.Cpaste = false
	}
	if flags.noBracketedPaste {
		p.BracketedPaste = false
		p.Cpaste = false
	}
	return p, nil
}

// readText returns the text argument, or reads all of r when arg is "-".
func readText(arg string, r io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
