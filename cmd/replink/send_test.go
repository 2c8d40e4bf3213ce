package main

import (
	"strings"
	"testing"

	"github.com/a3lem/replink/internal/repl"
)

func TestResolveProfile(t *testing.T) {
	tests := []struct {
		name         string
		detected     repl.Profile
		isREPL       bool
		cfgBracketed bool
		flags        sendFlags
		want         repl.Profile
		wantErr      bool
	}{
		{
			name:         "non-repl pane uses config default",
			isREPL:       false,
			cfgBracketed: true,
			want:         repl.Profile{BracketedPaste: true},
		},
		{
			name:         "non-repl pane with bracketed paste disabled in config",
			isREPL:       false,
			cfgBracketed: false,
			want:         repl.Profile{},
		},
		{
			name:         "detection wins for repl panes",
			detected:     repl.Profile{BracketedPaste: true},
			isREPL:       true,
			cfgBracketed: false,
			want:         repl.Profile{BracketedPaste: true},
		},
		{
			name:         "old cpython detected as plain",
			detected:     repl.Profile{},
			isREPL:       true,
			cfgBracketed: true,
			want:         repl.Profile{},
		},
		{
			name:         "ipython flag forces cpaste",
			detected:     repl.Profile{},
			isREPL:       true,
			cfgBracketed: true,
			flags:        sendFlags{forceIPython: true},
			want:         repl.Profile{BracketedPaste: true, Cpaste: true},
		},
		{
			name:         "no-bracketed-paste flag overrides detection",
			detected:     repl.Profile{BracketedPaste: true},
			isREPL:       true,
			cfgBracketed: true,
			flags:        sendFlags{noBracketedPaste: true},
			want:         repl.Profile{},
		},
		{
			name:    "ipython and python flags conflict",
			flags:   sendFlags{forceIPython: true, forcePython: true},
			wantErr: true,
		},
		{
			name:    "ipython and no-bracketed-paste conflict",
			flags:   sendFlags{forceIPython: true, noBracketedPaste: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveProfile(tt.detected, tt.isREPL, tt.cfgBracketed, tt.flags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadText(t *testing.T) {
	t.Run("literal argument", func(t *testing.T) {
		got, err := readText("x = 1", strings.NewReader("ignored"))
		if err != nil {
			t.Fatal(err)
		}
		if got != "x = 1" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("dash reads stdin", func(t *testing.T) {
		got, err := readText("-", strings.NewReader("def f():\n    pass\n"))
		if err != nil {
			t.Fatal(err)
		}
		if got != "def f():\n    pass\n" {
			t.Errorf("got %q", got)
		}
	})
}

func TestRootCmdHasSubcommands(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"send", "panes", "connect", "init"} {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}
