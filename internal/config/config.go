// Package config parses replink.toml user configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultAccentColor is the default picker accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// directions are the accepted tmux.target values.
var directions = map[string]bool{"right": true, "left": true, "up": true, "down": true}

// Config is the top-level replink.toml configuration.
type Config struct {
	Send SendConfig `toml:"send"`
	Tmux TmuxConfig `toml:"tmux"`
	TUI  TUIConfig  `toml:"tui"`
}

// SendConfig controls preprocessing and dispatch.
type SendConfig struct {
	BracketedPaste bool `toml:"bracketed_paste"`
	PasteThreshold int  `toml:"paste_threshold"` // bytes; payloads above this go through a tmux buffer
}

// TmuxConfig controls how the target pane is located.
type TmuxConfig struct {
	Bin    string `toml:"bin"`
	Target string `toml:"target"` // direction of the REPL pane: right, left, up, down
}

// TUIConfig controls the pane picker appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Send.PasteThreshold < 0 {
		errs = append(errs, fmt.Errorf("send.paste_threshold must be >= 0 (0 = default)"))
	}
	if c.Tmux.Target != "" && !directions[c.Tmux.Target] {
		errs = append(errs, fmt.Errorf("tmux.target must be one of right, left, up, down"))
	}
	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Send: SendConfig{
			BracketedPaste: true,
			PasteThreshold: 500,
		},
		Tmux: TmuxConfig{
			Bin:    "tmux",
			Target: "right",
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
		},
	}
}

// Load reads replink.toml from the given path. If path is empty, it looks
// in the user config directory; a missing file is not an error and yields
// the defaults. Unknown keys are rejected (likely typos).
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		found, err := defaultPath()
		if err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(found); os.IsNotExist(statErr) {
			return &cfg, nil
		}
		path = found
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("config: %s: %w", path, validateErr)
	}

	return &cfg, nil
}

// defaultPath returns the replink.toml location in the user config dir.
func defaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(base, "replink", "replink.toml"), nil
}

// InitFile writes a commented default replink.toml to the user config
// directory (or to dir when non-empty) and returns its path.
func InitFile(dir string) (string, error) {
	var path string
	if dir != "" {
		path = filepath.Join(dir, "replink.toml")
	} else {
		p, err := defaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: replink.toml already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("config: create %s: %w", filepath.Dir(path), err)
	}

	content := `# replink.toml — replink user configuration

[send]
bracketed_paste = true  # assume the REPL supports bracketed paste
paste_threshold = 500   # bytes; larger payloads go through a tmux buffer

[tmux]
bin = "tmux"
target = "right"  # pane direction of the REPL: right, left, up, down

[tui]
accent_color = "#7D56F4"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
