// Package tmux drives a tmux server to deliver text, key presses, and
// paste buffers to a target pane.
package tmux

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/a3lem/replink/internal/send"
)

// Pane identifies one tmux pane.
type Pane struct {
	ID       string // unique pane id, e.g. "%3"
	Location string // session:window.pane, e.g. "main:1.2"
	Command  string // command running in the pane, e.g. "python3"
	Title    string
}

// listFormat is the tmux -F format used by ListPanes; fields are
// tab-separated in Pane order.
const listFormat = "#{pane_id}\t#{session_name}:#{window_index}.#{pane_index}\t#{pane_current_command}\t#{pane_title}"

// selectFlags maps a target direction to the select-pane flag.
var selectFlags = map[string]string{
	"right": "-R",
	"left":  "-L",
	"up":    "-U",
	"down":  "-D",
}

// keyNames maps the dispatcher's key identifiers to tmux key names.
var keyNames = map[string]string{
	send.KeyEnter: "Enter",
	send.KeyCtrlD: "C-d",
}

// execer runs the tmux binary. Tests substitute a recording fake.
type execer interface {
	run(stdin string, args ...string) (string, error)
}

// Client executes tmux commands against the local server.
type Client struct {
	exec execer
}

// NewClient creates a Client for the given tmux binary. An empty bin
// defaults to "tmux" on PATH.
func NewClient(bin string) *Client {
	if bin == "" {
		bin = "tmux"
	}
	return &Client{exec: realExec{bin: bin}}
}

// CurrentPane returns the id of the pane this process is running in.
func (c *Client) CurrentPane() (string, error) {
	out, err := c.exec.run("", "display-message", "-p", "#{pane_id}")
	if err != nil {
		return "", fmt.Errorf("tmux current pane: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// NeighborPane returns the id of the pane in the given direction
// (right, left, up, down) from the current pane, or an error when no such
// pane exists. tmux has no direct query for this, so it selects the
// neighbor, reads its id, and selects the original pane back.
func (c *Client) NeighborPane(direction string) (string, error) {
	flag, ok := selectFlags[direction]
	if !ok {
		return "", fmt.Errorf("tmux neighbor pane: unknown direction %q", direction)
	}

	current, err := c.CurrentPane()
	if err != nil {
		return "", err
	}

	if _, err := c.exec.run("", "select-pane", flag); err != nil {
		return "", fmt.Errorf("tmux select pane %s: %w", direction, err)
	}

	target, err := c.CurrentPane()
	if err != nil {
		return "", err
	}

	if _, err := c.exec.run("", "select-pane", "-t", current); err != nil {
		return "", fmt.Errorf("tmux restore pane: %w", err)
	}

	if target == current {
		return "", fmt.Errorf("no pane %s of the current pane", direction)
	}
	return target, nil
}

// PaneCommand returns the command running in the given pane.
func (c *Client) PaneCommand(pane string) (string, error) {
	out, err := c.exec.run("", "display-message", "-p", "-t", pane, "#{pane_current_command}")
	if err != nil {
		return "", fmt.Errorf("tmux pane command: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// PaneContent captures the visible content of the given pane.
func (c *Client) PaneContent(pane string) (string, error) {
	out, err := c.exec.run("", "capture-pane", "-p", "-t", pane)
	if err != nil {
		return "", fmt.Errorf("tmux capture pane: %w", err)
	}
	return out, nil
}

// ListPanes returns every pane on the server.
func (c *Client) ListPanes() ([]Pane, error) {
	out, err := c.exec.run("", "list-panes", "-a", "-F", listFormat)
	if err != nil {
		return nil, fmt.Errorf("tmux list panes: %w", err)
	}

	var panes []Pane
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) < 3 {
			continue
		}
		p := Pane{ID: fields[0], Location: fields[1], Command: fields[2]}
		if len(fields) == 4 {
			p.Title = fields[3]
		}
		panes = append(panes, p)
	}
	return panes, nil
}

// Send executes the operation sequence against the target pane, strictly
// in order. It stops at the first failure; already-delivered operations
// are not rolled back.
func (c *Client) Send(target string, ops []send.Op) error {
	for _, op := range ops {
		if err := c.sendOp(target, op); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) sendOp(target string, op send.Op) error {
	switch op.Kind {
	case send.OpText:
		// -l sends the payload literally; -- guards payloads that start
		// with a dash (the cpaste terminator).
		if _, err := c.exec.run("", "send-keys", "-t", target, "-l", "--", op.Payload); err != nil {
			return fmt.Errorf("tmux send text: %w", err)
		}
	case send.OpKey:
		name, ok := keyNames[op.Payload]
		if !ok {
			return fmt.Errorf("tmux send key: unknown key %q", op.Payload)
		}
		if _, err := c.exec.run("", "send-keys", "-t", target, name); err != nil {
			return fmt.Errorf("tmux send key %s: %w", name, err)
		}
	case send.OpPaste:
		if _, err := c.exec.run(op.Payload, "load-buffer", "-b", "replink", "-"); err != nil {
			return fmt.Errorf("tmux load buffer: %w", err)
		}
		// -p pastes with bracketed-paste framing, -d deletes the buffer.
		if _, err := c.exec.run("", "paste-buffer", "-d", "-p", "-b", "replink", "-t", target); err != nil {
			return fmt.Errorf("tmux paste buffer: %w", err)
		}
	default:
		return fmt.Errorf("tmux send: unknown operation kind %d", op.Kind)
	}
	return nil
}

// realExec invokes the tmux binary, buffering stdout and stderr.
type realExec struct {
	bin string
}

func (e realExec) run(stdin string, args ...string) (string, error) {
	cmd := exec.Command(e.bin, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("%s: %w", errMsg, err)
	}
	return stdout.String(), nil
}
