// Package send turns normalized text into the ordered sequence of abstract
// operations that deliver it to a REPL. It knows nothing about tmux; the
// delivery layer executes the operations in order.
package send

import (
	"errors"
	"strings"

	"github.com/a3lem/replink/internal/repl"
)

// ErrInvalidProfile is returned when a profile requests cpaste while marked
// bracketed-paste-unsupported. The two flags are contradictory and the
// caller must resolve them before dispatching.
var ErrInvalidProfile = errors.New("profile requests cpaste without bracketed paste support")

// OpKind tags the variant of an Op.
type OpKind int

const (
	OpText  OpKind = iota // literal text, sent as keystrokes
	OpKey                 // a named key press
	OpPaste               // payload delivered through an intermediate paste buffer
)

// Key identifiers carried by OpKey operations. The delivery layer maps
// them to target-specific key names.
const (
	KeyEnter = "enter"
	KeyCtrlD = "ctrl-d"
)

// Bracketed paste framing markers (ESC [ 200 ~ and ESC [ 201 ~).
const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// DefaultPasteThreshold is the payload size in bytes above which bracketed
// text routes through a paste buffer. Inline transmission of large
// payloads through terminal escape framing is unreliable.
const DefaultPasteThreshold = 500

// Op is one delivery operation. The meaning of Payload depends on Kind:
// text for OpText and OpPaste, a key identifier for OpKey.
type Op struct {
	Kind    OpKind
	Payload string
}

// Text creates a literal-text operation.
func Text(s string) Op { return Op{Kind: OpText, Payload: s} }

// Key creates a key-press operation for one of the Key* identifiers.
func Key(name string) Op { return Op{Kind: OpKey, Payload: name} }

// Paste creates a paste-buffer operation.
func Paste(s string) Op { return Op{Kind: OpPaste, Payload: s} }

// Options tunes dispatch behavior.
type Options struct {
	// PasteThreshold overrides DefaultPasteThreshold when positive.
	PasteThreshold int
}

// Dispatch maps normalized text to the operation sequence for the given
// profile. Empty text produces an empty sequence. Pure and deterministic.
//
// Cpaste mode sends line by line with an Enter per line: IPython's capture
// mode confirms each line before reading its terminator. Bracketed mode
// sends the whole payload in paste framing (or via a buffer when it
// exceeds the threshold) followed by exactly one Enter. Plain mode sends
// the text as-is with no extra Enter; execution is driven entirely by the
// newlines the preprocessor embedded.
func Dispatch(text string, p repl.Profile, opts Options) ([]Op, error) {
	if p.Cpaste && !p.BracketedPaste {
		return nil, ErrInvalidProfile
	}
	if text == "" {
		return nil, nil
	}

	if p.Cpaste {
		return cpasteOps(text), nil
	}

	if !p.BracketedPaste {
		return []Op{Text(text)}, nil
	}

	threshold := opts.PasteThreshold
	if threshold <= 0 {
		threshold = DefaultPasteThreshold
	}
	if len(text) > threshold {
		return []Op{Paste(text), Key(KeyEnter)}, nil
	}
	return []Op{Text(pasteStart + text + pasteEnd), Key(KeyEnter)}, nil
}

// cpasteOps wraps the text in a %cpaste capture session: the magic, each
// line individually, the "--" terminator, and a Ctrl-D fallback in case
// the terminator is swallowed by a pending prompt.
func cpasteOps(text string) []Op {
	ops := []Op{Text("%cpaste -q"), Key(KeyEnter)}
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		ops = append(ops, Text(line), Key(KeyEnter))
	}
	ops = append(ops, Text("--"), Key(KeyEnter), Key(KeyCtrlD))
	return ops
}
