// Package repl describes the paste capabilities of a destination REPL and
// the heuristics used to resolve them from a tmux pane.
package repl

import (
	"regexp"
	"strconv"
	"strings"
)

// Profile is the resolved capability set of the destination REPL. It is
// fixed for the duration of one send and never mutated by the core.
type Profile struct {
	// BracketedPaste reports whether the REPL accepts bracketed-paste
	// framing, letting a multi-line block arrive atomically.
	BracketedPaste bool

	// Cpaste requests IPython's %cpaste capture mode instead of paste
	// framing. Requires BracketedPaste-capable delivery; the dispatcher
	// rejects a profile with Cpaste set and BracketedPaste unset.
	Cpaste bool
}

// replCommands are process names that indicate a Python REPL.
var replCommands = []string{"python", "ipython", "jupyter", "ipy", "bpython", "ptpython"}

// ipythonMarkers are pane-content fragments that indicate an IPython prompt.
var ipythonMarkers = []string{"in [", "ipython", "ipy"}

// versionRe matches "python3.12", "python3", "python2.7" and the like.
var versionRe = regexp.MustCompile(`python(\d+)(?:\.(\d+))?`)

// IsPythonREPL reports whether the command running in a pane looks like a
// Python REPL.
func IsPythonREPL(command string) bool {
	command = strings.ToLower(strings.TrimSpace(command))
	for _, c := range replCommands {
		if strings.Contains(command, c) {
			return true
		}
	}
	return false
}

// IsIPython reports whether captured pane content looks like an IPython
// session. This is a stronger signal than the process name: "python" panes
// often host IPython started from a script or venv wrapper.
func IsIPython(content string) bool {
	content = strings.ToLower(content)
	for _, m := range ipythonMarkers {
		if strings.Contains(content, m) {
			return true
		}
	}
	return false
}

// PythonVersion extracts the interpreter version from a pane command name.
// A bare "python3" reports minor version 0. ok is false when the command
// carries no version at all.
func PythonVersion(command string) (major, minor int, ok bool) {
	m := versionRe.FindStringSubmatch(strings.ToLower(command))
	if m == nil {
		return 0, 0, false
	}
	major, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minor, _ = strconv.Atoi(m[2])
	}
	return major, minor, true
}

// Detect resolves a Profile from the target pane's command name and visible
// content. IPython and alternative shells handle bracketed paste, as does
// CPython 3.13+. Cpaste is never enabled by detection; it is an explicit
// caller request.
func Detect(command, content string) Profile {
	c := strings.ToLower(command)
	if IsIPython(content) || strings.Contains(c, "ipython") || strings.Contains(c, "bpython") || strings.Contains(c, "ptpython") {
		return Profile{BracketedPaste: true}
	}
	if major, minor, ok := PythonVersion(command); ok {
		if major > 3 || (major == 3 && minor >= 13) {
			return Profile{BracketedPaste: true}
		}
	}
	return Profile{}
}
