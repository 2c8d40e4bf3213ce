// Package python normalizes a block of Python source into the exact text a
// REPL will execute correctly. What the REPL tolerates depends on whether
// it supports bracketed paste: with framing the block arrives atomically
// and only needs a dedent, without it every blank line and indent
// transition has block-closure semantics and must be rewritten.
package python

import (
	"strings"

	"github.com/a3lem/replink/internal/repl"
)

// continuationKeywords open clauses that must stay attached to the block
// they follow; a blank line before them would orphan them.
var continuationKeywords = map[string]bool{
	"elif":    true,
	"else":    true,
	"except":  true,
	"finally": true,
}

// compoundKeywords start compound statements. Used to recognize a
// single-line compound ("def f(): return 1"), which needs a closing blank
// line just like an indented body does.
var compoundKeywords = map[string]bool{
	"def": true, "class": true, "if": true, "elif": true, "else": true,
	"for": true, "while": true, "with": true, "try": true,
	"except": true, "finally": true, "async": true,
}

// Normalize prepares code for transmission to a REPL with the given
// capability profile. It is a pure function: same inputs, same output.
//
// With bracketed paste the block is dedented, interior blank lines are kept
// verbatim, and the text ends with exactly one newline (the delivery layer
// sends exactly one Enter afterward). Without it, blank lines are deleted,
// a synthetic blank line is inserted wherever an indented block returns to
// the top level, and the trailing newline count encodes whether the final
// statement still needs a blank line to close its block.
func Normalize(code string, p repl.Profile) string {
	if code == "" {
		return ""
	}

	lines := dedent(strings.Split(code, "\n"))

	if p.BracketedPaste {
		text := strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
		return text + "\n"
	}

	kept := dropBlank(lines)
	if len(kept) == 0 {
		return ""
	}

	depths := startDepths(kept)
	out := insertBoundaries(kept, depths)

	return strings.Join(out, "\n") + strings.Repeat("\n", trailingNewlines(kept, depths))
}

// dedent strips the minimal common leading whitespace of all non-blank
// lines. Blank lines are ignored when computing the margin and passed
// through unchanged.
func dedent(lines []string) []string {
	margin := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if margin < 0 || n < margin {
			margin = n
		}
	}
	if margin <= 0 {
		return lines
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		out[i] = line[margin:]
	}
	return out
}

// dropBlank removes blank lines. A REPL without paste framing treats a
// blank line as "end of block", executing a partial definition.
func dropBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// startDepths returns the bracket nesting depth at the start of each line.
// Lines starting at depth > 0 are continuations of the preceding logical
// line: their indentation carries no block structure.
func startDepths(lines []string) []int {
	depths := make([]int, len(lines))
	depth := 0
	for i, line := range lines {
		depths[i] = depth
		depth += bracketDelta(line)
		if depth < 0 {
			depth = 0
		}
	}
	return depths
}

// bracketDelta is the net change in ([{ nesting across line, ignoring
// brackets inside string literals and comments. It is a heuristic, not a
// parser: triple-quoted strings spanning lines are not tracked.
func bracketDelta(line string) int {
	delta := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '#':
			return delta
		case '(', '[', '{':
			delta++
		case ')', ']', '}':
			delta--
		}
	}
	return delta
}

// insertBoundaries adds one blank line at every transition from an indented
// line back to a non-indented one, except before continuation keywords
// (elif/else/except/finally), which must remain attached to their block.
func insertBoundaries(lines []string, depths []int) []string {
	out := make([]string, 0, len(lines))
	prevIndented := false
	for i, line := range lines {
		if depths[i] > 0 {
			// Continuation of a bracketed expression; no block semantics.
			out = append(out, line)
			continue
		}
		indented := isIndented(line)
		if prevIndented && !indented && !continuationKeywords[firstWord(line)] {
			out = append(out, "")
		}
		out = append(out, line)
		prevIndented = indented
	}
	return out
}

// trailingNewlines computes the newline count that ends the block: two when
// the final logical line is part of a block body (or is a single-line
// compound statement) so the REPL both closes the block and executes it,
// one for a plain top-level statement.
func trailingNewlines(lines []string, depths []int) int {
	last := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if depths[i] == 0 {
			last = lines[i]
			break
		}
	}
	if isIndented(last) || isSingleLineCompound(last) {
		return 2
	}
	return 1
}

// isSingleLineCompound reports whether line is a compound statement with
// its body inline, like "def f(): return 1". A bare header ("if x:") is
// not: it has no body to close.
func isSingleLineCompound(line string) bool {
	s := strings.TrimSpace(line)
	if !compoundKeywords[firstWord(s)] {
		return false
	}
	return strings.Contains(s, ":") && !strings.HasSuffix(s, ":")
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// firstWord returns the leading identifier of line, lowercased.
func firstWord(line string) string {
	s := strings.TrimLeft(line, " \t")
	end := 0
	for end < len(s) {
		c := s[end]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '_' {
			break
		}
		end++
	}
	return strings.ToLower(s[:end])
}
