// Package diff renders line-oriented differences between two texts.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const contextLines = 3

// Stats summarizes a line diff
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Changed reports whether any line was added or removed
func (s Stats) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// Unified returns a unified diff of before and after split on newlines.
// Lines are joined with "\n" and the result carries no trailing newline.
// Identical inputs produce an empty string.
func Unified(before, after string) string {
	ud := difflib.UnifiedDiff{
		A:        terminate(splitLines(before)),
		B:        terminate(splitLines(after)),
		FromFile: "before",
		ToFile:   "after",
		Context:  contextLines,
		Eol:      "\n",
	}

	var sb strings.Builder
	if err := difflib.WriteUnifiedDiff(&sb, ud); err != nil {
		// strings.Builder never fails to write
		return ""
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// LineStats counts added, removed and unchanged lines between before and after
func LineStats(before, after string) Stats {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var stats Stats
	for _, d := range diffs {
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stats.Added += n
		case diffmatchpatch.DiffDelete:
			stats.Removed += n
		case diffmatchpatch.DiffEqual:
			stats.Unchanged += n
		}
	}
	return stats
}

// splitLines mirrors Python's str.splitlines: no trailing empty element
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// terminate appends the line feed difflib expects at the end of every line
func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
