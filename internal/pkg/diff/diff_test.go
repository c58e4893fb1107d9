package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnified_IdenticalIsEmpty(t *testing.T) {
	assert.Equal(t, "", Unified("a\nb\n", "a\nb\n"))
	assert.Equal(t, "", Unified("", ""))
}

func TestUnified(t *testing.T) {
	got := Unified("{\n  a: 1\n}", "{\n  \"a\": 1,\n  \"b\": 2\n}")

	want := strings.Join([]string{
		"--- before",
		"+++ after",
		"@@ -1,3 +1,4 @@",
		" {",
		"-  a: 1",
		"+  \"a\": 1,",
		"+  \"b\": 2",
		" }",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestUnified_NoTrailingNewline(t *testing.T) {
	got := Unified("x", "y")
	assert.False(t, strings.HasSuffix(got, "\n"))
	assert.Contains(t, got, "-x\n+y")
}

func TestLineStats(t *testing.T) {
	stats := LineStats("a\nb\nc\n", "a\nB\nc\nd\n")
	assert.Equal(t, Stats{Added: 2, Removed: 1, Unchanged: 2}, stats)
	assert.True(t, stats.Changed())

	same := LineStats("a\nb", "a\nb")
	assert.Equal(t, Stats{Unchanged: 2}, same)
	assert.False(t, same.Changed())
}

func TestLineStats_Empty(t *testing.T) {
	assert.Equal(t, Stats{Added: 2}, LineStats("", "a\nb"))
	assert.Equal(t, Stats{Removed: 1}, LineStats("a", ""))
}
