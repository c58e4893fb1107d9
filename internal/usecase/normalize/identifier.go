package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

const fallbackLabel = "field"

var (
	separatorReplacer = strings.NewReplacer("・", "_", "、", "_", "，", "_", ",", "_")
	bracketPattern    = regexp.MustCompile(`\(([^)]+)\)`)
	nonIdentPattern   = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	underscoreRun     = regexp.MustCompile(`_+`)
)

// NormalizeText turns a free-form label into a lowercase snake_case token.
// Full-width forms fold to their ASCII counterparts and bracket wrappers are
// dropped with their contents kept. Anything else outside [a-zA-Z0-9_]
// becomes '_', so compatibility characters such as ① or ﬁ are not expanded.
func NormalizeText(text string) string {
	folded, _, err := transform.String(width.Narrow, text)
	if err != nil {
		folded = text
	}

	folded = separatorReplacer.Replace(folded)
	folded = bracketPattern.ReplaceAllString(folded, "$1")
	folded = nonIdentPattern.ReplaceAllString(folded, "_")
	folded = underscoreRun.ReplaceAllString(folded, "_")
	folded = strings.Trim(folded, "_")

	return strings.ToLower(folded)
}

// nameSet tracks field names already handed out on one page
type nameSet map[string]struct{}

// fieldName builds <prefix>_<label>. The page title stands in for a section
// title with no ASCII content, and "field" for such a label.
func fieldName(label, sectionTitle, pageTitle string) string {
	base := NormalizeText(label)
	if base == "" {
		base = fallbackLabel
	}

	prefix := NormalizeText(sectionTitle)
	if prefix == "" {
		prefix = NormalizeText(pageTitle)
	}
	if prefix == "" {
		return base
	}
	return prefix + "_" + base
}

// claim reserves name, appending _1, _2, ... on collision
func (s nameSet) claim(name string) string {
	unique := name
	for i := 1; ; i++ {
		if _, taken := s[unique]; !taken {
			break
		}
		unique = name + "_" + strconv.Itoa(i)
	}
	s[unique] = struct{}{}
	return unique
}
