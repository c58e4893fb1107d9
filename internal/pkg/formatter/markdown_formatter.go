package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/structure-engine/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(title string, doc *entity.CanonicalDoc) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", titleOrDefault(title))

	for _, page := range doc.Pages {
		fmt.Fprintf(&buf, "\n## %s\n", page.Title)
		for _, section := range page.Sections {
			fmt.Fprintf(&buf, "\n### %s\n\n", section.Title)
			for _, field := range section.Fields {
				value := strings.ReplaceAll(valueText(field.Value), "\n", " ")
				fmt.Fprintf(&buf, "- **%s** (`%s`): %s\n", field.Label, field.Name, value)
			}
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
