package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/futig/structure-engine/internal/entity"
)

const defaultTitle = "Structure"

// Formatter renders a canonical document into a downloadable file
type Formatter interface {
	Format(title string, doc *entity.CanonicalDoc) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrUnsupportedFormat, format)
	}
}

func titleOrDefault(title string) string {
	if title == "" {
		return defaultTitle
	}
	return title
}

// valueText renders scalars verbatim and containers as compact JSON
func valueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
