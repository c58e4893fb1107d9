package entity

// CanonicalDoc is the page -> section -> field tree that drives UI rendering
type CanonicalDoc struct {
	Pages []Page `json:"pages"`
}

type Page struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Field is a single editable value. Name is unique within its page.
type Field struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// FieldCount returns the number of fields across all pages
func (d *CanonicalDoc) FieldCount() int {
	n := 0
	for _, p := range d.Pages {
		for _, s := range p.Sections {
			n += len(s.Fields)
		}
	}
	return n
}

// NormalizationWarning reports a page that was skipped during normalization
type NormalizationWarning struct {
	Page   string `json:"page"`
	Reason string `json:"reason"`
}

// ExportFormat is a rendering target for canonical previews
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatPDF      ExportFormat = "pdf"
	FormatDOCX     ExportFormat = "docx"
)
