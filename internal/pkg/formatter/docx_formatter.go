package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(title string, doc *entity.CanonicalDoc) ([]byte, error) {
	out := document.New()
	defer out.Close()

	addHeading(out, "Title", titleOrDefault(title))

	for _, page := range doc.Pages {
		addHeading(out, "Heading1", page.Title)
		for _, section := range page.Sections {
			addHeading(out, "Heading2", section.Title)
			for _, field := range section.Fields {
				par := out.AddParagraph()
				label := par.AddRun()
				label.Properties().SetBold(true)
				label.AddText(field.Label)

				par.AddRun().AddText(fmt.Sprintf(" (%s): %s", field.Name, valueText(field.Value)))
			}
		}
	}

	var buf bytes.Buffer
	if err := out.Save(&buf); err != nil {
		return nil, fmt.Errorf("render docx: %w", err)
	}
	return buf.Bytes(), nil
}

func addHeading(doc *document.Document, style, text string) {
	par := doc.AddParagraph()
	par.SetStyle(style)
	par.AddRun().AddText(text)
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
