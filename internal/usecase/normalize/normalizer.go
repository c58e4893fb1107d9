// Package normalize converts free-form documents into the canonical
// page -> section -> field shape used for UI previews.
package normalize

import (
	"context"
	"fmt"
	"sort"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	// OverviewTitle names the page and section used for flat or scalar content
	OverviewTitle = "概要"
	// DescriptionLabel labels the single field created for a non-object value
	DescriptionLabel = "説明"

	fieldTypeText = "text"
)

// Normalizer builds CanonicalDocs. The zero value is ready to use.
type Normalizer struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeForPages maps every top-level key of content to a page.
//
// A page value that is an object with at least one object member yields one
// section per member. Any other object yields a single overview section with a
// field per key. Field names are unique within a page.
// Pages holding values that are not Documents are skipped and reported.
func (n *Normalizer) NormalizeForPages(ctx context.Context, content any) (*entity.CanonicalDoc, []entity.NormalizationWarning) {
	doc := &entity.CanonicalDoc{Pages: []entity.Page{}}
	var warnings []entity.NormalizationWarning

	pages, err := pageCandidates(content)
	if err != nil {
		warnings = append(warnings, n.warn(ctx, OverviewTitle, err))
		return doc, warnings
	}

	for _, pc := range pages {
		if pc.err != nil {
			warnings = append(warnings, n.warn(ctx, pc.title, pc.err))
			continue
		}
		if err := document.Validate(pc.value); err != nil {
			warnings = append(warnings, n.warn(ctx, pc.title, err))
			continue
		}
		doc.Pages = append(doc.Pages, buildPage(pc.title, pc.value))
	}

	return doc, warnings
}

func (n *Normalizer) warn(ctx context.Context, page string, err error) entity.NormalizationWarning {
	ctxzap.Warn(ctx, "page skipped during normalization",
		zap.String("page", page),
		zap.Error(err),
	)
	return entity.NormalizationWarning{Page: page, Reason: err.Error()}
}

type pageCandidate struct {
	title string
	value any
	err   error
}

// pageCandidates splits content into top-level pages in source order.
// Plain Go maps are accepted and walked in sorted key order.
func pageCandidates(content any) ([]pageCandidate, error) {
	switch c := content.(type) {
	case nil:
		return nil, nil
	case *document.Object:
		out := make([]pageCandidate, 0, c.Len())
		c.Range(func(key string, value any) bool {
			out = append(out, pageCandidate{title: key, value: value})
			return true
		})
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make([]pageCandidate, 0, len(c))
		for _, k := range keys {
			v, err := document.FromValue(c[k])
			out = append(out, pageCandidate{title: k, value: v, err: err})
		}
		return out, nil
	}

	v, err := document.FromValue(content)
	if err != nil {
		return nil, fmt.Errorf("convert content: %w", err)
	}
	if obj, ok := v.(*document.Object); ok {
		return pageCandidates(obj)
	}
	return []pageCandidate{{title: OverviewTitle, value: v}}, nil
}

func buildPage(title string, value any) entity.Page {
	names := nameSet{}
	page := entity.Page{Title: title, Sections: []entity.Section{}}

	obj, ok := value.(*document.Object)
	switch {
	case ok && obj.HasObjectMember():
		obj.Range(func(key string, member any) bool {
			page.Sections = append(page.Sections, buildSection(key, title, member, names))
			return true
		})
	default:
		page.Sections = append(page.Sections, buildSection(OverviewTitle, title, value, names))
	}

	return page
}

func buildSection(title, pageTitle string, value any, names nameSet) entity.Section {
	section := entity.Section{Title: title, Fields: []entity.Field{}}

	obj, ok := value.(*document.Object)
	if !ok {
		section.Fields = append(section.Fields, newField(DescriptionLabel, value, title, pageTitle, names))
		return section
	}

	obj.Range(func(key string, v any) bool {
		section.Fields = append(section.Fields, newField(key, v, title, pageTitle, names))
		return true
	})
	return section
}

func newField(label string, value any, sectionTitle, pageTitle string, names nameSet) entity.Field {
	return entity.Field{
		Label: label,
		Name:  names.claim(fieldName(label, sectionTitle, pageTitle)),
		Type:  fieldTypeText,
		Value: value,
	}
}
