package normalize

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/entity"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizeText(t *testing.T, text string) (*entity.CanonicalDoc, []entity.NormalizationWarning) {
	t.Helper()
	content, err := document.Decode(text)
	require.NoError(t, err)
	return NewNormalizer().NormalizeForPages(context.Background(), content)
}

func TestNormalizeForPages_DuplicateNamesGetSuffix(t *testing.T) {
	doc, warnings := normalizeText(t, `{"Profile": {"Name": "Taro", "Name ": "dup"}}`)

	assert.Empty(t, warnings)
	require.Len(t, doc.Pages, 1)
	fields := doc.Pages[0].Sections[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "profile_name", fields[0].Name)
	assert.Equal(t, "profile_name_1", fields[1].Name)
	assert.Equal(t, "Name ", fields[1].Label)
}

func TestNormalizeForPages_Flat(t *testing.T) {
	doc, _ := normalizeText(t, `{"Basic Info": {"Title": "X", "Tags": ["a", "b"], "Count": 3}}`)

	want := &entity.CanonicalDoc{Pages: []entity.Page{{
		Title: "Basic Info",
		Sections: []entity.Section{{
			Title: OverviewTitle,
			Fields: []entity.Field{
				{Label: "Title", Name: "basic_info_title", Type: "text", Value: "X"},
				{Label: "Tags", Name: "basic_info_tags", Type: "text", Value: []any{"a", "b"}},
				{Label: "Count", Name: "basic_info_count", Type: "text", Value: json.Number("3")},
			},
		}},
	}}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("canonical doc mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeForPages_Nested(t *testing.T) {
	doc, _ := normalizeText(t, `{
		"Applicant": {
			"Personal": {"Name": "Taro", "Email": "t@example.com"},
			"Company": {"Name": "ACME"},
			"Note": "free text"
		}
	}`)

	require.Len(t, doc.Pages, 1)
	sections := doc.Pages[0].Sections
	require.Len(t, sections, 3)

	assert.Equal(t, "Personal", sections[0].Title)
	assert.Equal(t, []string{"personal_name", "personal_email"}, names(sections[0]))

	assert.Equal(t, "Company", sections[1].Title)
	assert.Equal(t, []string{"company_name"}, names(sections[1]))

	// a scalar member of a nested page becomes a one-field section
	assert.Equal(t, "Note", sections[2].Title)
	require.Len(t, sections[2].Fields, 1)
	assert.Equal(t, DescriptionLabel, sections[2].Fields[0].Label)
	assert.Equal(t, "note_field", sections[2].Fields[0].Name)
	assert.Equal(t, "free text", sections[2].Fields[0].Value)
}

func TestNormalizeForPages_PageOrderFollowsSource(t *testing.T) {
	doc, _ := normalizeText(t, `{"Zeta": {"a": 1}, "Alpha": {"b": 2}, "Mid": {"c": 3}}`)

	var titles []string
	for _, p := range doc.Pages {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, titles)
}

func TestNormalizeForPages_NamesUniquePerPage(t *testing.T) {
	doc, _ := normalizeText(t, `{
		"P": {
			"A": {"x": 1, "X": 2, "x ": 3},
			"a": {"x": 4}
		},
		"Q": {"A": {"x": 5}}
	}`)

	for _, page := range doc.Pages {
		seen := map[string]bool{}
		for _, s := range page.Sections {
			for _, f := range s.Fields {
				assert.False(t, seen[f.Name], "page %s has duplicate name %s", page.Title, f.Name)
				seen[f.Name] = true
			}
		}
	}
	// names are only unique per page, so Q may reuse a_x
	assert.Equal(t, "a_x", doc.Pages[1].Sections[0].Fields[0].Name)
}

func TestNormalizeForPages_ScalarTopLevel(t *testing.T) {
	doc, warnings := normalizeText(t, `"just text"`)

	assert.Empty(t, warnings)
	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]
	assert.Equal(t, OverviewTitle, page.Title)
	require.Len(t, page.Sections, 1)
	assert.Equal(t, OverviewTitle, page.Sections[0].Title)
	require.Len(t, page.Sections[0].Fields, 1)
	assert.Equal(t, DescriptionLabel, page.Sections[0].Fields[0].Label)
	assert.Equal(t, "field", page.Sections[0].Fields[0].Name)
	assert.Equal(t, "just text", page.Sections[0].Fields[0].Value)
}

func TestNormalizeForPages_ScalarPage(t *testing.T) {
	doc, _ := normalizeText(t, `{"Summary": "short", "Items": [1, 2]}`)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "summary_field", doc.Pages[0].Sections[0].Fields[0].Name)
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, doc.Pages[1].Sections[0].Fields[0].Value)
}

func TestNormalizeForPages_Empty(t *testing.T) {
	doc, warnings := NewNormalizer().NormalizeForPages(context.Background(), nil)
	assert.NotNil(t, doc.Pages)
	assert.Empty(t, doc.Pages)
	assert.Empty(t, warnings)

	doc, _ = normalizeText(t, `{}`)
	assert.Empty(t, doc.Pages)
}

func TestNormalizeForPages_PlainMapSkipsUnsupportedPages(t *testing.T) {
	content := map[string]any{
		"Good": map[string]any{"k": "v"},
		"Bad":  map[string]any{"f": func() {}},
	}

	doc, warnings := NewNormalizer().NormalizeForPages(context.Background(), content)

	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "Good", doc.Pages[0].Title)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Bad", warnings[0].Page)
	assert.Contains(t, warnings[0].Reason, "unsupported")
}

func TestNormalizeForPages_InvalidNodeInObject(t *testing.T) {
	content := document.NewObject().
		Set("Ok", document.NewObject().Set("a", "b")).
		Set("Broken", document.NewObject().Set("a", struct{}{}))

	doc, warnings := NewNormalizer().NormalizeForPages(context.Background(), content)

	require.Len(t, doc.Pages, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Broken", warnings[0].Page)
}

func names(s entity.Section) []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name)
	}
	return out
}
