package document

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesMemberOrder(t *testing.T) {
	doc, err := Decode(`{"z": 1, "a": {"y": true, "b": null}, "m": [1, "two"]}`)
	require.NoError(t, err)

	obj, ok := doc.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	inner, _ := obj.Get("a")
	assert.Equal(t, []string{"y", "b"}, inner.(*Object).Keys())

	arr, _ := obj.Get("m")
	assert.Equal(t, []any{json.Number("1"), "two"}, arr)
}

func TestDecode_Scalars(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`"text"`, "text"},
		{`12.50`, json.Number("12.50")},
		{`true`, true},
		{`null`, nil},
		{`[]`, []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unquoted key", `{title: "X"}`},
		{"trailing comma", `{"a": 1,}`},
		{"unterminated", `{"a": [1, 2`},
		{"empty", ``},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"prose", `not json at all`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.GreaterOrEqual(t, syntaxErr.Offset, int64(0))
			assert.LessOrEqual(t, syntaxErr.Offset, int64(len(tt.in)))
		})
	}
}

func TestDecode_SyntaxOffsetPointsAtProblem(t *testing.T) {
	_, err := Decode(`{"ok": 1, bad: 2}`)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, int64(10), syntaxErr.Offset)
}

func TestDecode_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	doc, err := Decode(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)

	obj := doc.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, _ := obj.Get("a")
	assert.Equal(t, json.Number("3"), v)
}

func TestCodec_EncodeKeepsOrderAndUnicode(t *testing.T) {
	obj := NewObject().
		Set("名前", "太郎").
		Set("html", "<b>&</b>").
		Set("n", json.Number("1.0"))

	out, err := NewJSONCodec().Encode(obj)
	require.NoError(t, err)

	want := "{\n  \"名前\": \"太郎\",\n  \"html\": \"<b>&</b>\",\n  \"n\": 1.0\n}"
	assert.Equal(t, want, string(out))
}

func TestObject_SetDelete(t *testing.T) {
	obj := NewObject().Set("a", 1).Set("b", 2).Set("c", 3)
	obj.Set("a", 10)
	assert.Equal(t, []string{"a", "b", "c"}, obj.Keys())

	obj.Delete("b")
	obj.Delete("missing")
	assert.Equal(t, []string{"a", "c"}, obj.Keys())
	assert.False(t, obj.Has("b"))
	assert.Equal(t, 2, obj.Len())
}

func TestObject_NilIsEmpty(t *testing.T) {
	var obj *Object
	assert.Equal(t, 0, obj.Len())
	assert.Nil(t, obj.Keys())
	assert.False(t, obj.Has("a"))

	data, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestObject_UnmarshalJSON(t *testing.T) {
	var wrapper struct {
		Content *Object `json:"content"`
	}
	err := json.Unmarshal([]byte(`{"content": {"b": 1, "a": 2}}`), &wrapper)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, wrapper.Content.Keys())

	err = json.Unmarshal([]byte(`{"content": [1]}`), &wrapper)
	assert.Error(t, err)
}

func TestObject_HasObjectMember(t *testing.T) {
	flat := NewObject().Set("a", "x").Set("b", []any{NewObject()})
	assert.False(t, flat.HasObjectMember())

	nested := NewObject().Set("a", "x").Set("b", NewObject())
	assert.True(t, nested.HasObjectMember())
}

func TestFromValue(t *testing.T) {
	got, err := FromValue(map[string]any{
		"b": []any{1, 2.5, "x"},
		"a": map[string]string{"k": "v"},
	})
	require.NoError(t, err)

	obj := got.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())

	b, _ := obj.Get("b")
	assert.Equal(t, []any{json.Number("1"), json.Number("2.5"), "x"}, b)

	a, _ := obj.Get("a")
	assert.Equal(t, []string{"k"}, a.(*Object).Keys())
}

func TestFromValue_Unsupported(t *testing.T) {
	_, err := FromValue(map[string]any{"f": func() {}})
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	_, err = FromValue(map[int]string{1: "a"})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(NewObject().Set("a", []any{json.Number("1"), nil, true})))
	assert.ErrorIs(t, Validate(NewObject().Set("a", struct{}{})), ErrUnsupportedValue)
	assert.ErrorIs(t, Validate(json.Number("abc")), ErrUnsupportedValue)
}
