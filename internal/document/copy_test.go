package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_IsDeep(t *testing.T) {
	orig, err := Decode(`{"a": {"b": [1, {"c": "d"}]}}`)
	require.NoError(t, err)

	cp := Clone(orig)
	require.True(t, Equal(orig, cp))

	// mutate the copy at every level
	a, _ := cp.(*Object).Get("a")
	b, _ := a.(*Object).Get("b")
	b.([]any)[1].(*Object).Set("c", "changed")
	a.(*Object).Set("new", true)

	assert.Equal(t, `{"a":{"b":[1,{"c":"d"}]}}`, compact(t, orig))
}

func TestClone_Nil(t *testing.T) {
	assert.Nil(t, Clone(nil))
	assert.Equal(t, (*Object)(nil), Clone((*Object)(nil)))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same", `{"a": 1}`, `{"a": 1}`, true},
		{"member order ignored", `{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`, true},
		{"numbers by value", `[1.0, 2]`, `[1, 2.00]`, true},
		{"different value", `{"a": 1}`, `{"a": 2}`, false},
		{"extra key", `{"a": 1}`, `{"a": 1, "b": 2}`, false},
		{"array order matters", `[1, 2]`, `[2, 1]`, false},
		{"kind mismatch", `{"a": "1"}`, `{"a": 1}`, false},
		{"null vs missing", `{"a": null}`, `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Decode(tt.a)
			require.NoError(t, err)
			b, err := Decode(tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Equal(a, b))
		})
	}
}

func TestEqual_NativeNumbers(t *testing.T) {
	assert.True(t, Equal(json.Number("3"), 3))
	assert.True(t, Equal(2.5, json.Number("2.50")))
}

func compact(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
