package reconcile

import "github.com/futig/structure-engine/internal/document"

// ComplementMissingKeys fills the gaps of base with data from reference.
//
// Keys only present in reference are deep-copied into the result after the
// base keys. Values present on both sides are merged when both are objects or
// both are arrays, otherwise the base value is kept. Arrays merge by index.
// Neither input is modified.
func ComplementMissingKeys(base, reference any) any {
	b, ok := base.(*document.Object)
	if !ok || b == nil {
		return document.Clone(base)
	}
	r, ok := reference.(*document.Object)
	if !ok || r == nil {
		return document.Clone(base)
	}
	return mergeObjects(b, r)
}

func mergeObjects(base, reference *document.Object) *document.Object {
	out := document.NewObject()

	base.Range(func(key string, bv any) bool {
		if rv, ok := reference.Get(key); ok {
			out.Set(key, mergeValues(bv, rv))
		} else {
			out.Set(key, document.Clone(bv))
		}
		return true
	})

	reference.Range(func(key string, rv any) bool {
		if !base.Has(key) {
			out.Set(key, document.Clone(rv))
		}
		return true
	})

	return out
}

func mergeArrays(base, reference []any) []any {
	n := len(base)
	if len(reference) > n {
		n = len(reference)
	}

	out := make([]any, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(base):
			out[i] = document.Clone(reference[i])
		case i >= len(reference):
			out[i] = document.Clone(base[i])
		default:
			out[i] = mergeValues(base[i], reference[i])
		}
	}
	return out
}

// mergeValues never fails: mismatched kinds keep the base value
func mergeValues(base, reference any) any {
	switch b := base.(type) {
	case *document.Object:
		if r, ok := reference.(*document.Object); ok && b != nil && r != nil {
			return mergeObjects(b, r)
		}
	case []any:
		if r, ok := reference.([]any); ok {
			return mergeArrays(b, r)
		}
	}
	return document.Clone(base)
}
