package document

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Clone returns a deep copy of v. Objects and arrays are copied, scalars are shared.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return (*Object)(nil)
		}
		out := &Object{
			keys:   make([]string, len(t.keys)),
			values: make(map[string]any, len(t.values)),
		}
		copy(out.keys, t.keys)
		for k, val := range t.values {
			out.values[k] = Clone(val)
		}
		return out
	case []any:
		if t == nil {
			return []any(nil)
		}
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports deep structural equality. Object member order is ignored,
// numbers compare by value.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		equal := true
		x.Range(func(k string, xv any) bool {
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				equal = false
				return false
			}
			return true
		})
		return equal
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}

	if KindOf(a) == KindNumber && KindOf(b) == KindNumber {
		return numbersEqual(a, b)
	}
	if KindOf(a) != KindOf(b) {
		return false
	}
	if KindOf(a) == KindInvalid {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func numbersEqual(a, b any) bool {
	as, bs := numberText(a), numberText(b)
	if as == bs {
		return true
	}
	af, aErr := json.Number(as).Float64()
	bf, bErr := json.Number(bs).Float64()
	return aErr == nil && bErr == nil && af == bf
}

func numberText(v any) string {
	if n, ok := v.(json.Number); ok {
		return string(n)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
