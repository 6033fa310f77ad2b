package model

// Attrs holds primitive attribute values: string, bool, int, int64, float64 or nil.
//
// A nil Attrs and an empty non-nil Attrs are different values. Mark equality
// depends on that distinction, so helpers here preserve it.
type Attrs map[string]any

// Get returns the value stored under key.
func (a Attrs) Get(key string) (any, bool) {
	v, ok := a[key]
	return v, ok
}

// String returns the string stored under key, or "" if absent or not a string.
func (a Attrs) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// With returns a copy of a with key set to value.
func (a Attrs) With(key string, value any) Attrs {
	out := make(Attrs, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[key] = value
	return out
}

// Clone returns a shallow copy. A nil receiver clones to nil.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// AttrsEqual reports whether a and b hold the same keys and values.
// Presence matters: nil is not equal to an empty map.
func AttrsEqual(a, b Attrs) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !primitiveEqual(av, bv) {
			return false
		}
	}
	return true
}

// attrsContentEqual compares attributes ignoring the nil/empty distinction.
// Block and inline node attributes use it; marks do not.
func attrsContentEqual(a, b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !primitiveEqual(av, bv) {
			return false
		}
	}
	return true
}

func primitiveEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return a == b
}

// toFloat folds the numeric kinds that arrive from JSON, YAML and Go literals.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
