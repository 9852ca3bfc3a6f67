package verify

import "sort"

// Equal reports whether a produced value matches an expected value.
//
// Sequences of equal length are compared as multisets when every element is
// mutually orderable, so [1, 0] matches [0, 1]. Sequences with unorderable
// elements fall back to positional comparison. Mappings must hold the same
// keys with structurally equal values. Everything else uses direct equality,
// with integers and floats compared numerically.
func Equal(actual, expected any) bool {
	a, e := Normalize(actual), Normalize(expected)

	as, aok := a.([]any)
	es, eok := e.([]any)
	if aok && eok {
		if len(as) != len(es) {
			return false
		}
		if sa, ok := sortedCopy(as); ok {
			if se, ok := sortedCopy(es); ok {
				return equalCanonical(sa, se)
			}
		}
		return equalCanonical(as, es)
	}

	am, aok := a.(map[string]any)
	em, eok := e.(map[string]any)
	if aok && eok {
		return equalCanonical(am, em)
	}

	return equalCanonical(a, e)
}

// EqualExact is order-sensitive structural equality. Traces and script
// assertions use it because the order of their values is significant.
func EqualExact(actual, expected any) bool {
	return equalCanonical(Normalize(actual), Normalize(expected))
}

func equalCanonical(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case int64, float64:
		fx, ok := number(x)
		if !ok {
			return false
		}
		fy, ok := number(b)
		if !ok {
			return false
		}
		if ix, ok := x.(int64); ok {
			if iy, ok := b.(int64); ok {
				return ix == iy
			}
		}
		return fx == fy
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalCanonical(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !equalCanonical(xv, yv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// sortedCopy returns a sorted copy of s, or false when its elements are not
// mutually orderable.
func sortedCopy(s []any) ([]any, bool) {
	for i := 1; i < len(s); i++ {
		if _, ok := compareOrdered(s[0], s[i]); !ok {
			return nil, false
		}
	}
	if len(s) == 1 {
		if _, ok := compareOrdered(s[0], s[0]); !ok {
			return nil, false
		}
	}

	out := make([]any, len(s))
	copy(out, s)
	orderable := true
	sort.SliceStable(out, func(i, j int) bool {
		c, ok := compareOrdered(out[i], out[j])
		if !ok {
			orderable = false
			return false
		}
		return c < 0
	})
	if !orderable {
		return nil, false
	}
	return out, true
}

// compareOrdered orders numbers with numbers, strings with strings and
// sequences lexicographically. The second result is false for any other pair.
func compareOrdered(a, b any) (int, bool) {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case []any:
		y, ok := b.([]any)
		if !ok {
			return 0, false
		}
		for i := 0; i < len(x) && i < len(y); i++ {
			c, ok := compareOrdered(x[i], y[i])
			if !ok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		switch {
		case len(x) < len(y):
			return -1, true
		case len(x) > len(y):
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
