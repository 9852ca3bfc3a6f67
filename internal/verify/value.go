package verify

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Normalize converts an arbitrary Go value into the canonical value space used
// by the comparator: nil, bool, int64, float64, string, []any and
// map[string]any. Pointers and interfaces are dereferenced, structs become
// maps keyed by field name, and map keys are rendered with fmt.
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	return NormalizeValue(reflect.ValueOf(v))
}

// NormalizeValue is Normalize for an already reflected value. A pointer
// reached again while it is being normalized renders as "<cycle>".
func NormalizeValue(rv reflect.Value) any {
	n := normalizer{active: make(map[uintptr]bool)}
	return n.value(rv)
}

type normalizer struct {
	active map[uintptr]bool
}

func (n normalizer) value(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return n.value(rv.Elem())
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		p := rv.Pointer()
		if n.active[p] {
			return "<cycle>"
		}
		n.active[p] = true
		defer delete(n.active, p)
		return n.value(rv.Elem())
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return int64(u)
		}
		return float64(u)
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Slice:
		if rv.IsNil() {
			return []any{}
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = n.value(rv.Index(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[n.mapKey(iter.Key())] = n.value(iter.Value())
		}
		return out
	case reflect.Struct:
		t := rv.Type()
		out := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			out[f.Name] = n.value(rv.Field(i))
		}
		return out
	default:
		// funcs, channels and unsafe pointers have no structural identity
		return fmt.Sprintf("<%s>", rv.Type())
	}
}

func (n normalizer) mapKey(k reflect.Value) string {
	switch v := n.value(k).(type) {
	case string:
		return v
	case nil:
		return "nil"
	default:
		return Format(v)
	}
}

// Format renders a value for feedback messages.
func Format(v any) string {
	var sb strings.Builder
	formatInto(&sb, Normalize(v))
	return sb.String()
}

func formatInto(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("nil")
	case string:
		sb.WriteString(strconv.Quote(x))
	case bool:
		sb.WriteString(strconv.FormatBool(x))
	case int64:
		sb.WriteString(strconv.FormatInt(x, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case []any:
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatInto(sb, e)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			formatInto(sb, x[k])
		}
		sb.WriteByte('}')
	default:
		fmt.Fprintf(sb, "%v", x)
	}
}
