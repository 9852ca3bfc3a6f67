package submission

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"codequest/internal/verify"
)

// coerce converts decoded test data into a value of type t so it can be
// passed to an interpreted function.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if rv.Type().Implements(t) {
			out := reflect.New(t).Elem()
			out.Set(rv)
			return out, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, t)
		}
		out.SetInt(n)
		return out, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := toInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, t)
		}
		out.SetUint(uint64(n))
		return out, nil
	case reflect.Float32, reflect.Float64:
		f, err := toFloat(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.SetFloat(f)
		return out, nil
	case reflect.String:
		if s, ok := v.(string); ok {
			out := reflect.New(t).Elem()
			out.SetString(s)
			return out, nil
		}
	case reflect.Bool:
		if b, ok := v.(bool); ok {
			out := reflect.New(t).Elem()
			out.SetBool(b)
			return out, nil
		}
	case reflect.Slice:
		if s, ok := v.(string); ok && t.Elem().Kind() == reflect.Uint8 {
			return reflect.ValueOf([]byte(s)).Convert(t), nil
		}
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			out := reflect.MakeSlice(t, rv.Len(), rv.Len())
			for i := 0; i < rv.Len(); i++ {
				ev, err := coerce(rv.Index(i).Interface(), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("index %d: %w", i, err)
				}
				out.Index(i).Set(ev)
			}
			return out, nil
		}
	case reflect.Array:
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			if rv.Len() != t.Len() {
				return reflect.Value{}, fmt.Errorf("need %d elements for %s, got %d", t.Len(), t, rv.Len())
			}
			out := reflect.New(t).Elem()
			for i := 0; i < rv.Len(); i++ {
				ev, err := coerce(rv.Index(i).Interface(), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("index %d: %w", i, err)
				}
				out.Index(i).Set(ev)
			}
			return out, nil
		}
	case reflect.Map:
		if rv.Kind() == reflect.Map {
			out := reflect.MakeMapWithSize(t, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				kv, err := coerceKey(iter.Key().Interface(), t.Key())
				if err != nil {
					return reflect.Value{}, err
				}
				vv, err := coerce(iter.Value().Interface(), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key().Interface(), err)
				}
				out.SetMapIndex(kv, vv)
			}
			return out, nil
		}
	case reflect.Ptr:
		ev, err := coerce(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t.Elem())
		out.Elem().Set(ev)
		return out, nil
	case reflect.Struct:
		if rv.Kind() == reflect.Map {
			return coerceStruct(rv, t)
		}
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T value %v as %s", v, v, t)
}

func coerceKey(k any, t reflect.Type) (reflect.Value, error) {
	if s, ok := k.(string); ok && t.Kind() != reflect.String {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("map key %q: %w", s, err)
			}
			return coerce(n, t)
		}
	}
	return coerce(k, t)
}

func coerceStruct(m reflect.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	iter := m.MapRange()
	for iter.Next() {
		name := fmt.Sprint(iter.Key().Interface())
		field, ok := findField(t, name)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%s has no field %q", t, name)
		}
		fv, err := coerce(iter.Value().Interface(), field.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
		out.FieldByIndex(field.Index).Set(fv)
	}
	return out, nil
}

func findField(t reflect.Type, name string) (reflect.StructField, bool) {
	if f, ok := t.FieldByName(name); ok && f.IsExported() {
		return f, true
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func toInt(v any) (int64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%v is not an integer", f)
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("cannot use %T value %v as an integer", v, v)
}

func toFloat(v any) (float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return 0, fmt.Errorf("cannot use %T value %v as a number", v, v)
}

// exportResults turns the return values of an interpreted call into plain
// data. A trailing non-nil error is returned as the call's error; no results
// yield nil, one result its value, several a list.
func exportResults(out []reflect.Value) (any, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return exportValue(out[0]), nil
	default:
		vals := make([]any, len(out))
		for i, v := range out {
			vals[i] = exportValue(v)
		}
		return vals, nil
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func exportValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
	}
	if v.CanInterface() {
		if rv, ok := v.Interface().(reflect.Value); ok {
			return exportValue(rv)
		}
	}
	return verify.NormalizeValue(v)
}
