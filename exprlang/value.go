package exprlang

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/yfelo/tmpl"
)

// Value wraps a result of expression evaluation.
type Value struct {
	V any
}

// String renders the value: nil as the empty string, strings verbatim,
// and collections in a compact literal form with map keys sorted.
func (v Value) String() string {
	switch x := v.V.(type) {
	case nil:
		return ""
	case string:
		return x
	}

	var sb strings.Builder

	display(&sb, reflect.ValueOf(v.V))

	return sb.String()
}

// Bool reports the truthiness of the value. nil, false, zero numbers and
// empty strings are false; collections and functions are true.
func (v Value) Bool() bool {
	if v.V == nil {
		return false
	}

	rv := reflect.ValueOf(v.V)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.String:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}

	return true
}

// Entries iterates slices and arrays with int keys, and maps in sorted key
// order.
func (v Value) Entries() ([]tmpl.Entry, error) {
	rv := reflect.ValueOf(v.V)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]tmpl.Entry, rv.Len())
		for i := range out {
			out[i] = tmpl.Entry{Value: Value{rv.Index(i).Interface()}, Key: Value{i}}
		}

		return out, nil

	case reflect.Map:
		keys := sortedKeys(rv)
		out := make([]tmpl.Entry, len(keys))

		for i, k := range keys {
			out[i] = tmpl.Entry{
				Value: Value{rv.MapIndex(k).Interface()},
				Key:   Value{k.Interface()},
			}
		}

		return out, nil
	}

	return nil, typeError("slice or map", v.V)
}

func sortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()

	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	})

	return keys
}

func display(sb *strings.Builder, rv reflect.Value) {
	if !rv.IsValid() {
		sb.WriteString("nil")

		return
	}

	switch rv.Kind() {
	case reflect.String:
		if sb.Len() == 0 {
			sb.WriteString(rv.String())
		} else {
			sb.WriteString(strconv.Quote(rv.String()))
		}

	case reflect.Float32, reflect.Float64:
		sb.WriteString(strconv.FormatFloat(rv.Float(), 'f', -1, 64))

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			sb.Write(rv.Bytes())

			return
		}

		sb.WriteByte('[')

		for i := range rv.Len() {
			if i > 0 {
				sb.WriteString(", ")
			}

			display(sb, rv.Index(i))
		}

		sb.WriteByte(']')

	case reflect.Map:
		sb.WriteByte('{')

		for i, k := range sortedKeys(rv) {
			if i > 0 {
				sb.WriteString(", ")
			}

			fmt.Fprint(sb, k.Interface())
			sb.WriteString(": ")
			display(sb, rv.MapIndex(k))
		}

		sb.WriteByte('}')

	case reflect.Func:
		sb.WriteString("fn")

	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			sb.WriteString("nil")

			return
		}

		if s, ok := rv.Interface().(fmt.Stringer); ok {
			sb.WriteString(s.String())

			return
		}

		display(sb, rv.Elem())

	default:
		fmt.Fprint(sb, rv.Interface())
	}
}
