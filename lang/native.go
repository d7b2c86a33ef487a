package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"reflect"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/yfelo/tmpl"
)

// FromNative converts a Go value into a [Value]. Maps with string keys become
// objects with sorted keys; [yaml.MapSlice] keeps its order.
func FromNative(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case int:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case uint64:
		return Number(v), nil
	case float64:
		return Number(v), nil
	case func(...Value) (Value, error):
		return Func(v), nil
	case []any:
		arr := &Array{Items: make([]Value, len(v))}

		for i, item := range v {
			x, err := FromNative(item)
			if err != nil {
				return nil, err
			}

			arr.Items[i] = x
		}

		return arr, nil
	case yaml.MapSlice:
		obj := NewObject()

		for _, item := range v {
			x, err := FromNative(item.Value)
			if err != nil {
				return nil, err
			}

			obj.Set(fmt.Sprint(item.Key), x)
		}

		return obj, nil
	case map[string]any:
		obj := NewObject()

		for _, k := range slices.Sorted(maps.Keys(v)) {
			x, err := FromNative(v[k])
			if err != nil {
				return nil, err
			}

			obj.Set(k, x)
		}

		return obj, nil
	}

	return fromReflect(reflect.ValueOf(v))
}

// fromReflect handles the remaining numeric, slice and map kinds.
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}

		return FromNative(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}

		return FromNative(items)

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		m := make(map[string]any, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			m[it.Key().String()] = it.Value().Interface()
		}

		return FromNative(m)
	}

	return nil, ErrLoadData.With(slog.String("type", rv.Type().String()))
}

// ToNative converts v into plain Go values: nil, bool, float64 or int64 for
// integral numbers, string, []any and map[string]any. Functions become the
// string "fn".
func ToNative(v Value) any {
	switch v := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(v)
	case Number:
		if f := float64(v); f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}

		return float64(v)
	case String:
		return string(v)
	case *Array:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = ToNative(item)
		}

		return out
	case *Object:
		out := make(map[string]any, v.Len())
		for k, item := range v.All {
			out[k] = ToNative(item)
		}

		return out
	}

	return v.String()
}

// encodable is like ToNative but keeps objects, whose marshalers preserve
// key order.
func encodable(v Value) any {
	switch v := v.(type) {
	case *Object:
		return v
	case *Array:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = encodable(item)
		}

		return out
	}

	return ToNative(v)
}

// LoadYAML decodes a YAML (or JSON) document whose top level is a mapping
// into an object, keeping the document's key order.
func LoadYAML(ctx context.Context, r io.Reader) (*Object, error) {
	var doc yaml.MapSlice

	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	if err := dec.DecodeContext(ctx, &doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewObject(), nil
		}

		return nil, ErrLoadData.Wrap(err)
	}

	v, err := FromNative(doc)
	if err != nil {
		return nil, err
	}

	obj, _ := v.(*Object)

	return obj, nil
}

// LoadFile reads a YAML or JSON data file with [LoadYAML].
func LoadFile(ctx context.Context, path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLoadData.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	obj, err := LoadYAML(ctx, f)
	if err != nil {
		return nil, tmpl.WrapError(err).With(slog.String("path", path))
	}

	return obj, nil
}
