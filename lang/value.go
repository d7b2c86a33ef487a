package lang

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/yfelo/tmpl"
)

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// Kind identifies the variant of a [Value].
type Kind int

const (
	KindNull     Kind = iota // null
	KindBool                 // bool
	KindNumber               // number
	KindString               // string
	KindArray                // array
	KindObject               // object
	KindFunction             // function
)

// Value is a runtime value of the default language.
//
// Arrays and objects are reference types: binding one to several names, or
// storing it inside another collection, shares the same elements.
type Value interface {
	tmpl.Value
	Kind() Kind
}

type (
	// Null is the absent value. It renders as the empty string at the top
	// level and as "null" inside collections.
	Null struct{}

	// Bool is a boolean.
	Bool bool

	// Number is a double precision number.
	Number float64

	// String is a text value.
	String string

	// Array is an ordered list of values.
	Array struct {
		Items []Value
	}

	// Object maps string keys to values and remembers insertion order.
	Object struct {
		keys []string
		vals map[string]Value
	}

	// Closure is a template function created by def.
	Closure struct {
		Name   string
		Params []tmpl.Param
		Body   tmpl.Definition
	}

	// Func is a host function callable from templates with evaluated
	// arguments.
	Func func(args ...Value) (Value, error)
)

// NewArray returns an array holding items.
func NewArray(items ...Value) *Array { return &Array{Items: items} }

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: map[string]Value{}}
}

// Len returns the number of entries.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]

	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.vals[key]

	return ok
}

// Set stores v under key. A new key is appended to the order; an existing
// key keeps its position.
func (o *Object) Set(key string, v Value) {
	if o.vals == nil {
		o.vals = map[string]Value{}
	}

	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.vals[key] = v
}

// All calls yield for each entry in insertion order.
func (o *Object) All(yield func(string, Value) bool) {
	for _, k := range o.keys {
		if !yield(k, o.vals[k]) {
			return
		}
	}
}

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Number) Kind() Kind   { return KindNumber }
func (String) Kind() Kind   { return KindString }
func (*Array) Kind() Kind   { return KindArray }
func (*Object) Kind() Kind  { return KindObject }
func (*Closure) Kind() Kind { return KindFunction }
func (Func) Kind() Kind     { return KindFunction }

func (Null) String() string { return "" }

func (b Bool) String() string {
	if b {
		return "true"
	}

	return "false"
}

func (n Number) String() string {
	switch f := float64(n); {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	return formatNumber(float64(n))
}

func (s String) String() string { return string(s) }

func (a *Array) String() string {
	s := make([]string, len(a.Items))
	for i, v := range a.Items {
		s[i] = display(v)
	}

	return "[" + strings.Join(s, ", ") + "]"
}

func (o *Object) String() string {
	s := make([]string, 0, len(o.keys))
	for k, v := range o.All {
		s = append(s, k+": "+display(v))
	}

	return "{" + strings.Join(s, ", ") + "}"
}

func (*Closure) String() string { return "fn" }
func (Func) String() string     { return "fn" }

// display renders a value nested inside a collection.
func display(v Value) string {
	if v.Kind() == KindNull {
		return "null"
	}

	return v.String()
}

func (Null) Bool() bool     { return false }
func (b Bool) Bool() bool   { return bool(b) }
func (n Number) Bool() bool { return n != 0 }
func (s String) Bool() bool { return s != "" }
func (*Array) Bool() bool   { return true }
func (*Object) Bool() bool  { return true }
func (*Closure) Bool() bool { return true }
func (Func) Bool() bool     { return true }

// Entries implements [tmpl.Value]. Only arrays and objects are iterable.
func (v Null) Entries() ([]tmpl.Entry, error)     { return notIterable(v) }
func (v Bool) Entries() ([]tmpl.Entry, error)     { return notIterable(v) }
func (v Number) Entries() ([]tmpl.Entry, error)   { return notIterable(v) }
func (v String) Entries() ([]tmpl.Entry, error)   { return notIterable(v) }
func (v *Closure) Entries() ([]tmpl.Entry, error) { return notIterable(v) }
func (v Func) Entries() ([]tmpl.Entry, error)     { return notIterable(v) }

// Entries yields each element with its index.
func (a *Array) Entries() ([]tmpl.Entry, error) {
	entries := make([]tmpl.Entry, len(a.Items))
	for i, v := range a.Items {
		entries[i] = tmpl.Entry{Value: v, Key: Number(i)}
	}

	return entries, nil
}

// Entries yields each value with its key in insertion order.
func (o *Object) Entries() ([]tmpl.Entry, error) {
	entries := make([]tmpl.Entry, 0, len(o.keys))
	for k, v := range o.All {
		entries = append(entries, tmpl.Entry{Value: v, Key: String(k)})
	}

	return entries, nil
}

func notIterable(v Value) ([]tmpl.Entry, error) {
	return nil, typeError("array or object", v)
}

// MarshalJSON encodes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(encodable(o.vals[k]))
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes the object as an ordered mapping.
func (o *Object) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, len(o.keys))
	for k, v := range o.All {
		ms = append(ms, yaml.MapItem{Key: k, Value: encodable(v)})
	}

	return ms, nil
}

// Equal reports structural equality of primitive values. Collections and
// functions are equal only to themselves.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Null:
		return b.Kind() == KindNull
	case Bool:
		b, ok := b.(Bool)

		return ok && a == b
	case Number:
		b, ok := b.(Number)

		return ok && a == b
	case String:
		b, ok := b.(String)

		return ok && a == b
	case *Array:
		b, ok := b.(*Array)

		return ok && a == b
	case *Object:
		b, ok := b.(*Object)

		return ok && a == b
	case *Closure:
		b, ok := b.(*Closure)

		return ok && a == b
	}

	return false
}

// asNumber coerces numbers and booleans to float64.
func asNumber(v Value) (float64, error) {
	switch v := v.(type) {
	case Number:
		return float64(v), nil
	case Bool:
		if v {
			return 1, nil
		}

		return 0, nil
	}

	return 0, typeError("number or bool", v)
}

func asString(v Value) (string, error) {
	if s, ok := v.(String); ok {
		return string(s), nil
	}

	return "", typeError("string", v)
}

// index looks up key in base. Missing entries yield [Null].
func index(base, key Value) (Value, error) {
	switch b := base.(type) {
	case *Array:
		n, err := asNumber(key)
		if err != nil {
			return nil, err
		}

		if math.IsNaN(n) || n < 0 || n >= float64(len(b.Items)) {
			return Null{}, nil
		}

		return b.Items[int(n)], nil

	case *Object:
		k, err := asString(key)
		if err != nil {
			return nil, err
		}

		if v, ok := b.Get(k); ok {
			return v, nil
		}

		return Null{}, nil
	}

	return nil, ErrIndex.Wrap(errors.New(base.Kind().String())).
		With(slog.String("base", base.Kind().String()))
}
