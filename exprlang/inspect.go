package exprlang

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/ardnew/yfelo/tmpl"
)

// signatures lists the parameters of the expr-lang builtins most often used
// in templates.
var signatures = map[string][]string{
	"len":           {"v"},
	"all":           {"array", "predicate"},
	"any":           {"array", "predicate"},
	"one":           {"array", "predicate"},
	"none":          {"array", "predicate"},
	"map":           {"array", "mapper"},
	"filter":        {"array", "predicate"},
	"find":          {"array", "predicate"},
	"findIndex":     {"array", "predicate"},
	"findLast":      {"array", "predicate"},
	"findLastIndex": {"array", "predicate"},
	"groupBy":       {"array", "mapper"},
	"sortBy":        {"array", "mapper"},
	"count":         {"array", "predicate"},
	"sum":           {"array"},
	"mean":          {"array"},
	"median":        {"array"},
	"min":           {"array"},
	"max":           {"array"},
	"join":          {"array", "separator"},
	"split":         {"string", "separator"},
	"replace":       {"string", "old", "new"},
	"trim":          {"string"},
	"trimPrefix":    {"string", "prefix"},
	"trimSuffix":    {"string", "suffix"},
	"upper":         {"string"},
	"lower":         {"string"},
	"keys":          {"map"},
	"values":        {"map"},
	"int":           {"v"},
	"float":         {"v"},
	"string":        {"v"},
	"type":          {"v"},
	"toJSON":        {"v"},
	"fromJSON":      {"string"},
}

// resolve looks up a dotted member path such as "env.HOME", starting in the
// scope chain and descending through string-keyed maps.
func (c *Context) resolve(path string) (any, bool) {
	head, rest, _ := strings.Cut(path, ".")

	v, ok := c.Lookup(head)
	for ok && rest != "" {
		var seg string

		seg, rest, _ = strings.Cut(rest, ".")

		m, isMap := v.(map[string]any)
		if !isMap {
			return nil, false
		}

		v, ok = m[seg]
	}

	return v, ok
}

// Members returns the sorted keys of the map at the dotted path, or nil when
// the path does not name a map.
func (c *Context) Members(path string) []string {
	v, ok := c.resolve(path)
	if !ok {
		return nil
	}

	if m, ok := v.(map[string]any); ok {
		return slices.Sorted(maps.Keys(m))
	}

	return nil
}

// Signature returns the parameter list of the function at the dotted path.
// Host functions are described by their Go parameter types. Unshadowed
// expr-lang builtins are reported from a fixed table.
func (c *Context) Signature(path string) ([]string, bool) {
	v, ok := c.resolve(path)
	if !ok {
		params, ok := signatures[path]

		return slices.Clone(params), ok
	}

	switch fn := v.(type) {
	case *closure:
		return paramNames(fn.params), true
	case Func:
		return []string{"...args"}, true
	}

	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Func {
		return nil, false
	}

	params := make([]string, t.NumIn())

	for i := range params {
		in := t.In(i)
		if t.IsVariadic() && i == len(params)-1 {
			params[i] = "..." + typeName(in.Elem())
		} else {
			params[i] = typeName(in)
		}
	}

	return params, true
}

func paramNames(params []tmpl.Param) []string {
	names := make([]string, len(params))

	for i, p := range params {
		names[i] = p.Pattern.String()
		if p.Default != nil {
			names[i] += " = " + p.Default.String()
		}
	}

	return names
}

// typeName returns a short readable name for a parameter type.
func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Func:
		return "func"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "map"
	case reflect.Pointer:
		return typeName(t.Elem())
	}

	if t.Name() != "" {
		return t.Name()
	}

	return "any"
}
