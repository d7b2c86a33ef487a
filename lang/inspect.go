package lang

import (
	"strings"

	"github.com/ardnew/yfelo/tmpl"
)

// lookupPath looks up a dotted member path such as "path.cat", starting in the
// scope chain and descending through objects.
func (c *Context) lookupPath(path string) (Value, bool) {
	head, rest, _ := strings.Cut(path, ".")

	v, ok := c.Lookup(head)
	for ok && rest != "" {
		var seg string

		seg, rest, _ = strings.Cut(rest, ".")

		obj, isObj := v.(*Object)
		if !isObj {
			return nil, false
		}

		v, ok = obj.Get(seg)
	}

	return v, ok
}

// Members returns the keys of the object at the dotted path in insertion
// order, or nil when the path does not name an object.
func (c *Context) Members(path string) []string {
	v, ok := c.lookupPath(path)
	if !ok {
		return nil
	}

	if obj, ok := v.(*Object); ok {
		return obj.Keys()
	}

	return nil
}

// Signature returns the parameter list of the function at the dotted path.
// Host functions take any number of arguments and report "...args".
func (c *Context) Signature(path string) ([]string, bool) {
	v, ok := c.lookupPath(path)
	if !ok {
		return nil, false
	}

	switch fn := v.(type) {
	case *Closure:
		return paramNames(fn.Params), true
	case Func:
		return []string{"...args"}, true
	}

	return nil, false
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
