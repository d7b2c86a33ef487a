package tmpl

import (
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"
)

// Directive is the parsed, renderable form of a directive tag.
type Directive interface {
	// Branch validates a branch tag about to be attached to the element.
	// prior holds the branch tags already attached, in order.
	Branch(prior []TagInfo, tag TagInfo) error
	// Close performs final validation when the block's closing tag is read.
	Close(r *Reader, tag TagInfo) error
	Render(ctx Context, nodes []Node, branches []*Element) (string, error)
}

// Factory parses the arguments of an opening or inline tag and returns the
// directive instance. It is the open hook of a directive.
type Factory func(r *Reader, tag TagInfo) (Directive, error)

// BaseDirective provides the default Branch and Close hooks: both accept.
type BaseDirective struct{}

// Branch accepts any branch.
func (BaseDirective) Branch([]TagInfo, TagInfo) error { return nil }

// Close accepts the closing tag.
func (BaseDirective) Close(*Reader, TagInfo) error { return nil }

// Registry maps directive names to factories. Branch directives are
// registered as "parent:branch".
type Registry map[string]Factory

// DefaultRegistry returns a new registry holding the builtin directives.
func DefaultRegistry() Registry {
	return Registry{
		"stub":    OpenStub,
		"if":      OpenIf,
		"if:elif": OpenIf,
		"if:else": OpenStub,
		"for":     OpenFor,
		"def":     OpenDef,
		"apply":   OpenApply,
	}
}

// Add registers f under name, replacing any previous factory.
func (r Registry) Add(name string, f Factory) { r[name] = f }

// Lookup returns the factory registered under name.
func (r Registry) Lookup(name string) (Factory, bool) {
	f, ok := r[name]

	return f, ok
}

// Names returns the registered names in sorted order.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Clone returns a shallow copy of r.
func (r Registry) Clone() Registry { return maps.Clone(r) }

// suggest returns the closest registered name to name, if any.
func (r Registry) suggest(name string) string {
	matches := fuzzy.Find(name, r.Names())
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}
