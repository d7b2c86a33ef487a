package tmpl

// Stub takes no arguments and renders its children in a forked frame. It
// serves as a no-op block and as the else branch of if.
type Stub struct {
	BaseDirective
}

// OpenStub is the factory for [Stub].
func OpenStub(*Reader, TagInfo) (Directive, error) { return Stub{}, nil }

// Render implements [Directive].
func (Stub) Render(ctx Context, nodes []Node, _ []*Element) (string, error) {
	return Render(ctx.Fork(), nodes)
}

func (Stub) String() string { return "" }
