// Package example shows how doctree renders a Go package tree.
//
// Start with `example.Greeter`. Messages come from `example.subpkg.Message`.
package example

const (
	// Answer documents an exported constant.
	Answer = 42

	// hidden constants are not documented.
	internalConstant = 0
)

// Greeter produces greeting messages.
type Greeter struct {
	// Name is included to verify field documentation.
	Name string
}

// NewGreeter constructs a `example.Greeter`.
func NewGreeter(name string) *Greeter {
	return &Greeter{Name: name}
}

// Greet returns a friendly message.
func (g *Greeter) Greet() string {
	return "hello " + g.Name
}
