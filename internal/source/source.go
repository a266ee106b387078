// Package source defines the object graph that documentation is generated
// from. Providers for a concrete language implement these interfaces; the
// document tree in internal/doctree depends only on them.
package source

import (
	"context"
	"errors"
)

var (
	// ErrNoSource reports that the text of a module, class or function is
	// not available, for example for a synthetic module without files.
	ErrNoSource = errors.New("source text unavailable")
	// ErrModuleNotFound reports that a provider could not resolve a module
	// name.
	ErrModuleNotFound = errors.New("module not found")
)

// Provider loads modules for one language.
type Provider interface {
	Dialect() Dialect
	Load(ctx context.Context, name string) (Module, error)
}

// Module is a documented unit that owns classes, functions, values and,
// when it is package-like, submodules.
type Module interface {
	// Name is the fully qualified dotted name.
	Name() string
	Doc() string
	// Location identifies the backing source (a file or a directory). It
	// is stable across reloads and used to key submodules.
	Location() string
	IsPackage() bool
	// Exists reports whether the backing source is still present.
	Exists() bool
	// Source returns the module's source text, or ErrNoSource.
	Source() ([]byte, error)
	Submodules() ([]Module, error)
	Classes() []Class
	Functions() []Function
	// Values returns module level values that have documentation.
	Values() []Value
}

// Class is a type with properties and methods.
type Class interface {
	Name() string
	// QualName is the name qualified inside its module, e.g. Outer.Inner.
	QualName() string
	Doc() string
	// Signature returns the constructor signature, or ErrNoSource.
	Signature() (string, error)
	// ConstructorDoc is the documentation of a constructor declared by the
	// class itself; empty when the constructor is inherited or absent.
	ConstructorDoc() string
	// Ancestors lists every ancestor except the class itself and the
	// language's implicit root type.
	Ancestors() []Ancestor
	Properties() []Value
	// Methods lists the methods declared by the class itself.
	Methods() []Function
}

// Ancestor is one entry of a class's ancestor chain.
type Ancestor struct {
	// Name is the dotted name used when listing the ancestor.
	Name string
	// Closure holds Name and the names of all of its own ancestors.
	Closure []string
}

// Function is a top level function or a method.
type Function interface {
	Name() string
	Doc() string
	// Signature returns the declaration without its body, or ErrNoSource.
	Signature() (string, error)
}

// Value is a module variable or a class property.
type Value interface {
	Name() string
	// Type is the declared type, when the provider knows it.
	Type() string
	Doc() string
}

// Dialect describes how documents for a language are rendered.
type Dialect struct {
	// Name is the short language name, e.g. "go".
	Name string
	// FenceLang tags fenced code blocks.
	FenceLang string
	// ModuleLabel prefixes module headings, e.g. "Module" or "Package".
	ModuleLabel string
	// IndexSuffix is appended to a leaf module named like the package
	// index file.
	IndexSuffix string
	// SourcePatterns are glob patterns matching the language's source files.
	SourcePatterns []string
	// ClassFallback renders a constructor signature when no source is
	// available.
	ClassFallback func(name string) string
	// FunctionFallback renders a function signature when no source is
	// available.
	FunctionFallback func(name string) string
}

// ClassSignature returns the class signature or the dialect fallback.
func (d Dialect) ClassSignature(c Class) string {
	if sig, err := c.Signature(); err == nil && sig != "" {
		return sig
	}
	if d.ClassFallback != nil {
		return d.ClassFallback(c.Name())
	}
	return c.Name()
}

// FunctionSignature returns the function signature or the dialect fallback.
func (d Dialect) FunctionSignature(f Function) string {
	if sig, err := f.Signature(); err == nil && sig != "" {
		return sig
	}
	if d.FunctionFallback != nil {
		return d.FunctionFallback(f.Name())
	}
	return f.Name()
}

// SourceOrEmpty returns the module source, treating unavailable source as
// empty.
func SourceOrEmpty(m Module) ([]byte, error) {
	src, err := m.Source()
	if errors.Is(err, ErrNoSource) {
		return nil, nil
	}
	return src, err
}
