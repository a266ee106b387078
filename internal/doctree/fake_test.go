package doctree

import (
	"context"
	"fmt"

	"github.com/agentflare-ai/doctree/internal/source"
)

var testDialect = source.Dialect{
	Name:        "python",
	FenceLang:   "python",
	ModuleLabel: "Module",
	IndexSuffix: "-py",
	ClassFallback: func(name string) string {
		return "class " + name + "(self, *args, **kwargs)"
	},
	FunctionFallback: func(name string) string {
		return "def " + name + "(*args, **kwargs)"
	},
}

type fakeModule struct {
	name    string
	doc     string
	pkg     bool
	gone    bool
	src     string
	noSrc   bool
	subs    []*fakeModule
	classes []*fakeClass
	funcs   []*fakeFunc
	values  []*fakeValue
}

func (m *fakeModule) Name() string     { return m.name }
func (m *fakeModule) Doc() string      { return m.doc }
func (m *fakeModule) Location() string { return "src/" + m.name }
func (m *fakeModule) IsPackage() bool  { return m.pkg }
func (m *fakeModule) Exists() bool     { return !m.gone }

func (m *fakeModule) Source() ([]byte, error) {
	if m.noSrc {
		return nil, source.ErrNoSource
	}
	return []byte(m.src), nil
}

func (m *fakeModule) Submodules() ([]source.Module, error) {
	var out []source.Module
	for _, s := range m.subs {
		if !s.gone {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *fakeModule) Classes() []source.Class {
	out := make([]source.Class, len(m.classes))
	for i, c := range m.classes {
		out[i] = c
	}
	return out
}

func (m *fakeModule) Functions() []source.Function {
	out := make([]source.Function, len(m.funcs))
	for i, f := range m.funcs {
		out[i] = f
	}
	return out
}

func (m *fakeModule) Values() []source.Value {
	out := make([]source.Value, len(m.values))
	for i, v := range m.values {
		out[i] = v
	}
	return out
}

type fakeClass struct {
	name      string
	doc       string
	sig       string
	ctorDoc   string
	ancestors []source.Ancestor
	props     []*fakeValue
	methods   []*fakeFunc
}

func (c *fakeClass) Name() string     { return c.name }
func (c *fakeClass) QualName() string { return c.name }
func (c *fakeClass) Doc() string      { return c.doc }

func (c *fakeClass) Signature() (string, error) {
	if c.sig == "" {
		return "", source.ErrNoSource
	}
	return c.sig, nil
}

func (c *fakeClass) ConstructorDoc() string        { return c.ctorDoc }
func (c *fakeClass) Ancestors() []source.Ancestor { return c.ancestors }

func (c *fakeClass) Properties() []source.Value {
	out := make([]source.Value, len(c.props))
	for i, v := range c.props {
		out[i] = v
	}
	return out
}

func (c *fakeClass) Methods() []source.Function {
	out := make([]source.Function, len(c.methods))
	for i, f := range c.methods {
		out[i] = f
	}
	return out
}

type fakeFunc struct {
	name string
	doc  string
	sig  string
}

func (f *fakeFunc) Name() string { return f.name }
func (f *fakeFunc) Doc() string  { return f.doc }

func (f *fakeFunc) Signature() (string, error) {
	if f.sig == "" {
		return "", source.ErrNoSource
	}
	return f.sig, nil
}

type fakeValue struct {
	name string
	typ  string
	doc  string
}

func (v *fakeValue) Name() string { return v.name }
func (v *fakeValue) Type() string { return v.typ }
func (v *fakeValue) Doc() string  { return v.doc }

type fakeProvider struct {
	modules map[string]*fakeModule
}

func (p *fakeProvider) Dialect() source.Dialect { return testDialect }

func (p *fakeProvider) Load(_ context.Context, name string) (source.Module, error) {
	m, ok := p.modules[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, source.ErrModuleNotFound)
	}
	return m, nil
}

// sampleTree builds:
//
//	pkg            package, links to pkg.mod.Greeter in its doc
//	pkg.mod        leaf with a class, a function and a variable
//	pkg.index      leaf whose name collides with the index document
//	pkg.sub        package with leaf pkg.sub.leaf
//	pkg._hidden    private leaf
func sampleTree() *fakeModule {
	greeter := &fakeClass{
		name: "Greeter",
		doc:  "Greets people.\n\n* name (`str`): Who to greet.",
		sig:  "class Greeter(name: str)",
		ancestors: []source.Ancestor{
			{Name: "pkg.sub.leaf.Base", Closure: []string{"pkg.sub.leaf.Base"}},
		},
		props: []*fakeValue{
			{name: "greeting", typ: "str", doc: "The greeting."},
			{name: "_secret", doc: "Hidden."},
		},
		methods: []*fakeFunc{
			{name: "greet", doc: "Say hello, see `pkg.mod.hello`.", sig: "def greet(self) -> str"},
		},
	}
	mod := &fakeModule{
		name:    "pkg.mod",
		doc:     "Greeting helpers.",
		src:     "mod source v1",
		classes: []*fakeClass{greeter},
		funcs:   []*fakeFunc{{name: "hello", doc: "Return `pkg.mod.Greeter`.", sig: "def hello() -> Greeter"}},
		values:  []*fakeValue{{name: "DEFAULT", typ: "str", doc: "Default greeting."}},
	}
	leaf := &fakeModule{
		name:    "pkg.sub.leaf",
		doc:     "Base types.",
		src:     "leaf source",
		classes: []*fakeClass{{name: "Base", doc: "Root of everything."}},
	}
	return &fakeModule{
		name: "pkg",
		doc:  "Top level package.\n\nStart with `pkg.mod.Greeter`.",
		pkg:  true,
		src:  "pkg source",
		subs: []*fakeModule{
			mod,
			{name: "pkg.index", doc: "Colliding leaf.", src: "index source"},
			{name: "pkg.sub", doc: "Sub package.", pkg: true, src: "sub source", subs: []*fakeModule{leaf}},
			{name: "pkg._hidden", src: "hidden"},
		},
	}
}

func newFakeProvider(root *fakeModule) *fakeProvider {
	return &fakeProvider{modules: map[string]*fakeModule{root.name: root}}
}
