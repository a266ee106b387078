package python

import (
	"sort"
	"strings"

	"github.com/agentflare-ai/doctree/internal/source"
)

// maxResolveDepth bounds re-export chains followed while resolving a name.
const maxResolveDepth = 16

type class struct {
	m   *module
	def *classDef
}

func (c *class) Name() string     { return c.def.name }
func (c *class) QualName() string { return c.def.name }
func (c *class) Doc() string      { return c.def.doc }

// Signature renders the constructor as "class Name(params)". Without an
// own __init__ the first one found along the ancestors is used, minus its
// first parameter.
func (c *class) Signature() (string, error) {
	if init := c.def.init; init != nil {
		if strings.TrimSpace(init.params) == "" {
			return "", source.ErrNoSource
		}
		return reindent("class " + c.def.name + "(" + init.params + ")"), nil
	}
	external := false
	for _, a := range c.m.loader.linearize(classRef{name: c.m.name + "." + c.def.name, m: c.m, def: c.def}) {
		if a.def == nil {
			external = true
			continue
		}
		if a.def.init == nil {
			continue
		}
		params := a.def.init.paramList
		if len(params) > 0 {
			params = params[1:]
		}
		return "class " + c.def.name + "(" + strings.Join(params, ", ") + ")", nil
	}
	if external {
		return "", source.ErrNoSource
	}
	return "class " + c.def.name + "()", nil
}

func (c *class) ConstructorDoc() string {
	if c.def.init == nil {
		return ""
	}
	return c.def.init.doc
}

func (c *class) Ancestors() []source.Ancestor {
	l := c.m.loader
	var out []source.Ancestor
	for _, a := range l.linearize(classRef{name: c.m.name + "." + c.def.name, m: c.m, def: c.def}) {
		closure := []string{a.name}
		for _, b := range l.linearize(a) {
			closure = append(closure, b.name)
		}
		out = append(out, source.Ancestor{Name: a.name, Closure: closure})
	}
	return out
}

// Properties lists the class's own properties and those inherited from
// ancestors below the source root, by name. An own property shadows an
// inherited one.
func (c *class) Properties() []source.Value {
	seen := make(map[string]bool)
	var out []source.Value
	add := func(props []valueDef) {
		for _, p := range props {
			if !seen[p.name] {
				seen[p.name] = true
				out = append(out, p)
			}
		}
	}
	add(c.def.props)
	for _, a := range c.m.loader.linearize(classRef{name: c.m.name + "." + c.def.name, m: c.m, def: c.def}) {
		if a.def != nil {
			add(a.def.props)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (c *class) Methods() []source.Function {
	out := make([]source.Function, 0, len(c.def.methods))
	for _, f := range c.def.methods {
		out = append(out, function{def: f})
	}
	return out
}

// classRef is a resolved base class. def and m are nil for classes defined
// outside the source root.
type classRef struct {
	name string
	m    *module
	def  *classDef
}

// linearize lists the ancestors of ref depth first, left to right, each
// once, without ref itself and without object.
func (l *loader) linearize(ref classRef) []classRef {
	var out []classRef
	seen := map[string]bool{ref.name: true}
	var walk func(r classRef, depth int)
	walk = func(r classRef, depth int) {
		if r.def == nil || depth > maxResolveDepth {
			return
		}
		for _, base := range r.def.bases {
			b := l.resolve(r.m, base, 0)
			if b.name == "builtins.object" || seen[b.name] {
				continue
			}
			seen[b.name] = true
			out = append(out, b)
			walk(b, depth+1)
		}
	}
	walk(ref, 0)
	return out
}

// resolve finds the class a dotted expression names in the scope of m.
// Names outside the source root are reported as "<top level package>.Name";
// unbound names are builtins.
func (l *loader) resolve(m *module, expr string, depth int) classRef {
	parts := strings.Split(expr, ".")
	last := parts[len(parts)-1]
	if depth > maxResolveDepth {
		return classRef{name: expr}
	}

	if len(parts) == 1 {
		for _, c := range m.file.classes {
			if c.name == last {
				return classRef{name: m.name + "." + last, m: m, def: c}
			}
		}
		ref, ok := m.file.imports[last]
		if !ok && depth > 0 {
			return classRef{name: m.name + "." + last}
		}
		if !ok {
			return classRef{name: "builtins." + last}
		}
		mod := m.absolute(ref)
		if ref.name == "" {
			return classRef{name: external(mod, last)}
		}
		if target := l.lookup(mod); target != nil {
			return l.resolve(target, ref.name, depth+1)
		}
		return classRef{name: external(mod, ref.name)}
	}

	// a.b.Name: the prefix names a module through an import.
	head := parts[0]
	prefix := strings.Join(parts[:len(parts)-1], ".")
	if ref, ok := m.file.imports[head]; ok {
		mod := m.absolute(ref)
		if ref.name != "" {
			mod += "." + ref.name
		}
		if rest := parts[1 : len(parts)-1]; len(rest) > 0 {
			mod += "." + strings.Join(rest, ".")
		}
		if target := l.lookup(mod); target != nil {
			return l.resolve(target, last, depth+1)
		}
		return classRef{name: external(mod, last)}
	}
	return classRef{name: external(prefix, last)}
}

func external(mod, name string) string {
	top, _, _ := strings.Cut(mod, ".")
	if top == "" {
		return name
	}
	return top + "." + name
}
