package golang

import (
	"go/ast"
	"go/doc"
	"go/types"

	"github.com/agentflare-ai/doctree/internal/source"
)

// class is an exported named type.
type class struct {
	m *module
	t *doc.Type
}

func (c *class) Name() string     { return c.t.Name }
func (c *class) QualName() string { return c.t.Name }
func (c *class) Doc() string      { return c.t.Doc }

func (c *class) spec() *ast.TypeSpec {
	return findTypeSpec(c.t.Decl, c.t.Name)
}

// Signature prints the type declaration without comments.
func (c *class) Signature() (string, error) {
	spec := c.spec()
	if spec == nil {
		return "", source.ErrNoSource
	}
	code := typeDecl(c.m.pkg.Fset, spec)
	if code == "" {
		return "", source.ErrNoSource
	}
	return tidy(code, c.m.goVersion()), nil
}

// ConstructorDoc returns the documentation of New<Type>.
func (c *class) ConstructorDoc() string {
	for _, f := range c.t.Funcs {
		if f.Name == "New"+c.t.Name {
			return f.Doc
		}
	}
	return ""
}

// Ancestors lists the exported types embedded directly or transitively.
func (c *class) Ancestors() []source.Ancestor {
	named := c.named()
	if named == nil {
		return nil
	}
	var out []source.Ancestor
	seen := map[*types.TypeName]bool{named.Obj(): true}
	var walk func(t *types.Named)
	walk = func(t *types.Named) {
		for _, e := range embedded(t) {
			if seen[e.Obj()] {
				continue
			}
			seen[e.Obj()] = true
			if e.Obj().Exported() {
				out = append(out, source.Ancestor{Name: c.m.tree.named(e), Closure: c.closure(e)})
			}
			walk(e)
		}
	}
	walk(named)
	return out
}

// closure returns the listed names of t and every type it embeds.
func (c *class) closure(t *types.Named) []string {
	names := []string{c.m.tree.named(t)}
	seen := map[*types.TypeName]bool{t.Obj(): true}
	var walk func(t *types.Named)
	walk = func(t *types.Named) {
		for _, e := range embedded(t) {
			if seen[e.Obj()] {
				continue
			}
			seen[e.Obj()] = true
			if e.Obj().Exported() {
				names = append(names, c.m.tree.named(e))
			}
			walk(e)
		}
	}
	walk(t)
	return names
}

func (c *class) named() *types.Named {
	if c.m.pkg == nil || c.m.pkg.Types == nil {
		return nil
	}
	obj := c.m.pkg.Types.Scope().Lookup(c.t.Name)
	if obj == nil {
		return nil
	}
	n, _ := types.Unalias(obj.Type()).(*types.Named)
	return n
}

func embedded(t *types.Named) []*types.Named {
	var out []*types.Named
	switch u := t.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			if f := u.Field(i); f.Embedded() {
				if n := namedOf(f.Type()); n != nil {
					out = append(out, n)
				}
			}
		}
	case *types.Interface:
		for i := 0; i < u.NumEmbeddeds(); i++ {
			if n := namedOf(u.EmbeddedType(i)); n != nil {
				out = append(out, n)
			}
		}
	}
	return out
}

func namedOf(t types.Type) *types.Named {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	n, _ := t.(*types.Named)
	return n
}

func (t *tree) named(n *types.Named) string {
	obj := n.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return t.typeName(obj.Pkg().Path(), obj.Pkg().Name(), obj.Name())
}

// Properties returns the documented exported fields of a struct type.
func (c *class) Properties() []source.Value {
	spec := c.spec()
	if spec == nil {
		return nil
	}
	st, ok := spec.Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return nil
	}
	var out []source.Value
	for _, f := range st.Fields.List {
		text := commentText(f.Doc, f.Comment)
		if len(f.Names) == 0 || text == "" {
			continue
		}
		typ := formatNode(c.m.pkg.Fset, f.Type)
		for _, n := range f.Names {
			if n.IsExported() {
				out = append(out, value{name: n.Name, typ: typ, doc: text})
			}
		}
	}
	return out
}

// Methods returns the methods declared on the type itself. Interface types
// report their method set elements.
func (c *class) Methods() []source.Function {
	var out []source.Function
	if spec := c.spec(); spec != nil {
		if it, ok := spec.Type.(*ast.InterfaceType); ok && it.Methods != nil {
			for _, f := range it.Methods.List {
				if len(f.Names) == 0 {
					continue
				}
				for _, n := range f.Names {
					if n.IsExported() {
						out = append(out, &interfaceMethod{c: c, field: f, name: n.Name})
					}
				}
			}
			return out
		}
	}
	for _, f := range c.t.Methods {
		if f.Level == 0 {
			out = append(out, &function{m: c.m, name: f.Name, doc: f.Doc, decl: f.Decl})
		}
	}
	return out
}

type function struct {
	m    *module
	name string
	doc  string
	decl *ast.FuncDecl
}

func (f *function) Name() string { return f.name }
func (f *function) Doc() string  { return f.doc }

func (f *function) Signature() (string, error) {
	sig := funcSignature(f.m.pkg.Fset, f.decl)
	if sig == "" {
		return "", source.ErrNoSource
	}
	return tidy(sig, f.m.goVersion()), nil
}

// interfaceMethod is an element of an interface's method set.
type interfaceMethod struct {
	c     *class
	field *ast.Field
	name  string
}

func (im *interfaceMethod) Name() string { return im.name }
func (im *interfaceMethod) Doc() string  { return commentText(im.field.Doc, im.field.Comment) }

// Signature prints the method as a declaration with an anonymous receiver.
func (im *interfaceMethod) Signature() (string, error) {
	ft, ok := im.field.Type.(*ast.FuncType)
	if !ok {
		return "", source.ErrNoSource
	}
	sig := formatNode(im.c.m.pkg.Fset, ft)
	if sig == "" {
		return "", source.ErrNoSource
	}
	code := "func (" + im.c.t.Name + ") " + im.name + sig[len("func"):]
	return tidy(code, im.c.m.goVersion()), nil
}

func (m *module) goVersion() string {
	if m.pkg == nil || m.pkg.Module == nil {
		return ""
	}
	return m.pkg.Module.GoVersion
}
