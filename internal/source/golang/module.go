package golang

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/doc"
	"go/types"
	"os"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/agentflare-ai/doctree/internal/source"
)

// module is one directory of a loaded tree. pkg is nil for directories
// that only group other packages.
type module struct {
	tree     *tree
	name     string
	dir      string
	pkg      *packages.Package
	docPkg   *doc.Package
	children []*module
}

func newModule(t *tree, n *dirNode, name, dir string) (*module, error) {
	m := &module{tree: t, name: name, dir: dir, pkg: n.pkg}
	if n.pkg != nil {
		docPkg, err := doc.NewFromFiles(n.pkg.Fset, n.pkg.Syntax, n.pkg.PkgPath, doc.Mode(0))
		if err != nil {
			return nil, fmt.Errorf("read docs of %s: %w", n.pkg.PkgPath, err)
		}
		m.docPkg = docPkg
	}

	segs := make([]string, 0, len(n.children))
	for seg := range n.children {
		segs = append(segs, seg)
	}
	sort.Strings(segs)
	for _, seg := range segs {
		child, err := newModule(t, n.children[seg], name+"."+sanitize(seg), dir+string(os.PathSeparator)+seg)
		if err != nil {
			return nil, err
		}
		m.children = append(m.children, child)
	}
	return m, nil
}

func (m *module) Name() string     { return m.name }
func (m *module) Location() string { return m.dir }
func (m *module) IsPackage() bool  { return len(m.children) > 0 }

func (m *module) Doc() string {
	if m.docPkg == nil {
		return ""
	}
	return m.docPkg.Doc
}

func (m *module) Exists() bool {
	if m.pkg == nil {
		info, err := os.Stat(m.dir)
		return err == nil && info.IsDir()
	}
	for _, f := range m.pkg.GoFiles {
		if _, err := os.Stat(f); err == nil {
			return true
		}
	}
	return false
}

// Source concatenates the package's Go files in name order.
func (m *module) Source() ([]byte, error) {
	if m.pkg == nil || len(m.pkg.GoFiles) == 0 {
		return nil, source.ErrNoSource
	}
	files := append([]string(nil), m.pkg.GoFiles...)
	sort.Strings(files)
	var buf bytes.Buffer
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

func (m *module) Submodules() ([]source.Module, error) {
	out := make([]source.Module, len(m.children))
	for i, c := range m.children {
		out[i] = c
	}
	return out, nil
}

func (m *module) Classes() []source.Class {
	if m.docPkg == nil {
		return nil
	}
	out := make([]source.Class, 0, len(m.docPkg.Types))
	for _, t := range m.docPkg.Types {
		out = append(out, &class{m: m, t: t})
	}
	return out
}

// Functions returns package functions including the constructors go/doc
// groups under their result type.
func (m *module) Functions() []source.Function {
	if m.docPkg == nil {
		return nil
	}
	funcs := append([]*doc.Func(nil), m.docPkg.Funcs...)
	for _, t := range m.docPkg.Types {
		funcs = append(funcs, t.Funcs...)
	}
	sort.SliceStable(funcs, func(i, j int) bool { return funcs[i].Name < funcs[j].Name })
	out := make([]source.Function, len(funcs))
	for i, f := range funcs {
		out[i] = &function{m: m, name: f.Name, doc: f.Doc, decl: f.Decl}
	}
	return out
}

// Values returns documented exported constants and variables.
func (m *module) Values() []source.Value {
	if m.docPkg == nil {
		return nil
	}
	groups := append([]*doc.Value(nil), m.docPkg.Consts...)
	groups = append(groups, m.docPkg.Vars...)
	for _, t := range m.docPkg.Types {
		groups = append(groups, t.Consts...)
		groups = append(groups, t.Vars...)
	}

	var out []source.Value
	for _, g := range groups {
		for _, spec := range g.Decl.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			text := commentText(vs.Doc, vs.Comment)
			if text == "" && len(g.Decl.Specs) == 1 {
				text = g.Doc
			}
			if text == "" {
				continue
			}
			for _, n := range vs.Names {
				if !n.IsExported() {
					continue
				}
				out = append(out, value{name: n.Name, typ: m.objectType(n.Name), doc: text})
			}
		}
	}
	return out
}

// objectType reports the type of a package level object, with untyped
// constants shown as their default type.
func (m *module) objectType(name string) string {
	if m.pkg == nil || m.pkg.Types == nil {
		return ""
	}
	obj := m.pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return ""
	}
	return types.TypeString(types.Default(obj.Type()), types.RelativeTo(m.pkg.Types))
}

func commentText(groups ...*ast.CommentGroup) string {
	for _, g := range groups {
		if g == nil {
			continue
		}
		if text := g.Text(); text != "" {
			return text
		}
	}
	return ""
}

type value struct {
	name string
	typ  string
	doc  string
}

func (v value) Name() string { return v.name }
func (v value) Type() string { return v.typ }
func (v value) Doc() string  { return v.doc }
