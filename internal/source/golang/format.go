package golang

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/token"
	"go/version"
	"strings"

	gofumpt "mvdan.cc/gofumpt/format"
)

func findTypeSpec(decl *ast.GenDecl, name string) *ast.TypeSpec {
	if decl == nil {
		return nil
	}
	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if ts.Name != nil && ts.Name.Name == name {
			return ts
		}
	}
	return nil
}

func formatNode(fset *token.FileSet, node any) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, node); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

// funcSignature prints a function declaration without its body.
func funcSignature(fset *token.FileSet, decl *ast.FuncDecl) string {
	if decl == nil || decl.Type == nil {
		return ""
	}
	fd := *decl
	fd.Doc, fd.Body = nil, nil
	return formatNode(fset, &fd)
}

// typeDecl prints "type Name ..." for spec with doc and line comments
// removed from the type and its fields. The printer keeps the source line
// distance of each field, so the gaps left by removed comments are dropped.
func typeDecl(fset *token.FileSet, spec *ast.TypeSpec) string {
	ts := *spec
	ts.Doc, ts.Comment = nil, nil
	switch t := ts.Type.(type) {
	case *ast.StructType:
		st := *t
		st.Fields = stripFields(t.Fields)
		ts.Type = &st
	case *ast.InterfaceType:
		it := *t
		it.Methods = stripFields(t.Methods)
		ts.Type = &it
	}
	out := formatNode(fset, &ast.GenDecl{Tok: token.TYPE, Specs: []ast.Spec{&ts}})
	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func stripFields(list *ast.FieldList) *ast.FieldList {
	if list == nil {
		return nil
	}
	out := *list
	out.List = make([]*ast.Field, len(list.List))
	for i, f := range list.List {
		cp := *f
		cp.Doc, cp.Comment = nil, nil
		out.List[i] = &cp
	}
	return &out
}

// tidy normalizes a declaration with gofumpt. Code gofumpt cannot parse is
// returned unchanged.
func tidy(code, goVersion string) string {
	if code == "" {
		return ""
	}
	opts := gofumpt.Options{}
	if v := "go" + goVersion; goVersion != "" && version.IsValid(v) {
		opts.LangVersion = v
	}
	const header = "package p\n\n"
	out, err := gofumpt.Source([]byte(header+code+"\n"), opts)
	if err != nil {
		return code
	}
	return strings.TrimSpace(strings.TrimPrefix(string(out), strings.TrimSpace(header)))
}
