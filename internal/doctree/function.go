package doctree

import (
	"strings"

	"github.com/agentflare-ai/doctree/internal/mdtext"
	"github.com/agentflare-ai/doctree/internal/source"
)

// Function is the document node of a top level function or a method.
type Function struct {
	src    source.Function
	opts   Options
	name   string
	qual   string
	anchor string
	doc    string
}

// NewFunction creates the node for src and registers it. parentPath is the
// logical path of the owning module, or of the owning class when it carries
// an anchor.
func NewFunction(src source.Function, parentPath, parentName string, reg *Registry, opts Options) *Function {
	f := &Function{
		src:  src,
		opts: opts,
		name: src.Name(),
		qual: parentName + "." + src.Name(),
		doc:  mdtext.ModifyAttrs(mdtext.CleanDoc(src.Doc()), ""),
	}
	p := memberPath(parentPath, f.name)
	f.anchor = p[strings.LastIndex(p, "#")+1:]
	reg.Register(f.qual, p)
	return f
}

// memberPath appends name to a parent path, nesting it under the parent's
// anchor when there is one.
func memberPath(parentPath, name string) string {
	if strings.Contains(parentPath, "#") {
		return parentPath + "." + name
	}
	return parentPath + "#" + name
}

// QualifiedName returns the dotted name the function is registered under.
func (f *Function) QualifiedName() string { return f.qual }

// Anchor returns the in-page anchor of the function.
func (f *Function) Anchor() string { return f.anchor }

// IsMethod reports whether the function is declared on a class.
func (f *Function) IsMethod() bool { return f.anchor != f.name }

// Render produces the Markdown fragment for the function.
func (f *Function) Render() string {
	var head string
	if f.IsMethod() {
		head = "[**" + f.name + "**](#" + f.anchor + ")" + f.opts.attr(f.anchor)
	} else {
		head = strings.TrimSpace("### " + f.name + " " + f.opts.attr(f.anchor))
	}
	signature := f.opts.fence(f.opts.Dialect.FunctionSignature(f.src))
	return mdtext.JoinFragments(head, signature, f.doc)
}
