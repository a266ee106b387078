package doctree

import (
	"strings"

	"github.com/agentflare-ai/doctree/internal/mdtext"
	"github.com/agentflare-ai/doctree/internal/source"
)

// Variable is the document node of a module variable or a class property.
// A variable without a name is inert: it is not registered and renders
// nothing.
type Variable struct {
	opts   Options
	name   string
	qual   string
	anchor string
	typ    string
	doc    string
}

// NewVariable creates the node for src. name overrides src.Name() when
// set; src may be nil when name is given.
func NewVariable(src source.Value, name, parentPath, parentName string, reg *Registry, opts Options) *Variable {
	v := &Variable{opts: opts}
	if src != nil {
		v.typ = src.Type()
		v.doc = mdtext.CleanDoc(src.Doc())
		if name == "" {
			name = src.Name()
		}
	}
	if name == "" {
		return v
	}
	v.name = shortName(name)
	v.qual = parentName + "." + v.name
	p := memberPath(parentPath, v.name)
	v.anchor = p[strings.LastIndex(p, "#")+1:]
	reg.Register(v.qual, p)
	return v
}

// Inert reports whether the variable has no name.
func (v *Variable) Inert() bool { return v.name == "" }

// QualifiedName returns the dotted name the variable is registered under.
func (v *Variable) QualifiedName() string { return v.qual }

// Anchor returns the in-page anchor of the variable.
func (v *Variable) Anchor() string { return v.anchor }

// Render produces the bullet line for the variable.
func (v *Variable) Render() string {
	if v.Inert() {
		return ""
	}
	line := "* " + v.name
	switch {
	case v.typ != "" && v.doc != "":
		line += " (`" + v.typ + "`): " + v.doc
	case v.typ != "":
		line += " (`" + v.typ + "`)"
	case v.doc != "":
		line += " " + v.doc
	}
	attr := v.opts.attr(v.anchor)
	out := mdtext.ModifyAttrs(line, attr)
	// Untyped docs rarely fit the argument-list grammar; the entry still
	// needs its anchor.
	if head := "* " + v.name + " "; strings.HasPrefix(out, head) {
		out = "- **" + v.name + "**" + attr + " " + out[len(head):]
	}
	return out
}
