package doctree

import (
	"strings"

	"github.com/agentflare-ai/doctree/internal/mdtext"
	"github.com/agentflare-ai/doctree/internal/source"
)

// Class is the document node of a class with its properties and methods.
type Class struct {
	src    source.Class
	opts   Options
	name   string
	qual   string
	anchor string
	doc    string

	properties []*Variable
	methods    []*Function
}

// NewClass creates the node for src, declared in the module at modulePath
// named moduleName, and registers it with its members.
func NewClass(src source.Class, modulePath, moduleName string, reg *Registry, opts Options) *Class {
	c := &Class{
		src:    src,
		opts:   opts,
		name:   shortName(src.Name()),
		qual:   moduleName + "." + src.QualName(),
		anchor: src.QualName(),
		doc:    mdtext.ModifyAttrs(mdtext.CleanDoc(src.Doc()), ""),
	}
	p := modulePath + "#" + c.anchor
	reg.Register(c.qual, p)

	for _, v := range src.Properties() {
		if private(v.Name()) {
			continue
		}
		c.properties = append(c.properties, NewVariable(v, "", p, c.qual, reg, opts))
	}
	for _, f := range src.Methods() {
		if private(f.Name()) {
			continue
		}
		c.methods = append(c.methods, NewFunction(f, p, c.qual, reg, opts))
	}
	return c
}

// QualifiedName returns the dotted name the class is registered under.
func (c *Class) QualifiedName() string { return c.qual }

// Anchor returns the in-page anchor of the class.
func (c *Class) Anchor() string { return c.anchor }

// Properties returns the property nodes.
func (c *Class) Properties() []*Variable { return c.properties }

// Methods returns the method nodes.
func (c *Class) Methods() []*Function { return c.methods }

// Render produces the Markdown fragment for the class.
func (c *Class) Render() string {
	head := strings.TrimSpace("### " + c.name + " " + c.opts.attr(c.anchor))

	signature := c.opts.fence(c.opts.Dialect.ClassSignature(c.src))
	constructor := mdtext.ModifyAttrs(mdtext.CleanDoc(c.src.ConstructorDoc()), "")
	body := mdtext.JoinFragments(signature, c.doc, constructor)

	return mdtext.JoinFragments(head, body, c.renderBases(), c.renderProperties(), c.renderMethods())
}

func (c *Class) subheading(title, suffix string) string {
	return strings.TrimSpace("------\n\n#### " + title + " " + c.opts.attr(c.anchor+suffix))
}

func (c *Class) renderBases() string {
	parents := DirectParents(c.src.Ancestors())
	if len(parents) == 0 {
		return ""
	}
	lines := make([]string, len(parents))
	for i, p := range parents {
		lines[i] = "* `" + p + "`"
	}
	return c.subheading("Base classes", "-bases") + "\n\n" + strings.Join(lines, "\n")
}

func (c *Class) renderProperties() string {
	var parts []string
	for _, v := range c.properties {
		if out := v.Render(); out != "" {
			parts = append(parts, out)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return c.subheading("Instance attributes", "-attrs") + "\n\n" + strings.Join(parts, "\n\n")
}

func (c *Class) renderMethods() string {
	if len(c.methods) == 0 {
		return ""
	}
	parts := make([]string, len(c.methods))
	for i, f := range c.methods {
		parts[i] = f.Render()
	}
	return c.subheading("Methods", "-methods") + "\n\n" + strings.Join(parts, "\n\n------\n\n")
}
