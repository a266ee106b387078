package python

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// file holds everything read from one source file. The syntax tree is
// released after parsing, so only plain values are kept.
type file struct {
	doc     string
	classes []*classDef
	funcs   []*funcDef
	values  []valueDef
	// imports maps a local binding to what it was imported from.
	imports map[string]importRef
}

// importRef is the target of an import. name is empty when the local
// binding is a module, as in "import a.b as c".
type importRef struct {
	module string
	name   string
	// level counts the leading dots of a relative import.
	level int
}

type classDef struct {
	name    string
	doc     string
	bases   []string
	init    *funcDef
	props   []valueDef
	methods []*funcDef
}

type funcDef struct {
	name   string
	doc    string
	header string
	// params holds the text between the parentheses of the parameter list.
	params string
	// paramList holds each parameter's text.
	paramList []string
}

type valueDef struct {
	name string
	typ  string
	doc  string
}

func parseFile(ctx context.Context, src []byte) (*file, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	f := &file{imports: make(map[string]importRef)}
	f.doc = docstring(root, src)

	stmts := statements(root)
	classes := make(map[string]*classDef)
	funcs := make(map[string]*funcDef)
	for i, n := range stmts {
		def, _ := unwrap(n)
		switch def.Type() {
		case "class_definition":
			c := parseClass(def, src)
			classes[c.name] = c
		case "function_definition":
			fn := parseFunc(def, src)
			funcs[fn.name] = fn
		case "import_statement":
			readImport(def, src, f.imports)
		case "import_from_statement":
			readFromImport(def, src, f.imports)
		case "expression_statement":
			if v, ok := documentedValue(stmts, i, src); ok {
				f.values = append(f.values, v)
			}
		}
	}
	for _, c := range classes {
		f.classes = append(f.classes, c)
	}
	for _, fn := range funcs {
		f.funcs = append(f.funcs, fn)
	}
	sort.Slice(f.classes, func(i, j int) bool { return f.classes[i].name < f.classes[j].name })
	sort.Slice(f.funcs, func(i, j int) bool { return f.funcs[i].name < f.funcs[j].name })
	f.values = dedupeValues(f.values)
	return f, nil
}

// statements returns the named children of a module or block, without
// comments.
func statements(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// unwrap returns the definition inside a decorated definition together with
// the decorator expressions.
func unwrap(n *sitter.Node) (*sitter.Node, []*sitter.Node) {
	if n.Type() != "decorated_definition" {
		return n, nil
	}
	var decorators []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "decorator" {
			decorators = append(decorators, c)
		}
	}
	def := n.ChildByFieldName("definition")
	if def == nil {
		return n, decorators
	}
	return def, decorators
}

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

// docstring returns the first statement of a module or body when it is a
// string literal.
func docstring(body *sitter.Node, src []byte) string {
	stmts := statements(body)
	if len(stmts) == 0 {
		return ""
	}
	s, ok := stringStatement(stmts[0], src)
	if !ok {
		return ""
	}
	return s
}

func stringStatement(n *sitter.Node, src []byte) (string, bool) {
	if n.Type() != "expression_statement" || n.NamedChildCount() != 1 {
		return "", false
	}
	lit := n.NamedChild(0)
	if lit.Type() != "string" {
		return "", false
	}
	return unquote(nodeText(lit, src)), true
}

var unescape = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\'`, `'`, "\\\n", "")

// unquote strips the prefix and quotes of a string literal.
func unquote(lit string) string {
	raw := false
	for lit != "" && strings.ContainsRune("rRuUbBfF", rune(lit[0])) {
		if lit[0] == 'r' || lit[0] == 'R' {
			raw = true
		}
		lit = lit[1:]
	}
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(lit) >= 2*len(q) && strings.HasPrefix(lit, q) && strings.HasSuffix(lit, q) {
			lit = lit[len(q) : len(lit)-len(q)]
			break
		}
	}
	if raw {
		return lit
	}
	return unescape.Replace(lit)
}

// documentedValue reads "name = value" at stmts[i] when the next statement
// is a string literal on the following line.
func documentedValue(stmts []*sitter.Node, i int, src []byte) (valueDef, bool) {
	n := stmts[i]
	if n.NamedChildCount() != 1 || i+1 >= len(stmts) {
		return valueDef{}, false
	}
	assign := n.NamedChild(0)
	if assign.Type() != "assignment" || assign.ChildByFieldName("right") == nil {
		return valueDef{}, false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return valueDef{}, false
	}
	next := stmts[i+1]
	if next.StartPoint().Row != n.EndPoint().Row+1 {
		return valueDef{}, false
	}
	doc, ok := stringStatement(next, src)
	if !ok {
		return valueDef{}, false
	}
	return valueDef{
		name: nodeText(left, src),
		typ:  nodeText(assign.ChildByFieldName("type"), src),
		doc:  doc,
	}, true
}

// dedupeValues keeps the last assignment of each name, sorted by name.
func dedupeValues(values []valueDef) []valueDef {
	byName := make(map[string]valueDef, len(values))
	for _, v := range values {
		byName[v.name] = v
	}
	out := make([]valueDef, 0, len(byName))
	for _, v := range byName {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func parseClass(n *sitter.Node, src []byte) *classDef {
	c := &classDef{name: nodeText(n.ChildByFieldName("name"), src)}
	if args := n.ChildByFieldName("superclasses"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			switch arg.Type() {
			case "identifier", "attribute":
				c.bases = append(c.bases, nodeText(arg, src))
			}
		}
	}

	body := n.ChildByFieldName("body")
	c.doc = docstring(body, src)
	props := make(map[string]valueDef)
	methods := make(map[string]*funcDef)
	for _, stmt := range statements(body) {
		def, decorators := unwrap(stmt)
		if def.Type() != "function_definition" {
			continue
		}
		fn := parseFunc(def, src)
		switch decoratorKind(decorators, src) {
		case "property":
			props[fn.name] = valueDef{
				name: fn.name,
				typ:  nodeText(def.ChildByFieldName("return_type"), src),
				doc:  fn.doc,
			}
			continue
		case "accessor":
			continue
		}
		if fn.name == "__init__" {
			c.init = fn
		}
		methods[fn.name] = fn
	}
	for _, p := range props {
		c.props = append(c.props, p)
	}
	for _, m := range methods {
		c.methods = append(c.methods, m)
	}
	sort.Slice(c.props, func(i, j int) bool { return c.props[i].name < c.props[j].name })
	sort.Slice(c.methods, func(i, j int) bool { return c.methods[i].name < c.methods[j].name })
	return c
}

// decoratorKind reports "property" for @property, "accessor" for the
// @x.setter and @x.deleter halves of a property, and "" otherwise.
func decoratorKind(decorators []*sitter.Node, src []byte) string {
	for _, d := range decorators {
		expr := strings.TrimSpace(strings.TrimPrefix(nodeText(d, src), "@"))
		switch {
		case expr == "property":
			return "property"
		case strings.HasSuffix(expr, ".setter"), strings.HasSuffix(expr, ".deleter"):
			return "accessor"
		}
	}
	return ""
}

func parseFunc(n *sitter.Node, src []byte) *funcDef {
	fn := &funcDef{name: nodeText(n.ChildByFieldName("name"), src)}
	fn.doc = docstring(n.ChildByFieldName("body"), src)

	end := n.EndByte()
	if params := n.ChildByFieldName("parameters"); params != nil {
		end = params.EndByte()
		text := nodeText(params, src)
		if len(text) >= 2 {
			fn.params = text[1 : len(text)-1]
		}
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() == "comment" {
				continue
			}
			fn.paramList = append(fn.paramList, nodeText(p, src))
		}
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		end = ret.EndByte()
	}
	fn.header = string(src[n.StartByte():end])
	return fn
}

func readImport(n *sitter.Node, src []byte, into map[string]importRef) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "dotted_name":
			mod := nodeText(c, src)
			head, _, _ := strings.Cut(mod, ".")
			into[head] = importRef{module: head}
		case "aliased_import":
			mod := nodeText(c.ChildByFieldName("name"), src)
			into[nodeText(c.ChildByFieldName("alias"), src)] = importRef{module: mod}
		}
	}
}

func readFromImport(n *sitter.Node, src []byte, into map[string]importRef) {
	modNode := n.ChildByFieldName("module_name")
	if modNode == nil {
		return
	}
	var mod string
	level := 0
	if modNode.Type() == "relative_import" {
		for i := 0; i < int(modNode.NamedChildCount()); i++ {
			c := modNode.NamedChild(i)
			switch c.Type() {
			case "import_prefix":
				level = strings.Count(nodeText(c, src), ".")
			case "dotted_name":
				mod = nodeText(c, src)
			}
		}
	} else {
		mod = nodeText(modNode, src)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.StartByte() == modNode.StartByte() {
			continue
		}
		switch c.Type() {
		case "dotted_name":
			name := nodeText(c, src)
			into[name] = importRef{module: mod, name: name, level: level}
		case "aliased_import":
			name := nodeText(c.ChildByFieldName("name"), src)
			into[nodeText(c.ChildByFieldName("alias"), src)] = importRef{module: mod, name: name, level: level}
		}
	}
}

// reindent rewrites continuation lines of a multi-line declaration to a
// single four space indent, with a closing parenthesis at the margin.
func reindent(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return strings.TrimSpace(text)
	}
	out := []string{strings.TrimRight(lines[0], " \t")}
	for _, l := range lines[1:] {
		t := strings.TrimSpace(l)
		switch {
		case t == "":
			continue
		case strings.HasPrefix(t, ")"):
			out = append(out, t)
		default:
			out = append(out, "    "+t)
		}
	}
	return strings.Join(out, "\n")
}
