package doctree

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/agentflare-ai/doctree/internal/frontmatter"
	"github.com/agentflare-ai/doctree/internal/linkpath"
	"github.com/agentflare-ai/doctree/internal/mdtext"
	"github.com/agentflare-ai/doctree/internal/sink"
	"github.com/agentflare-ai/doctree/internal/source"
)

// Module is the document node of one module. Package-like modules own a
// directory and an index document; leaf modules own a single file.
type Module struct {
	src  source.Module
	reg  *Registry
	opts Options

	name        string
	doc         string
	isPackage   bool
	logicalPath string
	docPath     string
	outDir      string
	filename    string

	submodules []*Module
	byLocation map[string]*Module
	variables  []*Variable
	classes    []*Class
	functions  []*Function
	discovered bool
	digest     *string
}

// NewModule creates the node for src and registers it. Documents are placed
// under outDir, a slash separated path relative to the sink root.
func NewModule(src source.Module, outDir string, reg *Registry, opts Options) *Module {
	m := &Module{
		src:         src,
		reg:         reg,
		opts:        opts,
		name:        src.Name(),
		doc:         mdtext.CleanDoc(src.Doc()),
		isPackage:   src.IsPackage(),
		logicalPath: "/" + strings.ReplaceAll(src.Name(), ".", "/"),
		byLocation:  make(map[string]*Module),
	}

	short := shortName(m.name)
	switch {
	case m.isPackage:
		dir := short
		if opts.OutName != "" {
			dir = opts.OutName
		}
		m.outDir = path.Join(outDir, dir)
		m.filename = indexName + ".md"
		m.docPath = m.logicalPath + "/" + indexName
		reg.markPackage(m.logicalPath)
	case opts.OutName != "":
		m.outDir = outDir
		m.filename = opts.OutName + ".md"
		m.docPath = m.logicalPath
	default:
		if short == indexName {
			short += opts.Dialect.IndexSuffix
			m.logicalPath += opts.Dialect.IndexSuffix
		}
		m.outDir = outDir
		m.filename = short + ".md"
		m.docPath = m.logicalPath
	}
	reg.Register(m.name, m.logicalPath)
	return m
}

// Name returns the qualified module name.
func (m *Module) Name() string { return m.name }

// LogicalPath returns the registry path of the module.
func (m *Module) LogicalPath() string { return m.logicalPath }

// File returns the sink path of the module's document.
func (m *Module) File() string { return path.Join(m.outDir, m.filename) }

// Submodules returns the discovered submodules in discovery order.
func (m *Module) Submodules() []*Module { return m.submodules }

// Classes returns the discovered classes.
func (m *Module) Classes() []*Class { return m.classes }

// Functions returns the discovered top level functions.
func (m *Module) Functions() []*Function { return m.functions }

// Variables returns the discovered module variables.
func (m *Module) Variables() []*Variable { return m.variables }

func (m *Module) childOptions() Options {
	o := m.opts
	o.OutName = ""
	return o
}

// Discover walks the hierarchy below m depth first and registers every
// node. Discovering again picks up new submodules without duplicating known
// ones.
func (m *Module) Discover() error {
	if m.isPackage {
		subs, err := m.src.Submodules()
		if err != nil {
			return fmt.Errorf("list submodules of %s: %w", m.name, err)
		}
		for _, sub := range subs {
			if private(shortName(sub.Name())) {
				continue
			}
			if _, ok := m.byLocation[sub.Location()]; ok {
				continue
			}
			child := NewModule(sub, m.outDir, m.reg, m.childOptions())
			m.byLocation[sub.Location()] = child
			m.submodules = append(m.submodules, child)
		}
		for _, child := range m.submodules {
			if err := child.Discover(); err != nil {
				return err
			}
		}
	}

	m.variables = m.variables[:0]
	for _, v := range m.src.Values() {
		if private(v.Name()) {
			continue
		}
		m.variables = append(m.variables, NewVariable(v, "", m.logicalPath, m.name, m.reg, m.opts))
	}
	m.classes = m.classes[:0]
	for _, c := range m.src.Classes() {
		if private(c.Name()) {
			continue
		}
		m.classes = append(m.classes, NewClass(c, m.logicalPath, m.name, m.reg, m.opts))
	}
	m.functions = m.functions[:0]
	for _, f := range m.src.Functions() {
		if private(f.Name()) {
			continue
		}
		m.functions = append(m.functions, NewFunction(f, m.logicalPath, m.name, m.reg, m.opts))
	}

	m.discovered = true
	m.digest = nil
	m.opts.logger().Debug("discovered module", "module", m.name,
		"submodules", len(m.submodules), "classes", len(m.classes),
		"functions", len(m.functions), "variables", len(m.variables))
	return nil
}

// Digest returns the hex SHA-256 digest of the module source. Modules
// without source text hash as empty.
func (m *Module) Digest() (string, error) {
	if m.digest != nil {
		return *m.digest, nil
	}
	src, err := source.SourceOrEmpty(m.src)
	if err != nil {
		return "", fmt.Errorf("read source of %s: %w", m.name, err)
	}
	sum := sha256.Sum256(src)
	d := hex.EncodeToString(sum[:])
	m.digest = &d
	return d, nil
}

// Render produces the Markdown document of the module. Discover must have
// run on the root so that the registry is complete.
func (m *Module) Render() (string, error) {
	var header string
	if m.opts.Header {
		digest, err := m.Digest()
		if err != nil {
			return "", err
		}
		header, err = frontmatter.Header(m.name, digest)
		if err != nil {
			return "", err
		}
	}

	heading := "# " + m.name
	if label := m.opts.Dialect.ModuleLabel; label != "" {
		heading = "# " + label + " " + m.name
	}

	doc := mdtext.JoinFragments(
		header,
		heading,
		m.doc,
		m.renderSubmodules(),
		m.renderVariables(),
		renderSection("Classes", m.classes),
		renderSection("Functions", m.functions),
	)
	doc = m.reg.Resolve(m.docPath, doc)
	return mdtext.Cleanup(doc), nil
}

func (m *Module) renderSubmodules() string {
	if len(m.submodules) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.submodules))
	for _, sub := range m.submodules {
		line := "- [" + sub.name + "](" + linkpath.Relative(m.docPath, sub.docPath) + ".md)"
		if summary := mdtext.Summary(sub.doc); summary != "" {
			line += ": " + summary
		}
		lines = append(lines, line)
	}
	return "## Submodules\n\n" + strings.Join(lines, "\n")
}

func (m *Module) renderVariables() string {
	var parts []string
	for _, v := range m.variables {
		if out := v.Render(); out != "" {
			parts = append(parts, out)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "## Variables\n\n" + strings.Join(parts, "\n\n")
}

type renderer interface {
	Render() string
}

func renderSection[T renderer](title string, nodes []T) string {
	if len(nodes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.Render())
	}
	return "## " + title + "\n\n" + strings.Join(parts, "\n\n------\n\n")
}

// Write persists the document of m and of every submodule to s. Documents
// whose recorded digest or content already matches are left untouched, and
// documents of vanished submodules are removed.
func (m *Module) Write(ctx context.Context, s sink.Sink) error {
	if !m.discovered {
		if err := m.Discover(); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := m.opts.logger()

	if err := s.EnsureDir(m.outDir); err != nil {
		return err
	}
	if m.isPackage {
		if err := m.removeStale(s); err != nil {
			return err
		}
	}

	target := m.File()
	var existing []byte
	if s.Exists(target) {
		var err error
		if existing, err = s.ReadFile(target); err != nil {
			return err
		}
	}

	skip := false
	if m.opts.Header && existing != nil {
		digest, err := m.Digest()
		if err != nil {
			return err
		}
		skip = frontmatter.Digest(existing) == digest
	}
	if skip {
		logger.Debug("document up to date", "module", m.name, "path", target)
	} else {
		content, err := m.Render()
		if err != nil {
			return err
		}
		data := []byte(strings.ReplaceAll(content, "\r\n", "\n"))
		if bytes.Equal(existing, data) {
			logger.Debug("document unchanged", "module", m.name, "path", target)
		} else {
			if err := s.WriteFile(target, data); err != nil {
				return err
			}
			logger.Info("wrote document", "module", m.name, "path", target)
		}
	}

	for _, sub := range m.submodules {
		if err := sub.Write(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// removeStale drops submodules whose source vanished and deletes documents
// in the module directory that no live submodule owns.
func (m *Module) removeStale(s sink.Sink) error {
	logger := m.opts.logger()
	live := m.submodules[:0]
	for _, sub := range m.submodules {
		if sub.src.Exists() {
			live = append(live, sub)
			continue
		}
		delete(m.byLocation, sub.src.Location())
		m.reg.forget(sub.name, sub.logicalPath)
		logger.Debug("submodule vanished", "module", sub.name)
	}
	m.submodules = live

	keepFiles := map[string]bool{m.filename: true}
	keepDirs := make(map[string]bool)
	for _, sub := range m.submodules {
		if sub.isPackage {
			keepDirs[path.Base(sub.outDir)] = true
		} else {
			keepFiles[sub.filename] = true
		}
	}

	files, err := s.ListFiles(m.outDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if path.Ext(f) != ".md" || keepFiles[f] {
			continue
		}
		p := path.Join(m.outDir, f)
		if err := s.DeleteFile(p); err != nil {
			return err
		}
		logger.Info("removed stale document", "path", p)
	}

	dirs, err := s.ListDirs(m.outDir)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		p := path.Join(m.outDir, d)
		if keepDirs[d] || !s.Exists(path.Join(p, indexName+".md")) {
			continue
		}
		if err := s.DeleteDir(p); err != nil {
			return err
		}
		logger.Info("removed stale directory", "path", p)
	}
	return nil
}
