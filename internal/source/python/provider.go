// Package python provides Python packages as documentation modules.
//
// Modules are resolved below a source root the way the import system finds
// them on disk: "pkg.sub" is either pkg/sub/__init__.py, which makes it a
// package, or pkg/sub.py. Files are read with the tree-sitter Python
// grammar, so nothing is imported or executed.
package python

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/agentflare-ai/doctree/internal/source"
)

// Dialect renders Python documentation.
var Dialect = source.Dialect{
	Name:           "python",
	FenceLang:      "python",
	ModuleLabel:    "Module",
	IndexSuffix:    "-py",
	SourcePatterns: []string{"**/*.py"},
	ClassFallback: func(name string) string {
		return "class " + name + "(self, *args, **kwargs)"
	},
	FunctionFallback: func(name string) string {
		return "def " + name + "(*args, **kwargs)"
	},
}

const initFile = "__init__.py"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Provider loads Python modules below a source root.
type Provider struct {
	root   string
	filter *source.Filter
	logger *log.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithFilter replaces the default .gitignore based filter.
func WithFilter(f *source.Filter) Option {
	return func(p *Provider) { p.filter = f }
}

// New returns a provider resolving dotted names below root.
func New(root string, opts ...Option) *Provider {
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	p := &Provider{root: root}
	for _, opt := range opts {
		opt(p)
	}
	if p.filter == nil {
		p.filter = source.NewFilter(root)
	}
	if p.logger == nil {
		p.logger = log.New(os.Stderr)
		p.logger.SetLevel(log.WarnLevel)
	}
	return p
}

// Dialect implements source.Provider.
func (p *Provider) Dialect() source.Dialect { return Dialect }

// Load returns the module with the given dotted name.
func (p *Provider) Load(ctx context.Context, name string) (source.Module, error) {
	l := &loader{p: p, ctx: ctx, modules: make(map[string]*module)}
	m, err := l.load(name)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: no Python module %q below %s", source.ErrModuleNotFound, name, p.root)
	}
	return m, nil
}

// Locate returns the file backing name, and whether it is a package.
func (p *Provider) Locate(name string) (string, bool, error) {
	if name == "" {
		return "", false, fmt.Errorf("%w: empty module name", source.ErrModuleNotFound)
	}
	segs := strings.Split(name, ".")
	for _, s := range segs {
		if !identifier.MatchString(s) {
			return "", false, fmt.Errorf("%w: invalid module name %q", source.ErrModuleNotFound, name)
		}
	}
	dir := filepath.Join(append([]string{p.root}, segs...)...)
	if isFile(filepath.Join(dir, initFile)) {
		return filepath.Join(dir, initFile), true, nil
	}
	if isFile(dir + ".py") {
		return dir + ".py", false, nil
	}
	return "", false, fmt.Errorf("%w: %s", source.ErrModuleNotFound, name)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loader parses each module of one Load call at most once.
type loader struct {
	p       *Provider
	ctx     context.Context
	modules map[string]*module
}

// load returns the module for name, or nil when no file backs it.
func (l *loader) load(name string) (*module, error) {
	if m, ok := l.modules[name]; ok {
		return m, nil
	}
	path, pkg, err := l.p.Locate(name)
	if errors.Is(err, source.ErrModuleNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := l.ctx.Err(); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := parseFile(l.ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.p.logger.Debug("parsed module", "module", name, "path", path, "classes", len(f.classes))
	m := &module{loader: l, name: name, path: path, pkg: pkg, src: src, file: f}
	l.modules[name] = m
	return m, nil
}

// lookup is load for name resolution, where a failure means the name lies
// outside the source root.
func (l *loader) lookup(name string) *module {
	m, err := l.load(name)
	if err != nil {
		l.p.logger.Debug("cannot resolve module", "module", name, "err", err)
		return nil
	}
	return m
}
