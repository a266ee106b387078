// Package golang provides Go packages as documentation modules.
//
// A package pattern is loaded together with every package below it. Each
// package becomes a module named after the root package followed by the
// relative directory, so ./internal/server under root "app" is
// "app.internal.server". Directories that only hold other packages become
// modules without source.
package golang

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/tools/go/packages"

	"github.com/agentflare-ai/doctree/internal/source"
)

// Dialect renders Go documentation.
var Dialect = source.Dialect{
	Name:           "go",
	FenceLang:      "go",
	ModuleLabel:    "Package",
	IndexSuffix:    "-go",
	SourcePatterns: []string{"**/*.go"},
	ClassFallback: func(name string) string {
		return "type " + name
	},
	FunctionFallback: func(name string) string {
		return "func " + name + "()"
	},
}

// Provider loads Go package trees.
type Provider struct {
	dir    string
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

// New returns a provider resolving patterns relative to dir.
func New(dir string, opts ...Option) *Provider {
	if dir == "" {
		dir = "."
	}
	p := &Provider{dir: dir}
	for _, opt := range opts {
		opt(p)
	}
	if p.filter == nil {
		p.filter = source.NewFilter(dir)
	}
	if p.logger == nil {
		p.logger = log.New(os.Stderr)
		p.logger.SetLevel(log.WarnLevel)
	}
	return p
}

// Dialect implements source.Provider.
func (p *Provider) Dialect() source.Dialect { return Dialect }

// Load resolves pattern (a relative directory, an import path, or the
// suffix of a standard library path such as "http") and returns the
// package tree rooted at it.
func (p *Provider) Load(ctx context.Context, pattern string) (source.Module, error) {
	pkgs, err := p.loadPackageTree(ctx, pattern)
	if err != nil || len(pkgs) == 0 {
		if match := matchStdSuffix(pattern); match != "" && match != pattern {
			p.logger.Debug("resolved standard library package", "pattern", pattern, "path", match)
			pattern = match
			pkgs, err = p.loadPackageTree(ctx, match)
		}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %v", source.ErrModuleNotFound, pattern, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: no Go packages matched %q", source.ErrModuleNotFound, pattern)
	}
	return p.buildTree(pattern, pkgs)
}

const loadMode = packages.NeedName | packages.NeedCompiledGoFiles | packages.NeedFiles |
	packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo |
	packages.NeedTypesSizes | packages.NeedModule | packages.NeedImports

func (p *Provider) loadPackageTree(ctx context.Context, root string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     p.dir,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, buildPatterns(root)...)
	if err != nil {
		return nil, err
	}
	unique := make(map[string]*packages.Package)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("%s", pkg.Errors[0])
		}
		key := pkg.PkgPath
		if key == "" {
			key = packageDir(pkg)
		}
		unique[key] = pkg
	}
	result := make([]*packages.Package, 0, len(unique))
	for _, pkg := range unique {
		result = append(result, pkg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PkgPath < result[j].PkgPath
	})
	return result, nil
}

func buildPatterns(root string) []string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	root = filepath.ToSlash(root)
	patterns := []string{root}
	if !strings.Contains(root, "...") {
		recursive := root
		if recursive == "." {
			recursive = "./..."
		} else if strings.HasSuffix(recursive, "/") {
			recursive = recursive + "..."
		} else {
			recursive = recursive + "/..."
		}
		patterns = append(patterns, recursive)
	}
	return patterns
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	if len(pkg.CompiledGoFiles) > 0 {
		return filepath.Dir(pkg.CompiledGoFiles[0])
	}
	return ""
}

// resolveBaseDir returns the absolute directory of a local pattern, or ""
// for import paths.
func (p *Provider) resolveBaseDir(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	root = strings.TrimSuffix(root, "/...")
	root = strings.TrimSuffix(root, "\\...")
	if !filepath.IsAbs(root) {
		root = filepath.Join(p.dir, root)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return ""
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	return base
}

// commonDir returns the deepest directory containing every dir.
func commonDir(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	common := dirs[0]
	for _, d := range dirs[1:] {
		for common != "" && d != common && !strings.HasPrefix(d, common+string(filepath.Separator)) {
			parent := filepath.Dir(common)
			if parent == common {
				return common
			}
			common = parent
		}
	}
	return common
}

var (
	stdOnce     sync.Once
	stdPackages []string
	stdErr      error
)

func loadStdPackages() {
	cfg := &packages.Config{
		Mode: packages.NeedName,
	}
	pkgs, err := packages.Load(cfg, "std")
	if err != nil {
		stdErr = err
		return
	}
	for _, pkg := range pkgs {
		stdPackages = append(stdPackages, pkg.PkgPath)
	}
	sort.Strings(stdPackages)
}

func matchStdSuffix(arg string) string {
	if arg == "" || strings.HasPrefix(arg, ".") || filepath.IsAbs(arg) {
		return ""
	}
	stdOnce.Do(loadStdPackages)
	if stdErr != nil {
		return ""
	}
	var best string
	for _, p := range stdPackages {
		if p == arg || strings.HasSuffix(p, "/"+arg) {
			if best == "" || len(p) < len(best) || (len(p) == len(best) && p < best) {
				best = p
			}
		}
	}
	return best
}

// tree is shared by every module of one Load call.
type tree struct {
	provider *Provider
	// names maps import paths to qualified module names.
	names map[string]string
}

// typeName returns the dotted name used to list a named type.
func (t *tree) typeName(pkgPath, pkgName, name string) string {
	if pkgPath == "" {
		return name
	}
	if mod, ok := t.names[pkgPath]; ok {
		return mod + "." + name
	}
	return pkgName + "." + name
}

type dirNode struct {
	rel      string
	pkg      *packages.Package
	children map[string]*dirNode
}

func (p *Provider) buildTree(pattern string, pkgs []*packages.Package) (source.Module, error) {
	dirs := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		if d := packageDir(pkg); d != "" {
			dirs = append(dirs, d)
		}
	}
	baseDir := p.resolveBaseDir(pattern)
	if baseDir == "" {
		baseDir = commonDir(dirs)
	}
	if baseDir == "" {
		return nil, fmt.Errorf("%w: cannot determine directory of %q", source.ErrModuleNotFound, pattern)
	}

	root := &dirNode{rel: ".", children: map[string]*dirNode{}}
	for _, pkg := range pkgs {
		dir := packageDir(pkg)
		rel, err := filepath.Rel(baseDir, dir)
		if dir == "" || err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && p.skipped(baseDir, rel) {
			p.logger.Debug("skipping ignored package", "path", pkg.PkgPath)
			continue
		}
		n := root
		if rel != "." {
			for _, seg := range strings.Split(rel, "/") {
				child, ok := n.children[seg]
				if !ok {
					child = &dirNode{rel: path.Join(n.rel, seg), children: map[string]*dirNode{}}
					n.children[seg] = child
				}
				n = child
			}
		}
		n.pkg = pkg
	}

	rootName := filepath.Base(baseDir)
	if root.pkg != nil && root.pkg.PkgPath != "" {
		rootName = path.Base(root.pkg.PkgPath)
	}
	rootName = sanitize(rootName)

	t := &tree{provider: p, names: make(map[string]string)}
	var collect func(n *dirNode)
	collect = func(n *dirNode) {
		if n.pkg != nil {
			t.names[n.pkg.PkgPath] = qualify(rootName, n.rel)
		}
		for _, c := range n.children {
			collect(c)
		}
	}
	collect(root)

	m, err := newModule(t, root, rootName, baseDir)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// skipped reports whether any directory on the way to rel is filtered out.
func (p *Provider) skipped(baseDir, rel string) bool {
	cur := baseDir
	for _, seg := range strings.Split(rel, "/") {
		cur = filepath.Join(cur, seg)
		if p.filter.Skip(cur) {
			return true
		}
	}
	return false
}

func qualify(rootName, rel string) string {
	if rel == "." || rel == "" {
		return rootName
	}
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		segs[i] = sanitize(s)
	}
	return rootName + "." + strings.Join(segs, ".")
}

// sanitize keeps dots out of name segments.
func sanitize(seg string) string {
	return strings.ReplaceAll(seg, ".", "_")
}
