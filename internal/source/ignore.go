package source

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// skipDirs are never treated as modules.
var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	"testdata":      {},
	"vendor":        {},
	"venv":          {},
	".venv":         {},
	"build":         {},
	"dist":          {},
	".tox":          {},
	".mypy_cache":   {},
	".pytest_cache": {},
}

// Filter decides which paths below a source root are enumerated as
// submodules. The zero value only skips well-known tool directories.
type Filter struct {
	root string
	gi   *ignore.GitIgnore
}

// NewFilter loads root/.gitignore when present.
func NewFilter(root string) *Filter {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}
	f := &Filter{root: abs}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(abs, ".gitignore")); err == nil {
		f.gi = gi
	}
	return f
}

// NewFilterLines compiles gitignore lines relative to root.
func NewFilterLines(root string, lines ...string) *Filter {
	f := NewFilter(root)
	f.gi = ignore.CompileIgnoreLines(lines...)
	return f
}

// Skip reports whether the file or directory at p is excluded.
func (f *Filter) Skip(p string) bool {
	name := filepath.Base(p)
	if strings.HasPrefix(name, ".") {
		return true
	}
	if _, ok := skipDirs[name]; ok {
		return true
	}
	if f == nil || f.gi == nil {
		return false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(f.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if f.gi.MatchesPath(rel) {
		return true
	}
	info, err := os.Stat(abs)
	return err == nil && info.IsDir() && f.gi.MatchesPath(rel+"/")
}
