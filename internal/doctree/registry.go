package doctree

import (
	"sort"
	"strings"

	"github.com/agentflare-ai/doctree/internal/linkpath"
)

// indexName is the document name of package-like modules.
const indexName = "index"

// Registry maps fully qualified names to logical paths. One registry is
// shared by every node of a generation run; it is filled during discovery
// and read while rendering.
type Registry struct {
	paths    map[string]string
	packages map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		paths:    make(map[string]string),
		packages: make(map[string]struct{}),
	}
}

// Register records the logical path of a qualified name. Registering a name
// again replaces its path.
func (r *Registry) Register(name, logicalPath string) {
	r.paths[name] = logicalPath
}

// markPackage records that logicalPath is a package-like module, whose
// document is its index file.
func (r *Registry) markPackage(logicalPath string) {
	r.packages[logicalPath] = struct{}{}
}

// Lookup returns the logical path registered for name.
func (r *Registry) Lookup(name string) (string, bool) {
	p, ok := r.paths[name]
	return p, ok
}

// Len reports the number of registered names.
func (r *Registry) Len() int {
	return len(r.paths)
}

// Names returns the registered names, longest first.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.paths))
	for n := range r.paths {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// forget removes name and every name nested below it.
func (r *Registry) forget(name, logicalPath string) {
	for n := range r.paths {
		if n == name || strings.HasPrefix(n, name+".") {
			delete(r.paths, n)
		}
	}
	for p := range r.packages {
		if p == logicalPath || strings.HasPrefix(p, logicalPath+"/") {
			delete(r.packages, p)
		}
	}
}

// DocumentPath converts a logical path without anchor into the logical path
// of the document that holds it.
func (r *Registry) DocumentPath(logicalPath string) string {
	if _, ok := r.packages[logicalPath]; ok {
		return strings.TrimSuffix(logicalPath, "/") + "/" + indexName
	}
	return logicalPath
}

// Link resolves name into the visible text and the link target as seen from
// the document fromDoc. An empty target means the name lives on fromDoc and
// has no anchor.
func (r *Registry) Link(fromDoc, name string) (text, target string, ok bool) {
	p, ok := r.paths[name]
	if !ok {
		return "", "", false
	}
	base, anchor := linkpath.SplitAnchor(p)
	rel := linkpath.Relative(fromDoc, r.DocumentPath(base))
	if rel != "" {
		rel += ".md"
	}
	text = name[strings.LastIndex(name, ".")+1:]
	if anchor != "" {
		text = anchor
		rel += "#" + anchor
	}
	return text, rel, true
}

// Resolve replaces every back-tick quoted registered name in text with a
// link relative to fromDoc. The visible text keeps a trailing space so a
// replaced name is never matched again.
func (r *Registry) Resolve(fromDoc, text string) string {
	if !strings.Contains(text, "`") {
		return text
	}
	for _, name := range r.Names() {
		quoted := "`" + name + "`"
		if !strings.Contains(text, quoted) {
			continue
		}
		short, target, _ := r.Link(fromDoc, name)
		replacement := "`" + short + " `"
		if target != "" {
			replacement = "[" + replacement + "](" + target + ")"
		}
		text = strings.ReplaceAll(text, quoted, replacement)
	}
	return text
}
