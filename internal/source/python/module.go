package python

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentflare-ai/doctree/internal/source"
)

type module struct {
	loader *loader
	name   string
	path   string
	pkg    bool
	src    []byte
	file   *file
}

func (m *module) Name() string     { return m.name }
func (m *module) Doc() string      { return m.file.doc }
func (m *module) Location() string { return m.path }
func (m *module) IsPackage() bool  { return m.pkg }

func (m *module) Exists() bool { return isFile(m.path) }

// Source returns the text the module was parsed from.
func (m *module) Source() ([]byte, error) {
	return m.src, nil
}

// Submodules lists the importable modules and packages next to the
// package's __init__.py, in name order.
func (m *module) Submodules() ([]source.Module, error) {
	if !m.pkg {
		return nil, nil
	}
	dir := filepath.Dir(m.path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if m.loader.p.filter.Skip(full) {
			continue
		}
		short := e.Name()
		if e.IsDir() {
			if !isFile(filepath.Join(full, initFile)) {
				continue
			}
		} else {
			if filepath.Ext(short) != ".py" || short == initFile {
				continue
			}
			short = strings.TrimSuffix(short, ".py")
		}
		if identifier.MatchString(short) {
			names = append(names, short)
		}
	}
	sort.Strings(names)

	var out []source.Module
	for _, short := range names {
		sub, err := m.loader.load(m.name + "." + short)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *module) Classes() []source.Class {
	out := make([]source.Class, 0, len(m.file.classes))
	for _, c := range m.file.classes {
		out = append(out, &class{m: m, def: c})
	}
	return out
}

func (m *module) Functions() []source.Function {
	out := make([]source.Function, 0, len(m.file.funcs))
	for _, f := range m.file.funcs {
		out = append(out, function{def: f})
	}
	return out
}

func (m *module) Values() []source.Value {
	out := make([]source.Value, 0, len(m.file.values))
	for _, v := range m.file.values {
		out = append(out, v)
	}
	return out
}

// packageName is the package relative imports in this module start from.
func (m *module) packageName() string {
	if m.pkg {
		return m.name
	}
	if i := strings.LastIndex(m.name, "."); i >= 0 {
		return m.name[:i]
	}
	return ""
}

// absolute resolves the module named by an import in m.
func (m *module) absolute(ref importRef) string {
	if ref.level == 0 {
		return ref.module
	}
	base := m.packageName()
	for i := 1; i < ref.level && base != ""; i++ {
		if j := strings.LastIndex(base, "."); j >= 0 {
			base = base[:j]
		} else {
			base = ""
		}
	}
	switch {
	case base == "":
		return ref.module
	case ref.module == "":
		return base
	default:
		return base + "." + ref.module
	}
}

func (v valueDef) Name() string { return v.name }
func (v valueDef) Type() string { return v.typ }
func (v valueDef) Doc() string  { return v.doc }

type function struct {
	def *funcDef
}

func (f function) Name() string { return f.def.name }
func (f function) Doc() string  { return f.def.doc }

// Signature is the def line without decorators or the trailing colon.
func (f function) Signature() (string, error) {
	if f.def.header == "" {
		return "", source.ErrNoSource
	}
	return reindent(f.def.header), nil
}
