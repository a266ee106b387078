// Package sink persists generated documents.
//
// The default implementation stores files through a go-billy filesystem,
// which lets the same code write to disk (osfs) or to memory (memfs).
package sink

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Sink is the file store documents are written to. Paths are slash
// separated and relative to the sink root.
type Sink interface {
	EnsureDir(dir string) error
	WriteFile(name string, data []byte) error
	ReadFile(name string) ([]byte, error)
	// ListFiles returns the names of the regular files directly in dir.
	ListFiles(dir string) ([]string, error)
	// ListDirs returns the names of the directories directly in dir.
	ListDirs(dir string) ([]string, error)
	Exists(name string) bool
	DeleteFile(name string) error
	DeleteDir(dir string) error
}

// Billy is a Sink backed by a go-billy filesystem.
type Billy struct {
	fs billy.Filesystem
}

// NewBilly wraps fs.
func NewBilly(fs billy.Filesystem) *Billy {
	return &Billy{fs: fs}
}

// NewOS returns a sink rooted at dir on the local disk.
func NewOS(dir string) *Billy {
	return NewBilly(osfs.New(dir))
}

// NewMemory returns an in-memory sink.
func NewMemory() *Billy {
	return NewBilly(memfs.New())
}

// Filesystem exposes the underlying filesystem.
func (b *Billy) Filesystem() billy.Filesystem {
	return b.fs
}

func clean(name string) string {
	name = path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	if name == "/" {
		return "."
	}
	return strings.TrimPrefix(name, "/")
}

func (b *Billy) EnsureDir(dir string) error {
	if err := b.fs.MkdirAll(clean(dir), 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

func (b *Billy) WriteFile(name string, data []byte) error {
	name = clean(name)
	if err := b.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", name, err)
	}
	if err := util.WriteFile(b.fs, name, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (b *Billy) ReadFile(name string) ([]byte, error) {
	data, err := util.ReadFile(b.fs, clean(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (b *Billy) ListFiles(dir string) ([]string, error) {
	return b.list(dir, false)
}

func (b *Billy) ListDirs(dir string) ([]string, error) {
	return b.list(dir, true)
}

func (b *Billy) list(dir string, dirs bool) ([]string, error) {
	infos, err := b.fs.ReadDir(clean(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() == dirs {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (b *Billy) Exists(name string) bool {
	_, err := b.fs.Stat(clean(name))
	return err == nil
}

func (b *Billy) DeleteFile(name string) error {
	if err := b.fs.Remove(clean(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (b *Billy) DeleteDir(dir string) error {
	if err := util.RemoveAll(b.fs, clean(dir)); err != nil {
		return fmt.Errorf("delete directory %s: %w", dir, err)
	}
	return nil
}

// Op is one recorded mutation of a Counting sink.
type Op struct {
	Kind string
	Path string
}

// Counting wraps a Sink and records every mutating call.
type Counting struct {
	Sink
	mu  sync.Mutex
	ops []Op
}

// NewCounting wraps s.
func NewCounting(s Sink) *Counting {
	return &Counting{Sink: s}
}

func (c *Counting) record(kind, name string) {
	c.mu.Lock()
	c.ops = append(c.ops, Op{Kind: kind, Path: clean(name)})
	c.mu.Unlock()
}

func (c *Counting) WriteFile(name string, data []byte) error {
	c.record("write", name)
	return c.Sink.WriteFile(name, data)
}

func (c *Counting) DeleteFile(name string) error {
	c.record("delete", name)
	return c.Sink.DeleteFile(name)
}

func (c *Counting) DeleteDir(dir string) error {
	c.record("rmdir", dir)
	return c.Sink.DeleteDir(dir)
}

// Ops returns the recorded mutations in call order.
func (c *Counting) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Op(nil), c.ops...)
}

// Writes returns the paths written so far.
func (c *Counting) Writes() []string {
	var out []string
	for _, op := range c.Ops() {
		if op.Kind == "write" {
			out = append(out, op.Path)
		}
	}
	return out
}

// Reset forgets recorded mutations.
func (c *Counting) Reset() {
	c.mu.Lock()
	c.ops = nil
	c.mu.Unlock()
}
