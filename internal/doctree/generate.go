package doctree

import (
	"context"
	"fmt"
	"path"

	"github.com/agentflare-ai/doctree/internal/sink"
	"github.com/agentflare-ai/doctree/internal/source"
)

// Generate loads name from p, builds its document tree and writes it to s.
// Documents are placed at the root of s.
func Generate(ctx context.Context, p source.Provider, name string, s sink.Sink, opts Options) (*Module, error) {
	src, err := p.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if opts.Dialect.Name == "" {
		opts.Dialect = p.Dialect()
	}
	if opts.Clean {
		if err := Clean(s, src.Name(), opts); err != nil {
			return nil, err
		}
	}

	root := NewModule(src, ".", NewRegistry(), opts)
	if err := root.Discover(); err != nil {
		return nil, err
	}
	if err := root.Write(ctx, s); err != nil {
		return nil, err
	}
	opts.logger().Info("generated documents", "module", name, "names", root.reg.Len())
	return root, nil
}

// Clean removes the output a previous run produced for the root module
// name: its directory and its leaf documents.
func Clean(s sink.Sink, name string, opts Options) error {
	base := opts.OutName
	if base == "" {
		base = shortName(name)
	}
	for _, f := range []string{base + ".md", base + opts.Dialect.IndexSuffix + ".md"} {
		if err := s.DeleteFile(f); err != nil {
			return err
		}
	}
	if s.Exists(path.Join(base, indexName+".md")) {
		if err := s.DeleteDir(base); err != nil {
			return err
		}
	}
	opts.logger().Debug("cleaned previous output", "module", name, "base", base)
	return nil
}
