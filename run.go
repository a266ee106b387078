package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/agentflare-ai/doctree/internal/config"
	"github.com/agentflare-ai/doctree/internal/doctree"
	"github.com/agentflare-ai/doctree/internal/sink"
	"github.com/agentflare-ai/doctree/internal/source"
	"github.com/agentflare-ai/doctree/internal/source/golang"
	"github.com/agentflare-ai/doctree/internal/source/python"
	"github.com/agentflare-ai/doctree/internal/watch"
)

type cliApp struct {
	stdout     io.Writer
	configFile string
	verbose    bool
}

func run(ctx context.Context, argv []string, stdout io.Writer) error {
	cmd := newRootCmd(stdout)
	args := normalizeLegacyArgs(argv)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (app *cliApp) execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, cfgFile, err := config.Load(config.LoadOptions{File: app.configFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Module = args[0]
	}
	if len(args) > 1 {
		cfg.OutDir = args[1]
	}
	if app.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "doctree",
		Level:  cfg.LogLevel(),
	})
	if cfgFile != "" {
		logger.Debug("loaded config", "file", cfgFile)
	}

	lang := detectLang(cfg)
	p := newProvider(lang, cfg.SrcRoot, logger)
	out := sink.NewOS(cfg.OutDir)
	opts := doctree.Options{
		OutName: cfg.Name,
		Header:  cfg.Header,
		Anchors: cfg.Anchors,
		Clean:   cfg.Clean,
		Logger:  logger,
	}
	logger.Debug("generating", "module", cfg.Module, "lang", lang, "out", cfg.OutDir)

	root, err := doctree.Generate(ctx, p, cfg.Module, out, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "wrote %s\n", filepath.Join(cfg.OutDir, filepath.FromSlash(root.File())))
	if !cfg.Watch.Enabled {
		return nil
	}

	// Reruns keep existing documents so digests can skip unchanged ones.
	opts.Clean = false
	w, err := watch.New(watch.Config{
		BaseDir:  cfg.SrcRoot,
		Patterns: p.Dialect().SourcePatterns,
		Ignore:   watchIgnores(cfg),
		Debounce: cfg.Watch.Debounce,
		Logger:   logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Debug("changed files", "paths", changed)
			_, err := doctree.Generate(ctx, p, cfg.Module, out, opts)
			return err
		},
	})
	if err != nil {
		return err
	}
	logger.Info("watching for changes", "dir", w.BaseDir())
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// detectLang resolves LangAuto: a module that maps to a Python package or
// file below the source root is Python, anything else is a Go pattern.
func detectLang(cfg *config.Config) config.Lang {
	if cfg.Lang != config.LangAuto {
		return cfg.Lang
	}
	if _, _, err := python.New(cfg.SrcRoot).Locate(cfg.Module); err == nil {
		return config.LangPython
	}
	return config.LangGo
}

func newProvider(lang config.Lang, srcRoot string, logger *log.Logger) source.Provider {
	if lang == config.LangPython {
		return python.New(srcRoot, python.WithLogger(logger))
	}
	return golang.New(srcRoot, golang.WithLogger(logger))
}

// watchIgnores adds the output directory to the configured ignores when it
// lies inside the source root.
func watchIgnores(cfg *config.Config) []string {
	ignores := append([]string(nil), cfg.Watch.Ignore...)
	src, err := filepath.Abs(cfg.SrcRoot)
	if err != nil {
		return ignores
	}
	out, err := filepath.Abs(cfg.OutDir)
	if err != nil {
		return ignores
	}
	rel, err := filepath.Rel(src, out)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ignores
	}
	return append(ignores, filepath.ToSlash(rel)+"/**")
}

var legacyLongFlagSet = map[string]struct{}{
	"name":      {},
	"lang":      {},
	"src-root":  {},
	"header":    {},
	"anchors":   {},
	"clean":     {},
	"watch":     {},
	"debounce":  {},
	"log-level": {},
	"config":    {},
	"verbose":   {},
}

// normalizeLegacyArgs rewrites single-dash long flags (-header) to the
// double-dash form cobra expects.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	modified := false
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || len(arg) == 2 {
			converted = append(converted, arg)
			continue
		}
		name, value, hasValue := strings.Cut(arg[1:], "=")
		if _, ok := legacyLongFlagSet[name]; ok {
			if hasValue {
				converted = append(converted, "--"+name+"="+value)
			} else {
				converted = append(converted, "--"+name)
			}
			modified = true
			continue
		}
		converted = append(converted, arg)
	}
	if !modified {
		return args
	}
	return converted
}
