// Package config loads doctree settings with Viper.
//
// Values come, in decreasing priority, from command line flags that were
// set explicitly, DOCTREE_* environment variables, a YAML config file and
// DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = ".doctree.yaml"
	// EnvPrefix prefixes environment variables, e.g. DOCTREE_OUT_DIR.
	EnvPrefix = "DOCTREE"
)

// Lang selects the source provider.
type Lang string

const (
	// LangAuto picks Python when the module resolves to Python files.
	LangAuto   Lang = "auto"
	LangGo     Lang = "go"
	LangPython Lang = "python"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the merged configuration of one run.
	Config struct {
		Module  string `mapstructure:"module"`
		OutDir  string `mapstructure:"out_dir"`
		Name    string `mapstructure:"name"`
		Lang    Lang   `mapstructure:"lang"`
		SrcRoot string `mapstructure:"src_root"`
		Header  bool   `mapstructure:"header"`
		Anchors bool   `mapstructure:"anchors"`
		Clean   bool   `mapstructure:"clean"`

		Watch WatchConfig `mapstructure:"watch"`
		Log   LogConfig   `mapstructure:"log"`
	}

	// WatchConfig controls regeneration on source changes.
	WatchConfig struct {
		Enabled  bool          `mapstructure:"enabled"`
		Debounce time.Duration `mapstructure:"debounce"`
		// Ignore holds doublestar patterns relative to the source root.
		Ignore []string `mapstructure:"ignore"`
	}

	// LogConfig controls diagnostics.
	LogConfig struct {
		Level string `mapstructure:"level"`
	}

	// LoadOptions locate the config sources.
	LoadOptions struct {
		// File is an explicit config file. It must exist.
		File string
		// Dir is searched for FileName when File is empty. Empty means the
		// working directory.
		Dir string
		// Flags are bound by name; see flagKeys.
		Flags *pflag.FlagSet
	}
)

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"name":      "name",
	"lang":      "lang",
	"src-root":  "src_root",
	"header":    "header",
	"anchors":   "anchors",
	"clean":     "clean",
	"watch":     "watch.enabled",
	"debounce":  "watch.debounce",
	"log-level": "log.level",
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() *Config {
	return &Config{
		Lang:    LangAuto,
		SrcRoot: ".",
		Anchors: true,
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load merges all sources and returns the configuration together with the
// config file that was read, if any. The result is not validated.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("module", d.Module)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("name", d.Name)
	v.SetDefault("lang", string(d.Lang))
	v.SetDefault("src_root", d.SrcRoot)
	v.SetDefault("header", d.Header)
	v.SetDefault("anchors", d.Anchors)
	v.SetDefault("clean", d.Clean)
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.ignore", d.Watch.Ignore)
	v.SetDefault("log.level", d.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.File
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, "", fmt.Errorf("config file %s: %w", path, err)
		}
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		if candidate := filepath.Join(dir, FileName); fileExists(candidate) {
			path = candidate
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, "", fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("parse config: %w", err)
	}
	return &cfg, path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate reports the first setting that prevents a run.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Module) == "":
		return fmt.Errorf("%w: no module given", ErrInvalidConfig)
	case strings.TrimSpace(c.OutDir) == "":
		return fmt.Errorf("%w: no output directory given", ErrInvalidConfig)
	case strings.ContainsAny(c.Name, `/\`):
		return fmt.Errorf("%w: name %q must not contain a path separator", ErrInvalidConfig, c.Name)
	case c.Watch.Debounce < 0:
		return fmt.Errorf("%w: negative watch debounce %s", ErrInvalidConfig, c.Watch.Debounce)
	}
	switch c.Lang {
	case LangAuto, LangGo, LangPython:
	default:
		return fmt.Errorf("%w: unknown lang %q (want auto, go or python)", ErrInvalidConfig, c.Lang)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the configured level, falling back to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
