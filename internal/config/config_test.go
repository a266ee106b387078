package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("doctree", pflag.ContinueOnError)
	fs.String("name", "", "")
	fs.String("lang", string(LangAuto), "")
	fs.Bool("header", false, "")
	fs.Bool("anchors", true, "")
	fs.Bool("watch", false, "")
	fs.Duration("debounce", 300*time.Millisecond, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, path, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, `
module: pkg
out_dir: docs
lang: python
header: true
anchors: false
watch:
  enabled: true
  debounce: 1s
  ignore:
    - "docs/**"
log:
  level: debug
`)

	cfg, path, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, "pkg", cfg.Module)
	assert.Equal(t, "docs", cfg.OutDir)
	assert.Equal(t, LangPython, cfg.Lang)
	assert.True(t, cfg.Header)
	assert.False(t, cfg.Anchors)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, []string{"docs/**"}, cfg.Watch.Ignore)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, ".", cfg.SrcRoot, "unset keys keep their defaults")
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: api\n"), 0o644))

	cfg, got, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "api", cfg.Name)

	_, _, err = Load(LoadOptions{File: filepath.Join(dir, "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "module: [unclosed\n")
	_, _, err := Load(LoadOptions{Dir: dir})
	assert.ErrorContains(t, err, "read config")
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "lang: go\nwatch:\n  debounce: 1s\n")
	t.Setenv("DOCTREE_LANG", "python")
	t.Setenv("DOCTREE_WATCH_DEBOUNCE", "2s")

	cfg, _, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, LangPython, cfg.Lang)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestChangedFlagsWin(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "name: fromfile\nheader: true\nlang: go\n")
	t.Setenv("DOCTREE_NAME", "fromenv")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--name", "fromflag", "--debounce", "50ms"}))

	cfg, _, err := Load(LoadOptions{Dir: dir, Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, "fromflag", cfg.Name)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
	assert.True(t, cfg.Header, "unchanged flags do not override the file")
	assert.Equal(t, LangGo, cfg.Lang)
	assert.True(t, cfg.Anchors)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := DefaultConfig()
		c.Module = "pkg"
		c.OutDir = "docs"
		return c
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"no module", func(c *Config) { c.Module = " " }, "no module"},
		{"no out dir", func(c *Config) { c.OutDir = "" }, "no output directory"},
		{"name with slash", func(c *Config) { c.Name = "a/b" }, "path separator"},
		{"bad lang", func(c *Config) { c.Lang = "rust" }, "unknown lang"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "negative watch debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestLogLevelFallback(t *testing.T) {
	c := DefaultConfig()
	c.Log.Level = "nope"
	assert.Equal(t, log.InfoLevel, c.LogLevel())
}
