package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/agentflare-ai/doctree/internal/config"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := run(context.Background(), args, &buf); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return buf.String()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// copyTree copies a testdata tree into a temporary directory so tests can
// modify it.
func copyTree(t *testing.T, src string) string {
	t.Helper()
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		t.Fatalf("copy %s: %v", src, err)
	}
	return dst
}

func TestGoPackageTree(t *testing.T) {
	tmp := t.TempDir()
	out := runCLI(t, "--lang", "go", "./testdata/example", tmp)
	assertContains(t, out, filepath.Join(tmp, "example", "index.md"))

	root := readFile(t, filepath.Join(tmp, "example", "index.md"))
	assertContains(t, root, "# Package example")
	assertContains(t, root, "Start with [`Greeter `](#Greeter).")
	assertContains(t, root, "[`Message `](subpkg.md#Message)")
	assertContains(t, root, "## Submodules")
	assertContains(t, root, "- [example.subpkg](subpkg.md)")
	assertContains(t, root, "### Greeter {: #Greeter }")
	assertContains(t, root, "```go\nfunc (g *Greeter) Greet() string\n```")
	assertTOCAfterDoc(t, root, "# Package example", "## Submodules")

	sub := readFile(t, filepath.Join(tmp, "example", "subpkg.md"))
	assertContains(t, sub, "# Package example.subpkg")
	assertContains(t, sub, "[`Greeter `](index.md#Greeter)")
	assertContains(t, sub, "Message exposes a sample constant")
}

func TestPythonPackageTree(t *testing.T) {
	tmp := t.TempDir()
	runCLI(t, "-src-root", "testdata/python", "-header", "greet", tmp)

	root := readFile(t, filepath.Join(tmp, "greet", "index.md"))
	if !strings.HasPrefix(root, "---\n") {
		t.Fatalf("expected a front-matter header\n\n%s", root)
	}
	assertContains(t, root, "# Module greet")
	assertContains(t, root, "Start with [`Greeter `](core.md#Greeter).")
	assertContains(t, root, "- [greet.core](core.md): Core greeting classes.")
	assertContains(t, root, "- [greet.util](util/index.md): Utilities.")

	core := readFile(t, filepath.Join(tmp, "greet", "core.md"))
	assertContains(t, core, "```python\nclass Greeter(self, name: str = DEFAULT)\n```")
	assertContains(t, core, "[`Greeter.greet `](#Greeter.greet)")
	assertContains(t, core, "[`DEFAULT `](index.md#DEFAULT)")

	if _, err := os.Stat(filepath.Join(tmp, "greet", "util", "index-py.md")); err != nil {
		t.Fatalf("expected the colliding leaf under a suffixed name: %v", err)
	}
}

func TestNameOverride(t *testing.T) {
	tmp := t.TempDir()
	runCLI(t, "-n", "api", "--src-root", "testdata/python", "greet", tmp)
	assertContains(t, readFile(t, filepath.Join(tmp, "api", "index.md")), "# Module greet")
	if _, err := os.Stat(filepath.Join(tmp, "greet")); !os.IsNotExist(err) {
		t.Fatalf("expected no greet directory, got %v", err)
	}
}

func TestCleanRemovesPreviousOutput(t *testing.T) {
	tmp := t.TempDir()
	stale := filepath.Join(tmp, "greet", "removed.md")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "greet", "index.md"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	runCLI(t, "-clean", "--src-root", "testdata/python", "greet", tmp)
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed, got %v", stale, err)
	}
	assertContains(t, readFile(t, filepath.Join(tmp, "greet", "index.md")), "# Module greet")
}

func TestConfigFile(t *testing.T) {
	tmp := t.TempDir()
	src, err := filepath.Abs("testdata/python")
	if err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(tmp, "doctree.yaml")
	content := "module: greet\nout_dir: " + filepath.Join(tmp, "docs") + "\nsrc_root: " + src + "\nanchors: false\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	runCLI(t, "--config", cfgPath)
	core := readFile(t, filepath.Join(tmp, "docs", "greet", "core.md"))
	assertContains(t, core, "### Greeter\n")
	if strings.Contains(core, "{: #") {
		t.Fatalf("expected no anchors\n\n%s", core)
	}
}

func TestInvalidInvocations(t *testing.T) {
	tmp := t.TempDir()
	tests := []struct {
		args []string
		want string
	}{
		{nil, "no module given"},
		{[]string{"greet"}, "no output directory given"},
		{[]string{"--lang", "rust", "greet", tmp}, "unknown lang"},
		{[]string{"--lang", "python", "--src-root", "testdata/python", "missing", tmp}, "module not found"},
		{[]string{"a", "b", "c"}, "accepts at most 2 arg"},
	}
	for _, tt := range tests {
		err := run(context.Background(), tt.args, io.Discard)
		if err == nil {
			t.Fatalf("run %v: expected error", tt.args)
		}
		assertContains(t, err.Error(), tt.want)
	}
}

func TestVerifyCommand(t *testing.T) {
	tmp := t.TempDir()
	runCLI(t, "--src-root", "testdata/python", "greet", tmp)
	assertContains(t, runCLI(t, "verify", tmp), "all links resolve")

	broken := filepath.Join(tmp, "greet", "extra.md")
	if err := os.WriteFile(broken, []byte("[`gone `](gone.md#x)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err := run(context.Background(), []string{"verify", tmp}, &buf)
	if err == nil {
		t.Fatalf("expected verify to fail")
	}
	assertContains(t, err.Error(), "1 broken links")
	assertContains(t, buf.String(), "greet/extra.md: gone.md#x (missing page)")
}

func TestWatchRegenerates(t *testing.T) {
	src := copyTree(t, "testdata/python")
	out := filepath.Join(src, "docs")
	core := filepath.Join(out, "greet", "core.md")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"-w", "--debounce", "50ms", "--src-root", src, "greet", out}, io.Discard)
	}()

	waitFor(t, func() bool {
		data, err := os.ReadFile(core)
		return err == nil && strings.Contains(string(data), "def shout")
	})
	// Let the watcher register its directories.
	time.Sleep(200 * time.Millisecond)

	module := filepath.Join(src, "greet", "core.py")
	data, err := os.ReadFile(module)
	if err != nil {
		t.Fatal(err)
	}
	updated := string(data) + "\n\ndef whisper(text: str) -> str:\n    \"\"\"Lower-case text.\"\"\"\n"
	if err := os.WriteFile(module, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		data, err := os.ReadFile(core)
		return err == nil && strings.Contains(string(data), "def whisper")
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		in, want []string
	}{
		{[]string{"-header", "-anchors=false", "pkg", "out"}, []string{"--header", "--anchors=false", "pkg", "out"}},
		{[]string{"-n", "api", "-w", "pkg"}, []string{"-n", "api", "-w", "pkg"}},
		{[]string{"-src-root", "src", "--", "-header"}, []string{"--src-root", "src", "--", "-header"}},
		{[]string{"-unknown"}, []string{"-unknown"}},
	}
	for _, tt := range tests {
		if got := normalizeLegacyArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("normalizeLegacyArgs(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWatchIgnores(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SrcRoot = "src"
	cfg.Watch.Ignore = []string{"tmp/**"}

	cfg.OutDir = filepath.Join("src", "docs", "api")
	if got, want := watchIgnores(cfg), []string{"tmp/**", "docs/api/**"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	cfg.OutDir = "site"
	if got, want := watchIgnores(cfg), []string{"tmp/**"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDetectLang(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SrcRoot = "testdata/python"
	cfg.Module = "greet.core"
	if got := detectLang(cfg); got != config.LangPython {
		t.Fatalf("got %s, want python", got)
	}
	cfg.Module = "./testdata/example"
	if got := detectLang(cfg); got != config.LangGo {
		t.Fatalf("got %s, want go", got)
	}
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n\n%s", needle, haystack)
	}
}

func assertTOCAfterDoc(t *testing.T, text, docHeading, tocHeading string) {
	t.Helper()
	docIdx := strings.Index(text, docHeading)
	tocIdx := strings.Index(text, tocHeading)
	if docIdx == -1 || tocIdx == -1 {
		t.Fatalf("missing doc heading %q or toc heading %q", docHeading, tocHeading)
	}
	if tocIdx <= docIdx {
		t.Fatalf("expected %q to appear after %q\n\n%s", tocHeading, docHeading, text)
	}
}

func TestHelpFlag(t *testing.T) {
	out := runCLI(t, "--help")
	assertContains(t, out, "doctree [flags] <module> <out-dir>")
	assertContains(t, out, "--src-root")
	assertContains(t, out, "completion  Generate shell completion scripts")
}

func TestCompletionCommand(t *testing.T) {
	out := runCLI(t, "completion", "bash")
	if out == "" {
		t.Fatalf("expected completion output")
	}
	assertContains(t, out, "__start_doctree")
}

func TestGenDocsCommand(t *testing.T) {
	tmp := t.TempDir()
	if err := run(context.Background(), []string{"gen-docs", tmp}, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	files, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	var foundRoot, foundVerify bool
	for _, f := range files {
		switch f.Name() {
		case "doctree.md":
			foundRoot = true
		case "doctree_verify.md":
			foundVerify = true
		}
	}
	if !foundRoot || !foundVerify {
		t.Fatalf("expected doctree.md and doctree_verify.md in docs output, got %v", files)
	}
}
