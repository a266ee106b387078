package python

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/doctree/internal/doctree"
	"github.com/agentflare-ai/doctree/internal/sink"
	"github.com/agentflare-ai/doctree/internal/verify"
)

func TestGenerateDocuments(t *testing.T) {
	root := sampleRoot(t)
	out := sink.NewMemory()

	_, err := doctree.Generate(context.Background(), New(root), "pkg", out, doctree.Options{Anchors: true})
	require.NoError(t, err)

	for _, f := range []string{"pkg/index.md", "pkg/base.md", "pkg/shapes.md", "pkg/index-py.md", "pkg/sub/index.md", "pkg/sub/leaf.md"} {
		assert.True(t, out.Exists(f), f)
	}
	assert.False(t, out.Exists("pkg/_hidden.md"))

	index, err := out.ReadFile("pkg/index.md")
	require.NoError(t, err)
	assert.Contains(t, string(index), "# Module pkg\n")
	assert.Contains(t, string(index), "Start with [`Circle `](shapes.md#Circle).")
	assert.Contains(t, string(index), "VERSION")
	assert.NotContains(t, string(index), "_internal")

	shapes, err := out.ReadFile("pkg/shapes.md")
	require.NoError(t, err)
	text := string(shapes)
	assert.Contains(t, text, "### Circle {: #Circle }")
	assert.Contains(t, text, "```python\nclass Circle(label: str)\n```")
	assert.Contains(t, text, "#### Base classes {: #Circle-bases }\n\n* [`Base `](base.md#Base)")
	assert.Contains(t, text, "* `builtins.Exception`")
	assert.Contains(t, text, "```python\nclass Point(self, *args, **kwargs)\n```")
	assert.Contains(t, text, "```python\ndef area(shape: Base,\n    scale: float = 1.0) -> float\n```")
	assert.NotContains(t, text, "_helper")
}

func TestUntypedVariableLinksResolve(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pp/__init__.py": "\"\"\"Bounded by `pp.a.LIMIT`.\"\"\"\n",
		"pp/a.py":        "LIMIT = 3\n\"\"\"Maximum count.\"\"\"\n",
	})
	out := sink.NewMemory()
	_, err := doctree.Generate(context.Background(), New(root), "pp", out, doctree.Options{Anchors: true})
	require.NoError(t, err)

	a, err := out.ReadFile("pp/a.md")
	require.NoError(t, err)
	assert.Contains(t, string(a), "- **LIMIT**{: #LIMIT } Maximum count.")

	index, err := out.ReadFile("pp/index.md")
	require.NoError(t, err)
	assert.Contains(t, string(index), "Bounded by [`LIMIT `](a.md#LIMIT).")

	problems, err := verify.Dir(out, ".")
	require.NoError(t, err)
	assert.Empty(t, problems)
}
