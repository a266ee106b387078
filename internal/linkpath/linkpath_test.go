package linkpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	cases := []struct {
		from, to, want string
	}{
		{"/inari/foo/bar", "/inari/foo/baz", "baz"},
		{"/inari/foo/bar", "/inari/foo/bar", ""},
		{"/inari/foo/bar", "/inari/baz", "../baz"},
		{"/inari/foo/bar", "/inari/baz/spam", "../baz/spam"},
		{"/inari/index", "/inari/sub/index", "sub/index"},
		{"/inari/sub/index", "/inari/index", "../index"},
		{"/root", "/other", "other"},
		{"/a/b/c/d", "/x", "../../../x"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Relative(tc.from, tc.to), "Relative(%q, %q)", tc.from, tc.to)
	}
}

func TestSplitAnchor(t *testing.T) {
	p, a := SplitAnchor("/pkg/mod#Class.method")
	assert.Equal(t, "/pkg/mod", p)
	assert.Equal(t, "Class.method", a)

	p, a = SplitAnchor("/pkg/mod")
	assert.Equal(t, "/pkg/mod", p)
	assert.Empty(t, a)
}
