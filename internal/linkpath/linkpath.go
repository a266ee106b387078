// Package linkpath computes relative links between logical document paths.
//
// Logical paths are slash separated and rooted at "/", independent of the
// host operating system, so the package works on path rather than
// path/filepath.
package linkpath

import (
	"path"
	"strings"
)

// Relative returns the path of toTarget relative to the directory holding
// fromPage. It returns "" when toTarget is fromPage itself.
//
//	Relative("/inari/foo/bar", "/inari/foo/baz")  == "baz"
//	Relative("/inari/foo/bar", "/inari/baz/spam") == "../baz/spam"
func Relative(fromPage, toTarget string) string {
	from := path.Clean("/" + fromPage)
	to := path.Clean("/" + toTarget)
	rel := relPath(path.Dir(from), to)
	if rel == path.Base(from) {
		return ""
	}
	return rel
}

func relPath(baseDir, target string) string {
	base := split(baseDir)
	targ := split(target)
	common := 0
	for common < len(base) && common < len(targ) && base[common] == targ[common] {
		common++
	}
	parts := make([]string, 0, len(base)-common+len(targ)-common)
	for range base[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, targ[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// SplitAnchor separates "path#anchor" into its path and anchor parts. The
// anchor is returned without the leading "#".
func SplitAnchor(p string) (string, string) {
	if idx := strings.Index(p, "#"); idx >= 0 {
		return p[:idx], p[idx+1:]
	}
	return p, ""
}
