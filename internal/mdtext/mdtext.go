// Package mdtext holds the string transforms applied to documentation text
// before and after it is assembled into Markdown documents.
package mdtext

import (
	"regexp"
	"strings"
)

var (
	blankRun   = regexp.MustCompile(`\n{4,}`)
	spacesOnly = regexp.MustCompile(`(?m)^[ \t]+$`)
)

// Cleanup empties whitespace-only lines, collapses runs of more than two
// blank lines, trims surrounding whitespace, and terminates the text with
// exactly one newline.
func Cleanup(text string) string {
	text = spacesOnly.ReplaceAllString(text, "")
	text = blankRun.ReplaceAllString(text, "\n\n\n")
	return strings.TrimSpace(text) + "\n"
}

// attrLine matches the lightweight argument-list convention:
//
//	* name (`type`): description
//
// The bullet may be *, + or -. The type may be bare or parenthesized, and
// both the type and the description are optional.
var attrLine = regexp.MustCompile(
	`(?m)^[*+-][ \t]+` +
		`(?P<name>[^\s():*` + "`" + `\[\]]+)?[ \t]*` +
		`(?P<type>\(` + "`[^():`]+`" + `\)|` + "`[^():`]+`" + `)?[ \t]*` +
		`(?P<tail>:[ \t]*(?P<desc>.+))?$`,
)

var (
	nameIdx = attrLine.SubexpIndex("name")
	typeIdx = attrLine.SubexpIndex("type")
	tailIdx = attrLine.SubexpIndex("tail")
	descIdx = attrLine.SubexpIndex("desc")
)

// ModifyAttrs rewrites every argument-list bullet in text into
//
//	- **name**<suffix> (`type`): description
//
// Bullets without an identifier, and lines that do not follow the
// convention, are returned untouched.
func ModifyAttrs(text, suffix string) string {
	return attrLine.ReplaceAllStringFunc(text, func(line string) string {
		m := attrLine.FindStringSubmatch(line)
		if m == nil || m[nameIdx] == "" {
			return line
		}
		var b strings.Builder
		b.WriteString("- **")
		b.WriteString(m[nameIdx])
		b.WriteString("**")
		b.WriteString(suffix)
		if typ := m[typeIdx]; typ != "" {
			typ = strings.TrimSuffix(strings.TrimPrefix(typ, "("), ")")
			b.WriteString(" (")
			b.WriteString(typ)
			b.WriteString(")")
		}
		if m[tailIdx] != "" {
			b.WriteString(": ")
			b.WriteString(m[descIdx])
		}
		return b.String()
	})
}

// JoinFragments drops blank fragments, trims the rest and separates them
// with one blank line.
func JoinFragments(fragments ...string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, "\n\n")
}

// CleanDoc normalizes a raw documentation string: the first line loses its
// leading whitespace, the following lines lose their common indentation, and
// leading or trailing blank lines are removed.
func CleanDoc(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return ""
	}
	first := strings.TrimSpace(lines[0])
	rest := strings.Split(Dedent(strings.Join(lines[1:], "\n")), "\n")
	lines = append([]string{first}, rest...)
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Dedent removes the indentation shared by every non-blank line.
func Dedent(src string) string {
	lines := strings.Split(src, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := leadingWhitespace(line)
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return src
	}
	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(line string) int {
	count := 0
	for _, r := range line {
		if r == ' ' || r == '\t' {
			count++
			continue
		}
		break
	}
	return count
}

// Summary returns the first sentence of a documentation string on one line.
func Summary(text string) string {
	md := strings.TrimSpace(text)
	if md == "" {
		return ""
	}
	if idx := strings.Index(md, "\n\n"); idx >= 0 {
		md = md[:idx]
	}
	md = strings.ReplaceAll(md, "\n", " ")
	if idx := strings.Index(md, ". "); idx >= 0 {
		return strings.TrimSpace(md[:idx+1])
	}
	return strings.TrimSpace(md)
}
