// Package verify checks the cross references of a generated document tree.
package verify

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/agentflare-ai/doctree/internal/frontmatter"
	"github.com/agentflare-ai/doctree/internal/sink"
)

// anchorAttr matches the attribute lists emitted next to headings and
// entries, e.g. `{: #Greeter.greet }`.
var anchorAttr = regexp.MustCompile(`\{:\s*#([^\s}]+)\s*\}`)

// Problem is a link whose target does not exist.
type Problem struct {
	// Page is the document holding the link, relative to the checked root.
	Page string
	// Link is the destination as written.
	Link string
	// Reason is "missing page" or "missing anchor".
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s (%s)", p.Page, p.Link, p.Reason)
}

type page struct {
	links   []string
	anchors map[string]bool
}

// Dir checks every Markdown file below root in s. Links with a scheme are
// ignored. An anchor is only checked when the target page declares at least
// one anchor, so trees generated without anchors verify cleanly.
func Dir(s sink.Sink, root string) ([]Problem, error) {
	names, err := markdownFiles(s, root)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	pages := make(map[string]*page, len(names))
	for _, name := range names {
		data, err := s.ReadFile(path.Join(root, name))
		if err != nil {
			return nil, err
		}
		_, body, _, err := frontmatter.Split(data)
		if err != nil {
			// An unterminated header is plain Markdown.
			body = data
		}
		pages[name] = scan(md, body)
	}

	var problems []Problem
	for _, name := range names {
		for _, link := range pages[name].links {
			if reason := check(pages, name, link); reason != "" {
				problems = append(problems, Problem{Page: name, Link: link, Reason: reason})
			}
		}
	}
	return problems, nil
}

func check(pages map[string]*page, from, link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	target := from
	if u.Path != "" {
		if strings.HasPrefix(u.Path, "/") {
			return ""
		}
		target = path.Join(path.Dir(from), u.Path)
	}
	p, ok := pages[target]
	if !ok {
		return "missing page"
	}
	if u.Fragment != "" && len(p.anchors) > 0 && !p.anchors[u.Fragment] {
		return "missing anchor"
	}
	return ""
}

func scan(md goldmark.Markdown, body []byte) *page {
	p := &page{anchors: make(map[string]bool)}
	root := md.Parser().Parse(text.NewReader(body))
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			p.links = append(p.links, string(node.Destination))
		case *gmast.Text:
			for _, m := range anchorAttr.FindAllSubmatch(node.Segment.Value(body), -1) {
				p.anchors[string(m[1])] = true
			}
		case *gmast.CodeSpan, *gmast.FencedCodeBlock, *gmast.CodeBlock:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return p
}

// markdownFiles lists the .md files below root, relative to it and sorted.
func markdownFiles(s sink.Sink, root string) ([]string, error) {
	var out []string
	var walk func(rel string) error
	walk = func(rel string) error {
		dir := path.Join(root, rel)
		files, err := s.ListFiles(dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			if strings.HasSuffix(f, ".md") {
				out = append(out, path.Join(rel, f))
			}
		}
		dirs, err := s.ListDirs(dir)
		if err != nil {
			return err
		}
		for _, d := range dirs {
			if err := walk(path.Join(rel, d)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk("."); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
