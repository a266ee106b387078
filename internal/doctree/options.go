// Package doctree builds the document tree for a module hierarchy and
// renders it to cross-linked Markdown.
//
// Generation runs in two phases. Discover walks the whole hierarchy and
// registers every module, class, function and variable in a shared
// Registry; Render and Write then resolve back-tick quoted names against the
// complete registry.
package doctree

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/agentflare-ai/doctree/internal/source"
)

// Options control rendering and persistence.
type Options struct {
	// OutName overrides the directory or file name of the root module.
	OutName string
	// Header emits a front-matter block carrying the module digest, which
	// lets Write skip documents whose source did not change.
	Header bool
	// Anchors emits `{: #id }` attribute lists for headings and entries.
	Anchors bool
	// Clean makes Generate remove the previous output of the root module
	// before writing.
	Clean bool
	// Dialect controls language specific rendering.
	Dialect source.Dialect
	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
}

var discard = log.New(io.Discard)

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return discard
	}
	return o.Logger
}

// attr renders a `{: #id }` attribute list, or nothing when anchors are off.
func (o Options) attr(id string) string {
	if !o.Anchors {
		return ""
	}
	return "{: #" + id + " }"
}

func (o Options) fence(code string) string {
	return "```" + o.Dialect.FenceLang + "\n" + code + "\n```"
}

// shortName returns the last dotted component of name.
func shortName(name string) string {
	return name[strings.LastIndex(name, ".")+1:]
}

// private reports whether name is excluded from output.
func private(name string) bool {
	return strings.HasPrefix(name, "_")
}
