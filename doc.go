// # doctree
//
// `doctree` generates a tree of cross-linked Markdown documents from the
// documentation of a module hierarchy. It reads Python packages (docstrings,
// parsed with tree-sitter) and Go package trees (doc comments, loaded with
// `golang.org/x/tools/go/packages`) and writes one page per module, ready to
// be served by MkDocs or browsed on GitHub.
//
// Key capabilities:
//
//   - packages become `<name>/index.md`, leaf modules `<name>.md`; a leaf
//     named like the index file gets a language suffix (`index-py.md`).
//   - back-tick quoted dotted names (`pkg.mod.Class`) that resolve to a
//     documented module, class, function or variable become relative links.
//   - argument lists written as `* name (`type`): description` are rewritten
//     into anchored, bold entries.
//   - an optional front-matter header records a digest of the module source,
//     so unchanged modules are not rewritten.
//   - documents of submodules that disappeared from the source are removed.
//   - a watch mode regenerates the tree whenever a source file changes.
//
// ## Usage
//
//	doctree [flags] <module> <out-dir>
//
// Examples:
//
//   - Document a Python package found below ./src:
//
//     doctree --src-root src mypkg docs/api
//
//   - Document a Go package tree:
//
//     doctree --lang go ./internal docs/internal
//
//   - Keep the docs current while editing:
//
//     doctree -w --header mypkg docs/api
//
//   - Check that every generated link resolves:
//
//     doctree verify docs/api
//
// ## Supported Flags
//
//   - `-n`, `--name`: directory or file name of the root module.
//   - `--lang`: `auto` (default), `go` or `python`. Auto picks Python when the
//     module maps to a package or file below the source root.
//   - `--src-root`: directory modules are resolved against.
//   - `--header`: write the front-matter header and skip unchanged modules.
//   - `--anchors`: emit `{: #id }` attribute lists (default true).
//   - `--clean`: remove the previous output of the root module first.
//   - `-w`, `--watch` and `--debounce`: regenerate on changes.
//   - `--log-level`, `-v`: diagnostics on stderr.
//   - `--config`: a YAML config file (default `./.doctree.yaml`).
//
// Long flags are also accepted with a single dash (`-header`).
//
// ## Configuration
//
// Every flag has a config key (`src_root`, `watch.debounce`, `log.level`,
// ...) and an environment variable (`DOCTREE_SRC_ROOT`,
// `DOCTREE_WATCH_DEBOUNCE`, ...). Flags given on the command line win over
// the environment, which wins over the config file.
//
// ## Shell Completion
//
//	doctree completion bash        # bash
//	doctree completion zsh         # zsh
//	doctree completion fish | source
//	doctree completion powershell | Out-String | Invoke-Expression
//
// ## CLI Docs
//
//	doctree gen-docs ./docs/cli
//
// Every command becomes its own Markdown file under the provided directory.
package main
