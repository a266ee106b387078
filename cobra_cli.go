package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"

	"github.com/agentflare-ai/doctree/internal/config"
	"github.com/agentflare-ai/doctree/internal/sink"
	"github.com/agentflare-ai/doctree/internal/verify"
)

const rootLongDesc = `
doctree turns the docstrings of a Python package, or the doc comments of a Go
package tree, into a tree of cross-linked Markdown documents.

Every module becomes a page: packages are written as <name>/index.md and leaf
modules as <name>.md. Back-tick quoted names that resolve to a documented
module, class, function or variable become relative links, so the output can
be published with MkDocs or browsed on GitHub as is.

Settings can also come from a .doctree.yaml file or DOCTREE_* environment
variables; explicit flags win.
`

func newRootCmd(stdout io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout}
	cmd := &cobra.Command{
		Use:   "doctree [flags] <module> <out-dir>",
		Short: "Render module documentation as a tree of Markdown files",
		Long:  strings.TrimSpace(rootLongDesc),
		Example: strings.TrimRight(`
  doctree --src-root src mypkg docs/api
  doctree --lang go ./internal docs/internal
  doctree -w --header mypkg docs/api`, "\n"),
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	d := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringP("name", "n", d.Name, "directory or file name of the root module (default: its short name)")
	flags.String("lang", string(d.Lang), "source language: auto, go or python")
	flags.String("src-root", d.SrcRoot, "directory modules are resolved against")
	flags.Bool("header", d.Header, "write a front-matter header and skip documents whose source did not change")
	flags.Bool("anchors", d.Anchors, "emit {: #id } attribute lists for headings and entries")
	flags.Bool("clean", d.Clean, "remove the previous output of the root module first")
	flags.BoolP("watch", "w", d.Watch.Enabled, "regenerate when source files change")
	flags.Duration("debounce", d.Watch.Debounce, "quiet period before regenerating in watch mode")
	flags.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	flags.StringVar(&app.configFile, "config", "", "config file (default: ./"+config.FileName+" when present)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "log debug messages")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.execute(cmd, args)
	}

	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	cmd.AddCommand(newVerifyCmd())
	return cmd
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for doctree.

The output should be evaluated by your shell. For example:

  # bash
  doctree completion bash > /usr/local/etc/bash_completion.d/doctree

  # zsh
  doctree completion zsh > "${fpath[1]}/_doctree"

  # fish
  doctree completion fish | source

  # PowerShell
  doctree completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  doctree gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <out-dir>",
		Short: "Check the relative links of a generated document tree",
		Long: strings.TrimSpace(`
Parse every Markdown file below out-dir and report links whose target
document or anchor does not exist. Links with a scheme are not checked.
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", args[0])
		}
		start := time.Now()
		problems, err := verify.Dir(sink.NewOS(args[0]), ".")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range problems {
			fmt.Fprintln(out, p)
		}
		if len(problems) > 0 {
			return fmt.Errorf("%d broken links", len(problems))
		}
		fmt.Fprintf(out, "all links resolve (%s)\n", time.Since(start).Round(time.Millisecond))
		return nil
	}
	return cmd
}
