// MIT License

// Copyright (c) 2018 Akhil Indurti
// Copyright (c) 2026 The AkiMd Authors

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// This CLI utility renders, searches and stores AkiMd notes.
//
// Usage:
//   akimd [command]
//
// Available Commands:
//   copy        Copy a code block of a note to the clipboard
//   dump        Print the parsed document tree of a note
//   help        Help about any command
//   html        HTML output generator for notes
//   overlay     Print the search highlight overlay of a note
//   term        Terminal preview of a note
//   vault       Manage the notes of a vault directory
//
// Flags:
//   -c, --config      path of the YAML configuration file
//   -h, --help        help for akimd
//       --log-file    file to write logs to
//       --log-level   log level
//       --vault       vault directory
//
// Use "akimd [command] --help" for more information about a command.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
	xterm "golang.org/x/term"

	"github.com/anlaki-py/AkiMd/ast"
	"github.com/anlaki-py/AkiMd/config"
	"github.com/anlaki-py/AkiMd/editor"
	"github.com/anlaki-py/AkiMd/gen"
	"github.com/anlaki-py/AkiMd/gen/html"
	"github.com/anlaki-py/AkiMd/gen/overlay"
	"github.com/anlaki-py/AkiMd/gen/term"
	"github.com/anlaki-py/AkiMd/logutils"
	"github.com/anlaki-py/AkiMd/parser"
	"github.com/anlaki-py/AkiMd/store"
)

func prefix(msg string, err error) error {
	return errors.New(msg + err.Error())
}

// app carries the state shared by all commands once the root command has
// loaded the configuration.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	vaultDir   string

	cfg      *config.Config
	log      zerolog.Logger
	closeLog func()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{closeLog: func() {}}
	rootCmd := &cobra.Command{
		Use:   "akimd",
		Short: "rendering, search and storage for AkiMd notes",
		Long: `This CLI utility runs a command listed below to render,
search or store a note written in AkiMd's Markdown dialect.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.closeLog() },
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "``path of the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "``log level")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "``file to write logs to")
	rootCmd.PersistentFlags().StringVar(&a.vaultDir, "vault", "", "``vault directory")

	rootCmd.AddCommand(
		a.htmlCmd(),
		a.termCmd(),
		a.overlayCmd(),
		a.dumpCmd(),
		a.copyCmd(),
		a.vaultCmd(),
	)
	return rootCmd
}

// setup loads the configuration, applies the flags that override it and
// opens the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	if a.vaultDir != "" {
		cfg.VaultDir = a.vaultDir
	}
	l, closer, err := logutils.New(logutils.Options{
		Level:    cfg.LogLevel,
		File:     cfg.LogFile,
		Fallback: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.cfg = cfg
	a.log = l
	a.closeLog = closer
	log.Logger = l
	l.Debug().Str("command", cmd.Name()).Msg("start")
	return nil
}

// readInput reads the file named by the first argument, or standard input
// when there is none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}

// flagErrors prefixes flag parsing errors the same way as run errors.
func flagErrors(cmd *cobra.Command, p string) *cobra.Command {
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err != nil {
			return prefix(p, err)
		}
		return nil
	})
	return cmd
}

func (a *app) htmlCmd() *cobra.Command {
	var (
		outputfile string
		query      string
		timeout    time.Duration
		sanitize   bool
		highlight  bool
		style      string
	)
	prefixHTML := "(HTML) "
	htmlCmd := &cobra.Command{
		Use:   "html [input] [-o output] [-q query]",
		Short: "HTML output generator for notes",
		Long: `This command parses a note and converts it to HTML.
Text is escaped everywhere except in raw markup, which is passed
through unchanged unless --sanitize is given. Matches of the query
are wrapped in mark elements.

If no input file is specified, input is read from
standard input. Similarly, if no output argument is
specified, output is written to standard output.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return prefix(prefixHTML, err)
			}
			out := cmd.OutOrStdout()
			if len(outputfile) != 0 {
				f, err := os.Create(outputfile)
				if err != nil {
					return prefix(prefixHTML, err)
				}
				defer f.Close()
				out = f
			}
			ctx := context.Background()
			if timeout > -1 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			g := html.GenContext(ctx, parser.ParseString(text, query))
			g.Stdout = out
			g.Stderr = cmd.ErrOrStderr()
			g.Sanitize = sanitize || a.cfg.Render.Sanitize
			g.Highlight = highlight || a.cfg.Render.Highlight
			g.Style = a.cfg.Render.CodeStyle
			if style != "" {
				g.Style = style
			}
			if err := g.Run(); err != nil {
				return prefix(prefixHTML, err)
			}
			return nil
		},
	}
	// pflag includes the argument type when it unquotes its usage.
	// To prevent this behavior we prefix the usage with backquotes ``.
	htmlCmd.Flags().StringVarP(&outputfile, "output", "o", "", "``name of the output file")
	htmlCmd.Flags().StringVarP(&query, "query", "q", "", "``search query to highlight")
	htmlCmd.Flags().DurationVarP(&timeout, "timeout", "t", -1, "``timeout used to halt the generator")
	htmlCmd.Flags().BoolVar(&sanitize, "sanitize", false, "sanitize raw markup")
	htmlCmd.Flags().BoolVar(&highlight, "highlight", false, "colour code blocks")
	htmlCmd.Flags().StringVar(&style, "style", "", "``code highlighting style")
	// Set string version of default value to be zero-value to prevent it from being printed by FlagUsages.
	htmlCmd.Flags().Lookup("timeout").DefValue = "0"
	return flagErrors(htmlCmd, prefixHTML)
}

// termWidth picks the preview width: the flag, then the configuration, then
// the terminal, then 80 columns.
func (a *app) termWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if a.cfg.Render.Width > 0 {
		return a.cfg.Render.Width
	}
	fd := int(os.Stdout.Fd())
	if xterm.IsTerminal(fd) {
		if w, _, err := xterm.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

func (a *app) termCmd() *cobra.Command {
	var (
		query string
		width int
	)
	prefixTerm := "(TERM) "
	termCmd := &cobra.Command{
		Use:   "term [input] [-q query] [-w width]",
		Short: "Terminal preview of a note",
		Long: `This command renders a note as styled terminal text, wrapped
to the terminal width. Code blocks are never wrapped.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return prefix(prefixTerm, err)
			}
			r := term.New(a.termWidth(width))
			if err := r.Render(cmd.OutOrStdout(), parser.ParseString(text, query)); err != nil {
				return prefix(prefixTerm, err)
			}
			return nil
		},
	}
	termCmd.Flags().StringVarP(&query, "query", "q", "", "``search query to highlight")
	termCmd.Flags().IntVarP(&width, "width", "w", 0, "``wrap width in columns")
	return flagErrors(termCmd, prefixTerm)
}

func (a *app) overlayCmd() *cobra.Command {
	var (
		query  string
		asHTML bool
	)
	prefixOverlay := "(OVERLAY) "
	overlayCmd := &cobra.Command{
		Use:   "overlay [input] -q query [--html]",
		Short: "Print the search highlight overlay of a note",
		Long: `This command prints the layer drawn behind the edit surface:
matches of the query are shown and every other character is
replaced by blank space of the same width, so the layer lines
up with the raw text.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return prefix(prefixOverlay, err)
			}
			o := overlay.Project(text, query)
			a.log.Debug().Int("matches", o.Matches()).Msg("overlay")
			out := o.ANSI()
			if asHTML {
				out = o.HTML()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	overlayCmd.Flags().StringVarP(&query, "query", "q", "", "``search query")
	overlayCmd.Flags().BoolVar(&asHTML, "html", false, "print HTML instead of ANSI text")
	overlayCmd.MarkFlagRequired("query")
	return flagErrors(overlayCmd, prefixOverlay)
}

func (a *app) dumpCmd() *cobra.Command {
	var query string
	dumpCmd := &cobra.Command{
		Use:                   "dump [input] [-q query]",
		Short:                 "Print the parsed document tree of a note",
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return prefix("(DUMP) ", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), litter.Sdump(parser.ParseString(text, query)))
			return err
		},
	}
	dumpCmd.Flags().StringVarP(&query, "query", "q", "", "``search query to highlight")
	return flagErrors(dumpCmd, "(DUMP) ")
}

// codeBlocks returns the code blocks of doc in order.
func codeBlocks(doc *ast.Document) []*ast.CodeBlock {
	var out []*ast.CodeBlock
	for _, b := range doc.Blocks {
		if c, ok := b.(*ast.CodeBlock); ok {
			out = append(out, c)
		}
	}
	return out
}

func (a *app) copyCmd() *cobra.Command {
	var index int
	prefixCopy := "(COPY) "
	copyCmd := &cobra.Command{
		Use:   "copy [input] [-n index]",
		Short: "Copy a code block of a note to the clipboard",
		Long: `This command copies the exact text of a code block to the
clipboard. The configured clipboard command receives the text on
its standard input; without one the system clipboard is used.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return prefix(prefixCopy, err)
			}
			blocks := codeBlocks(parser.ParseString(text, ""))
			if index < 0 || index >= len(blocks) {
				return prefix(prefixCopy, fmt.Errorf("no code block %d, note has %d", index, len(blocks)))
			}
			clip := gen.New(a.cfg.Clipboard.Command)
			if c, ok := clip.(*gen.Command); ok {
				c.Ctx = cmd.Context()
				c.Stderr = cmd.ErrOrStderr()
			}
			action := &gen.CopyAction{Clipboard: clip, Confirm: a.cfg.Clipboard.ConfirmFor, Log: a.log}
			if err := action.Copy(blocks[index].Raw); err != nil {
				return prefix(prefixCopy, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "copied %d bytes\n", len(blocks[index].Raw))
			return nil
		},
	}
	copyCmd.Flags().IntVarP(&index, "index", "n", 0, "``index of the code block, starting at 0")
	return flagErrors(copyCmd, prefixCopy)
}

func (a *app) openVault() (*store.Dir, error) {
	return store.Open(a.cfg.VaultDir, a.log)
}

// jumpReport stands in for the edit and preview surfaces of a session and
// reports where the first match was centred.
type jumpReport struct {
	at chan string
}

func (j *jumpReport) Focus() {}

func (j *jumpReport) CenterOn(p editor.Position) {
	j.send(fmt.Sprintf("line %d, column %d", p.Line+1, p.Column+1))
}

func (j *jumpReport) CenterBlock(i int) {
	j.send(fmt.Sprintf("block %d", i))
}

func (j *jumpReport) send(s string) {
	select {
	case j.at <- s:
	default:
	}
}

// newSession opens an editor session over the vault, sized and timed by
// the configuration.
func (a *app) newSession(d store.Store, j *jumpReport) (*editor.Editor, error) {
	return editor.New(editor.Config{
		Store:     d,
		Text:      j,
		Preview:   j,
		CacheSize: a.cfg.CacheSize,
		Navigator: &editor.Navigator{Delay: a.cfg.Search.SettleDelay, Log: a.log},
		Log:       a.log,
	})
}

func (a *app) vaultCmd() *cobra.Command {
	prefixVault := "(VAULT) "
	vaultCmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage the notes of a vault directory",
		Long: `These commands list, read, write, create and delete the notes
and folders of the vault directory. Note ids are slash separated
paths relative to the vault root.`,
	}

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "List folders and notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openVault()
			if err != nil {
				return prefix(prefixVault, err)
			}
			items, err := d.List()
			if err != nil {
				return prefix(prefixVault, err)
			}
			w := cmd.OutOrStdout()
			for _, it := range items {
				depth := 0
				if it.ID != store.RootID {
					depth = strings.Count(it.ID, "/") + 1
				}
				name := it.Name
				if it.Kind == store.Folder {
					name += "/"
				}
				fmt.Fprintf(w, "%s%-*s %s\n", strings.Repeat("  ", depth), 32-2*depth, name, it.Modified.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	catCmd := &cobra.Command{
		Use:   "cat id",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openVault()
			if err != nil {
				return prefix(prefixVault, err)
			}
			text, err := d.Get(args[0])
			if err != nil {
				return prefix(prefixVault, err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save id [input]",
		Short: "Write a note from a file or standard input",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openVault()
			if err != nil {
				return prefix(prefixVault, err)
			}
			text, err := readInput(cmd, args[1:])
			if err != nil {
				return prefix(prefixVault, err)
			}
			st := store.Save(d, args[0], text)
			fmt.Fprintln(cmd.ErrOrStderr(), st)
			if !st.OK {
				return prefix(prefixVault, st.Err)
			}
			return nil
		},
	}

	var folder bool
	newCmd := &cobra.Command{
		Use:   "new parent name [--folder]",
		Short: "Create an empty note or a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openVault()
			if err != nil {
				return prefix(prefixVault, err)
			}
			id, err := d.Create(args[0], args[1], folder)
			if err != nil {
				return prefix(prefixVault, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	newCmd.Flags().BoolVar(&folder, "folder", false, "create a folder")

	rmCmd := &cobra.Command{
		Use:   "rm id",
		Short: "Delete a note or a folder with its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openVault()
			if err != nil {
				return prefix(prefixVault, err)
			}
			if err := d.Delete(args[0]); err != nil {
				return prefix(prefixVault, err)
			}
			return nil
		},
	}

	var (
		query   string
		preview bool
	)
	findCmd := &cobra.Command{
		Use:   "find id -q query [--preview]",
		Short: "Locate the first match of a query in a note",
		Long: `This command opens a note the way the editor does, waits for the
query to settle and prints where the first match would be centred:
a line and column of the text, or with --preview the index of the
rendered block. The size of the note follows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.openVault()
			if err != nil {
				return prefix(prefixVault, err)
			}
			j := &jumpReport{at: make(chan string, 1)}
			e, err := a.newSession(d, j)
			if err != nil {
				return prefix(prefixVault, err)
			}
			if st := e.Open(args[0]); !st.OK {
				return prefix(prefixVault, st.Err)
			}
			if preview {
				e.Toggle()
			}
			e.SetQuery(query)

			var found bool
			if preview {
				_, found = editor.FindBlock(e.Document())
			} else {
				_, found = editor.FindText(e.Text(), query)
			}
			w := cmd.OutOrStdout()
			if found {
				select {
				case at := <-j.at:
					fmt.Fprintln(w, at)
				case <-cmd.Context().Done():
					return prefix(prefixVault, cmd.Context().Err())
				}
			} else {
				e.SetQuery("")
				fmt.Fprintln(w, "no match")
			}
			st := e.Stats()
			fmt.Fprintf(w, "%d bytes, %d words\n", st.Octets, st.Words)
			return nil
		},
	}
	findCmd.Flags().StringVarP(&query, "query", "q", "", "``search query")
	findCmd.Flags().BoolVar(&preview, "preview", false, "locate the match in the rendered note")
	findCmd.MarkFlagRequired("query")

	vaultCmd.AddCommand(lsCmd, catCmd, saveCmd, newCmd, rmCmd, findCmd)
	return flagErrors(vaultCmd, prefixVault)
}
