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

// Package html converts a parsed note into html output.
// Text is escaped everywhere except in raw markup, which is passed through
// unchanged unless the generator sanitizes it.
//
// AST nodes correspond to the following HTML tags:
// 	Heading                     <h1></h1> ... <h6></h6>
// 	Paragraph                   <p></p>
// 	ListItem                    <ul><li></li></ul>, consecutive items share a list
// 	ListItem (task)             <li class="task"><input type="checkbox" disabled></li>
// 	CodeBlock                   <pre><code class="language-*"></code></pre>
// 	Table                       <table><thead></thead><tbody></tbody></table>
// 	Blockquote                  <blockquote><p></p></blockquote>
// 	RawMarkup                   unchanged
// 	ThematicBreak               <hr>
// 	Blank                       <div class="blank"></div>
// 	Placeholder                 <p class="placeholder"></p>
// 	Strong                      <strong></strong>
// 	Emphasis                    <em></em>
// 	Code                        <code></code>
// 	Link                        <a href=""></a>
// 	Image                       <img src="" alt="">
// 	Highlighted                 <mark></mark>
// 	RawHTML                     unchanged
package html // import "github.com/anlaki-py/AkiMd/gen/html"

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"

	"github.com/anlaki-py/AkiMd/ast"
)

type syncWriter struct {
	m sync.Mutex
	w io.Writer
}

func (s *syncWriter) Write(p []byte) (n int, err error) {
	s.m.Lock()
	defer s.m.Unlock()
	n, err = s.w.Write(p)
	return
}

// stickyCountWriter remembers the first write error and refuses every
// write after it.
type stickyCountWriter struct {
	n   int64
	err error
	w   io.Writer
}

func (c *stickyCountWriter) Write(p []byte) (n int, err error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err = c.w.Write(p)
	c.err = err
	c.n += int64(n)
	return
}

func (c *stickyCountWriter) str(s string) {
	io.WriteString(c, s)
}

// DefaultStyle is the chroma style used when Style is empty.
const DefaultStyle = "github"

// Generator represents a non-reusable HTML output generator for an *ast.Document.
type Generator struct {
	// Stdout and Stderr specify the generator's standard output and standard error.
	//
	// HTML output will be written to standard out. Standard error only
	// receives diagnostics, such as a code block that could not be
	// highlighted.
	//
	// If Stdout == Stderr, at most one goroutine at a time will call Write.
	Stdout io.Writer
	Stderr io.Writer

	// Sanitize runs raw markup through a user generated content policy
	// instead of passing it through.
	Sanitize bool
	// Highlight colours code blocks whose language is known. The colours
	// of Style are written inline, so the output needs no stylesheet.
	Highlight bool
	Style     string

	ctx      context.Context
	doc      *ast.Document
	waitdone chan error
	waitonce sync.Once
	waiterr  error
	policy   *bluemonday.Policy

	m     sync.Mutex
	pipes []io.Closer
}

// Gen returns the Generator struct to convert the given document into HTML
// output.
//
// It sets only the document in the returned structure.
func Gen(doc *ast.Document) *Generator {
	return &Generator{ctx: context.TODO(), doc: doc}
}

// GenContext is like Gen but includes a context.
//
// The provided context is used to halt HTML generation between two blocks.
func GenContext(ctx context.Context, doc *ast.Document) *Generator {
	if ctx == nil {
		panic("nil context")
	}
	return &Generator{ctx: ctx, doc: doc}
}

// Start starts the generator but does not wait for it to complete.
func (g *Generator) Start() error {
	if g.waitdone != nil {
		return errors.New("already started")
	}
	if g.Stdout == nil {
		g.Stdout = io.Discard
	}
	if g.Stderr == nil {
		g.Stderr = io.Discard
	}
	if g.Stdout == g.Stderr {
		g.Stdout = &syncWriter{w: g.Stdout}
		g.Stderr = g.Stdout
	}
	if g.Sanitize {
		g.policy = bluemonday.UGCPolicy()
	}
	g.waitdone = make(chan error)
	go func() {
		err := g.gen()
		g.m.Lock()
		for _, p := range g.pipes {
			p.Close()
		}
		g.pipes = nil
		g.m.Unlock()
		g.waitdone <- err
	}()
	return nil
}

// Wait waits for the generator to complete and finish copying to
// Stdout and Stderr. It is an error to call Wait before Start
// has been called.
//
// Wait will release any resources associated with the generator. Later
// calls return the same result.
func (g *Generator) Wait() error {
	if g.waitdone == nil {
		return errors.New("not started")
	}
	g.waitonce.Do(func() {
		g.waiterr = <-g.waitdone
		close(g.waitdone)
	})
	return g.waiterr
}

// Run starts the generator and waits for it to complete, returning
// any errors enountered.
func (g *Generator) Run() error {
	if err := g.Start(); err != nil {
		return err
	}
	return g.Wait()
}

// StdoutPipe returns a pipe that is connected to the generator's
// standard output.
//
// Wait must not be called before all reads from the pipe have completed.
// For the same reason, it is invalid to call Run when using StdoutPipe.
func (g *Generator) StdoutPipe() (io.Reader, error) {
	if g.Stdout != nil {
		return nil, errors.New("Stdout already set")
	}
	pr, pw := io.Pipe()
	g.Stdout = pw
	g.pipes = append(g.pipes, pw)
	return pr, nil
}

// StderrPipe returns a pipe that is connected to the generator's
// standard error.
//
// Wait must not be called before all reads from the pipe have completed.
// For the same reason, it is invalid to call Run when using StderrPipe.
func (g *Generator) StderrPipe() (io.Reader, error) {
	if g.Stderr != nil {
		return nil, errors.New("Stderr already set")
	}
	pr, pw := io.Pipe()
	g.Stderr = pw
	g.pipes = append(g.pipes, pw)
	return pr, nil
}

// Output runs the generator and returns its standard output.
func (g *Generator) Output() ([]byte, error) {
	if g.Stdout != nil {
		return nil, errors.New("Stdout already set")
	}
	var stdout bytes.Buffer
	g.Stdout = &stdout
	err := g.Run()
	return stdout.Bytes(), err
}

// CombinedOutput runs the generator and returns its combined
// standard output and standard error.
func (g *Generator) CombinedOutput() ([]byte, error) {
	if g.Stdout != nil {
		return nil, errors.New("Stdout already set")
	}
	if g.Stderr != nil {
		return nil, errors.New("Stderr already set")
	}
	var b bytes.Buffer
	g.Stdout = &b
	g.Stderr = &b
	err := g.Run()
	return b.Bytes(), err
}

var headingTag = [...]string{1: "h1", 2: "h2", 3: "h3", 4: "h4", 5: "h5", 6: "h6"}

func (g *Generator) gen() error {
	cw := &stickyCountWriter{0, nil, g.Stdout}
	if g.doc == nil {
		return cw.err
	}
	inList := false
	for _, b := range g.doc.Blocks {
		select {
		case <-g.ctx.Done():
			return g.ctx.Err()
		default:
		}
		_, isItem := b.(*ast.ListItem)
		if inList && !isItem {
			cw.str("</ul>\n")
			inList = false
		}
		switch t := b.(type) {
		case *ast.Heading:
			tag := "p"
			if t.Level >= 1 && t.Level < len(headingTag) {
				tag = headingTag[t.Level]
			}
			cw.str("<" + tag + ">")
			g.inline(cw, t.Inline)
			cw.str("</" + tag + ">\n")
		case *ast.Paragraph:
			cw.str("<p>")
			g.inline(cw, t.Inline)
			cw.str("</p>\n")
		case *ast.ListItem:
			if !inList {
				cw.str("<ul>\n")
				inList = true
			}
			g.item(cw, t)
		case *ast.CodeBlock:
			g.code(cw, t)
		case *ast.Table:
			g.table(cw, t)
		case *ast.Blockquote:
			cw.str("<blockquote>")
			for _, p := range t.Paragraphs {
				cw.str("<p>")
				g.inline(cw, p)
				cw.str("</p>")
			}
			cw.str("</blockquote>\n")
		case *ast.RawMarkup:
			cw.str(g.raw(t.Raw))
			cw.str("\n")
		case *ast.ThematicBreak:
			cw.str("<hr>\n")
		case *ast.Blank:
			cw.str("<div class=\"blank\"></div>\n")
		case *ast.Placeholder:
			fmt.Fprintf(cw, "<p class=\"placeholder\">%s</p>\n", html.EscapeString(t.Text))
		}
	}
	if inList {
		cw.str("</ul>\n")
	}
	return cw.err
}

func (g *Generator) raw(s string) string {
	if g.policy == nil {
		return s
	}
	return g.policy.Sanitize(s)
}

func (g *Generator) item(cw *stickyCountWriter, li *ast.ListItem) {
	if li.Checked == nil {
		cw.str("<li>")
	} else {
		cw.str("<li class=\"task\"><input type=\"checkbox\" disabled")
		if *li.Checked {
			cw.str(" checked")
		}
		cw.str("> ")
	}
	g.inline(cw, li.Inline)
	cw.str("</li>\n")
}

func (g *Generator) table(cw *stickyCountWriter, t *ast.Table) {
	cw.str("<table>\n<thead><tr>")
	for _, c := range t.Header {
		cw.str("<th>")
		g.inline(cw, c)
		cw.str("</th>")
	}
	cw.str("</tr></thead>\n")
	if len(t.Rows) > 0 {
		cw.str("<tbody>\n")
		for _, r := range t.Rows {
			cw.str("<tr>")
			for _, c := range r {
				cw.str("<td>")
				g.inline(cw, c)
				cw.str("</td>")
			}
			cw.str("</tr>\n")
		}
		cw.str("</tbody>\n")
	}
	cw.str("</table>\n")
}

// code writes a code block. A block that cannot be highlighted is reported
// on Stderr and written plain.
func (g *Generator) code(cw *stickyCountWriter, c *ast.CodeBlock) {
	if g.Highlight && c.Lang != "" {
		err := g.highlight(cw, c)
		if err == nil {
			cw.str("\n")
			return
		}
		fmt.Fprintf(g.Stderr, "code block %q: %v\n", c.Lang, err)
	}
	if c.Lang == "" {
		cw.str("<pre><code>")
	} else {
		fmt.Fprintf(cw, "<pre><code class=\"language-%s\">", html.EscapeString(c.Lang))
	}
	cw.str(html.EscapeString(c.Raw))
	cw.str("</code></pre>\n")
}

var errNoLexer = errors.New("no lexer for language")

func (g *Generator) highlight(cw *stickyCountWriter, c *ast.CodeBlock) error {
	lexer := lexers.Get(c.Lang)
	if lexer == nil {
		return errNoLexer
	}
	name := g.Style
	if name == "" {
		name = DefaultStyle
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, c.Raw)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	f := chtml.New()
	if err := f.Format(&buf, styles.Get(name), it); err != nil {
		return err
	}
	_, err = buf.WriteTo(cw)
	return err
}

func (g *Generator) inline(cw *stickyCountWriter, l []ast.Inline) {
	for _, in := range l {
		switch t := in.(type) {
		case ast.Text:
			cw.str(html.EscapeString(string(t)))
		case ast.Strong:
			cw.str("<strong>")
			g.inline(cw, t.Inner)
			cw.str("</strong>")
		case ast.Emphasis:
			cw.str("<em>")
			g.inline(cw, t.Inner)
			cw.str("</em>")
		case ast.Code:
			cw.str("<code>" + html.EscapeString(string(t)) + "</code>")
		case ast.Link:
			fmt.Fprintf(cw, "<a href=\"%s\">", html.EscapeString(t.Target))
			g.inline(cw, t.Label)
			cw.str("</a>")
		case ast.Image:
			fmt.Fprintf(cw, "<img src=\"%s\" alt=\"%s\">", html.EscapeString(t.Src), html.EscapeString(t.Alt))
		case ast.Highlighted:
			cw.str("<mark>" + html.EscapeString(string(t)) + "</mark>")
		case ast.RawHTML:
			cw.str(g.raw(string(t)))
		}
	}
}
