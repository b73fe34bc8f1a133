// MIT License

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

// Package term renders a parsed note as styled text for a terminal preview.
//
// Text is wrapped to Width columns with ANSI-aware word wrapping. Code blocks
// and raw markup are written verbatim and never wrapped.
package term // import "github.com/anlaki-py/AkiMd/gen/term"

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/wordwrap"

	"github.com/anlaki-py/AkiMd/ast"
)

// Styles groups the semantic styles used by the renderer.
type Styles struct {
	Heading     [6]lipgloss.Style
	Strong      lipgloss.Style
	Emphasis    lipgloss.Style
	Code        lipgloss.Style
	CodeBlock   lipgloss.Style
	Link        lipgloss.Style
	LinkURL     lipgloss.Style
	Highlight   lipgloss.Style
	Quote       lipgloss.Style
	ListMarker  lipgloss.Style
	TableHeader lipgloss.Style
	Rule        lipgloss.Style
	Raw         lipgloss.Style
	Placeholder lipgloss.Style
}

// DefaultStyles returns the built-in palette.
func DefaultStyles() Styles {
	heading := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c))
	}
	return Styles{
		Heading: [6]lipgloss.Style{
			heading("#ff5f87"), heading("#ff875f"), heading("#ffaf5f"),
			heading("#d7d75f"), heading("#87d787"), heading("#5fafd7"),
		},
		Strong:      lipgloss.NewStyle().Bold(true),
		Emphasis:    lipgloss.NewStyle().Italic(true),
		Code:        lipgloss.NewStyle().Foreground(lipgloss.Color("#d7875f")),
		CodeBlock:   lipgloss.NewStyle().Foreground(lipgloss.Color("#bcbcbc")).TabWidth(lipgloss.NoTabConversion),
		Link:        lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#5fafff")),
		LinkURL:     lipgloss.NewStyle().Faint(true),
		Highlight:   lipgloss.NewStyle().Reverse(true),
		Quote:       lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")),
		ListMarker:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f87")),
		TableHeader: lipgloss.NewStyle().Bold(true),
		Rule:        lipgloss.NewStyle().Faint(true),
		Raw:         lipgloss.NewStyle().Faint(true).TabWidth(lipgloss.NoTabConversion),
		Placeholder: lipgloss.NewStyle().Italic(true).Faint(true),
	}
}

// defaultRule is the length of a thematic break when Width is zero.
const defaultRule = 40

// Renderer writes documents as terminal text. A zero Width disables
// wrapping.
type Renderer struct {
	Styles Styles
	Width  int
}

// New returns a renderer with the default styles.
func New(width int) *Renderer {
	return &Renderer{Styles: DefaultStyles(), Width: width}
}

// Render writes doc to w, one block per line group.
func (r *Renderer) Render(w io.Writer, doc *ast.Document) error {
	var b strings.Builder
	for _, blk := range doc.Blocks {
		r.block(&b, blk)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String renders doc into a string.
func (r *Renderer) String(doc *ast.Document) string {
	var b strings.Builder
	r.Render(&b, doc)
	return b.String()
}

func (r *Renderer) block(b *strings.Builder, blk ast.Block) {
	s := &r.Styles
	switch t := blk.(type) {
	case *ast.Heading:
		hs := s.Heading[min(max(t.Level, 1), 6)-1]
		text := strings.Repeat("#", t.Level) + " " + r.inline(t.Inline)
		writeLines(b, r.wrap(hs.Render(text), r.Width))
	case *ast.Paragraph:
		writeLines(b, r.wrap(r.inline(t.Inline), r.Width))
	case *ast.ListItem:
		marker := "• "
		if t.Checked != nil {
			marker = "[ ] "
			if *t.Checked {
				marker = "[x] "
			}
		}
		r.hanging(b, s.ListMarker.Render(marker), len([]rune(marker)), r.inline(t.Inline))
	case *ast.CodeBlock:
		if t.Lang != "" {
			b.WriteString(s.Rule.Render("```"+t.Lang) + "\n")
		}
		for _, l := range strings.Split(t.Raw, "\n") {
			b.WriteString("  " + s.CodeBlock.Render(l) + "\n")
		}
	case *ast.Table:
		r.table(b, t)
	case *ast.Blockquote:
		bar := s.Quote.Render("│ ")
		for i, p := range t.Paragraphs {
			if i > 0 {
				b.WriteString(bar + "\n")
			}
			for _, l := range r.wrap(r.inline(p), r.Width-2) {
				b.WriteString(bar + l + "\n")
			}
		}
	case *ast.RawMarkup:
		for _, l := range strings.Split(t.Raw, "\n") {
			b.WriteString(s.Raw.Render(l) + "\n")
		}
	case *ast.ThematicBreak:
		n := r.Width
		if n <= 0 {
			n = defaultRule
		}
		b.WriteString(s.Rule.Render(strings.Repeat("─", n)) + "\n")
	case *ast.Blank:
		b.WriteString("\n")
	case *ast.Placeholder:
		b.WriteString(s.Placeholder.Render(t.Text) + "\n")
	}
}

// hanging writes text after a marker, indenting continuation lines to the
// marker's width.
func (r *Renderer) hanging(b *strings.Builder, marker string, indent int, text string) {
	lines := r.wrap(text, r.Width-indent)
	pad := strings.Repeat(" ", indent)
	for i, l := range lines {
		if i == 0 {
			b.WriteString(marker + l + "\n")
			continue
		}
		b.WriteString(pad + l + "\n")
	}
}

func (r *Renderer) table(b *strings.Builder, t *ast.Table) {
	header := make([]string, len(t.Header))
	for i, c := range t.Header {
		header[i] = r.Styles.TableHeader.Render(r.inline(c))
	}
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(row))
		for j, c := range row {
			rows[i][j] = r.inline(c)
		}
	}

	var widths []int
	measure := func(cells []string) {
		for i, c := range cells {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], ansi.PrintableRuneWidth(c))
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	line := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteString(" │ ")
			}
			if i == len(cells)-1 {
				b.WriteString(c)
				continue
			}
			b.WriteString(padding.String(c, uint(widths[i])))
		}
		b.WriteString("\n")
	}
	line(header)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	b.WriteString(r.Styles.Rule.Render(strings.Join(sep, "─┼─")) + "\n")
	for _, row := range rows {
		line(row)
	}
}

func (r *Renderer) inline(l []ast.Inline) string {
	s := &r.Styles
	var b strings.Builder
	for _, in := range l {
		switch t := in.(type) {
		case ast.Text:
			b.WriteString(string(t))
		case ast.Strong:
			b.WriteString(s.Strong.Render(r.inline(t.Inner)))
		case ast.Emphasis:
			b.WriteString(s.Emphasis.Render(r.inline(t.Inner)))
		case ast.Code:
			b.WriteString(s.Code.Render(string(t)))
		case ast.Link:
			b.WriteString(s.Link.Render(r.inline(t.Label)))
			b.WriteString(" " + s.LinkURL.Render("("+t.Target+")"))
		case ast.Image:
			b.WriteString(s.LinkURL.Render("[image: " + t.Alt + "]"))
		case ast.Highlighted:
			b.WriteString(s.Highlight.Render(string(t)))
		case ast.RawHTML:
			b.WriteString(s.Raw.Render(string(t)))
		}
	}
	return b.String()
}

// wrap word-wraps s to width columns and splits it into lines. A width below
// one leaves s unwrapped.
func (r *Renderer) wrap(s string, width int) []string {
	if r.Width > 0 && width > 0 {
		s = wordwrap.String(s, width)
	}
	return strings.Split(s, "\n")
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
}
