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

// Package parser implements the parser for note source. It splits the
// source into lines, groups them into blocks and runs the text of each
// block through the inline transformer.
//
// Parsing never fails on content. Anything outside the rules below
// degrades to the closest plain representation: a short table becomes
// paragraphs, an unterminated fence runs to the end of the input and an
// unmatched inline delimiter stays literal text.
//
// Each line is classified by the first rule that applies:
//
//	fence       = "```" [ language ] .                       toggles a code block
//	code line   = /* any line while a code block is open */ .
//	raw markup  = "<" block_tag { attr } ">" { line } .      until a blank line or "</block_tag>"
//	quote line  = ">" text .
//	table row   = "|" { cell "|" } .                         at least two rows, else paragraphs
//	heading     = "#" { "#" } " " text .                     one to six "#"
//	break       = "---" | "***" | "___" .
//	task item   = ( "-" | "*" ) " [" ( "x" | "X" | " " ) "]" [ " " text ] .
//	list item   = ( "-" | "*" ) " " text .
//	blank       = { white_space } .
//	paragraph   = text .
//
// Only one multi-line construct is buffered at a time. Starting a new one
// flushes the one in progress.
package parser // import "github.com/anlaki-py/AkiMd/parser"

import (
	"io"
	"strings"

	"github.com/anlaki-py/AkiMd/ast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EmptyText is the text of the placeholder produced for an empty source.
const EmptyText = "Empty buffer"

// MustParse is like Parse but panics if the source cannot be read.
func MustParse(src io.Reader, query string) *ast.Document {
	doc, err := Parse(src, query)
	if err != nil {
		panic("Parse error: " + err.Error())
	}
	return doc
}

// Parse reads the whole source and parses it. The only errors it returns
// come from reading src.
func Parse(src io.Reader, query string) (*ast.Document, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return ParseString(string(b), query), nil
}

// ParseString parses text into a Document. Occurrences of query are
// highlighted in the inline text of every block except code. An empty
// query disables highlighting.
func ParseString(text, query string) *ast.Document {
	if text == "" {
		return &ast.Document{Blocks: []ast.Block{&ast.Placeholder{Text: EmptyText}}}
	}
	p := &parser{query: query}
	for _, l := range strings.Split(text, "\n") {
		p.line(strings.TrimSuffix(l, "\r"))
	}
	p.flush()
	return &ast.Document{Blocks: p.blocks}
}

// accumulator names the multi-line construct being buffered.
type accumulator int

const (
	none accumulator = iota
	inCode
	inTable
	inQuote
	inRaw
)

type parser struct {
	query   string
	blocks  []ast.Block
	acc     accumulator
	pending []string
	lang    string // fence language while inCode
	close   string // closing tag while inRaw
}

// enter switches to acc, flushing whatever else was being buffered.
func (p *parser) enter(acc accumulator) {
	if p.acc == acc {
		return
	}
	p.flush()
	p.acc = acc
}

// flush turns the buffered lines into blocks and resets the accumulator.
func (p *parser) flush() {
	switch p.acc {
	case inCode:
		p.blocks = append(p.blocks, codeBlock(p.lang, p.pending))
	case inTable:
		p.blocks = append(p.blocks, tableBlocks(p.pending, p.query)...)
	case inQuote:
		p.blocks = append(p.blocks, quoteBlock(p.pending, p.query))
	case inRaw:
		p.blocks = append(p.blocks, &ast.RawMarkup{Raw: strings.Join(p.pending, "\n")})
	}
	p.acc = none
	p.pending = nil
	p.lang = ""
	p.close = ""
}

func (p *parser) line(l string) {
	if lang, ok := fence(l); ok {
		if p.acc == inCode {
			p.flush()
			return
		}
		p.enter(inCode)
		p.lang = lang
		return
	}
	switch p.acc {
	case inCode:
		p.pending = append(p.pending, l)
		return
	case inRaw:
		if blank(l) {
			p.flush()
			break
		}
		p.pending = append(p.pending, l)
		if closes(l, p.close) {
			p.flush()
		}
		return
	}
	if tag, ok := rawOpen(l); ok {
		p.enter(inRaw)
		p.close = "</" + tag + ">"
		p.pending = append(p.pending, l)
		if closes(l, p.close) {
			p.flush()
		}
		return
	}
	if strings.HasPrefix(l, ">") {
		p.enter(inQuote)
		p.pending = append(p.pending, l)
		return
	}
	if tableRow(l) {
		p.enter(inTable)
		p.pending = append(p.pending, l)
		return
	}
	p.flush()
	p.blocks = append(p.blocks, p.classify(l))
}

// classify handles a line that belongs to no multi-line construct.
func (p *parser) classify(l string) ast.Block {
	if level, text, ok := heading(l); ok {
		return &ast.Heading{Level: level, Inline: Inline(text, p.query)}
	}
	switch strings.TrimSpace(l) {
	case "---", "***", "___":
		return &ast.ThematicBreak{}
	}
	if checked, text, ok := task(l); ok {
		return &ast.ListItem{Checked: &checked, Inline: Inline(text, p.query)}
	}
	if strings.HasPrefix(l, "- ") || strings.HasPrefix(l, "* ") {
		return &ast.ListItem{Inline: Inline(strings.TrimSpace(l[2:]), p.query)}
	}
	if blank(l) {
		return &ast.Blank{}
	}
	return &ast.Paragraph{Inline: Inline(l, p.query)}
}

func blank(l string) bool {
	return strings.TrimSpace(l) == ""
}

// fence reports whether l is a fence of exactly three backticks and
// returns its language tag.
func fence(l string) (string, bool) {
	t := strings.TrimLeft(l, " \t")
	if !strings.HasPrefix(t, "```") {
		return "", false
	}
	lang := strings.TrimSpace(t[3:])
	if strings.HasPrefix(t[3:], "`") || strings.ContainsRune(lang, '`') {
		return "", false
	}
	return lang, true
}

func heading(l string) (int, string, bool) {
	level := 0
	for level < len(l) && l[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(l) || l[level] != ' ' {
		return 0, "", false
	}
	text := strings.TrimSpace(l[level+1:])
	if text == "" {
		return 0, "", false
	}
	return level, text, true
}

var taskMarkers = [...]string{"- [x]", "- [X]", "- [ ]", "* [x]", "* [X]", "* [ ]"}

func task(l string) (bool, string, bool) {
	for _, m := range taskMarkers {
		if !strings.HasPrefix(l, m) {
			continue
		}
		if len(l) > len(m) && l[len(m)] != ' ' {
			return false, "", false
		}
		return m[3] != ' ', strings.TrimSpace(l[len(m):]), true
	}
	return false, "", false
}

func tableRow(l string) bool {
	t := strings.TrimSpace(l)
	return len(t) >= 2 && t[0] == '|' && t[len(t)-1] == '|'
}

// blockTags are the elements whose opening tag starts a raw markup block.
var blockTags = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Audio:      true,
	atom.Blockquote: true,
	atom.Center:     true,
	atom.Details:    true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Fieldset:   true,
	atom.Figcaption: true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.Header:     true,
	atom.Iframe:     true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Picture:    true,
	atom.Pre:        true,
	atom.Script:     true,
	atom.Section:    true,
	atom.Style:      true,
	atom.Summary:    true,
	atom.Svg:        true,
	atom.Table:      true,
	atom.Ul:         true,
	atom.Video:      true,
}

// rawOpen reports whether l opens a block-level element and returns the
// lower-cased tag name. Self-closing tags do not open a block.
//
// Only the first token of the line is looked at; nested elements spanning
// several lines are not balanced.
func rawOpen(l string) (string, bool) {
	t := strings.TrimSpace(l)
	if !strings.HasPrefix(t, "<") {
		return "", false
	}
	z := html.NewTokenizer(strings.NewReader(t))
	if z.Next() != html.StartTagToken {
		return "", false
	}
	name, _ := z.TagName()
	if !blockTags[atom.Lookup(name)] {
		return "", false
	}
	return string(name), true
}

func closes(l, tag string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(l)), tag)
}
