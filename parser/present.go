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

package parser

import (
	"strings"

	"github.com/anlaki-py/AkiMd/ast"
)

// codeBlock joins the fenced lines unchanged.
func codeBlock(lang string, lines []string) *ast.CodeBlock {
	return &ast.CodeBlock{Lang: lang, Raw: strings.Join(lines, "\n")}
}

// tableBlocks builds a table from at least two buffered rows: the first row
// is the header, the second is the delimiter row and is dropped. A single
// row degrades to a paragraph. Column counts are not reconciled.
func tableBlocks(lines []string, query string) []ast.Block {
	if len(lines) < 2 {
		blocks := make([]ast.Block, 0, len(lines))
		for _, l := range lines {
			blocks = append(blocks, &ast.Paragraph{Inline: Inline(l, query)})
		}
		return blocks
	}
	t := &ast.Table{Header: cells(lines[0], query)}
	for _, l := range lines[2:] {
		t.Rows = append(t.Rows, cells(l, query))
	}
	return []ast.Block{t}
}

// cells splits a row on the pipes that are not escaped.
func cells(row, query string) [][]ast.Inline {
	row = strings.TrimSpace(row)
	row = row[1 : len(row)-1]
	var out [][]ast.Inline
	last := 0
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			i++
		case '|':
			out = append(out, Inline(strings.TrimSpace(row[last:i]), query))
			last = i + 1
		}
	}
	return append(out, Inline(strings.TrimSpace(row[last:]), query))
}

// quoteBlock strips the quote markers and joins consecutive lines into
// paragraphs. An empty quoted line separates paragraphs.
func quoteBlock(lines []string, query string) *ast.Blockquote {
	q := &ast.Blockquote{}
	var para []string
	end := func() {
		if len(para) > 0 {
			q.Paragraphs = append(q.Paragraphs, Inline(strings.Join(para, " "), query))
			para = nil
		}
	}
	for _, l := range lines {
		l = strings.TrimPrefix(l, ">")
		l = strings.TrimPrefix(l, " ")
		if blank(l) {
			end()
			continue
		}
		para = append(para, l)
	}
	end()
	return q
}
