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
	"unicode"
	"unicode/utf8"

	"github.com/anlaki-py/AkiMd/ast"
	"github.com/anlaki-py/AkiMd/search"
)

// frag is one piece of a span while it moves through the inline passes.
// A fragment with a nil node is plain text that later passes may still
// split; every other fragment is final.
type frag struct {
	node ast.Inline
	text string
}

type pass func(s string) []frag

// Inline transforms a span of text into styled fragments. The passes run
// in a fixed order and each only looks at fragments that are still plain,
// so delimiters consumed by an earlier pass are never read again:
//
//	escape, raw markup, image, link, strong, emphasis, code, search highlight
//
// A delimiter without a partner is kept as literal text.
func Inline(span, query string) []ast.Inline {
	if span == "" {
		return nil
	}
	fs := []frag{{text: span}}
	for _, p := range []pass{escapes, rawHTML, images, links, strong, emphasis, code} {
		fs = apply(fs, p)
	}
	fs = coalesce(fs)
	if query != "" {
		fs = apply(fs, func(s string) []frag { return highlight(s, query) })
	}
	out := make([]ast.Inline, 0, len(fs))
	for _, f := range fs {
		switch {
		case f.node != nil:
			out = append(out, f.node)
		case f.text != "":
			out = append(out, ast.Text(f.text))
		}
	}
	return out
}

func apply(fs []frag, p pass) []frag {
	out := make([]frag, 0, len(fs))
	for _, f := range fs {
		if f.node != nil {
			out = append(out, f)
			continue
		}
		out = append(out, p(f.text)...)
	}
	return out
}

// coalesce joins escaped literals and neighbouring plain text back into
// single plain fragments.
func coalesce(fs []frag) []frag {
	out := make([]frag, 0, len(fs))
	var b strings.Builder
	open := false
	for _, f := range fs {
		if t, ok := f.node.(ast.Text); ok || f.node == nil {
			if ok {
				b.WriteString(string(t))
			} else {
				b.WriteString(f.text)
			}
			open = true
			continue
		}
		if open {
			out = append(out, frag{text: b.String()})
			b.Reset()
			open = false
		}
		out = append(out, f)
	}
	if open {
		out = append(out, frag{text: b.String()})
	}
	return out
}

func escapable(c byte) bool {
	switch c {
	case '*', '_', '`', '\\', '#', '[', ']', '>', '|', '!':
		return true
	}
	return false
}

func escapes(s string) []frag {
	var out []frag
	last := 0
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '\\' || !escapable(s[i+1]) {
			continue
		}
		out = append(out, frag{text: s[last:i]}, frag{node: ast.Text(s[i+1 : i+2])})
		i++
		last = i + 1
	}
	return append(out, frag{text: s[last:]})
}

// rawHTML cuts out anything shaped like a tag: '<' followed by a letter,
// '/' or '!', up to the next '>'.
func rawHTML(s string) []frag {
	var out []frag
	last := 0
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '<' || !tagStart(s[i+1]) {
			continue
		}
		j := strings.IndexAny(s[i+1:], "<>")
		if j == -1 {
			break
		}
		j += i + 1
		if s[j] == '<' {
			i = j - 1
			continue
		}
		out = append(out, frag{text: s[last:i]}, frag{node: ast.RawHTML(s[i : j+1])})
		i = j
		last = j + 1
	}
	return append(out, frag{text: s[last:]})
}

func tagStart(c byte) bool {
	return c == '/' || c == '!' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// bracketed matches "[label](target)" at s[i]. It returns the label, the
// target and the offset just past the closing parenthesis.
func bracketed(s string, i int, sq, paren *scanner) (label, target string, end int, ok bool) {
	if i >= len(s) || s[i] != '[' {
		return "", "", 0, false
	}
	k := sq.next(i + 1)
	if k == -1 || k+1 >= len(s) || s[k+1] != '(' {
		return "", "", 0, false
	}
	m := paren.next(k + 2)
	if m == -1 {
		return "", "", 0, false
	}
	return s[i+1 : k], s[k+2 : m], m + 1, true
}

// scanner finds the next occurrence of a byte in s. Lookups must not move
// backwards; the previous answer is reused until the lookup passes it.
type scanner struct {
	s    string
	c    byte
	from int
	at   int
	used bool
}

func (sc *scanner) next(i int) int {
	if sc.used && i >= sc.from && (sc.at == -1 || sc.at >= i) {
		return sc.at
	}
	sc.from, sc.used = i, true
	sc.at = strings.IndexByte(sc.s[i:], sc.c)
	if sc.at != -1 {
		sc.at += i
	}
	return sc.at
}

func images(s string) []frag {
	var out []frag
	last := 0
	sq, paren := &scanner{s: s, c: ']'}, &scanner{s: s, c: ')'}
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '!' || s[i+1] != '[' {
			continue
		}
		alt, src, end, ok := bracketed(s, i+1, sq, paren)
		if !ok || strings.TrimSpace(src) == "" {
			continue
		}
		out = append(out, frag{text: s[last:i]}, frag{node: ast.Image{Alt: alt, Src: strings.TrimSpace(src)}})
		i = end - 1
		last = end
	}
	return append(out, frag{text: s[last:]})
}

func links(s string) []frag {
	var out []frag
	last := 0
	sq, paren := &scanner{s: s, c: ']'}, &scanner{s: s, c: ')'}
	for i := 0; i < len(s); i++ {
		if s[i] != '[' {
			continue
		}
		label, target, end, ok := bracketed(s, i, sq, paren)
		if !ok || label == "" || strings.TrimSpace(target) == "" {
			continue
		}
		out = append(out, frag{text: s[last:i]}, frag{node: ast.Link{
			Label:  []ast.Inline{ast.Text(label)},
			Target: strings.TrimSpace(target),
		}})
		i = end - 1
		last = end
	}
	return append(out, frag{text: s[last:]})
}

func strong(s string) []frag {
	return delimited(s, []string{"**", "__"}, func(inner string) ast.Inline {
		return ast.Strong{Inner: []ast.Inline{ast.Text(inner)}}
	})
}

func emphasis(s string) []frag {
	return delimited(s, []string{"*", "_"}, func(inner string) ast.Inline {
		return ast.Emphasis{Inner: []ast.Inline{ast.Text(inner)}}
	})
}

// delimited pairs each opening delimiter with the first closing delimiter
// of the same kind that leaves a valid inner text: not empty and not
// starting or ending with white space. Underscores only open at the start
// of a word and only close at its end.
//
// Whether a delimiter can close depends only on its own neighbours, so the
// closing offsets are found once per kind and looked up per opener.
func delimited(s string, delims []string, mk func(inner string) ast.Inline) []frag {
	var out []frag
	next := make([][]int, len(delims))
	last := 0
	for i := 0; i < len(s); i++ {
		k := opener(s, i, delims)
		if k == -1 {
			continue
		}
		d := delims[k]
		start := i + len(d)
		if start >= len(s) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(s[start:]); unicode.IsSpace(r) {
			continue
		}
		if next[k] == nil {
			next[k] = closers(s, d)
		}
		end := next[k][start+1]
		if end == -1 {
			continue
		}
		out = append(out, frag{text: s[last:i]}, frag{node: mk(s[start:end])})
		i = end + len(d) - 1
		last = end + len(d)
	}
	return append(out, frag{text: s[last:]})
}

// opener returns the index in delims of the delimiter opening at s[i], or -1.
func opener(s string, i int, delims []string) int {
	for k, d := range delims {
		if !strings.HasPrefix(s[i:], d) {
			continue
		}
		if d[0] == '_' && i > 0 && wordByte(s[:i], false) {
			return -1
		}
		return k
	}
	return -1
}

// closers returns, for every offset p of s, the first offset at or after p
// where d can close a span, or -1.
func closers(s, d string) []int {
	next := make([]int, len(s)+1)
	next[len(s)] = -1
	for p := len(s) - 1; p >= 0; p-- {
		next[p] = next[p+1]
		if p > 0 && strings.HasPrefix(s[p:], d) && canClose(s, p, d) {
			next[p] = p
		}
	}
	return next
}

func canClose(s string, p int, d string) bool {
	if r, _ := utf8.DecodeLastRuneInString(s[:p]); unicode.IsSpace(r) {
		return false
	}
	after := p + len(d)
	return !(d[0] == '_' && after < len(s) && wordByte(s[after:], true))
}

// wordByte reports whether the rune at the start (or end) of s is part of
// a word.
func wordByte(s string, start bool) bool {
	var r rune
	if start {
		r, _ = utf8.DecodeRuneInString(s)
	} else {
		r, _ = utf8.DecodeLastRuneInString(s)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// code pairs each backtick with the next one. An empty pair stays literal.
func code(s string) []frag {
	var out []frag
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '`' {
			continue
		}
		j := strings.IndexByte(s[i+1:], '`')
		if j == -1 {
			break
		}
		j += i + 1
		if j == i+1 {
			i = j
			continue
		}
		out = append(out, frag{text: s[last:i]}, frag{node: ast.Code(s[i+1 : j])})
		i = j
		last = j + 1
	}
	return append(out, frag{text: s[last:]})
}

func highlight(s, query string) []frag {
	spans := search.Spans(s, query)
	if len(spans) == 0 {
		return []frag{{text: s}}
	}
	out := make([]frag, 0, 2*len(spans)+1)
	last := 0
	for _, sp := range spans {
		out = append(out, frag{text: s[last:sp.Start]}, frag{node: ast.Highlighted(s[sp.Start:sp.End])})
		last = sp.End
	}
	return append(out, frag{text: s[last:]})
}
