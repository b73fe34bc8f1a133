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

// Package search finds case-insensitive literal matches of a query in text.
// Both the inline highlight pass and the overlay projector use it, so the
// two always agree on where a match starts and ends.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) of the searched text.
type Span struct {
	Start int
	End   int
}

// Spans returns the non-overlapping matches of query in text, left to
// right. An empty query never matches.
func Spans(text, query string) []Span {
	if query == "" || text == "" {
		return nil
	}
	// When lowering keeps the width of every rune, offsets into the
	// lowered text are offsets into text.
	if lowerKeepsOffsets(text) {
		lower := strings.ToLower(text)
		needle := strings.ToLower(query)
		var spans []Span
		from := 0
		for {
			idx := strings.Index(lower[from:], needle)
			if idx == -1 {
				return spans
			}
			start := from + idx
			end := start + len(needle)
			spans = append(spans, Span{start, end})
			from = end
		}
	}

	var spans []Span
	for i := 0; i < len(text); {
		if end, ok := matchFolded(text, i, query); ok {
			spans = append(spans, Span{i, end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return spans
}

// First returns the first match of query in text.
func First(text, query string) (Span, bool) {
	spans := Spans(text, query)
	if len(spans) == 0 {
		return Span{}, false
	}
	return spans[0], true
}

// Contains reports whether text holds at least one match.
func Contains(text, query string) bool {
	_, ok := First(text, query)
	return ok
}

// matchFolded compares query against text at byte offset i rune by rune
// under simple case folding and returns the end offset of the match.
func matchFolded(text string, i int, query string) (int, bool) {
	j := i
	for _, qr := range query {
		if j >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[j:])
		if !equalFold(tr, qr) {
			return 0, false
		}
		j += size
	}
	return j, true
}

func lowerKeepsOffsets(s string) bool {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || utf8.RuneLen(unicode.ToLower(r)) != size {
			return false
		}
		i += size
	}
	return true
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
