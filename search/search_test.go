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

package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSpans(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  []Span
	}{
		{
			name:  "empty query returns no matches",
			text:  "cat",
			query: "",
			want:  nil,
		},
		{
			name:  "case insensitive matching",
			text:  "Cat cAt CAT",
			query: "cat",
			want:  []Span{{0, 3}, {4, 7}, {8, 11}},
		},
		{
			name:  "matches do not overlap",
			text:  "aaaa",
			query: "aa",
			want:  []Span{{0, 2}, {2, 4}},
		},
		{
			name:  "no matches returns empty",
			text:  "foo bar",
			query: "qux",
			want:  nil,
		},
		{
			name:  "multibyte text keeps byte offsets",
			text:  "Grüße GRÜSSE",
			query: "grüße",
			want:  []Span{{0, 7}},
		},
		{
			name:  "runes growing and shrinking under lowering",
			text:  "\u023aabc\u0130",
			query: "abc",
			want:  []Span{{2, 5}},
		},
		{
			name:  "folding path when lowering changes length",
			text:  "xİx i",
			query: "x",
			want:  []Span{{0, 1}, {3, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Spans(tt.text, tt.query))
		})
	}
}

func TestSpansOnRuneBoundaries(t *testing.T) {
	texts := []string{
		"\u023aabc\u0130 ABC",
		"\u0130\u023a\u0130abc",
		"x\xffabc",
		"\ufffdabc",
	}
	for _, text := range texts {
		spans := Spans(text, "abc")
		assert.NotEmpty(t, spans, "text %q", text)
		for _, s := range spans {
			assert.True(t, utf8.ValidString(text[s.Start:s.End]), "text %q span %v", text, s)
			assert.True(t, strings.EqualFold(text[s.Start:s.End], "abc"), "text %q span %v", text, s)
		}
	}
}

func TestFirst(t *testing.T) {
	s, ok := First("one Two two", "two")
	assert.True(t, ok)
	assert.Equal(t, Span{4, 7}, s)

	_, ok = First("one", "two")
	assert.False(t, ok)
	assert.True(t, Contains("Hello", "LL"))
}
