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

// Package overlay projects the search matches of a raw text onto a layer
// drawn behind the edit surface. The layer keeps every character of the
// text in place and only changes how it is shown, so its lines and columns
// stay aligned with the edit surface at any scroll offset.
package overlay // import "github.com/anlaki-py/AkiMd/gen/overlay"

import (
	"html"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/anlaki-py/AkiMd/search"
)

// Segment is a run of text that is either a match or not.
type Segment struct {
	Text  string
	Match bool
}

// Line holds the segments of one line, without its line break.
type Line struct {
	Segments []Segment
}

type Overlay struct {
	Lines []Line
}

// Project splits text into lines and marks every case-insensitive match of
// query. An empty query marks nothing. A match spanning a line break is
// split at the break.
func Project(text, query string) Overlay {
	spans := search.Spans(text, query)
	var o Overlay
	start := 0
	for {
		end := strings.IndexByte(text[start:], '\n')
		if end == -1 {
			end = len(text)
		} else {
			end += start
		}
		o.Lines = append(o.Lines, line(text, start, end, &spans))
		if end == len(text) {
			return o
		}
		start = end + 1
	}
}

// line builds the segments of text[start:end], consuming the spans that end
// inside it.
func line(text string, start, end int, spans *[]search.Span) Line {
	var l Line
	at := start
	for len(*spans) > 0 {
		sp := (*spans)[0]
		if sp.Start >= end {
			break
		}
		from := max(sp.Start, at)
		to := min(sp.End, end)
		if from > at {
			l.Segments = append(l.Segments, Segment{Text: text[at:from]})
		}
		if to > from {
			l.Segments = append(l.Segments, Segment{Text: text[from:to], Match: true})
			at = to
		}
		if sp.End > end {
			break
		}
		*spans = (*spans)[1:]
	}
	if at < end {
		l.Segments = append(l.Segments, Segment{Text: text[at:end]})
	}
	return l
}

// Matches returns the number of match segments.
func (o Overlay) Matches() int {
	n := 0
	for _, l := range o.Lines {
		for _, s := range l.Segments {
			if s.Match {
				n++
			}
		}
	}
	return n
}

// String returns the projected text, which is always the original text.
func (o Overlay) String() string {
	return o.render(func(b *strings.Builder, s Segment) { b.WriteString(s.Text) })
}

// HTML renders matches inside mark elements and everything else inside
// transparent spans. All text is escaped.
func (o Overlay) HTML() string {
	return o.render(func(b *strings.Builder, s Segment) {
		if s.Match {
			b.WriteString("<mark>")
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString("</mark>")
			return
		}
		b.WriteString(`<span class="transparent">`)
		b.WriteString(html.EscapeString(s.Text))
		b.WriteString("</span>")
	})
}

const (
	reverse   = "\x1b[7m"
	noReverse = "\x1b[27m"
)

// ANSI renders matches in reverse video. Other characters become blanks of
// the same display width; tabs and carriage returns are kept.
func (o Overlay) ANSI() string {
	return o.render(func(b *strings.Builder, s Segment) {
		if s.Match {
			b.WriteString(reverse)
			b.WriteString(s.Text)
			b.WriteString(noReverse)
			return
		}
		for _, r := range s.Text {
			switch r {
			case '\t', '\r':
				b.WriteRune(r)
			default:
				b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
			}
		}
	})
}

func (o Overlay) render(seg func(*strings.Builder, Segment)) string {
	var b strings.Builder
	for i, l := range o.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, s := range l.Segments {
			seg(&b, s)
		}
	}
	return b.String()
}
