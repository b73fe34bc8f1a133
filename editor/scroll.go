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

package editor

// Offset is a scroll position in pixels or cells, whichever the surface
// uses.
type Offset struct {
	Top  int
	Left int
}

// Scroller is a surface whose scroll position can be set.
type Scroller interface {
	ScrollTo(o Offset)
}

// ScrollSync mirrors the scroll position of the edit surface onto the
// highlight overlay. The edit surface is the only writer; OnScroll must be
// called from its scroll event handler.
type ScrollSync struct {
	Overlay Scroller
}

// OnScroll copies the offset to the overlay before returning.
func (s *ScrollSync) OnScroll(o Offset) {
	if s.Overlay != nil {
		s.Overlay.ScrollTo(o)
	}
}

// CenterTop returns the top scroll offset that puts line (zero based) in
// the middle of a viewport of the given height. It never returns a
// negative offset.
func CenterTop(line, lineHeight, viewport int) int {
	top := line*lineHeight + lineHeight/2 - viewport/2
	return max(top, 0)
}
