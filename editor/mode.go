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

// Package editor holds the state of an editing session: the note text, the
// search query, the Edit/Preview mode and the side effects that keep the
// edit surface, its highlight overlay and the preview in step.
//
// Surfaces are supplied by the caller. The editor never draws anything
// itself; it tells a surface where to scroll or when to take focus.
package editor // import "github.com/anlaki-py/AkiMd/editor"

import "sync"

// Mode is the active view of the session.
type Mode int

const (
	Edit Mode = iota
	Preview
)

func (m Mode) String() string {
	switch m {
	case Edit:
		return "edit"
	case Preview:
		return "preview"
	}
	return "unknown"
}

// Focuser is a surface that can take keyboard focus.
type Focuser interface {
	Focus()
}

// Modes switches between Edit and Preview. It starts in Edit and only
// changes on an explicit call. Entering Edit focuses the edit surface.
type Modes struct {
	mu    sync.Mutex
	mode  Mode
	focus Focuser
}

// NewModes returns a mode machine in Edit mode. f may be nil.
func NewModes(f Focuser) *Modes {
	return &Modes{focus: f}
}

func (m *Modes) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Toggle flips the mode and returns the new one.
func (m *Modes) Toggle() Mode {
	m.mu.Lock()
	next := Edit
	if m.mode == Edit {
		next = Preview
	}
	m.mu.Unlock()
	m.Set(next)
	return next
}

// Set switches to mode. Setting Edit focuses the edit surface even when the
// session is already in Edit, as happens when another note is opened.
func (m *Modes) Set(mode Mode) {
	m.mu.Lock()
	m.mode = mode
	f := m.focus
	m.mu.Unlock()
	if mode == Edit && f != nil {
		f.Focus()
	}
}
