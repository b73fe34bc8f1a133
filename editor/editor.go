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

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/anlaki-py/AkiMd/ast"
	"github.com/anlaki-py/AkiMd/gen/overlay"
	"github.com/anlaki-py/AkiMd/parser"
	"github.com/anlaki-py/AkiMd/store"
)

// TextSurface is the editable surface. CenterOn scrolls a text position
// into the middle of the viewport.
type TextSurface interface {
	Focuser
	CenterOn(p Position)
}

// PreviewSurface shows the rendered document. CenterBlock scrolls the
// block with the given index into the middle of the viewport.
type PreviewSurface interface {
	CenterBlock(i int)
}

// Stats summarises the note text.
type Stats struct {
	Octets int // byte length
	Words  int // runs of non-space characters
}

// Config holds the collaborators of an Editor. Surfaces may be nil.
type Config struct {
	Store     store.Store
	Text      TextSurface
	Preview   PreviewSurface
	CacheSize int
	Navigator *Navigator
	Log       zerolog.Logger
}

// Editor is one editing session over a store. It is safe for concurrent
// use; surface callbacks for match navigation run on the navigator's
// goroutine.
type Editor struct {
	store   store.Store
	text    TextSurface
	preview PreviewSurface
	nav     *Navigator
	modes   *Modes
	cache   *parser.Cache
	log     zerolog.Logger

	mu     sync.Mutex
	id     string
	source string
	query  string
}

const defaultCacheSize = 64

var errNoStore = errors.New("no store")

func New(cfg Config) (*Editor, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := parser.NewCache(size)
	if err != nil {
		return nil, err
	}
	nav := cfg.Navigator
	if nav == nil {
		nav = &Navigator{Log: cfg.Log}
	}
	var f Focuser
	if cfg.Text != nil {
		f = cfg.Text
	}
	return &Editor{
		store:   cfg.Store,
		text:    cfg.Text,
		preview: cfg.Preview,
		nav:     nav,
		modes:   NewModes(f),
		cache:   cache,
		log:     cfg.Log,
	}, nil
}

// Open loads a note. On failure the session keeps its previous note.
func (e *Editor) Open(id string) store.Status {
	if e.store == nil {
		return store.Status{Err: errNoStore}
	}
	text, st := store.Load(e.store, id)
	if !st.OK {
		e.log.Warn().Err(st.Err).Str("id", id).Msg("open failed")
		return st
	}
	e.mu.Lock()
	e.id = id
	e.source = text
	e.mu.Unlock()
	if e.modes.Mode() == Edit {
		e.modes.Set(Edit)
	}
	e.log.Debug().Str("id", id).Msg("opened")
	return st
}

// ID returns the id of the open note.
func (e *Editor) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// SetText replaces the note text and writes it through to the store. A
// failed write is reported and the new text is kept.
func (e *Editor) SetText(text string) store.Status {
	e.mu.Lock()
	e.source = text
	id := e.id
	e.mu.Unlock()
	if id == "" || e.store == nil {
		return store.Status{OK: true}
	}
	st := store.Save(e.store, id, text)
	if !st.OK {
		e.log.Warn().Err(st.Err).Str("id", id).Msg("save failed")
	}
	return st
}

func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

// SetQuery changes the search query. A changed, non-empty query schedules
// a jump to its first match in the active view.
func (e *Editor) SetQuery(q string) {
	e.mu.Lock()
	if q == e.query {
		e.mu.Unlock()
		return
	}
	e.query = q
	e.mu.Unlock()
	if q == "" {
		e.nav.Cancel()
		return
	}
	e.nav.Schedule(e.reveal)
}

func (e *Editor) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// reveal centers the first match of the current query in the active view.
func (e *Editor) reveal() {
	e.mu.Lock()
	text, q := e.source, e.query
	e.mu.Unlock()
	if q == "" {
		return
	}
	switch e.modes.Mode() {
	case Edit:
		if e.text == nil {
			return
		}
		if p, ok := FindText(text, q); ok {
			e.log.Debug().Int("line", p.Line).Int("column", p.Column).Msg("reveal match")
			e.text.CenterOn(p)
		}
	case Preview:
		if e.preview == nil {
			return
		}
		if i, ok := FindBlock(e.cache.Parse(text, q)); ok {
			e.log.Debug().Int("block", i).Msg("reveal match")
			e.preview.CenterBlock(i)
		}
	}
}

// Document returns the parsed note with the current query highlighted.
// The document is shared and must not be modified.
func (e *Editor) Document() *ast.Document {
	e.mu.Lock()
	text, q := e.source, e.query
	e.mu.Unlock()
	return e.cache.Parse(text, q)
}

// Overlay returns the highlight overlay for the edit surface.
func (e *Editor) Overlay() overlay.Overlay {
	e.mu.Lock()
	text, q := e.source, e.query
	e.mu.Unlock()
	return overlay.Project(text, q)
}

func (e *Editor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{Octets: len(e.source), Words: len(strings.Fields(e.source))}
}

func (e *Editor) Mode() Mode {
	return e.modes.Mode()
}

// Toggle switches between Edit and Preview.
func (e *Editor) Toggle() Mode {
	m := e.modes.Toggle()
	e.log.Debug().Stringer("mode", m).Msg("mode")
	return m
}
