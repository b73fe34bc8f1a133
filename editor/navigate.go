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
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/anlaki-py/AkiMd/ast"
	"github.com/anlaki-py/AkiMd/search"
)

// DefaultSettle is the delay between the last query change and the jump to
// its first match.
const DefaultSettle = 150 * time.Millisecond

// Navigator runs a jump after the query has settled. Scheduling a new jump
// cancels the pending one, so only the last call runs.
type Navigator struct {
	Delay time.Duration
	Log   zerolog.Logger

	mu    sync.Mutex
	gen   int
	timer *time.Timer
}

// Schedule runs jump after the settle delay unless another call to Schedule
// or Cancel comes first. jump runs on its own goroutine.
func (n *Navigator) Schedule(jump func()) {
	d := n.Delay
	if d <= 0 {
		d = DefaultSettle
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stop() {
		n.Log.Debug().Msg("jump superseded")
	}
	gen := n.gen
	n.Log.Debug().Dur("delay", d).Msg("jump scheduled")
	n.timer = time.AfterFunc(d, func() {
		n.mu.Lock()
		current := n.gen == gen
		n.mu.Unlock()
		if !current {
			return
		}
		n.Log.Debug().Msg("jump")
		jump()
	})
}

// Cancel drops the pending jump, if any.
func (n *Navigator) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stop() {
		n.Log.Debug().Msg("jump cancelled")
	}
}

// stop invalidates the pending jump and reports whether there was one.
func (n *Navigator) stop() bool {
	n.gen++
	if n.timer == nil {
		return false
	}
	pending := n.timer.Stop()
	n.timer = nil
	return pending
}

// Position is a zero based line and column. Columns count runes.
type Position struct {
	Line   int
	Column int
}

// FindText returns the position of the first match of query in text.
func FindText(text, query string) (Position, bool) {
	sp, ok := search.First(text, query)
	if !ok {
		return Position{}, false
	}
	before := text[:sp.Start]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Position{
		Line:   strings.Count(before, "\n"),
		Column: utf8.RuneCountInString(before[lineStart:]),
	}, true
}

var errFound = errors.New("found")

// FindBlock returns the index of the first block holding a highlighted
// fragment.
func FindBlock(doc *ast.Document) (int, bool) {
	if doc == nil {
		return 0, false
	}
	for i, b := range doc.Blocks {
		_, err := ast.Walk(b, func(n ast.Node) (ast.Node, error) {
			if _, ok := n.(ast.Highlighted); ok {
				return nil, errFound
			}
			return nil, nil
		})
		if err == errFound {
			return i, true
		}
	}
	return 0, false
}
