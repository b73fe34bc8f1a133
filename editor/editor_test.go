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
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anlaki-py/AkiMd/ast"
	"github.com/anlaki-py/AkiMd/parser"
	"github.com/anlaki-py/AkiMd/store"
)

type fakeText struct {
	mu      sync.Mutex
	focused int
	centers []Position
}

func (f *fakeText) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused++
}

func (f *fakeText) CenterOn(p Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.centers = append(f.centers, p)
}

func (f *fakeText) snapshot() (int, []Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused, append([]Position(nil), f.centers...)
}

type fakePreview struct {
	mu     sync.Mutex
	blocks []int
}

func (f *fakePreview) CenterBlock(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks = append(f.blocks, i)
}

func (f *fakePreview) snapshot() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.blocks...)
}

type fakeOverlay struct{ got []Offset }

func (f *fakeOverlay) ScrollTo(o Offset) { f.got = append(f.got, o) }

func TestModes(t *testing.T) {
	f := &fakeText{}
	m := NewModes(f)
	assert.Equal(t, Edit, m.Mode())

	assert.Equal(t, Preview, m.Toggle())
	n, _ := f.snapshot()
	assert.Zero(t, n, "entering preview does not focus")

	assert.Equal(t, Edit, m.Toggle())
	n, _ = f.snapshot()
	assert.Equal(t, 1, n)

	assert.Equal(t, "preview", Preview.String())
	NewModes(nil).Toggle()
}

func TestScrollSync(t *testing.T) {
	o := &fakeOverlay{}
	s := &ScrollSync{Overlay: o}
	s.OnScroll(Offset{Top: 120, Left: 4})
	s.OnScroll(Offset{Top: 80})
	assert.Equal(t, []Offset{{120, 4}, {80, 0}}, o.got)

	(&ScrollSync{}).OnScroll(Offset{Top: 1})
}

func TestCenterTop(t *testing.T) {
	assert.Equal(t, 0, CenterTop(0, 20, 400))
	assert.Equal(t, 20*50+10-200, CenterTop(50, 20, 400))
}

func TestFindText(t *testing.T) {
	p, ok := FindText("first\nsecond Grüße cat\nthird cat", "CAT")
	require.True(t, ok)
	assert.Equal(t, Position{Line: 1, Column: 13}, p)

	_, ok = FindText("no match", "cat")
	assert.False(t, ok)
	_, ok = FindText("cat", "")
	assert.False(t, ok)
}

func TestFindBlock(t *testing.T) {
	doc := parser.ParseString("# Title\n```\ncat\n```\n| a |\n|---|\n| the cat |", "cat")
	i, ok := FindBlock(doc)
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.IsType(t, &ast.Table{}, doc.Blocks[i])

	_, ok = FindBlock(parser.ParseString("nothing", "cat"))
	assert.False(t, ok)
	_, ok = FindBlock(nil)
	assert.False(t, ok)
}

func TestNavigatorLastCallWins(t *testing.T) {
	n := &Navigator{Delay: 20 * time.Millisecond}
	var mu sync.Mutex
	var ran []string
	run := func(s string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			ran = append(ran, s)
		}
	}
	n.Schedule(run("c"))
	n.Schedule(run("ca"))
	n.Schedule(run("cat"))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ran) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"cat"}, ran)
	mu.Unlock()

	n.Schedule(run("dropped"))
	n.Cancel()
	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"cat"}, ran)
	mu.Unlock()
}

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestNavigatorLogs(t *testing.T) {
	var buf lockedBuffer
	n := &Navigator{Delay: 10 * time.Millisecond, Log: zerolog.New(&buf).Level(zerolog.DebugLevel)}
	jumped := make(chan struct{}, 1)

	n.Schedule(func() {})
	n.Schedule(func() { jumped <- struct{}{} })
	select {
	case <-jumped:
	case <-time.After(time.Second):
		t.Fatal("jump did not run")
	}
	n.Delay = time.Second
	n.Schedule(func() {})
	n.Cancel()

	require.Eventually(t, func() bool {
		out := buf.String()
		return bytes.Count([]byte(out), []byte(`"message":"jump scheduled"`)) == 3 &&
			bytes.Contains([]byte(out), []byte(`"message":"jump superseded"`)) &&
			bytes.Contains([]byte(out), []byte(`"message":"jump"`)) &&
			bytes.Contains([]byte(out), []byte(`"message":"jump cancelled"`))
	}, time.Second, 5*time.Millisecond)
}

func newEditor(t *testing.T, s store.Store) (*Editor, *fakeText, *fakePreview) {
	t.Helper()
	text, preview := &fakeText{}, &fakePreview{}
	e, err := New(Config{
		Store:     s,
		Text:      text,
		Preview:   preview,
		Navigator: &Navigator{Delay: 10 * time.Millisecond},
	})
	require.NoError(t, err)
	return e, text, preview
}

func TestEditorSession(t *testing.T) {
	s := store.NewMemory(map[string]string{"a.md": "# Notes\n\nfeed the cat"})
	e, text, _ := newEditor(t, s)

	st := e.Open("a.md")
	require.True(t, st.OK)
	focused, _ := text.snapshot()
	assert.Equal(t, 1, focused, "opening a note in edit mode focuses the editor")
	assert.Equal(t, "a.md", e.ID())

	assert.Equal(t, Stats{Octets: 21, Words: 5}, e.Stats())

	st = e.SetText("# Notes\n\nfeed the **cat** twice")
	require.True(t, st.OK)
	saved, err := s.Get("a.md")
	require.NoError(t, err)
	assert.Equal(t, e.Text(), saved)

	e.SetQuery("cat")
	doc := e.Document()
	assert.Same(t, doc, e.Document(), "unchanged text and query reuse the parse")
	assert.Equal(t, 1, e.Overlay().Matches())
	assert.Equal(t, Edit, e.Mode(), "content changes never switch modes")

	require.Eventually(t, func() bool {
		_, c := text.snapshot()
		return len(c) == 1
	}, time.Second, 5*time.Millisecond)
	_, c := text.snapshot()
	assert.Equal(t, Position{Line: 2, Column: 11}, c[0])
}

func TestEditorPreviewNavigation(t *testing.T) {
	e, text, preview := newEditor(t, store.NewMemory(map[string]string{"a.md": "# cat\nplain\n> the cat"}))
	require.True(t, e.Open("a.md").OK)
	assert.Equal(t, Preview, e.Toggle())

	e.SetQuery("the cat")
	require.Eventually(t, func() bool { return len(preview.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{2}, preview.snapshot())
	_, c := text.snapshot()
	assert.Empty(t, c)

	e.SetQuery("zebra")
	time.Sleep(40 * time.Millisecond)
	assert.Len(t, preview.snapshot(), 1, "no match is a no-op")
}

func TestEditorSameQueryStays(t *testing.T) {
	e, text, _ := newEditor(t, store.NewMemory(map[string]string{"a.md": "one cat\ntwo cat"}))
	require.True(t, e.Open("a.md").OK)

	e.SetQuery("cat")
	require.Eventually(t, func() bool {
		_, c := text.snapshot()
		return len(c) == 1
	}, time.Second, 5*time.Millisecond)

	e.SetQuery("cat")
	time.Sleep(40 * time.Millisecond)
	_, c := text.snapshot()
	assert.Len(t, c, 1, "an unchanged query does not jump again")
}

func TestEditorEmptyQueryCancels(t *testing.T) {
	e, text, _ := newEditor(t, store.NewMemory(map[string]string{"a.md": "cat"}))
	require.True(t, e.Open("a.md").OK)
	e.SetQuery("cat")
	e.SetQuery("")
	time.Sleep(40 * time.Millisecond)
	_, c := text.snapshot()
	assert.Empty(t, c)
	assert.Equal(t, []ast.Block{&ast.Paragraph{Inline: []ast.Inline{ast.Text("cat")}}}, e.Document().Blocks)
}

type brokenStore struct{ *store.Memory }

var errBroken = errors.New("broken")

func (brokenStore) Put(string, string) error { return errBroken }

func TestEditorFailSoft(t *testing.T) {
	e, _, _ := newEditor(t, brokenStore{store.NewMemory(map[string]string{"a.md": "old"})})
	require.True(t, e.Open("a.md").OK)

	st := e.SetText("new **text**")
	assert.False(t, st.OK)
	assert.ErrorIs(t, st.Err, errBroken)
	assert.Equal(t, "new **text**", e.Text(), "a failed save keeps the edit")
	assert.Len(t, e.Document().Blocks, 1)

	st = e.Open("missing.md")
	assert.ErrorIs(t, st.Err, store.ErrNotFound)
	assert.Equal(t, "a.md", e.ID())

	bare, err := New(Config{})
	require.NoError(t, err)
	assert.False(t, bare.Open("a.md").OK)
	assert.True(t, bare.SetText("scratch").OK)
	bare.SetText("")
	assert.Equal(t, []ast.Block{&ast.Placeholder{Text: parser.EmptyText}}, bare.Document().Blocks)
}
