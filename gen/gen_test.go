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

package gen

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sq "github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClipboard struct {
	m    sync.Mutex
	text []string
	err  error
}

func (c *memClipboard) Write(text string) error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return c.err
	}
	c.text = append(c.text, text)
	return nil
}

func TestCommandWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clip board.txt")
	c := &Command{Line: "tee " + sq.Join(out)}
	text := "func main() {\n\tprintln(\"hi\")\n}\n"
	require.NoError(t, c.Write(text))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, text, string(got))
}

func TestCommandErrors(t *testing.T) {
	assert.ErrorIs(t, (&Command{Line: "   "}).Write("x"), ErrNoCommand)
	assert.Error(t, (&Command{Line: `tee "unterminated`}).Write("x"))
	assert.Error(t, (&Command{Line: "false"}).Write("x"))
}

func TestNew(t *testing.T) {
	assert.Equal(t, System{}, New(""))
	assert.Equal(t, &Command{Line: "xclip -sel c"}, New("xclip -sel c"))
}

func TestCopyAction(t *testing.T) {
	clip := &memClipboard{}
	a := &CopyAction{Clipboard: clip, Confirm: 30 * time.Millisecond}
	assert.False(t, a.Copied())

	require.NoError(t, a.Copy("  verbatim\n\ttext "))
	assert.True(t, a.Copied())
	assert.Equal(t, []string{"  verbatim\n\ttext "}, clip.text)

	require.Eventually(t, func() bool { return !a.Copied() }, time.Second, 5*time.Millisecond)
}

func TestCopyActionRestartsWindow(t *testing.T) {
	a := &CopyAction{Clipboard: &memClipboard{}, Confirm: 150 * time.Millisecond}
	require.NoError(t, a.Copy("one"))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, a.Copy("two"))
	time.Sleep(100 * time.Millisecond)
	assert.True(t, a.Copied(), "second copy keeps the confirmation alive")
	require.Eventually(t, func() bool { return !a.Copied() }, time.Second, 5*time.Millisecond)
}

func TestCopyActionFailure(t *testing.T) {
	boom := errors.New("boom")
	a := &CopyAction{Clipboard: &memClipboard{err: boom}}
	assert.ErrorIs(t, a.Copy("x"), boom)
	assert.False(t, a.Copied())

	assert.ErrorIs(t, (&CopyAction{}).Copy("x"), ErrNoCommand)
}
