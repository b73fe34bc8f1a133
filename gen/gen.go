// MIT License

// Copyright (c) 2018 Akhil Indurti
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

// Package gen holds the collaborators shared by the output generators.
//
// A Clipboard receives the verbatim text of a code block. Command pipes
// the text into an external program, System writes to the desktop
// clipboard, and CopyAction wraps either one with the timed "copied"
// confirmation shown next to a code block.
package gen // import "github.com/anlaki-py/AkiMd/gen"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	sq "github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
)

// ErrNoCommand is returned when a clipboard command line holds no words.
var ErrNoCommand = errors.New("no clipboard command")

// DefaultConfirm is how long CopyAction reports a copy as done.
const DefaultConfirm = 2 * time.Second

// Clipboard receives copied text.
type Clipboard interface {
	Write(text string) error
}

// Command holds the command line, cancellation context and Stderr stream of
// a clipboard program. The text is written to the program's standard input.
type Command struct {
	Ctx    context.Context
	Line   string
	Stderr io.Writer
}

// Write runs the command with text as its standard input and waits for it to
// exit. The command line is split according to the Bourne shell's
// word-splitting rules.
func (c *Command) Write(text string) error {
	words, err := sq.Split(c.Line)
	if err != nil {
		return fmt.Errorf("clipboard command %q: %w", c.Line, err)
	}
	if len(words) == 0 {
		return ErrNoCommand
	}
	var cmd *exec.Cmd
	if c.Ctx == nil {
		cmd = exec.Command(words[0], words[1:]...)
	} else {
		cmd = exec.CommandContext(c.Ctx, words[0], words[1:]...)
	}
	cmd.Stdin = strings.NewReader(text)
	if c.Stderr != nil {
		cmd.Stderr = c.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard command %s: %w", words[0], err)
	}
	return nil
}

// System writes to the desktop clipboard.
type System struct{}

func (System) Write(text string) error {
	if clipboard.Unsupported {
		return errors.New("system clipboard unsupported")
	}
	return clipboard.WriteAll(text)
}

// New returns a Command for a non-empty line and the system clipboard
// otherwise.
func New(line string) Clipboard {
	if strings.TrimSpace(line) == "" {
		return System{}
	}
	return &Command{Line: line}
}

// CopyAction copies text and reports the copy as confirmed for Confirm
// after the write succeeds. A later copy restarts the window. It is safe
// for concurrent use.
type CopyAction struct {
	Clipboard Clipboard
	Confirm   time.Duration
	Log       zerolog.Logger

	m      sync.Mutex
	copied bool
	gen    int
	timer  *time.Timer
}

// Copy writes the exact text to the clipboard. A failed write leaves the
// action in its idle state.
func (a *CopyAction) Copy(text string) error {
	if a.Clipboard == nil {
		return ErrNoCommand
	}
	if err := a.Clipboard.Write(text); err != nil {
		a.Log.Warn().Err(err).Msg("copy failed")
		return err
	}
	d := a.Confirm
	if d <= 0 {
		d = DefaultConfirm
	}

	a.m.Lock()
	defer a.m.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.copied = true
	a.timer = time.AfterFunc(d, func() {
		a.m.Lock()
		defer a.m.Unlock()
		if a.gen == gen {
			a.copied = false
		}
	})
	a.Log.Debug().Int("bytes", len(text)).Msg("copied")
	return nil
}

// Copied reports whether a copy is still being confirmed.
func (a *CopyAction) Copied() bool {
	a.m.Lock()
	defer a.m.Unlock()
	return a.copied
}
