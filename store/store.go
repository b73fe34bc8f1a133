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

// Package store keeps notes for the editor. A Store is addressed by note
// ids: slash separated paths relative to the vault root.
package store // import "github.com/anlaki-py/AkiMd/store"

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrNotFound  = errors.New("note not found")
	ErrInvalidID = errors.New("invalid note id")
)

// RootID names the vault root folder.
const RootID = "root"

// Store reads and writes note text.
type Store interface {
	Get(id string) (string, error)
	Put(id, text string) error
}

// Kind tells folders and notes apart.
type Kind int

const (
	Note Kind = iota
	Folder
)

func (k Kind) String() string {
	if k == Folder {
		return "folder"
	}
	return "markdown"
}

// Item describes one entry of a vault listing.
type Item struct {
	ID       string
	Name     string
	Kind     Kind
	Parent   string // empty for the root
	Children []string
	Modified time.Time
}

// Status is the outcome of a storage call that must not interrupt editing.
type Status struct {
	OK  bool
	Err error
}

func (s Status) String() string {
	if s.OK {
		return "saved"
	}
	return "save failed: " + s.Err.Error()
}

// Save writes text and reports the outcome instead of failing.
func Save(s Store, id, text string) Status {
	if err := s.Put(id, text); err != nil {
		return Status{Err: fmt.Errorf("save %s: %w", id, err)}
	}
	return Status{OK: true}
}

// Load reads a note and reports the outcome instead of failing. The text
// is empty unless the status is OK.
func Load(s Store, id string) (string, Status) {
	text, err := s.Get(id)
	if err != nil {
		return "", Status{Err: fmt.Errorf("load %s: %w", id, err)}
	}
	return text, Status{OK: true}
}

// normalize returns the canonical form of an id.
func normalize(id string) string {
	return norm.NFC.String(strings.TrimPrefix(strings.ReplaceAll(id, `\`, "/"), "./"))
}

// Memory is a Store held in memory. The zero value is ready to use.
type Memory struct {
	mu    sync.RWMutex
	notes map[string]string
}

func NewMemory(notes map[string]string) *Memory {
	m := &Memory{notes: make(map[string]string, len(notes))}
	for id, text := range notes {
		m.notes[normalize(id)] = text
	}
	return m
}

func (m *Memory) Get(id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.notes[normalize(id)]
	if !ok {
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return text, nil
}

func (m *Memory) Put(id, text string) error {
	id = normalize(id)
	if id == "" || id == RootID {
		return fmt.Errorf("%q: %w", id, ErrInvalidID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notes == nil {
		m.notes = make(map[string]string)
	}
	m.notes[id] = text
	return nil
}
