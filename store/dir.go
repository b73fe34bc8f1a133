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

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// WelcomeID is the note written into a new, empty vault.
const WelcomeID = "Welcome.md"

const welcome = "# Welcome to Aki\n\nThis is your professional workspace on Linux.\n\n" +
	"- Files are stored in `./aki-vault/` \n- Edits are synced in real-time."

// Dir is a vault backed by a directory. Notes are the .md files below the
// root and folders are its subdirectories.
type Dir struct {
	root string
	fsys fs.FS
	log  zerolog.Logger
}

// Open returns the vault rooted at root, creating the directory when it is
// missing and seeding a welcome note when it is empty.
func Open(root string, log zerolog.Logger) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create vault: %w", err)
	}
	d := &Dir{root: root, fsys: os.DirFS(root), log: log}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read vault: %w", err)
	}
	if len(entries) == 0 {
		if err := os.WriteFile(filepath.Join(root, WelcomeID), []byte(welcome), 0o644); err != nil {
			return nil, fmt.Errorf("seed vault: %w", err)
		}
		log.Info().Str("root", root).Msg("created vault")
	}
	return d, nil
}

// Root returns the vault directory.
func (d *Dir) Root() string {
	return d.root
}

// resolve checks an id and returns its canonical form and file path.
func (d *Dir) resolve(id string) (string, string, error) {
	id = normalize(id)
	if id == "" {
		return "", "", fmt.Errorf("%q: %w", id, ErrInvalidID)
	}
	// "." and "a/.." name the vault itself.
	clean := path.Clean(id)
	if clean == "." || clean == RootID || !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", "", fmt.Errorf("%q: %w", id, ErrInvalidID)
	}
	return clean, filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

func (d *Dir) Get(id string) (string, error) {
	id, p, err := d.resolve(id)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Put overwrites a note. Its folder must exist.
func (d *Dir) Put(id, text string) error {
	id, p, err := d.resolve(id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		d.log.Warn().Err(err).Str("id", id).Msg("put failed")
		return err
	}
	d.log.Debug().Str("id", id).Int("bytes", len(text)).Msg("saved")
	return nil
}

// Create makes an empty note or a folder named name inside parent and
// returns its id. Existing notes are not overwritten.
func (d *Dir) Create(parent, name string, folder bool) (string, error) {
	id := name
	if parent != "" && normalize(parent) != RootID {
		id = parent + "/" + name
	}
	id, p, err := d.resolve(id)
	if err != nil {
		return "", err
	}
	if folder {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", err
		}
		return id, nil
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	d.log.Info().Str("id", id).Msg("created note")
	return id, f.Close()
}

// Delete removes a note or a folder with everything inside it.
func (d *Dir) Delete(id string) error {
	id, p, err := d.resolve(id)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(p); err != nil {
		return err
	}
	d.log.Info().Str("id", id).Msg("deleted")
	return nil
}

// List returns the root folder, every subfolder and every note of the
// vault, sorted by id with the root first.
func (d *Dir) List() ([]Item, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return nil, err
	}
	items := map[string]*Item{
		RootID: {ID: RootID, Name: filepath.Base(d.root), Kind: Folder, Modified: info.ModTime()},
	}

	err = doublestar.GlobWalk(d.fsys, "**", func(p string, e fs.DirEntry) error {
		if p == "." || p == "" || !e.IsDir() {
			return nil
		}
		fi, err := e.Info()
		if err != nil {
			return err
		}
		items[p] = &Item{ID: p, Name: path.Base(p), Kind: Folder, Parent: parentID(p), Modified: fi.ModTime()}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	notes, err := doublestar.Glob(d.fsys, "**/*.md", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	for _, p := range notes {
		fi, err := fs.Stat(d.fsys, p)
		if err != nil {
			return nil, err
		}
		items[p] = &Item{ID: p, Name: path.Base(p), Kind: Note, Parent: parentID(p), Modified: fi.ModTime()}
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Parent != "" {
			if parent, ok := items[it.Parent]; ok {
				parent.Children = append(parent.Children, it.ID)
			}
		}
	}
	for _, it := range items {
		sort.Strings(it.Children)
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID == RootID || out[j].ID == RootID {
			return out[i].ID == RootID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func parentID(p string) string {
	dir := path.Dir(p)
	if dir == "." {
		return RootID
	}
	return dir
}
