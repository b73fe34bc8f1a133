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

package parser

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/anlaki-py/AkiMd/ast"
)

type cacheKey struct {
	text  string
	query string
}

// Cache remembers the documents of recent parses. A document is only ever
// returned for the exact text and query it was parsed from. Callers share
// cached documents and must not modify them.
type Cache struct {
	docs *lru.Cache[cacheKey, *ast.Document]
}

// NewCache returns a cache holding at most size documents.
func NewCache(size int) (*Cache, error) {
	docs, err := lru.New[cacheKey, *ast.Document](size)
	if err != nil {
		return nil, err
	}
	return &Cache{docs: docs}, nil
}

// Parse returns the cached document for text and query, parsing it first
// if needed.
func (c *Cache) Parse(text, query string) *ast.Document {
	k := cacheKey{text, query}
	if doc, ok := c.docs.Get(k); ok {
		return doc
	}
	doc := ParseString(text, query)
	c.docs.Add(k, doc)
	return doc
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	return c.docs.Len()
}

// Purge drops every cached document.
func (c *Cache) Purge() {
	c.docs.Purge()
}
