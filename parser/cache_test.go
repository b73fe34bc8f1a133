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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anlaki-py/AkiMd/parser"
)

func TestCache(t *testing.T) {
	c, err := parser.NewCache(2)
	require.NoError(t, err)

	a := c.Parse("# one", "")
	assert.Same(t, a, c.Parse("# one", ""), "same text and query reuse the document")
	assert.NotSame(t, a, c.Parse("# one", "one"), "a different query parses again")
	assert.Equal(t, parser.ParseString("# one", "one"), c.Parse("# one", "one"))
	assert.Equal(t, 2, c.Len())

	c.Parse("two", "")
	assert.Equal(t, 2, c.Len())
	assert.NotSame(t, a, c.Parse("# one", ""), "least recently used entry is evicted")

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestNewCacheInvalidSize(t *testing.T) {
	_, err := parser.NewCache(0)
	assert.Error(t, err)
}
