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

// Examples for parse.go
package parser_test

import (
	"fmt"
	"strings"

	"github.com/anlaki-py/AkiMd/ast"
	"github.com/anlaki-py/AkiMd/parser"
)

func ExampleMustParse() {
	src := `# Reading list
- [x] The Hobbit
- [ ] The Silmarillion
- Unfinished Tales
`
	doc := parser.MustParse(strings.NewReader(src), "")
	for _, b := range doc.Blocks {
		switch t := b.(type) {
		case *ast.Heading:
			fmt.Println(ast.PlainText(t.Inline))
		case *ast.ListItem:
			box := " "
			switch {
			case t.Checked == nil:
				box = "-"
			case *t.Checked:
				box = "x"
			}
			fmt.Printf(" %s %s\n", box, ast.PlainText(t.Inline))
		}
	}
	// Output:
	// Reading list
	//  x The Hobbit
	//    The Silmarillion
	//  - Unfinished Tales
}

func ExampleParseString() {
	doc := parser.ParseString("Cats chase *other* cats.", "cat")
	p := doc.Blocks[0].(*ast.Paragraph)
	for _, in := range p.Inline {
		switch t := in.(type) {
		case ast.Highlighted:
			fmt.Printf("[%s]", string(t))
		case ast.Emphasis:
			fmt.Printf("_%s_", ast.PlainText(t.Inner))
		default:
			fmt.Print(ast.PlainText([]ast.Inline{in}))
		}
	}
	fmt.Println()
	// Output:
	// [Cat]s chase _other_ [cat]s.
}
