// Package ast declares the types used to represent a parsed note.
//
// A Document is an ordered list of blocks. Blocks carrying text hold it as
// a list of inline fragments, already styled by the inline transformer.
// Nodes are never mutated once the parser hands the Document to its caller.
package ast

//go:generate sumgen Node = *Document | Block | Inline

// Node is implemented by every element of the tree.
type Node interface {
	node()
}

//go:generate sumgen Block = *Heading | *Paragraph | *ListItem | *CodeBlock | *Table | *Blockquote | *RawMarkup | *ThematicBreak | *Blank | *Placeholder
type Block interface {
	Node
	block()
}

//go:generate sumgen Inline = Text | Strong | Emphasis | Code | Link | Image | Highlighted | RawHTML
type Inline interface {
	Node
	inline()
}

type Document struct {
	Blocks []Block
}

type Heading struct {
	Level  int
	Inline []Inline
}

type Paragraph struct {
	Inline []Inline
}

// ListItem is a bulleted item. Checked is nil for plain items and points
// to the box state for task items.
type ListItem struct {
	Ordered bool
	Checked *bool
	Inline  []Inline
}

// CodeBlock holds the verbatim lines between two fences.
type CodeBlock struct {
	Lang string
	Raw  string
}

type Table struct {
	Header [][]Inline
	Rows   [][][]Inline
}

type Blockquote struct {
	Paragraphs [][]Inline
}

// RawMarkup is block-level markup passed through unescaped and unsanitized.
type RawMarkup struct {
	Raw string
}

type ThematicBreak struct{}

type Blank struct{}

// Placeholder stands in for the content of an empty note.
type Placeholder struct {
	Text string
}

type Text string

type Strong struct {
	Inner []Inline
}

type Emphasis struct {
	Inner []Inline
}

type Code string

type Link struct {
	Label  []Inline
	Target string
}

type Image struct {
	Alt string
	Src string
}

// Highlighted is a search match.
type Highlighted string

// RawHTML is inline markup passed through unescaped and unsanitized.
type RawHTML string

func (*Document) node() {}

func (*Heading) node()       {}
func (*Paragraph) node()     {}
func (*ListItem) node()      {}
func (*CodeBlock) node()     {}
func (*Table) node()         {}
func (*Blockquote) node()    {}
func (*RawMarkup) node()     {}
func (*ThematicBreak) node() {}
func (*Blank) node()         {}
func (*Placeholder) node()   {}

func (*Heading) block()       {}
func (*Paragraph) block()     {}
func (*ListItem) block()      {}
func (*CodeBlock) block()     {}
func (*Table) block()         {}
func (*Blockquote) block()    {}
func (*RawMarkup) block()     {}
func (*ThematicBreak) block() {}
func (*Blank) block()         {}
func (*Placeholder) block()   {}

func (Text) node()        {}
func (Strong) node()      {}
func (Emphasis) node()    {}
func (Code) node()        {}
func (Link) node()        {}
func (Image) node()       {}
func (Highlighted) node() {}
func (RawHTML) node()     {}

func (Text) inline()        {}
func (Strong) inline()      {}
func (Emphasis) inline()    {}
func (Code) inline()        {}
func (Link) inline()        {}
func (Image) inline()       {}
func (Highlighted) inline() {}
func (RawHTML) inline()     {}

// Walk calls f on n and then on each of its children, depth first. If f
// returns a non-nil node it replaces the visited one in its parent. Nodes
// that f leaves alone are not written to, so a tree can be walked by
// several readers at once. Walk stops at the first error returned by f.
func Walk(n Node, f Walker) (Node, error) {
	nn, _, e := walk(n, f)
	return nn, e
}

func walk(n Node, f Walker) (Node, bool, error) {
	if n == nil {
		return nil, false, nil
	}
	nn, e := f(n)
	if e != nil {
		return n, false, e
	}
	replaced := nn != nil
	if replaced {
		n = nn
	}
	var err error
	switch t := n.(type) {
	case *Document:
		for i := range t.Blocks {
			s, r, e := walk(t.Blocks[i], f)
			if r {
				t.Blocks[i] = s.(Block)
			}
			if e != nil {
				err = e
				break
			}
		}
	case *Heading:
		err = walkList(t.Inline, f)
	case *Paragraph:
		err = walkList(t.Inline, f)
	case *ListItem:
		err = walkList(t.Inline, f)
	case *Table:
		for _, c := range t.Header {
			if err = walkList(c, f); err != nil {
				break
			}
		}
		for _, r := range t.Rows {
			for _, c := range r {
				if err == nil {
					err = walkList(c, f)
				}
			}
		}
	case *Blockquote:
		for _, p := range t.Paragraphs {
			if err = walkList(p, f); err != nil {
				break
			}
		}
	case Strong:
		err = walkList(t.Inner, f)
	case Emphasis:
		err = walkList(t.Inner, f)
	case Link:
		err = walkList(t.Label, f)
	}
	return n, replaced, err
}

func walkList(l []Inline, f Walker) error {
	for i := range l {
		s, r, e := walk(l[i], f)
		if r {
			l[i] = s.(Inline)
		}
		if e != nil {
			return e
		}
	}
	return nil
}

type Walker func(Node) (Node, error)

// PlainText concatenates the literal text of a fragment list, ignoring
// styling. Raw markup and images contribute nothing.
func PlainText(l []Inline) string {
	var b []byte
	for _, in := range l {
		b = appendText(b, in)
	}
	return string(b)
}

func appendText(b []byte, in Inline) []byte {
	switch t := in.(type) {
	case Text:
		b = append(b, t...)
	case Highlighted:
		b = append(b, t...)
	case Code:
		b = append(b, t...)
	case Strong:
		for _, c := range t.Inner {
			b = appendText(b, c)
		}
	case Emphasis:
		for _, c := range t.Inner {
			b = appendText(b, c)
		}
	case Link:
		for _, c := range t.Label {
			b = appendText(b, c)
		}
	}
	return b
}
