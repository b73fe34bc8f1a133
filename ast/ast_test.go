package ast

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func sample() *Document {
	return &Document{Blocks: []Block{
		&Heading{Level: 1, Inline: []Inline{Text("a "), Strong{Inner: []Inline{Text("b")}}}},
		&Table{
			Header: [][]Inline{{Text("h")}},
			Rows:   [][][]Inline{{{Link{Label: []Inline{Text("l")}, Target: "u"}}}},
		},
		&Blockquote{Paragraphs: [][]Inline{{Emphasis{Inner: []Inline{Highlighted("q")}}}}},
		&CodeBlock{Raw: "code"},
	}}
}

func TestWalkReplaces(t *testing.T) {
	doc := sample()
	_, err := Walk(doc, func(n Node) (Node, error) {
		if s, ok := n.(Text); ok {
			return Text(strings.ToUpper(string(s))), nil
		}
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := sample()
	want.Blocks[0].(*Heading).Inline = []Inline{Text("A "), Strong{Inner: []Inline{Text("B")}}}
	want.Blocks[1].(*Table).Header[0][0] = Text("H")
	want.Blocks[1].(*Table).Rows[0][0][0] = Link{Label: []Inline{Text("L")}, Target: "u"}
	if !reflect.DeepEqual(want, doc) {
		t.Errorf("want %#v\ngot  %#v", want, doc)
	}
}

func TestWalkStops(t *testing.T) {
	stop := errors.New("stop")
	var seen []string
	_, err := Walk(sample(), func(n Node) (Node, error) {
		switch t := n.(type) {
		case Text:
			seen = append(seen, string(t))
		case Highlighted:
			return nil, stop
		}
		return nil, nil
	})
	if err != stop {
		t.Fatalf("want stop error, got %v", err)
	}
	if want := []string{"a ", "b", "h", "l"}; !reflect.DeepEqual(want, seen) {
		t.Errorf("want %q, got %q", want, seen)
	}
}

func TestPlainText(t *testing.T) {
	l := []Inline{
		Text("x "),
		Strong{Inner: []Inline{Emphasis{Inner: []Inline{Text("y")}}}},
		Code(" z"),
		Link{Label: []Inline{Highlighted("w")}, Target: "ignored"},
		Image{Alt: "ignored", Src: "ignored"},
		RawHTML("<b>"),
	}
	if got := PlainText(l); got != "x y zw" {
		t.Errorf("got %q", got)
	}
}
