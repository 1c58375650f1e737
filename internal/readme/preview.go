package readme

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders a document to HTML for preview.
func RenderHTML(document string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(document), &buf); err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.Bytes(), nil
}

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
}

// Outline lists the document's headings in order. Headings inside code
// blocks are not headings and are not listed.
func Outline(document string) []Heading {
	source := []byte(document)
	root := markdown.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		var b bytes.Buffer
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*gmast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		headings = append(headings, Heading{Level: h.Level, Text: b.String()})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}
