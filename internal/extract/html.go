package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlBlocks are the elements whose text becomes a segment.
var htmlBlocks = map[atom.Atom]bool{
	atom.P: true, atom.Li: true, atom.Td: true, atom.Th: true,
	atom.Dt: true, atom.Dd: true, atom.Figcaption: true, atom.Blockquote: true,
}

var htmlSkipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Head: true, atom.Template: true,
}

// extractHTML returns the text of block elements. Nested lists inside a block
// are emitted as their own segments after it.
func extractHTML(content []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if htmlSkipped[n.DataAtom] {
				return
			}
			if htmlBlocks[n.DataAtom] && !hasBlockChild(n) {
				var b strings.Builder
				var nested []*html.Node
				writeHTMLText(&b, n, &nested)
				out = append(out, b.String())
				for _, l := range nested {
					walk(l)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

// hasBlockChild reports whether a blockquote wraps its own paragraphs.
func hasBlockChild(n *html.Node) bool {
	if n.DataAtom != atom.Blockquote {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && htmlBlocks[c.DataAtom] {
			return true
		}
	}
	return false
}

func writeHTMLText(b *strings.Builder, n *html.Node, nested *[]*html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type != html.ElementNode:
		case c.DataAtom == atom.Ul || c.DataAtom == atom.Ol:
			*nested = append(*nested, c)
		case htmlSkipped[c.DataAtom]:
		case c.DataAtom == atom.Br:
			b.WriteByte(' ')
		default:
			writeHTMLText(b, c, nested)
			if htmlBlocks[c.DataAtom] || c.DataAtom == atom.Div {
				b.WriteByte(' ')
			}
		}
	}
}
