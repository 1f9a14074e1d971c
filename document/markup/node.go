// Package markup builds the intermediate document tree shared by the raster and
// paginated exporters. Trees are plain data; nothing here draws.
package markup

import "strings"

// Node is an element or text node. A node with an empty Tag is text.
type Node struct {
	Tag      string
	Text     string
	Attrs    map[string]string
	Children []*Node
}

// Attribute names understood by the rasterizer.
const (
	AttrColor      = "color"
	AttrBackground = "background"
	AttrAccent     = "accent"
	AttrSwatch     = "swatch"
	AttrClass      = "class"
)

// Block classes the rasterizer lays out horizontally.
const (
	ClassSwatches = "swatches"
	ClassChips    = "chips"
)

// El builds an element node.
func El(tag string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{Tag: tag, Attrs: attrs}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Text builds a text node.
func Text(s string) *Node {
	return &Node{Text: s}
}

// Leaf builds an element holding a single text child.
func Leaf(tag, text string) *Node {
	return El(tag, nil, Text(text))
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Tag == ""
}

// Attr returns the named attribute or "".
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// TextContent concatenates the text of n and its descendants, collapsing whitespace.
func (n *Node) TextContent() string {
	var parts []string
	var walk func(*Node)
	walk = func(cur *Node) {
		if cur == nil {
			return
		}
		if t := strings.TrimSpace(cur.Text); t != "" {
			parts = append(parts, t)
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
