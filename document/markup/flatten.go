package markup

import (
	"strconv"
	"strings"
)

// Style is the typographic tier of a flattened line.
type Style string

const (
	StyleHeading    Style = "heading"
	StyleSubheading Style = "subheading"
	StyleText       Style = "text"
)

// Line is one styled entry of a flattened tree.
type Line struct {
	Text  string
	Style Style
}

// Flatten walks root in document order and emits one Line per heading,
// paragraph and list item. Unordered items are prefixed with "• ", ordered
// items with their 1-based position.
func Flatten(root *Node) []Line {
	var out []Line
	flattenInto(root, &out)
	return out
}

func flattenInto(n *Node, out *[]Line) {
	if n == nil {
		return
	}
	if n.IsText() {
		if t := collapse(n.Text); t != "" {
			*out = append(*out, Line{Text: t, Style: StyleText})
		}
		return
	}

	switch strings.ToLower(n.Tag) {
	case "h1", "h2":
		appendLine(out, n.TextContent(), StyleHeading)
	case "h3", "h4", "h5", "h6":
		appendLine(out, n.TextContent(), StyleSubheading)
	case "p", "blockquote", "pre":
		appendLine(out, n.TextContent(), StyleText)
	case "ul":
		for _, item := range listItems(n) {
			appendItem(out, "• ", item)
		}
	case "ol":
		for i, item := range listItems(n) {
			appendItem(out, strconv.Itoa(i+1)+". ", item)
		}
	case "li":
		appendItem(out, "• ", n)
	case "span", "a", "strong", "em", "b", "i", "code":
		appendLine(out, n.TextContent(), StyleText)
	default:
		for _, c := range n.Children {
			flattenInto(c, out)
		}
	}
}

func listItems(n *Node) []*Node {
	var items []*Node
	for _, c := range n.Children {
		if c != nil && strings.EqualFold(c.Tag, "li") {
			items = append(items, c)
		}
	}
	return items
}

func appendItem(out *[]Line, prefix string, item *Node) {
	if text := item.TextContent(); text != "" {
		*out = append(*out, Line{Text: prefix + text, Style: StyleText})
	}
}

func appendLine(out *[]Line, text string, style Style) {
	text = collapse(text)
	if text == "" {
		return
	}
	*out = append(*out, Line{Text: text, Style: style})
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
