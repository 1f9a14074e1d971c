package markup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrEmptyMarkup is returned when sanitizing leaves nothing to render.
var ErrEmptyMarkup = errors.New("markup is empty after sanitizing")

var ugcPolicy = bluemonday.UGCPolicy()

// ParseHTML sanitizes caller-supplied markup and converts the body into a Node tree.
// Scripts, styles and event handlers are dropped before parsing.
func ParseHTML(raw string) (*Node, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyMarkup
	}
	clean := ugcPolicy.Sanitize(raw)
	if strings.TrimSpace(clean) == "" {
		return nil, ErrEmptyMarkup
	}

	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	body := findBody(doc)
	if body == nil {
		return nil, ErrEmptyMarkup
	}

	root := El("div", nil)
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if n := convert(c); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	if root.TextContent() == "" {
		return nil, ErrEmptyMarkup
	}
	return root, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

func convert(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return Text(n.Data)
	case html.ElementNode:
		out := &Node{Tag: strings.ToLower(n.Data)}
		for _, a := range n.Attr {
			if out.Attrs == nil {
				out.Attrs = make(map[string]string, len(n.Attr))
			}
			out.Attrs[a.Key] = a.Val
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				out.Children = append(out.Children, child)
			}
		}
		return out
	default:
		return nil
	}
}
