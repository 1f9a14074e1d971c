package markup

import (
	"strings"

	"docshare-backend/document/model"
)

// BrandRider builds the printable brand kit: title, tagline, then one section
// per non-empty collection. Colors are described as "Name (#hex)".
func BrandRider(doc model.BrandDocument) *Node {
	root := El("article", nil,
		Leaf("h1", fallback(doc.Title, "Untitled Brand")),
		optionalLeaf("p", doc.Tagline),
	)
	root.Children = append(root.Children,
		bulletSection("Voice & Tone", doc.Voice)...)
	root.Children = append(root.Children,
		bulletSection("Signature Phrases", doc.SignaturePhrases)...)
	root.Children = append(root.Children,
		bulletSection("Strengths", doc.Strengths)...)
	root.Children = append(root.Children,
		bulletSection("Growth Areas", doc.Weaknesses)...)

	if len(doc.Palette) > 0 {
		items := make([]string, 0, len(doc.Palette))
		for _, c := range doc.Palette {
			items = append(items, swatchLabel(c))
		}
		root.Children = append(root.Children, Leaf("h2", "Color Palette"), list("ul", items))
	}

	if doc.Fonts.Heading != "" || doc.Fonts.Body != "" {
		root.Children = append(root.Children,
			Leaf("h2", "Typography"),
			optionalLeaf("p", prefixed("Heading: ", doc.Fonts.Heading)),
			optionalLeaf("p", prefixed("Body: ", doc.Fonts.Body)),
		)
	}

	if strings.TrimSpace(doc.Bio) != "" {
		root.Children = append(root.Children, Leaf("h2", "Bio"))
		for _, para := range paragraphs(doc.Bio) {
			root.Children = append(root.Children, Leaf("p", para))
		}
	}

	if len(doc.Examples) > 0 {
		root.Children = append(root.Children, Leaf("h2", "Usage Examples"))
		for _, ex := range doc.Examples {
			root.Children = append(root.Children,
				Leaf("h3", fallback(ex.Context, "Example")),
				optionalLeaf("p", ex.Text),
			)
		}
	}
	return compact(root)
}

// CV builds the printable CV. Experience entries keep their order.
func CV(doc model.CVDocument) *Node {
	root := El("article", nil,
		Leaf("h1", fallback(doc.Name, "Untitled CV")),
		optionalLeaf("p", doc.Role),
	)

	if strings.TrimSpace(doc.Summary) != "" {
		root.Children = append(root.Children, Leaf("h2", "Summary"))
		for _, para := range paragraphs(doc.Summary) {
			root.Children = append(root.Children, Leaf("p", para))
		}
	}

	if len(doc.Experience) > 0 {
		root.Children = append(root.Children, Leaf("h2", "Experience"))
		for _, exp := range doc.Experience {
			title := exp.Role
			if exp.Organization != "" {
				if title != "" {
					title += ", "
				}
				title += exp.Organization
			}
			root.Children = append(root.Children,
				Leaf("h3", fallback(title, "Role")),
				optionalLeaf("p", exp.DateRange),
				list("ul", exp.Bullets),
			)
		}
	}

	root.Children = append(root.Children, bulletSection("Skills", doc.Skills)...)

	if len(doc.Links) > 0 {
		items := make([]string, 0, len(doc.Links))
		for _, l := range doc.Links {
			items = append(items, linkLabel(l))
		}
		root.Children = append(root.Children, Leaf("h2", "Links"), list("ul", items))
	}
	return compact(root)
}

// BrandHero builds the one-screen brand summary used for preview cards:
// title, tagline and a row of palette swatches on the primary color accent.
func BrandHero(doc model.BrandDocument) *Node {
	root := El("section", map[string]string{AttrAccent: doc.PrimaryColor()},
		Leaf("h1", fallback(doc.Title, "Untitled Brand")),
		optionalLeaf("p", doc.Tagline),
	)
	if len(doc.Palette) > 0 {
		row := El("div", map[string]string{AttrClass: ClassSwatches})
		for _, c := range doc.Palette {
			row.Children = append(row.Children,
				El("span", map[string]string{AttrSwatch: c.Hex}, Text(c.Name)))
		}
		root.Children = append(root.Children, row)
	}
	return compact(root)
}

// CVHero builds the one-screen CV summary: name, role and skill chips.
func CVHero(doc model.CVDocument) *Node {
	root := El("section", nil,
		Leaf("h1", fallback(doc.Name, "Untitled CV")),
		optionalLeaf("p", doc.Role),
	)
	if len(doc.Skills) > 0 {
		row := El("div", map[string]string{AttrClass: ClassChips})
		for _, s := range doc.Skills {
			if strings.TrimSpace(s) == "" {
				continue
			}
			row.Children = append(row.Children, Leaf("span", s))
		}
		root.Children = append(root.Children, row)
	}
	return compact(root)
}

// Social builds the generic title/subtitle card with an accent color.
func Social(title, subtitle, accent string) *Node {
	return compact(El("section", map[string]string{AttrAccent: accent},
		Leaf("h1", fallback(title, "Untitled")),
		optionalLeaf("p", subtitle),
	))
}

func bulletSection(heading string, items []string) []*Node {
	ul := list("ul", items)
	if ul == nil {
		return nil
	}
	return []*Node{Leaf("h2", heading), ul}
}

func list(tag string, items []string) *Node {
	var children []*Node
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		children = append(children, Leaf("li", item))
	}
	if len(children) == 0 {
		return nil
	}
	return El(tag, nil, children...)
}

func optionalLeaf(tag, text string) *Node {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return Leaf(tag, text)
}

// compact drops nil children left by optional sections.
func compact(n *Node) *Node {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	n.Children = kept
	return n
}

func swatchLabel(c model.PaletteColor) string {
	name := fallback(c.Name, "Color")
	if c.Hex == "" {
		return name
	}
	return name + " (" + c.Hex + ")"
}

func linkLabel(l model.Link) string {
	switch {
	case l.Label == "":
		return l.URL
	case l.URL == "":
		return l.Label
	default:
		return l.Label + ": " + l.URL
	}
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func prefixed(prefix, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return prefix + value
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
