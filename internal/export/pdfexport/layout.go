package pdfexport

import "docshare-backend/document/markup"

// Line metrics in millimetres.
const (
	lineHeight     = 6.0
	headingSpacing = 3.0
)

type fontSpec struct {
	bold bool
	size float64
}

var styleFonts = map[markup.Style]fontSpec{
	markup.StyleHeading:    {bold: true, size: 16},
	markup.StyleSubheading: {bold: true, size: 14},
	markup.StyleText:       {bold: false, size: 12},
}

func fontFor(style markup.Style) fontSpec {
	if f, ok := styleFonts[style]; ok {
		return f
	}
	return styleFonts[markup.StyleText]
}

// pageGeometry is the printable area of one page.
type pageGeometry struct {
	height       float64
	top          float64
	bottom       float64
	left         float64
	contentWidth float64
}

// placedLine is a wrapped line bound to a page (1-based) and baseline y.
type placedLine struct {
	page  int
	y     float64
	text  string
	style markup.Style
}

// wrapFunc splits text into lines no wider than width in the style's font.
type wrapFunc func(style markup.Style, text string, width float64) []string

// planPages lays lines out top to bottom. A new page starts whenever the next
// line would cross the bottom margin, so no baseline lies below
// height-bottom.
func planPages(lines []markup.Line, geo pageGeometry, wrap wrapFunc) []placedLine {
	var placed []placedLine
	page := 1
	cursor := geo.top
	limit := geo.height - geo.bottom

	for _, line := range lines {
		for _, segment := range wrap(line.Style, line.Text, geo.contentWidth) {
			if cursor+lineHeight > limit {
				page++
				cursor = geo.top
			}
			placed = append(placed, placedLine{page: page, y: cursor, text: segment, style: line.Style})
			cursor += lineHeight
		}
		if line.Style == markup.StyleHeading || line.Style == markup.StyleSubheading {
			cursor += headingSpacing
		}
	}
	return placed
}

// pageCount returns the number of pages a plan needs; an empty plan still gets one page.
func pageCount(placed []placedLine) int {
	if len(placed) == 0 {
		return 1
	}
	return placed[len(placed)-1].page
}
