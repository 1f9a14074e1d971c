package pdfexport

import (
	"fmt"
	"strings"

	"docshare-backend/internal/export"
)

// Margins are in millimetres.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Defaults applied to zero-valued options.
const (
	DefaultFormat      = "a4"
	DefaultOrientation = "portrait"
	DefaultMargin      = 20.0
	DefaultQuality     = 0.95
)

// Options tunes one export. Quality is accepted for parity with image exports;
// a vector document has nothing to compress with it.
type Options struct {
	Format      string
	Orientation string
	Margins     *Margins
	Quality     float64
	Filename    string
}

type resolved struct {
	format      string
	orientation string
	margins     Margins
	filename    string
}

func (o Options) resolve(defaultFilename string) (resolved, error) {
	r := resolved{
		format:      strings.ToLower(strings.TrimSpace(o.Format)),
		orientation: strings.ToLower(strings.TrimSpace(o.Orientation)),
		margins:     Margins{Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin},
		filename:    strings.TrimSpace(o.Filename),
	}
	if r.format == "" {
		r.format = DefaultFormat
	}
	if r.orientation == "" {
		r.orientation = DefaultOrientation
	}
	if r.format != "a4" && r.format != "letter" {
		return r, fmt.Errorf("%w: format must be a4 or letter", export.ErrInvalidOptions)
	}
	if r.orientation != "portrait" && r.orientation != "landscape" {
		return r, fmt.Errorf("%w: orientation must be portrait or landscape", export.ErrInvalidOptions)
	}
	if o.Margins != nil {
		r.margins = *o.Margins
	}
	m := r.margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return r, fmt.Errorf("%w: margins must not be negative", export.ErrInvalidOptions)
	}
	if o.Quality < 0 || o.Quality > 1 {
		return r, fmt.Errorf("%w: quality must be within 0..1", export.ErrInvalidOptions)
	}
	if r.filename == "" {
		r.filename = defaultFilename
	}
	return r, nil
}

// geometry checks the margins against the page and returns the printable area.
func (r resolved) geometry(pageWidth, pageHeight float64) (pageGeometry, error) {
	geo := pageGeometry{
		height:       pageHeight,
		top:          r.margins.Top,
		bottom:       r.margins.Bottom,
		left:         r.margins.Left,
		contentWidth: pageWidth - r.margins.Left - r.margins.Right,
	}
	if geo.contentWidth <= 0 {
		return geo, fmt.Errorf("%w: horizontal margins leave no content width", export.ErrInvalidOptions)
	}
	if geo.top+lineHeight > pageHeight-geo.bottom {
		return geo, fmt.Errorf("%w: vertical margins leave no room for a line", export.ErrInvalidOptions)
	}
	return geo, nil
}
