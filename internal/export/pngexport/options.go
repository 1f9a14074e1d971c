package pngexport

import (
	"fmt"
	"image/color"
	"strings"

	"docshare-backend/internal/export"
	"docshare-backend/internal/export/toolkit"
)

// Format is the output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// Defaults applied to zero-valued options.
const (
	DefaultWidth      = 1200
	DefaultHeight     = 630
	DefaultQuality    = 0.95
	DefaultBackground = "#ffffff"
	DefaultScale      = 2.0

	maxPixelSide = 8192
)

// Options tunes one export. Zero values take the defaults above. Quality is
// a pointer so an explicit 0 (lowest JPEG quality) differs from unset.
type Options struct {
	Width      int
	Height     int
	Quality    *float64
	Background string
	Scale      float64
	Filename   string
	Format     Format
}

// Platform names a social network card size.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
)

var platformSizes = map[Platform][2]int{
	PlatformTwitter:   {1200, 675},
	PlatformLinkedIn:  {1200, 627},
	PlatformInstagram: {1080, 1080},
	PlatformFacebook:  {1200, 630},
}

// PlatformSize returns the fixed card size for p.
func PlatformSize(p Platform) (width, height int, ok bool) {
	size, ok := platformSizes[Platform(strings.ToLower(string(p)))]
	return size[0], size[1], ok
}

type resolved struct {
	width, height int
	quality       float64
	background    color.RGBA
	scale         float64
	filename      string
	format        Format
}

func (o Options) resolve(defaultBase string) (resolved, error) {
	r := resolved{
		width:   o.Width,
		height:  o.Height,
		quality: DefaultQuality,
		scale:   o.Scale,
		format:  Format(strings.ToLower(strings.TrimSpace(string(o.Format)))),
	}
	if r.width == 0 {
		r.width = DefaultWidth
	}
	if r.height == 0 {
		r.height = DefaultHeight
	}
	if o.Quality != nil {
		r.quality = *o.Quality
	}
	if r.scale == 0 {
		r.scale = DefaultScale
	}
	switch r.format {
	case "":
		r.format = FormatPNG
	case "jpg":
		r.format = FormatJPEG
	}

	if r.width < 0 || r.height < 0 {
		return r, fmt.Errorf("%w: width and height must be positive", export.ErrInvalidOptions)
	}
	if r.quality < 0 || r.quality > 1 {
		return r, fmt.Errorf("%w: quality must be within 0..1", export.ErrInvalidOptions)
	}
	if r.scale < 0 {
		return r, fmt.Errorf("%w: scale must be positive", export.ErrInvalidOptions)
	}
	if float64(r.width)*r.scale > maxPixelSide || float64(r.height)*r.scale > maxPixelSide {
		return r, fmt.Errorf("%w: canvas larger than %dpx per side", export.ErrInvalidOptions, maxPixelSide)
	}
	if _, ok := mimeTypes[r.format]; !ok {
		return r, fmt.Errorf("%w: unsupported format %q", export.ErrInvalidOptions, o.Format)
	}

	bg := o.Background
	if strings.TrimSpace(bg) == "" {
		bg = DefaultBackground
	}
	c, ok := toolkit.ParseHexColor(bg)
	if !ok {
		return r, fmt.Errorf("%w: background must be a hex color", export.ErrInvalidOptions)
	}
	r.background = c

	r.filename = strings.TrimSpace(o.Filename)
	if r.filename == "" {
		r.filename = defaultBase + extensions[r.format]
	}
	return r, nil
}

var mimeTypes = map[Format]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatWebP: "image/webp",
}

var extensions = map[Format]string{
	FormatPNG:  ".png",
	FormatJPEG: ".jpg",
	FormatWebP: ".webp",
}
