package toolkit

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"docshare-backend/document/markup"
)

// ErrSurfaceReleased is returned when a surface is used after Release.
var ErrSurfaceReleased = errors.New("surface already released")

// SurfaceSpec sizes an off-screen surface. Width and Height are logical pixels;
// the backing canvas is Width*Scale by Height*Scale.
type SurfaceSpec struct {
	Width      int
	Height     int
	Scale      float64
	Background color.Color
}

// PixelSize returns the backing canvas size.
func (s SurfaceSpec) PixelSize() (int, int) {
	return int(float64(s.Width)*s.Scale + 0.5), int(float64(s.Height)*s.Scale + 0.5)
}

// Rasterizer mounts private drawing surfaces. Each export gets its own.
type Rasterizer interface {
	Mount(spec SurfaceSpec) (Surface, error)
}

// Surface draws one markup tree. Release must be called on every exit path.
type Surface interface {
	Rasterize(ctx context.Context, root *markup.Node) (image.Image, error)
	Release()
}

// CanvasRasterizer draws markup with gg.
type CanvasRasterizer struct {
	fonts *Fonts
}

// NewCanvasRasterizer builds a rasterizer drawing with fonts.
func NewCanvasRasterizer(fonts *Fonts) *CanvasRasterizer {
	return &CanvasRasterizer{fonts: fonts}
}

// Mount allocates a canvas filled with the background color.
func (r *CanvasRasterizer) Mount(spec SurfaceSpec) (Surface, error) {
	if spec.Width <= 0 || spec.Height <= 0 || spec.Scale <= 0 {
		return nil, fmt.Errorf("invalid surface %dx%d@%.2f", spec.Width, spec.Height, spec.Scale)
	}
	if spec.Background == nil {
		spec.Background = color.White
	}
	pw, ph := spec.PixelSize()
	dc := gg.NewContext(pw, ph)
	dc.SetColor(spec.Background)
	dc.Clear()
	return &canvasSurface{
		spec:  spec,
		fonts: r.fonts,
		dc:    dc,
		faces: make(map[faceKey]font.Face),
	}, nil
}

type faceKey struct {
	bold bool
	size float64
}

type canvasSurface struct {
	mu       sync.Mutex
	spec     SurfaceSpec
	fonts    *Fonts
	dc       *gg.Context
	faces    map[faceKey]font.Face
	released bool
}

type blockStyle struct {
	size   float64
	bold   bool
	muted  bool
	after  float64
	prefix string
}

var blockStyles = map[string]blockStyle{
	"h1": {size: 56, bold: true, after: 16},
	"h2": {size: 38, bold: true, after: 12},
	"h3": {size: 30, bold: true, after: 10},
	"p":  {size: 28, muted: true, after: 14},
	"li": {size: 26, muted: true, after: 6, prefix: "• "},
}

// Layout constants in logical pixels at the reference size. Smaller surfaces
// shrink every metric by the same factor.
const (
	canvasPadding = 64.0
	accentWidth   = 16.0
	swatchSize    = 96.0
	chipHeight    = 44.0
	lineSpacing   = 1.3
	minTextSize   = 8.0 // device pixels

	referenceWidth  = 1200.0
	referenceHeight = 630.0
)

// ErrContentDoesNotFit is returned when not even the first block fits on the
// surface, so the result would be a blank canvas.
var ErrContentDoesNotFit = errors.New("content does not fit surface")

// layoutUnit is the device-pixel size of one reference pixel. Surfaces at or
// above the reference size use Scale unchanged.
func layoutUnit(spec SurfaceSpec) float64 {
	f := min(float64(spec.Width)/referenceWidth, float64(spec.Height)/referenceHeight, 1)
	return spec.Scale * f
}

// textSize converts a reference font size to device pixels. Text never
// shrinks below minTextSize; blocks that cannot fit at that size overflow.
func textSize(ref, unit float64) float64 {
	return max(ref*unit, minTextSize)
}

func (s *canvasSurface) Rasterize(ctx context.Context, root *markup.Node) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, ErrSurfaceReleased
	}
	if root == nil {
		return nil, errors.New("nothing to rasterize")
	}

	u := layoutUnit(s.spec)
	pw, ph := s.spec.PixelSize()
	theme := themeFor(s.spec.Background)

	left := canvasPadding * u
	if accent, ok := ParseHexColor(root.Attr(markup.AttrAccent)); ok {
		s.dc.SetColor(accent)
		s.dc.DrawRectangle(0, 0, accentWidth*u, float64(ph))
		s.dc.Fill()
		theme.chip = accent
		left += accentWidth * u
	}

	l := &layout{
		surface: s,
		ctx:     ctx,
		theme:   theme,
		unit:    u,
		x:       left,
		y:       canvasPadding * u,
		width:   float64(pw) - left - canvasPadding*u,
		bottom:  float64(ph) - canvasPadding*u,
	}
	if err := l.block(root); err != nil {
		return nil, err
	}
	if l.drawn == 0 {
		return nil, fmt.Errorf("%w: %dx%d@%.2f", ErrContentDoesNotFit, s.spec.Width, s.spec.Height, s.spec.Scale)
	}
	return s.dc.Image(), nil
}

func (s *canvasSurface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	for _, f := range s.faces {
		_ = f.Close()
	}
	s.faces = nil
	s.dc = nil
	s.released = true
}

func (s *canvasSurface) face(bold bool, size float64) (font.Face, error) {
	key := faceKey{bold: bold, size: size}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	f, err := s.fonts.Face(bold, size)
	if err != nil {
		return nil, err
	}
	s.faces[key] = f
	return f, nil
}

type theme struct {
	text  color.Color
	muted color.Color
	chip  color.Color
}

func themeFor(bg color.Color) theme {
	if luminance(bg) < 0.5 {
		return theme{
			text:  color.RGBA{R: 0xf9, G: 0xfa, B: 0xfb, A: 0xff},
			muted: color.RGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff},
			chip:  color.RGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff},
		}
	}
	return theme{
		text:  color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff},
		muted: color.RGBA{R: 0x4b, G: 0x55, B: 0x63, A: 0xff},
		chip:  color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff},
	}
}

// layout flows blocks top to bottom. The first block that overflows the
// bottom edge ends the layout; nothing after it is drawn.
type layout struct {
	surface *canvasSurface
	ctx     context.Context
	theme   theme
	unit    float64
	x, y    float64
	width   float64
	bottom  float64
	drawn   int
	full    bool
}

// fits reports whether h more pixels fit above the bottom edge and marks the
// layout full when they do not.
func (l *layout) fits(h float64) bool {
	if l.full || l.y+h > l.bottom {
		l.full = true
		return false
	}
	return true
}

func (l *layout) block(n *markup.Node) error {
	if err := l.ctx.Err(); err != nil {
		return err
	}
	if l.full {
		return nil
	}
	if n.IsText() {
		return l.text(strings.TrimSpace(n.Text), blockStyles["p"], "")
	}

	tag := strings.ToLower(n.Tag)
	switch {
	case n.Attr(markup.AttrClass) == markup.ClassSwatches:
		return l.swatches(n)
	case n.Attr(markup.AttrClass) == markup.ClassChips:
		return l.chips(n)
	case tag == "ul" || tag == "ol":
		for i, c := range n.Children {
			if !strings.EqualFold(c.Tag, "li") {
				continue
			}
			style := blockStyles["li"]
			if tag == "ol" {
				style.prefix = fmt.Sprintf("%d. ", i+1)
			}
			if err := l.text(c.TextContent(), style, c.Attr(markup.AttrColor)); err != nil {
				return err
			}
		}
		return nil
	}

	if style, ok := blockStyles[tag]; ok {
		return l.text(n.TextContent(), style, n.Attr(markup.AttrColor))
	}
	if tag == "h4" || tag == "h5" || tag == "h6" {
		return l.text(n.TextContent(), blockStyles["h3"], n.Attr(markup.AttrColor))
	}
	if isInline(tag) {
		return l.text(n.TextContent(), blockStyles["p"], n.Attr(markup.AttrColor))
	}
	for _, c := range n.Children {
		if err := l.block(c); err != nil {
			return err
		}
	}
	return nil
}

func (l *layout) text(text string, style blockStyle, override string) error {
	text = strings.TrimSpace(text)
	if text == "" || l.full {
		return nil
	}
	size := textSize(style.size, l.unit)
	face, err := l.surface.face(style.bold, size)
	if err != nil {
		return err
	}
	dc := l.surface.dc
	dc.SetFontFace(face)

	var c color.Color = l.theme.text
	if style.muted {
		c = l.theme.muted
	}
	if custom, ok := ParseHexColor(override); ok {
		c = custom
	}
	dc.SetColor(c)

	lineHeight := size * lineSpacing
	for _, line := range dc.WordWrap(style.prefix+text, l.width) {
		if !l.fits(lineHeight) {
			return nil
		}
		dc.DrawStringAnchored(line, l.x, l.y, 0, 1)
		l.drawn++
		l.y += lineHeight
	}
	l.y += style.after * l.unit
	return nil
}

func (l *layout) swatches(n *markup.Node) error {
	u := l.unit
	size := swatchSize * u
	gap := 24 * u
	face, err := l.surface.face(false, textSize(20, u))
	if err != nil {
		return err
	}
	dc := l.surface.dc
	x := l.x
	rowHeight := size + 34*u
	for _, c := range n.Children {
		hex := c.Attr(markup.AttrSwatch)
		fill, ok := ParseHexColor(hex)
		if !ok {
			continue
		}
		if x+size > l.x+l.width {
			x = l.x
			l.y += rowHeight
		}
		if !l.fits(rowHeight) {
			return nil
		}
		dc.SetColor(fill)
		dc.DrawRoundedRectangle(x, l.y, size, size, 12*u)
		dc.Fill()
		dc.SetFontFace(face)
		dc.SetColor(l.theme.muted)
		dc.DrawStringAnchored(c.TextContent(), x+size/2, l.y+size+8*u, 0.5, 1)
		l.drawn++
		x += size + gap
	}
	l.y += rowHeight
	return nil
}

func (l *layout) chips(n *markup.Node) error {
	u := l.unit
	fontSize := textSize(22, u)
	height := max(chipHeight*u, 2*fontSize)
	pad := 18 * u
	gap := 12 * u
	face, err := l.surface.face(false, fontSize)
	if err != nil {
		return err
	}
	dc := l.surface.dc
	dc.SetFontFace(face)
	x := l.x
	for _, c := range n.Children {
		label := c.TextContent()
		if label == "" {
			continue
		}
		w, _ := dc.MeasureString(label)
		w += 2 * pad
		if x+w > l.x+l.width && x > l.x {
			x = l.x
			l.y += height + gap
		}
		if !l.fits(height) {
			return nil
		}
		dc.SetColor(l.theme.chip)
		dc.DrawRoundedRectangle(x, l.y, w, height, height/2)
		dc.Fill()
		dc.SetColor(contrastOn(l.theme.chip))
		dc.DrawStringAnchored(label, x+w/2, l.y+height/2, 0.5, 0.35)
		l.drawn++
		x += w + gap
	}
	l.y += height + gap
	return nil
}

func isInline(tag string) bool {
	switch tag {
	case "span", "a", "strong", "em", "b", "i", "code", "blockquote", "pre":
		return true
	}
	return false
}

func contrastOn(bg color.Color) color.Color {
	if luminance(bg) < 0.5 {
		return color.White
	}
	return color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
}

func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
}

// ParseHexColor parses #rgb or #rrggbb.
func ParseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, false
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 0xff}, true
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
