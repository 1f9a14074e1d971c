package toolkit

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"docshare-backend/document/markup"
)

func loadFonts(t *testing.T) *Fonts {
	t.Helper()
	fonts, err := LoadFonts()
	if err != nil {
		t.Fatalf("load fonts: %v", err)
	}
	return fonts
}

func mount(t *testing.T, spec SurfaceSpec) Surface {
	t.Helper()
	surface, err := NewCanvasRasterizer(loadFonts(t)).Mount(spec)
	if err != nil {
		t.Fatalf("mount %+v: %v", spec, err)
	}
	t.Cleanup(surface.Release)
	return surface
}

func TestCanvasRasterizeScalesCanvas(t *testing.T) {
	surface := mount(t, SurfaceSpec{Width: 300, Height: 150, Scale: 2, Background: color.White})

	root := markup.El("section", map[string]string{markup.AttrAccent: "#ff0000"},
		markup.Leaf("h1", "Hello"),
		markup.El("div", map[string]string{markup.AttrClass: markup.ClassChips}, markup.Leaf("span", "Go")),
	)
	img, err := surface.Rasterize(context.Background(), root)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 600 || b.Dy() != 300 {
		t.Fatalf("expected 600x300 canvas, got %dx%d", b.Dx(), b.Dy())
	}

	r0, g0, b0, _ := img.At(2, 2).RGBA()
	if r0 != 0xffff || g0 != 0 || b0 != 0 {
		t.Fatalf("accent bar should be red, got %d,%d,%d", r0, g0, b0)
	}
	if !hasNonBackgroundPixel(img, 40, color.White) {
		t.Fatalf("expected drawn text")
	}
}

func TestSmallCanvasDrawsTitle(t *testing.T) {
	cases := []SurfaceSpec{
		{Width: 400, Height: 200, Scale: 1, Background: color.White},
		{Width: 300, Height: 150, Scale: 1, Background: color.White},
		{Width: 160, Height: 90, Scale: 1, Background: color.White},
	}
	for _, spec := range cases {
		surface := mount(t, spec)
		root := markup.El("section", nil, markup.Leaf("h1", "John Doe"))
		img, err := surface.Rasterize(context.Background(), root)
		if err != nil {
			t.Fatalf("%dx%d: rasterize: %v", spec.Width, spec.Height, err)
		}
		if !hasNonBackgroundPixel(img, 0, color.White) {
			t.Fatalf("%dx%d: title was not drawn", spec.Width, spec.Height)
		}
	}
}

func TestReferenceSizeKeepsLayoutMetrics(t *testing.T) {
	if u := layoutUnit(SurfaceSpec{Width: 1200, Height: 630, Scale: 2}); u != 2 {
		t.Fatalf("expected unit 2 at reference size, got %v", u)
	}
	if u := layoutUnit(SurfaceSpec{Width: 2400, Height: 1260, Scale: 1}); u != 1 {
		t.Fatalf("expected large surfaces to keep unit 1, got %v", u)
	}
	if u := layoutUnit(SurfaceSpec{Width: 600, Height: 630, Scale: 1}); u != 0.5 {
		t.Fatalf("expected unit 0.5 for half-width surface, got %v", u)
	}
}

func TestRasterizeFailsWhenTitleDoesNotFit(t *testing.T) {
	surface := mount(t, SurfaceSpec{Width: 20, Height: 10, Scale: 1, Background: color.White})

	_, err := surface.Rasterize(context.Background(), markup.Leaf("h1", "Title"))
	if !errors.Is(err, ErrContentDoesNotFit) {
		t.Fatalf("expected ErrContentDoesNotFit, got %v", err)
	}
}

func TestClippedTitleStopsLaterBlocks(t *testing.T) {
	surface := mount(t, SurfaceSpec{Width: 1200, Height: 630, Scale: 1}).(*canvasSurface)

	// 60px of room: an h1 line needs 72.8, a chip row alone needs 44.
	l := &layout{
		surface: surface,
		ctx:     context.Background(),
		theme:   themeFor(color.White),
		unit:    1,
		width:   1000,
		bottom:  60,
	}
	root := markup.El("section", nil,
		markup.Leaf("h1", "Title"),
		markup.El("div", map[string]string{markup.AttrClass: markup.ClassChips}, markup.Leaf("span", "Go")),
	)
	if err := l.block(root); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !l.full {
		t.Fatalf("expected layout to be full after the title overflowed")
	}
	if l.drawn != 0 {
		t.Fatalf("expected nothing drawn after a clipped title, got %d items", l.drawn)
	}
}

func TestRasterizeFailsOnEmptyTree(t *testing.T) {
	surface := mount(t, SurfaceSpec{Width: 300, Height: 150, Scale: 1})

	_, err := surface.Rasterize(context.Background(), markup.El("section", nil))
	if !errors.Is(err, ErrContentDoesNotFit) {
		t.Fatalf("expected ErrContentDoesNotFit for empty tree, got %v", err)
	}
}

func TestSurfaceUnusableAfterRelease(t *testing.T) {
	r := NewCanvasRasterizer(loadFonts(t))
	surface, err := r.Mount(SurfaceSpec{Width: 10, Height: 10, Scale: 1})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	surface.Release()
	surface.Release()

	_, err = surface.Rasterize(context.Background(), markup.Leaf("p", "x"))
	if !errors.Is(err, ErrSurfaceReleased) {
		t.Fatalf("expected ErrSurfaceReleased, got %v", err)
	}
}

func TestRasterizeStopsOnCancelledContext(t *testing.T) {
	surface := mount(t, SurfaceSpec{Width: 100, Height: 100, Scale: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := surface.Rasterize(ctx, markup.Leaf("p", "x"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMountRejectsBadSpec(t *testing.T) {
	r := NewCanvasRasterizer(loadFonts(t))
	if _, err := r.Mount(SurfaceSpec{Width: 0, Height: 10, Scale: 1}); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestParseHexColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#1a2B3c": {R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff},
		"#fff":    {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	for in, want := range cases {
		got, ok := ParseHexColor(in)
		if !ok || got != want {
			t.Fatalf("ParseHexColor(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}

	for _, bad := range []string{"", "#12", "#gggggg", "blue"} {
		if _, ok := ParseHexColor(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func hasNonBackgroundPixel(img image.Image, startX int, bg color.Color) bool {
	br, bgg, bb, _ := bg.RGBA()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X + startX; x < b.Max.X; x++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			if pr != br || pg != bgg || pb != bb {
				return true
			}
		}
	}
	return false
}
