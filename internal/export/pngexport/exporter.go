// Package pngexport renders document summaries and arbitrary markup to still
// images for link previews and social posts.
package pngexport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"docshare-backend/document/markup"
	"docshare-backend/document/model"
	"docshare-backend/internal/export"
	"docshare-backend/internal/export/toolkit"
	"docshare-backend/internal/shared/telemetry"
	"docshare-backend/internal/shared/util"
)

// Result is an image export. Width and Height are the logical size that was
// requested; PixelWidth and PixelHeight are the encoded canvas size.
type Result struct {
	export.Result
	Width       int
	Height      int
	PixelWidth  int
	PixelHeight int
}

// SocialContent fills the generic social card.
type SocialContent struct {
	Title    string
	Subtitle string
	Color    string
}

// Exporter rasterizes markup trees. Safe for concurrent use; every call mounts
// its own surface.
type Exporter struct {
	loader *toolkit.Loader
	minter export.URLMinter
}

// New builds an Exporter drawing with loader's toolkit and minting URLs with minter.
func New(loader *toolkit.Loader, minter export.URLMinter) *Exporter {
	return &Exporter{loader: loader, minter: minter}
}

// ExportBrandHero renders the brand hero card.
func (e *Exporter) ExportBrandHero(ctx context.Context, doc model.BrandDocument, opts Options) (Result, error) {
	base := util.Slugify(doc.Title, "brand") + "-brand-hero"
	return e.render(ctx, markup.BrandHero(doc), opts, base)
}

// ExportCVHero renders the CV hero card.
func (e *Exporter) ExportCVHero(ctx context.Context, doc model.CVDocument, opts Options) (Result, error) {
	base := util.Slugify(doc.Name, "cv") + "-cv-hero"
	return e.render(ctx, markup.CVHero(doc), opts, base)
}

// ExportElement rasterizes a caller-built tree.
func (e *Exporter) ExportElement(ctx context.Context, node *markup.Node, opts Options) (Result, error) {
	if node == nil {
		return Result{}, fmt.Errorf("%w: node is required", export.ErrInvalidOptions)
	}
	return e.render(ctx, node, opts, "export")
}

// ExportHTML sanitizes and rasterizes caller markup.
func (e *Exporter) ExportHTML(ctx context.Context, html string, opts Options) (Result, error) {
	root, err := markup.ParseHTML(html)
	if err != nil {
		if errors.Is(err, markup.ErrEmptyMarkup) {
			return Result{}, fmt.Errorf("%w: %v", export.ErrInvalidOptions, err)
		}
		return Result{}, export.Failed(err)
	}
	return e.render(ctx, root, opts, "export")
}

// CreateSocialMediaImage renders the title card at platform's fixed size.
// Width and Height in opts are ignored.
func (e *Exporter) CreateSocialMediaImage(ctx context.Context, content SocialContent, platform Platform, opts Options) (Result, error) {
	w, h, ok := PlatformSize(platform)
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown platform %q", export.ErrInvalidOptions, platform)
	}
	opts.Width, opts.Height = w, h
	base := util.Slugify(content.Title, "post") + "-" + string(platform)
	return e.render(ctx, markup.Social(content.Title, content.Subtitle, content.Color), opts, base)
}

func (e *Exporter) render(ctx context.Context, root *markup.Node, opts Options, base string) (Result, error) {
	start := time.Now()
	r, err := opts.resolve(base)
	if err != nil {
		return Result{}, err
	}

	tk, err := e.loader.Get(ctx)
	if err != nil {
		return Result{}, err
	}

	spec := toolkit.SurfaceSpec{Width: r.width, Height: r.height, Scale: r.scale, Background: r.background}
	data, err := rasterize(ctx, tk.Raster, spec, root, r)
	if err != nil {
		return Result{}, export.Failed(err)
	}

	url, err := e.minter.Mint(ctx, data, r.filename, mimeTypes[r.format])
	if err != nil {
		return Result{}, export.Failed(fmt.Errorf("mint url: %w", err))
	}

	pw, ph := spec.PixelSize()
	telemetry.Info("export.image.ok", map[string]any{
		"filename":    r.filename,
		"format":      string(r.format),
		"pixels":      fmt.Sprintf("%dx%d", pw, ph),
		"size":        humanize.Bytes(uint64(len(data))),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return Result{
		Result: export.Result{
			Blob:     data,
			URL:      url,
			Filename: r.filename,
			MimeType: mimeTypes[r.format],
		},
		Width:       r.width,
		Height:      r.height,
		PixelWidth:  pw,
		PixelHeight: ph,
	}, nil
}

// rasterize owns the surface for exactly one draw; it is released on every path.
func rasterize(ctx context.Context, raster toolkit.Rasterizer, spec toolkit.SurfaceSpec, root *markup.Node, r resolved) ([]byte, error) {
	surface, err := raster.Mount(spec)
	if err != nil {
		return nil, fmt.Errorf("mount surface: %w", err)
	}
	defer surface.Release()

	img, err := surface.Rasterize(ctx, root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return encode(img, r.format, r.quality)
}
