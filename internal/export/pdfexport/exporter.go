// Package pdfexport lays documents out as paginated PDFs with selectable text.
package pdfexport

import (
	"bytes"
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

// MimeType of every result.
const MimeType = "application/pdf"

// Result is a PDF export. Pages is the number of pages written.
type Result struct {
	export.Result
	Pages int
}

// Exporter renders flattened markup onto pages. Safe for concurrent use.
type Exporter struct {
	loader *toolkit.Loader
	minter export.URLMinter
}

// New builds an Exporter writing with loader's toolkit and minting URLs with minter.
func New(loader *toolkit.Loader, minter export.URLMinter) *Exporter {
	return &Exporter{loader: loader, minter: minter}
}

// ExportBrandRider renders the full brand kit.
func (e *Exporter) ExportBrandRider(ctx context.Context, doc model.BrandDocument, opts Options) (Result, error) {
	name := util.Slugify(doc.Title, "brand") + "-brand-rider.pdf"
	return e.render(ctx, markup.Flatten(markup.BrandRider(doc)), opts, name)
}

// ExportCV renders the CV.
func (e *Exporter) ExportCV(ctx context.Context, doc model.CVDocument, opts Options) (Result, error) {
	name := util.Slugify(doc.Name, "cv") + "-cv.pdf"
	return e.render(ctx, markup.Flatten(markup.CV(doc)), opts, name)
}

// ExportHTML sanitizes caller markup and renders its text.
func (e *Exporter) ExportHTML(ctx context.Context, html string, opts Options) (Result, error) {
	root, err := markup.ParseHTML(html)
	if err != nil {
		if errors.Is(err, markup.ErrEmptyMarkup) {
			return Result{}, fmt.Errorf("%w: %v", export.ErrInvalidOptions, err)
		}
		return Result{}, export.Failed(err)
	}
	return e.render(ctx, markup.Flatten(root), opts, "document.pdf")
}

func (e *Exporter) render(ctx context.Context, lines []markup.Line, opts Options, defaultFilename string) (Result, error) {
	start := time.Now()
	r, err := opts.resolve(defaultFilename)
	if err != nil {
		return Result{}, err
	}

	tk, err := e.loader.Get(ctx)
	if err != nil {
		return Result{}, err
	}

	data, pages, err := write(ctx, tk.Pages, lines, r)
	if err != nil {
		return Result{}, export.Failed(err)
	}

	url, err := e.minter.Mint(ctx, data, r.filename, MimeType)
	if err != nil {
		return Result{}, export.Failed(fmt.Errorf("mint url: %w", err))
	}

	telemetry.Info("export.pdf.ok", map[string]any{
		"filename":    r.filename,
		"pages":       pages,
		"lines":       len(lines),
		"size":        humanize.Bytes(uint64(len(data))),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return Result{
		Result: export.Result{Blob: data, URL: url, Filename: r.filename, MimeType: MimeType},
		Pages:  pages,
	}, nil
}

func write(ctx context.Context, factory toolkit.PageWriterFactory, lines []markup.Line, r resolved) ([]byte, int, error) {
	w, err := factory.NewPageWriter(toolkit.PageSpec{Format: r.format, Orientation: r.orientation})
	if err != nil {
		return nil, 0, fmt.Errorf("open writer: %w", err)
	}
	geo, err := r.geometry(w.PageSize())
	if err != nil {
		return nil, 0, err
	}

	plan := planPages(lines, geo, func(style markup.Style, text string, width float64) []string {
		f := fontFor(style)
		w.SetFont(f.bold, f.size)
		return w.SplitText(text, width)
	})

	w.AddPage()
	for i, line := range plan {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		for w.PageCount() < line.page {
			w.AddPage()
		}
		f := fontFor(line.style)
		w.SetFont(f.bold, f.size)
		w.Text(geo.left, line.y, line.text)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	if err := w.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("serialize: %w", err)
	}
	if buf.Len() == 0 {
		return nil, 0, errors.New("writer produced no output")
	}
	return buf.Bytes(), pageCount(plan), nil
}
