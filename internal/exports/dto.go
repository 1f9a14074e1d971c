package exports

import (
	"docshare-backend/document/model"
	"docshare-backend/internal/export/pdfexport"
	"docshare-backend/internal/export/pngexport"
)

// Source names the document to export: either a stored document id or an
// inline brand or CV.
type Source struct {
	DocumentID string               `json:"documentId"`
	Brand      *model.BrandDocument `json:"brand"`
	CV         *model.CVDocument    `json:"cv"`
}

// PDFOptions mirrors pdfexport.Options on the wire. Margins are millimetres.
type PDFOptions struct {
	Format      string      `json:"format"`
	Orientation string      `json:"orientation"`
	Margins     *MarginsDTO `json:"margins"`
	Quality     float64     `json:"quality"`
	Filename    string      `json:"filename"`
}

type MarginsDTO struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

func (o PDFOptions) toOptions() pdfexport.Options {
	opts := pdfexport.Options{
		Format:      o.Format,
		Orientation: o.Orientation,
		Quality:     o.Quality,
		Filename:    o.Filename,
	}
	if o.Margins != nil {
		opts.Margins = &pdfexport.Margins{
			Top:    o.Margins.Top,
			Right:  o.Margins.Right,
			Bottom: o.Margins.Bottom,
			Left:   o.Margins.Left,
		}
	}
	return opts
}

// ImageOptions mirrors pngexport.Options on the wire.
type ImageOptions struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Quality    *float64 `json:"quality"`
	Background string   `json:"background"`
	Scale      float64  `json:"scale"`
	Filename   string   `json:"filename"`
	Format     string   `json:"format"`
}

func (o ImageOptions) toOptions() pngexport.Options {
	return pngexport.Options{
		Width:      o.Width,
		Height:     o.Height,
		Quality:    o.Quality,
		Background: o.Background,
		Scale:      o.Scale,
		Filename:   o.Filename,
		Format:     pngexport.Format(o.Format),
	}
}

type PDFRequest struct {
	Source
	Options PDFOptions `json:"options"`
}

type PNGRequest struct {
	Source
	Options ImageOptions `json:"options"`
}

type SocialRequest struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Color    string       `json:"color"`
	Platform string       `json:"platform"`
	Options  ImageOptions `json:"options"`
}

// HTMLRequest renders sanitized caller markup. Target is "pdf" or an image format.
type HTMLRequest struct {
	HTML       string       `json:"html"`
	Target     string       `json:"target"`
	PDFOptions PDFOptions   `json:"pdfOptions"`
	Options    ImageOptions `json:"options"`
}

// Artifact is the response body of every export.
type Artifact struct {
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	SizeBytes int    `json:"sizeBytes"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Pages     int    `json:"pages,omitempty"`
}

func pdfArtifact(r pdfexport.Result) Artifact {
	return Artifact{
		URL:       r.URL,
		Filename:  r.Filename,
		MimeType:  r.MimeType,
		SizeBytes: len(r.Blob),
		Pages:     r.Pages,
	}
}

func imageArtifact(r pngexport.Result) Artifact {
	return Artifact{
		URL:       r.URL,
		Filename:  r.Filename,
		MimeType:  r.MimeType,
		SizeBytes: len(r.Blob),
		Width:     r.Width,
		Height:    r.Height,
	}
}
