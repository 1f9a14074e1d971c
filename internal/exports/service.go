// Package exports runs exporter calls on behalf of HTTP callers: it resolves
// the document, bounds the call with a timeout and records export metrics.
package exports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docshare-backend/document/model"
	"docshare-backend/internal/documents"
	"docshare-backend/internal/export/pdfexport"
	"docshare-backend/internal/export/pngexport"
	"docshare-backend/internal/shared/metrics"
	"docshare-backend/internal/shared/telemetry"
	"docshare-backend/internal/shares"
)

const defaultTimeout = 60 * time.Second

// DocumentSource reads documents owned by a user.
type DocumentSource interface {
	Get(ctx context.Context, userID, documentID string) (documents.Document, error)
}

// URLRevoker releases a minted URL.
type URLRevoker interface {
	RevokeURL(ctx context.Context, url string) error
}

// Service runs exports.
type Service struct {
	PDF       *pdfexport.Exporter
	PNG       *pngexport.Exporter
	Documents DocumentSource
	Revoker   URLRevoker
	Timeout   time.Duration
}

// NewService constructs a Service.
func NewService(pdf *pdfexport.Exporter, png *pngexport.Exporter, docs DocumentSource, revoker URLRevoker, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{PDF: pdf, PNG: png, Documents: docs, Revoker: revoker, Timeout: timeout}
}

type resolvedSource struct {
	kind  model.Kind
	brand model.BrandDocument
	cv    model.CVDocument
}

func (s *Service) resolveSource(ctx context.Context, userID string, src Source) (resolvedSource, error) {
	id := strings.TrimSpace(src.DocumentID)
	inline := 0
	if src.Brand != nil {
		inline++
	}
	if src.CV != nil {
		inline++
	}

	switch {
	case id != "" && inline > 0:
		return resolvedSource{}, fmt.Errorf("%w: send documentId or an inline document, not both", ErrInvalidInput)
	case id != "":
		doc, err := s.Documents.Get(ctx, userID, id)
		if err != nil {
			return resolvedSource{}, err
		}
		switch doc.Kind {
		case model.KindBrand:
			brand, err := doc.Brand()
			return resolvedSource{kind: model.KindBrand, brand: brand}, err
		case model.KindCV:
			cv, err := doc.CV()
			return resolvedSource{kind: model.KindCV, cv: cv}, err
		default:
			return resolvedSource{}, fmt.Errorf("document %s has unknown kind %q", doc.ID, doc.Kind)
		}
	case inline != 1:
		return resolvedSource{}, fmt.Errorf("%w: exactly one of documentId, brand or cv is required", ErrInvalidInput)
	case src.Brand != nil:
		if err := src.Brand.Validate(); err != nil {
			return resolvedSource{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return resolvedSource{kind: model.KindBrand, brand: *src.Brand}, nil
	default:
		if err := src.CV.Validate(); err != nil {
			return resolvedSource{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return resolvedSource{kind: model.KindCV, cv: *src.CV}, nil
	}
}

// run bounds fn with the service timeout and records metrics under kind.
func (s *Service) run(ctx context.Context, kind string, fn func(ctx context.Context) (Artifact, error)) (Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	start := time.Now()
	metrics.IncExportStarted(kind)
	artifact, err := fn(ctx)
	if err != nil {
		metrics.IncExportFailed(kind)
		telemetry.Warn("exports.failed", map[string]any{
			"export_kind": kind,
			"error":       err,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return Artifact{}, err
	}
	metrics.IncExportCompleted(kind)
	metrics.ObserveExportDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	return artifact, nil
}

// ExportPDF renders a brand rider or CV as a PDF.
func (s *Service) ExportPDF(ctx context.Context, userID string, req PDFRequest) (Artifact, error) {
	return s.run(ctx, "pdf", func(ctx context.Context) (Artifact, error) {
		src, err := s.resolveSource(ctx, userID, req.Source)
		if err != nil {
			return Artifact{}, err
		}
		var result pdfexport.Result
		if src.kind == model.KindBrand {
			result, err = s.PDF.ExportBrandRider(ctx, src.brand, req.Options.toOptions())
		} else {
			result, err = s.PDF.ExportCV(ctx, src.cv, req.Options.toOptions())
		}
		if err != nil {
			return Artifact{}, err
		}
		return pdfArtifact(result), nil
	})
}

// ExportPNG renders the hero card of a brand or CV.
func (s *Service) ExportPNG(ctx context.Context, userID string, req PNGRequest) (Artifact, error) {
	return s.run(ctx, "image", func(ctx context.Context) (Artifact, error) {
		src, err := s.resolveSource(ctx, userID, req.Source)
		if err != nil {
			return Artifact{}, err
		}
		var result pngexport.Result
		if src.kind == model.KindBrand {
			result, err = s.PNG.ExportBrandHero(ctx, src.brand, req.Options.toOptions())
		} else {
			result, err = s.PNG.ExportCVHero(ctx, src.cv, req.Options.toOptions())
		}
		if err != nil {
			return Artifact{}, err
		}
		return imageArtifact(result), nil
	})
}

// ExportSocial renders a social card at the platform's size.
func (s *Service) ExportSocial(ctx context.Context, req SocialRequest) (Artifact, error) {
	return s.run(ctx, "social", func(ctx context.Context) (Artifact, error) {
		if strings.TrimSpace(req.Title) == "" {
			return Artifact{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		content := pngexport.SocialContent{Title: req.Title, Subtitle: req.Subtitle, Color: req.Color}
		result, err := s.PNG.CreateSocialMediaImage(ctx, content, pngexport.Platform(req.Platform), req.Options.toOptions())
		if err != nil {
			return Artifact{}, err
		}
		return imageArtifact(result), nil
	})
}

// ExportHTML renders sanitized markup as a PDF or an image.
func (s *Service) ExportHTML(ctx context.Context, req HTMLRequest) (Artifact, error) {
	target := strings.ToLower(strings.TrimSpace(req.Target))
	if target == "pdf" {
		return s.run(ctx, "pdf", func(ctx context.Context) (Artifact, error) {
			result, err := s.PDF.ExportHTML(ctx, req.HTML, req.PDFOptions.toOptions())
			if err != nil {
				return Artifact{}, err
			}
			return pdfArtifact(result), nil
		})
	}
	return s.run(ctx, "image", func(ctx context.Context) (Artifact, error) {
		opts := req.Options.toOptions()
		if target != "" && target != "image" {
			opts.Format = pngexport.Format(target)
		}
		result, err := s.PNG.ExportHTML(ctx, req.HTML, opts)
		if err != nil {
			return Artifact{}, err
		}
		return imageArtifact(result), nil
	})
}

// RenderSharedPDF renders resolved share content for streaming. The minted
// URL is released before returning since the bytes go straight to the viewer.
func (s *Service) RenderSharedPDF(ctx context.Context, content *shares.SharedContent) ([]byte, string, error) {
	if content == nil {
		return nil, "", errors.New("no shared content")
	}
	var data []byte
	var filename string
	_, err := s.run(ctx, "pdf", func(ctx context.Context) (Artifact, error) {
		var (
			result pdfexport.Result
			err    error
		)
		switch {
		case content.Brand != nil:
			result, err = s.PDF.ExportBrandRider(ctx, *content.Brand, pdfexport.Options{})
		case content.CV != nil:
			result, err = s.PDF.ExportCV(ctx, *content.CV, pdfexport.Options{})
		default:
			return Artifact{}, fmt.Errorf("%w: shared content has no document", ErrInvalidInput)
		}
		if err != nil {
			return Artifact{}, err
		}
		s.release(ctx, result.URL)
		data, filename = result.Blob, result.Filename
		return pdfArtifact(result), nil
	})
	if err != nil {
		return nil, "", err
	}
	return data, filename, nil
}

func (s *Service) release(ctx context.Context, url string) {
	if s.Revoker == nil || url == "" {
		return
	}
	if err := s.Revoker.RevokeURL(context.WithoutCancel(ctx), url); err != nil {
		telemetry.Warn("exports.release_failed", map[string]any{"error": err})
	}
}

var _ shares.PDFRenderer = (*Service)(nil)
