package exports

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/documents"
	"docshare-backend/internal/export"
	"docshare-backend/internal/shared/server/middleware"
	"docshare-backend/internal/shared/server/respond"
)

const maxRequestSize = 2 << 20 // 2MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches export routes. Guests may export.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/exports/pdf", h.pdf)
	rg.POST("/exports/png", h.png)
	rg.POST("/exports/social", h.social)
	rg.POST("/exports/html", h.html)
}

func bind(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return false
	}
	return true
}

func (h *Handler) pdf(c *gin.Context) {
	c.Set(middleware.ExportKindKey, "pdf")
	var req PDFRequest
	if !bind(c, &req) {
		return
	}
	if req.DocumentID != "" {
		c.Set(middleware.DocumentIDKey, req.DocumentID)
	}
	artifact, err := h.Svc.ExportPDF(c.Request.Context(), middleware.UserIDFromContext(c), req)
	h.reply(c, artifact, err)
}

func (h *Handler) png(c *gin.Context) {
	c.Set(middleware.ExportKindKey, "image")
	var req PNGRequest
	if !bind(c, &req) {
		return
	}
	if req.DocumentID != "" {
		c.Set(middleware.DocumentIDKey, req.DocumentID)
	}
	artifact, err := h.Svc.ExportPNG(c.Request.Context(), middleware.UserIDFromContext(c), req)
	h.reply(c, artifact, err)
}

func (h *Handler) social(c *gin.Context) {
	c.Set(middleware.ExportKindKey, "social")
	var req SocialRequest
	if !bind(c, &req) {
		return
	}
	artifact, err := h.Svc.ExportSocial(c.Request.Context(), req)
	h.reply(c, artifact, err)
}

func (h *Handler) html(c *gin.Context) {
	c.Set(middleware.ExportKindKey, "html")
	var req HTMLRequest
	if !bind(c, &req) {
		return
	}
	artifact, err := h.Svc.ExportHTML(c.Request.Context(), req)
	h.reply(c, artifact, err)
}

func (h *Handler) reply(c *gin.Context, artifact Artifact, err error) {
	if err == nil {
		respond.JSON(c, http.StatusCreated, artifact)
		return
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, export.ErrInvalidOptions), errors.Is(err, documents.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, context.DeadlineExceeded):
		// A load cut short by the export deadline also wraps ErrToolUnavailable.
		respond.Error(c, http.StatusGatewayTimeout, "export_timeout", "export timed out", nil)
	case errors.Is(err, export.ErrToolUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "export_unavailable", "export tools unavailable, retry later", nil)
	case errors.Is(err, export.ErrExportFailed):
		respond.Error(c, http.StatusInternalServerError, "export_failed", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "export failed", nil)
	}
}
