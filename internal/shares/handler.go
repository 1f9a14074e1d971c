package shares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docshare-backend/document/model"
	"docshare-backend/internal/shared/server/middleware"
	"docshare-backend/internal/shared/server/respond"
	"docshare-backend/internal/shared/telemetry"
)

// PDFRenderer renders resolved shared content as a PDF.
type PDFRenderer interface {
	RenderSharedPDF(ctx context.Context, content *SharedContent) (data []byte, filename string, err error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	PDF PDFRenderer
}

// NewHandler constructs a Handler. pdf may be nil, which disables the PDF view.
func NewHandler(svc *Service, pdf PDFRenderer) *Handler {
	return &Handler{Svc: svc, PDF: pdf}
}

// RegisterRoutes attaches owner routes. The group must run middleware.RequireUser.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/shares", h.create)
	rg.GET("/shares", h.list)
	rg.GET("/shares/presets", h.presets)
	rg.PATCH("/shares/:id", h.updateExpiration)
	rg.DELETE("/shares/:id", h.delete)
}

// RegisterPublicRoutes attaches anonymous token resolution routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/share/:token", h.resolve)
	rg.GET("/share/:token/pdf", h.resolvePDF)
}

func callerFrom(c *gin.Context) Caller {
	return Caller{UserID: middleware.UserIDFromContext(c), Guest: middleware.IsGuest(c)}
}

func (h *Handler) create(c *gin.Context) {
	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.DocumentIDKey, req.TargetID)

	opts := ShareOptions{ExpiresAt: req.ExpiresAt}
	var (
		result ShareResult
		err    error
	)
	switch model.Kind(req.Kind) {
	case model.KindBrand:
		result, err = h.Svc.ShareBrand(c.Request.Context(), callerFrom(c), req.TargetID, opts)
	case model.KindCV:
		result, err = h.Svc.ShareCV(c.Request.Context(), callerFrom(c), req.TargetID, opts)
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "kind must be brand or cv", []map[string]string{
			{"field": "kind", "issue": "invalid"},
		})
		return
	}
	if err != nil {
		h.fail(c, err, "failed to create share")
		return
	}
	c.Set(middleware.ShareIDKey, result.ID)
	respond.JSON(c, http.StatusCreated, result)
}

func (h *Handler) list(c *gin.Context) {
	listed, err := h.Svc.GetUserShares(c.Request.Context(), callerFrom(c))
	if err != nil {
		h.fail(c, err, "failed to list shares")
		return
	}
	now := h.Svc.now()
	resp := make([]ShareResponse, 0, len(listed))
	for _, item := range listed {
		resp = append(resp, h.Svc.toResponse(item.Share, item.Title, now))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) presets(c *gin.Context) {
	respond.JSON(c, http.StatusOK, h.Svc.ExpirationPresets())
}

func (h *Handler) updateExpiration(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ShareIDKey, id)

	var req updateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	share, err := h.Svc.UpdateShareExpiration(c.Request.Context(), callerFrom(c), id, req.ExpiresAt)
	if err != nil {
		h.fail(c, err, "failed to update share")
		return
	}
	respond.JSON(c, http.StatusOK, h.Svc.toResponse(share, "", h.Svc.now()))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ShareIDKey, id)

	if err := h.Svc.DeleteShare(c.Request.Context(), callerFrom(c), id); err != nil {
		h.fail(c, err, "failed to delete share")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) resolve(c *gin.Context) {
	content := h.Svc.GetSharedContent(c.Request.Context(), c.Param("token"))
	if content == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "share not found or expired", nil)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	respond.JSON(c, http.StatusOK, content)
}

func (h *Handler) resolvePDF(c *gin.Context) {
	if h.PDF == nil {
		respond.Error(c, http.StatusNotImplemented, "not_implemented", "pdf view unavailable", nil)
		return
	}
	content := h.Svc.GetSharedContent(c.Request.Context(), c.Param("token"))
	if content == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "share not found or expired", nil)
		return
	}
	c.Set(middleware.ExportKindKey, "pdf")

	data, filename, err := h.PDF.RenderSharedPDF(c.Request.Context(), content)
	if err != nil {
		telemetry.Error("shares.pdf.failed", map[string]any{"kind": string(content.Kind), "error": err})
		respond.Error(c, http.StatusInternalServerError, "export_failed", "failed to render pdf", nil)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrAuthRequired):
		respond.Error(c, http.StatusUnauthorized, "login_required", "login required", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "share or document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", message, nil)
	}
}
