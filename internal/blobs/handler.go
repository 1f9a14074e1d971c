package blobs

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/shared/server/respond"
	"docshare-backend/internal/shared/telemetry"
)

const presignTTL = 5 * time.Minute

// Handler serves minted handles. Possession of the URL is the only credential.
type Handler struct {
	Registry *Registry
}

// NewHandler constructs a Handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{Registry: registry}
}

// RegisterRoutes registers blob endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/blobs/:id", h.download)
	rg.DELETE("/blobs/:id", h.revoke)
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if url, ok, err := h.Registry.PresignedURL(ctx, id, presignTTL); ok {
		if err != nil {
			h.fail(c, id, err)
			return
		}
		c.Redirect(http.StatusFound, url)
		return
	}

	handle, body, err := h.Registry.Open(ctx, id)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	defer body.Close()

	disposition := "attachment"
	if c.Query("inline") == "1" {
		disposition = "inline"
	}
	c.Header("Content-Type", handle.MimeType)
	c.Header("Content-Length", strconv.FormatInt(handle.SizeBytes, 10))
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, handle.Filename))
	c.Header("Cache-Control", "private, no-store")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		telemetry.Warn("blobs.download.copy_failed", map[string]any{"blob_id": id, "error": err})
	}
}

func (h *Handler) revoke(c *gin.Context) {
	id := c.Param("id")
	if err := h.Registry.Revoke(c.Request.Context(), id); err != nil {
		h.fail(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, id string, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "blob not found", nil)
		return
	}
	telemetry.Error("blobs.request.failed", map[string]any{"blob_id": id, "error": err})
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read blob", nil)
}
