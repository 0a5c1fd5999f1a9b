package http

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/evidence"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/response"
)

type Handler struct {
	service evidence.Service
}

func NewHandler(service evidence.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.service.ListReports(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ReportResponse, len(reports))
	for i, r := range reports {
		items[i] = NewReportResponse(r)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items, len(items) == 0))
}

func (h *Handler) ServeReport(c *gin.Context) {
	h.serve(c, "application/json", h.service.OpenReport)
}

func (h *Handler) ServeScreenshot(c *gin.Context) {
	h.serve(c, "image/png", h.service.OpenScreenshot)
}

// ServeThumbnail serves the JPEG thumbnail of a screenshot.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	h.serve(c, "image/jpeg", h.service.OpenThumbnail)
}

func (h *Handler) DeleteScreenshot(c *gin.Context) {
	var req ByNameRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.DeleteScreenshot(c.Request.Context(), req.Name); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// serve streams one stored file.
func (h *Handler) serve(c *gin.Context, contentType string, open func(ctx context.Context, name string) (io.ReadCloser, error)) {
	var req ByNameRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, err := open(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+req.Name+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started.
		log.Warn().Err(err).Str("name", req.Name).Msg("evidence stream interrupted")
	}
}
