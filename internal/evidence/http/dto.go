package http

import (
	"time"

	"github.com/nekogravitycat/roominglist-verifier/internal/evidence"
)

// ByNameRequest binds the file name path parameter.
type ByNameRequest struct {
	Name string `uri:"name" binding:"required"`
}

type ReportResponse struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func NewReportResponse(r evidence.Report) ReportResponse {
	return ReportResponse{
		Name:      r.Name,
		URL:       evidence.ReportURL(r.Name),
		Size:      r.Size,
		CreatedAt: r.CreatedAt,
	}
}
