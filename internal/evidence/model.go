package evidence

import (
	"time"
)

// Directories inside the evidence store, as written by the verifier.
const (
	ReportsDir     = "reports"
	ScreenshotsDir = "screenshots"
	ThumbnailsDir  = "thumbnails"
)

// Report is one saved verification report.
type Report struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportURL returns the API path of a report by its name.
func ReportURL(name string) string {
	return "/evidence/reports/" + name
}

// ScreenshotURL returns the API path of a screenshot by its name.
func ScreenshotURL(name string) string {
	return "/evidence/screenshots/" + name
}

// ThumbnailURL returns the API path of a screenshot's thumbnail.
func ThumbnailURL(name string) string {
	return "/evidence/screenshots/" + name + "/thumbnail"
}
