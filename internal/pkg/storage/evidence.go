package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	thumbnailWidth  = 320
	thumbnailHeight = 240
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// Artifact locates the files saved for one screenshot.
type Artifact struct {
	Screenshot string `json:"screenshot"`
	Thumbnail  string `json:"thumbnail,omitempty"`
}

// Evidence saves screenshots of failed scenarios and run reports.
type Evidence struct {
	storage Storage
	now     func() time.Time
}

func NewEvidence(s Storage) *Evidence {
	return &Evidence{storage: s, now: time.Now}
}

// Slug turns a scenario name into a file name fragment.
func Slug(name string) string {
	s := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "scenario"
	}
	return s
}

// SaveScreenshot stores a PNG screenshot and a JPEG thumbnail of it. A
// thumbnail failure is logged and leaves Thumbnail empty.
func (e *Evidence) SaveScreenshot(ctx context.Context, scenario string, png []byte) (Artifact, error) {
	base := fmt.Sprintf("%s-%s-%s", e.now().UTC().Format("20060102T150405"), Slug(scenario), uuid.NewString()[:8])

	art := Artifact{Screenshot: path.Join("screenshots", base+".png")}
	if err := e.storage.Save(ctx, art.Screenshot, bytes.NewReader(png)); err != nil {
		return Artifact{}, err
	}

	thumb, err := Thumbnail(png, thumbnailWidth, thumbnailHeight)
	if err != nil {
		log.Warn().Err(err).Str("scenario", scenario).Msg("skipping evidence thumbnail")
		return art, nil
	}
	thumbPath := path.Join("thumbnails", base+".jpg")
	if err := e.storage.Save(ctx, thumbPath, bytes.NewReader(thumb)); err != nil {
		return art, err
	}
	art.Thumbnail = thumbPath
	return art, nil
}

// SaveReport writes v as indented JSON under reports/ and returns its path.
func (e *Evidence) SaveReport(ctx context.Context, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	p := path.Join("reports", e.now().UTC().Format("20060102T150405")+"-"+uuid.NewString()[:8]+".json")
	if err := e.storage.Save(ctx, p, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return p, nil
}
