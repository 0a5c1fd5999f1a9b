// Package evidence serves the reports and screenshots saved by verifier
// runs.
package evidence

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/storage"
)

var ErrInvalidName = apperror.New(http.StatusBadRequest, "invalid evidence name")

type Service interface {
	// ListReports returns the saved reports, newest first.
	ListReports(ctx context.Context) ([]Report, error)
	OpenReport(ctx context.Context, name string) (io.ReadCloser, error)
	OpenScreenshot(ctx context.Context, name string) (io.ReadCloser, error)
	OpenThumbnail(ctx context.Context, name string) (io.ReadCloser, error)
	// DeleteScreenshot removes a screenshot and its thumbnail.
	DeleteScreenshot(ctx context.Context, name string) error
}

type service struct {
	storage storage.Storage
}

func NewService(store storage.Storage) Service {
	return &service{storage: store}
}

// checkName accepts a bare file name with the given extension.
func checkName(name, ext string) error {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `\/`) || strings.HasPrefix(name, ".") || path.Ext(name) != ext {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func thumbnailName(screenshot string) string {
	return strings.TrimSuffix(screenshot, ".png") + ".jpg"
}

func (s *service) ListReports(ctx context.Context) ([]Report, error) {
	entries, err := s.storage.List(ctx, ReportsDir)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(entries))
	for _, e := range entries {
		name := path.Base(e.Path)
		if path.Ext(name) != ".json" {
			continue
		}
		reports = append(reports, Report{Name: name, Size: e.Size, CreatedAt: e.ModTime})
	}
	// Names start with a UTC timestamp.
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name > reports[j].Name })
	return reports, nil
}

func (s *service) OpenReport(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name, ".json"); err != nil {
		return nil, err
	}
	return s.storage.Open(ctx, path.Join(ReportsDir, name))
}

func (s *service) OpenScreenshot(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name, ".png"); err != nil {
		return nil, err
	}
	return s.storage.Open(ctx, path.Join(ScreenshotsDir, name))
}

func (s *service) OpenThumbnail(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name, ".png"); err != nil {
		return nil, err
	}
	return s.storage.Open(ctx, path.Join(ThumbnailsDir, thumbnailName(name)))
}

func (s *service) DeleteScreenshot(ctx context.Context, name string) error {
	if err := checkName(name, ".png"); err != nil {
		return err
	}

	rc, err := s.storage.Open(ctx, path.Join(ScreenshotsDir, name))
	if err != nil {
		return err
	}
	rc.Close()

	if err := s.storage.Delete(ctx, path.Join(ScreenshotsDir, name)); err != nil {
		return fmt.Errorf("failed to delete screenshot: %w", err)
	}
	if err := s.storage.Delete(ctx, path.Join(ThumbnailsDir, thumbnailName(name))); err != nil {
		return fmt.Errorf("failed to delete thumbnail: %w", err)
	}
	return nil
}
