package storage

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
)

var (
	ErrInvalidPath = apperror.New(http.StatusBadRequest, "invalid storage path")
	ErrNotFound    = apperror.New(http.StatusNotFound, "file not found")
)

// Storage stores verification artifacts under relative slash-separated
// paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error

	// Open returns ErrNotFound for a missing file.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	// List returns the regular files directly under dir. A missing dir is
	// empty.
	List(ctx context.Context, dir string) ([]Entry, error)
}

// Entry describes one stored file.
type Entry struct {
	Path    string
	Size    int64
	ModTime time.Time
}
