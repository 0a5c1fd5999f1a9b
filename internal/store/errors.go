package store

import (
	"fmt"
	"net/http"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "record not found")
	ErrInvalidData   = apperror.New(http.StatusUnprocessableEntity, "invalid fixture data")
	ErrUnknownStatus = apperror.New(http.StatusBadRequest, "unknown rooming list status")
)

// NotFoundError reports a lookup miss. Whether a miss is a failure is up to
// the caller.
type NotFoundError struct {
	Table string
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Table, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
