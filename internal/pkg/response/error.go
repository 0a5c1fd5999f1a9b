package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// When the AppError is wrapped by a richer error (for example a dangling
// reference naming the missing id), the outer text is returned as details.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		resp := ErrorResponse{Error: appErr.Message}
		if msg := err.Error(); msg != appErr.Message {
			resp.Details = msg
		}
		c.JSON(appErr.Code, resp)
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled request error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
