package request

import (
	"net/http"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/apperror"
)

var ErrBlankID = apperror.New(http.StatusBadRequest, "id must not be blank")
