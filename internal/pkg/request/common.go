package request

import "strings"

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required"`
}

// Validate trims the path id and rejects blank values.
func (r *ByIDRequest) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	if r.ID == "" {
		return ErrBlankID
	}
	return nil
}
