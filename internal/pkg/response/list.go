package response

// ListResponse is the standard wrapper for list endpoints. The dashboard lists
// are small closed snapshots, so there is no pagination.
type ListResponse[T any] struct {
	Items     []T  `json:"items"`
	Total     int  `json:"total"`
	NoResults bool `json:"no_results"`
}

// NewListResponse is a helper to quickly create a response
func NewListResponse[T any](items []T, noResults bool) ListResponse[T] {
	// Handle empty slice to avoid JSON outputting null
	if items == nil {
		items = make([]T, 0)
	}

	return ListResponse[T]{
		Items:     items,
		Total:     len(items),
		NoResults: noResults,
	}
}
