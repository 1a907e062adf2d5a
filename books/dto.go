package books

// PaginatedBooks is the response shape for the list endpoint. CurrentPage
// echoes the requested page without clamping; an out-of-range page yields
// an empty Books slice with correct totals.
type PaginatedBooks struct {
	TotalBooks  int64  `json:"total_books"`
	TotalPages  int64  `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	Books       []Book `json:"books"`
}

// UpdateRequest is the payload of the update endpoint: a map of updatable
// field names to their new values, all supplied as strings.
type UpdateRequest struct {
	Updates map[string]string `json:"updates"`
}

// DeleteResponse confirms a successful delete.
type DeleteResponse struct {
	Detail string `json:"detail" example:"Book deleted successfully"`
}
