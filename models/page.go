package models

// Page is the envelope returned by the search endpoints.
type Page struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Current int   `json:"current_page"`
	PerPage int   `json:"per_page"`
}

// DefaultPerPage is the page size used when the request does not supply one.
const DefaultPerPage = 15

// MaxPerPage caps client-supplied page sizes.
const MaxPerPage = 100
