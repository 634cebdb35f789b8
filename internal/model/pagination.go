package model

// Pagination represents a page link of a paginated listing
type Pagination struct {
	Number int64 `json:",omitempty"`
	Active bool  `json:",omitempty"`
	Dots   bool  `json:",omitempty"`
}
