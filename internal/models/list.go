package models

// ListResponse wraps an entity list with its post-filter total
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
