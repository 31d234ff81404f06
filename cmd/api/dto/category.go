package dto

// CategoriesDTO lists categories with "All" first. Status is "fallback" when the
// fixed default list was served because the upstream was unavailable.
type CategoriesDTO struct {
	Items  []string `json:"items"`
	Status string   `json:"status"`
}
