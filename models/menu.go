package models

import "time"

// MenuResponse is a snapshot of the active catalog grouped by category.
type MenuResponse struct {
	TotalProducts int                `json:"totalProducts"`
	GeneratedAt   time.Time          `json:"generatedAt"`
	Categories    []CategoryResponse `json:"categories"`
}
