package models

// Category groups products on the menu. Rows are never deleted while a
// product still references them.
type Category struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string `gorm:"size:100;not null;uniqueIndex" json:"description"`
	Active      bool   `gorm:"not null" json:"active"`
}

func (Category) TableName() string { return "categories" }

// CategoryResponse is a category as rendered on the menu, with its products.
type CategoryResponse struct {
	ID          int               `json:"id"`
	Description string            `json:"description"`
	Active      bool              `json:"active"`
	Products    []ProductResponse `json:"products"`
}

// Response maps a category row to its menu shape with no products attached.
func (c Category) Response() CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Description: c.Description,
		Active:      c.Active,
		Products:    []ProductResponse{},
	}
}
