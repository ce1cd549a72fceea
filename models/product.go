package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the relational record of a catalog item. Status=false marks a
// soft-deleted product; rows are never physically removed.
type Product struct {
	ID          int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"size:200;not null;index" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	CategoryID  int             `gorm:"not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Status      bool            `gorm:"not null;index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func (Product) TableName() string { return "products" }

// ProductResponse is the externally visible product shape. Image is either a
// data URI or "" and never null.
type ProductResponse struct {
	ID                  int             `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	CategoryID          int             `json:"categoryId"`
	CategoryDescription string          `json:"categoryDescription"`
	Image               string          `json:"image"`
	Status              bool            `json:"status"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           *time.Time      `json:"updatedAt"`
}

// Response maps the product to its response shape with the given inline image.
func (p Product) Response(image string) ProductResponse {
	categoryDescription := ""
	if p.Category != nil {
		categoryDescription = p.Category.Description
	}
	return ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Price:               p.Price,
		CategoryID:          p.CategoryID,
		CategoryDescription: categoryDescription,
		Image:               image,
		Status:              p.Status,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
