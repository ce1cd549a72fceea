package repository

import (
	"context"

	"catalog-service/models"
)

// ProductRepo defines the relational operations used by catalog-service.
// A nil result with a nil error means the record is absent or the store
// rejected the write (missing id, unknown category).
type ProductRepo interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id int) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	SoftDelete(ctx context.Context, id int) (bool, error)
	ListByCategory(ctx context.Context, categoryID int) ([]models.Product, error)
	// BuildMenu returns active products grouped under active categories, without images.
	BuildMenu(ctx context.Context) (*models.MenuResponse, error)
}

// CategoryRepo defines the operations used for category management.
type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
}

// ImageRepo stores one image document per product id.
type ImageRepo interface {
	Create(ctx context.Context, productID int, data []byte) (*models.ProductImage, error)
	FindByProductID(ctx context.Context, productID int) (*models.ProductImage, error)
	// Update replaces the bytes of the image matched by product id; nil when none exists.
	Update(ctx context.Context, productID int, data []byte) (*models.ProductImage, error)
	Remove(ctx context.Context, productID int) (bool, error)
}
