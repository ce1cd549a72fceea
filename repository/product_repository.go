package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-service/models"

	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepo on top of PostgreSQL.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		if isConstraintViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (r *GormProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ?", true).
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// FindByID returns the product regardless of its status.
func (r *GormProductRepository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

// Update overwrites the mutable fields of an existing product of any status.
// ID and CreatedAt are never written.
func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"category_id": product.CategoryID,
		"status":      product.Status,
		"updated_at":  now,
	}

	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(updates)
	if result.Error != nil {
		if isConstraintViolation(result.Error) {
			return nil, nil
		}
		return nil, fmt.Errorf("update product %d: %w", product.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(ctx, product.ID)
}

// SoftDelete flips an active product to inactive. It reports false when the
// product does not exist or is already inactive.
func (r *GormProductRepository) SoftDelete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND status = ?", id, true).
		Updates(map[string]interface{}{
			"status":     false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("soft delete product %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormProductRepository) ListByCategory(ctx context.Context, categoryID int) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ? AND category_id = ?", true, categoryID).
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products for category %d: %w", categoryID, err)
	}
	return products, nil
}

// BuildMenu loads active products and active categories and nests the
// products under their category. Categories come out in id order and
// products in name order. TotalProducts counts every active product.
func (r *GormProductRepository) BuildMenu(ctx context.Context) (*models.MenuResponse, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("status = ?", true).
		Order("category_id ASC").
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load menu products: %w", err)
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load menu categories: %w", err)
	}

	byCategory := make(map[int][]models.Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	menu := &models.MenuResponse{
		TotalProducts: len(products),
		GeneratedAt:   time.Now(),
		Categories:    make([]models.CategoryResponse, 0, len(categories)),
	}
	for i := range categories {
		group := categories[i].Response()
		for _, p := range byCategory[categories[i].ID] {
			p.Category = &categories[i]
			group.Products = append(group.Products, p.Response(""))
		}
		menu.Categories = append(menu.Categories, group)
	}

	return menu, nil
}

// isConstraintViolation reports store-level rejections that callers treat as
// an absent result. Requires gorm.Config.TranslateError.
func isConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey)
}
