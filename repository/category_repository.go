package repository

import (
	"context"
	"fmt"

	"catalog-service/models"

	"gorm.io/gorm"
)

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List returns active categories ordered by description.
func (r *GormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("description ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create inserts a category. A duplicate description yields a nil category.
func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isConstraintViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}
