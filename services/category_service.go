package services

import (
	"context"

	"catalog-service/models"
	"catalog-service/repository"

	"go.uber.org/zap"
)

type CategoryService struct {
	repo   repository.CategoryRepo
	logger *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepo, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, logger: logger}
}

// ListCategories returns active categories ordered by description.
func (s *CategoryService) ListCategories(ctx context.Context) (*models.Response[models.CategoryResponse], error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Response())
	}
	return Success(MsgCategoriesListed, out), nil
}

// CreateCategory stores a category. Duplicate descriptions are reported as a
// failed envelope.
func (s *CategoryService) CreateCategory(ctx context.Context, req CategoryRequest) (*models.Response[models.CategoryResponse], error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.repo.Create(ctx, &models.Category{Description: req.Description, Active: active})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return Failure[models.CategoryResponse](MsgCategoryCreateFailed), nil
	}

	s.logger.Info("Category created", zap.Int("category_id", created.ID), zap.String("description", created.Description))
	return Success(MsgCategoryCreated, []models.CategoryResponse{created.Response()}), nil
}
