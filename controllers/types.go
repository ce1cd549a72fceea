package controllers

import (
	"context"
	"net/http"
	"time"

	"catalog-service/models"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
)

// Config
const (
	DefaultCacheTTL = 10 * time.Minute
	jsonContentType = "application/json; charset=utf-8"
)

// CatalogServiceAPI is the composition layer as seen by the HTTP handlers.
type CatalogServiceAPI interface {
	CreateProduct(ctx context.Context, req services.ProductRequest) (*models.Response[models.ProductResponse], error)
	UpdateProduct(ctx context.Context, req services.ProductRequest) (*models.Response[models.ProductResponse], error)
	RemoveProduct(ctx context.Context, id int) (*models.Response[bool], error)
	ListProducts(ctx context.Context) (*models.Response[models.ProductResponse], error)
	GetProductsByCategory(ctx context.Context, categoryID int) (*models.Response[models.ProductResponse], error)
	GetProductByID(ctx context.Context, id int) *models.Response[models.ProductResponse]
	GetMenu(ctx context.Context) *models.Response[models.MenuResponse]
	GetCategoryMenu(ctx context.Context, categoryID int) (*models.Response[models.MenuResponse], error)
	GetImage(ctx context.Context, productID int) (*models.Response[string], error)
}

type CategoryServiceAPI interface {
	ListCategories(ctx context.Context) (*models.Response[models.CategoryResponse], error)
	CreateCategory(ctx context.Context, req services.CategoryRequest) (*models.Response[models.CategoryResponse], error)
}

// respond writes the envelope with 200 on success and 400 otherwise.
func respond[T any](c *gin.Context, resp *models.Response[T]) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, resp)
}
