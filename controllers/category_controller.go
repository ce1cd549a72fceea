package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	service   CategoryServiceAPI
	catalog   CatalogServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewCategoryController(service CategoryServiceAPI, catalog CatalogServiceAPI, cache *CacheManager, validator *RequestValidator) *CategoryController {
	if validator == nil {
		validator = NewRequestValidator(DefaultMaxUploadSize)
	}
	return &CategoryController{service: service, catalog: catalog, cache: cache, validator: validator}
}

// ListCategories handles GET /categories
func (cc *CategoryController) ListCategories(c *gin.Context) {
	resp, err := cc.service.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, resp)
}

// CreateCategory handles POST /categories
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	req, err := cc.validator.ParseCategoryRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := cc.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if resp.Success {
		cc.cache.Invalidate(c.Request.Context())
	}
	respond(c, resp)
}

// GetProductsByCategory handles GET /categories/:categoryId/products
func (cc *CategoryController) GetProductsByCategory(c *gin.Context) {
	categoryID, err := cc.validator.ParseID(c, "categoryId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	key := cacheKeyCategory(categoryID)
	data, version, ok := cc.cache.Get(c.Request.Context(), key)
	if ok {
		c.Data(http.StatusOK, jsonContentType, data)
		return
	}

	resp, err := cc.catalog.GetProductsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if resp.Success {
		cc.cache.SetAsync(version, key, resp)
	}
	respond(c, resp)
}
