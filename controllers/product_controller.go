package controllers

import (
	"net/http"

	"catalog-service/common/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductController struct {
	service   CatalogServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewProductController(service CatalogServiceAPI, cache *CacheManager, validator *RequestValidator) *ProductController {
	if validator == nil {
		validator = NewRequestValidator(DefaultMaxUploadSize)
	}
	return &ProductController{service: service, cache: cache, validator: validator}
}

// CreateProduct handles POST /products
func (pc *ProductController) CreateProduct(c *gin.Context) {
	req, err := pc.validator.ParseProductRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := pc.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if resp.Success {
		pc.cache.Invalidate(c.Request.Context())
		logger.FromGin(c).Info("Product created", zap.Int("product_id", resp.Result[0].ID))
	}
	respond(c, resp)
}

// ListProducts handles GET /products
func (pc *ProductController) ListProducts(c *gin.Context) {
	data, version, ok := pc.cache.Get(c.Request.Context(), cacheKeyProducts)
	if ok {
		c.Data(http.StatusOK, jsonContentType, data)
		return
	}

	resp, err := pc.service.ListProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if resp.Success {
		pc.cache.SetAsync(version, cacheKeyProducts, resp)
	}
	respond(c, resp)
}

// GetProductByID handles GET /products/:id
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, err := pc.validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, pc.service.GetProductByID(c.Request.Context(), id))
}

// UpdateProduct handles PATCH /products/:id
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := pc.validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	req, err := pc.validator.ParseProductRequest(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	req.ID = id

	resp, err := pc.service.UpdateProduct(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if resp.Success {
		pc.cache.Invalidate(c.Request.Context())
	}
	respond(c, resp)
}

// RemoveProduct handles DELETE /products/:id
func (pc *ProductController) RemoveProduct(c *gin.Context) {
	id, err := pc.validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := pc.service.RemoveProduct(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if resp.Success {
		pc.cache.Invalidate(c.Request.Context())
		logger.FromGin(c).Info("Product removed", zap.Int("product_id", id))
	}
	respond(c, resp)
}

// GetImage handles GET /products/:id/image
func (pc *ProductController) GetImage(c *gin.Context) {
	id, err := pc.validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := pc.service.GetImage(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, resp)
}
