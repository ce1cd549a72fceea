package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	service   CatalogServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewMenuController(service CatalogServiceAPI, cache *CacheManager) *MenuController {
	return &MenuController{service: service, cache: cache, validator: NewRequestValidator(DefaultMaxUploadSize)}
}

// GetMenu handles GET /menu
func (mc *MenuController) GetMenu(c *gin.Context) {
	data, version, ok := mc.cache.Get(c.Request.Context(), cacheKeyMenu)
	if ok {
		c.Data(http.StatusOK, jsonContentType, data)
		return
	}

	resp := mc.service.GetMenu(c.Request.Context())
	if resp.Success {
		mc.cache.SetAsync(version, cacheKeyMenu, resp)
	}
	respond(c, resp)
}

// GetCategoryMenu handles GET /menu/categories/:categoryId
func (mc *MenuController) GetCategoryMenu(c *gin.Context) {
	categoryID, err := mc.validator.ParseID(c, "categoryId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := mc.service.GetCategoryMenu(c.Request.Context(), categoryID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, resp)
}
