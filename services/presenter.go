package services

import (
	"time"

	"catalog-service/models"
)

// Success wraps items in a successful envelope.
func Success[T any](message string, items []T) *models.Response[T] {
	return &models.Response[T]{Success: true, Message: message, Result: items}
}

// Failure builds an envelope with success=false and an empty result.
func Failure[T any](message string) *models.Response[T] {
	return &models.Response[T]{Success: false, Message: message, Result: []T{}}
}

// ProductListResponse maps products in order, taking each product's inline
// image from images and defaulting to "".
func ProductListResponse(products []models.Product, images map[int]string) []models.ProductResponse {
	out := make([]models.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, p.Response(images[p.ID]))
	}
	return out
}

// MenuFromProducts groups an already fetched product list by category id in
// first-seen order. The category description comes from the first product of
// each group. BuildMenu on the product store is the authoritative path; this
// one only serves callers that already hold a flat list.
func MenuFromProducts(products []models.ProductResponse, generatedAt time.Time) models.MenuResponse {
	menu := models.MenuResponse{
		TotalProducts: len(products),
		GeneratedAt:   generatedAt,
		Categories:    make([]models.CategoryResponse, 0),
	}

	index := make(map[int]int)
	for _, p := range products {
		i, ok := index[p.CategoryID]
		if !ok {
			i = len(menu.Categories)
			index[p.CategoryID] = i
			// only active products reach this point, so the group is shown as active
			menu.Categories = append(menu.Categories, models.CategoryResponse{
				ID:          p.CategoryID,
				Description: p.CategoryDescription,
				Active:      true,
				Products:    make([]models.ProductResponse, 0),
			})
		}
		menu.Categories[i].Products = append(menu.Categories[i].Products, p)
	}
	return menu
}

func inlineOf(img *models.ProductImage) string {
	if !img.HasBytes() {
		return ""
	}
	return InlineImage(img.ImageBytes)
}
