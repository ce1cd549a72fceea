package routes

import (
	"catalog-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every catalog endpoint onto r.
func RegisterRoutes(r *gin.Engine, pc *controllers.ProductController, cc *controllers.CategoryController, mc *controllers.MenuController) {
	RegisterProductRoutes(r, pc)
	RegisterCategoryRoutes(r, cc)
	RegisterMenuRoutes(r, mc)
}

func RegisterProductRoutes(r *gin.Engine, pc *controllers.ProductController) {
	productRoutes := r.Group("/products")
	{
		productRoutes.GET("", pc.ListProducts)
		productRoutes.POST("", pc.CreateProduct)
		productRoutes.GET("/:id", pc.GetProductByID)
		productRoutes.PATCH("/:id", pc.UpdateProduct)
		productRoutes.DELETE("/:id", pc.RemoveProduct)
		productRoutes.GET("/:id/image", pc.GetImage)
	}
}

func RegisterCategoryRoutes(r *gin.Engine, cc *controllers.CategoryController) {
	categoryRoutes := r.Group("/categories")
	{
		categoryRoutes.GET("", cc.ListCategories)
		categoryRoutes.POST("", cc.CreateCategory)
		categoryRoutes.GET("/:categoryId/products", cc.GetProductsByCategory)
	}
}

func RegisterMenuRoutes(r *gin.Engine, mc *controllers.MenuController) {
	menuRoutes := r.Group("/menu")
	{
		menuRoutes.GET("", mc.GetMenu)
		menuRoutes.GET("/categories/:categoryId", mc.GetCategoryMenu)
	}
}
