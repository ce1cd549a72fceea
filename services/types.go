package services

import "github.com/shopspring/decimal"

// ProductRequest carries the fields accepted by CreateProduct and
// UpdateProduct. ID is ignored on create. Image is optional; a nil or empty
// slice leaves the stored image untouched.
type ProductRequest struct {
	ID          int             `json:"id"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int             `json:"categoryId" validate:"required,gt=0"`
	Image       []byte          `json:"-"`
	// Status defaults to true when nil.
	Status *bool `json:"status"`
}

type CategoryRequest struct {
	Description string `json:"description" validate:"required,max=100"`
	Active      *bool  `json:"active"`
}

const (
	MsgProductCreated      = "product created successfully"
	MsgProductCreateFailed = "could not create product"
	MsgProductUpdated      = "product updated successfully"
	MsgProductUpdateFailed = "could not update product"
	MsgProductRemoved      = "product removed successfully"
	MsgProductRemoveFailed = "error removing product"
	MsgProductsListed      = "products listed successfully"
	MsgProductsListFailed  = "could not list products"
	MsgProductFound        = "product found successfully"
	MsgProductNotFound     = "product not found"
	MsgMenuBuilt           = "menu retrieved successfully"
	MsgMenuFailed          = "could not build menu"
	MsgImageFound          = "image found successfully"
	MsgImageNotFound       = "image not found"

	MsgCategoriesListed     = "categories listed successfully"
	MsgCategoryCreated      = "category created successfully"
	MsgCategoryCreateFailed = "could not create category"
)
