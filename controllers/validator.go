package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "catalog-service/common/errors"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DefaultMaxUploadSize caps a single product image.
const DefaultMaxUploadSize = 5 * 1024 * 1024

// productForm is the multipart shape of a product write.
type productForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	Price       string `form:"price"`
	CategoryID  int    `form:"categoryId"`
	Status      *bool  `form:"status"`
}

// productPayload is the JSON shape of a product write. Image is base64 or a
// data URI.
type productPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int             `json:"categoryId"`
	Status      *bool           `json:"status"`
	Image       string          `json:"image"`
}

// RequestValidator handles all input validation
type RequestValidator struct {
	validate      *validator.Validate
	maxUploadSize int64
}

func NewRequestValidator(maxUploadSize int64) *RequestValidator {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &RequestValidator{
		validate:      validator.New(),
		maxUploadSize: maxUploadSize,
	}
}

// ParseID reads a positive integer path parameter.
func (rv *RequestValidator) ParseID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest(fmt.Sprintf("invalid %s", name), err)
	}
	return id, nil
}

// ParseProductRequest reads a product write from multipart form data or JSON.
func (rv *RequestValidator) ParseProductRequest(c *gin.Context) (services.ProductRequest, error) {
	var req services.ProductRequest
	var err error

	if strings.HasPrefix(c.ContentType(), "multipart/") || c.ContentType() == "application/x-www-form-urlencoded" {
		req, err = rv.parseProductForm(c)
	} else {
		req, err = rv.parseProductJSON(c)
	}
	if err != nil {
		return services.ProductRequest{}, err
	}

	if err := rv.validate.Struct(&req); err != nil {
		return services.ProductRequest{}, apperrors.BadRequest("validation failed", err)
	}
	if req.Price.IsNegative() {
		return services.ProductRequest{}, apperrors.BadRequest("validation failed", errors.New("price must not be negative"))
	}
	return req, nil
}

func (rv *RequestValidator) parseProductForm(c *gin.Context) (services.ProductRequest, error) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		return services.ProductRequest{}, apperrors.BadRequest("invalid form data", err)
	}

	req := services.ProductRequest{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		Status:      form.Status,
	}
	if form.Price != "" {
		price, err := decimal.NewFromString(form.Price)
		if err != nil {
			return services.ProductRequest{}, apperrors.BadRequest("invalid price", err)
		}
		req.Price = price
	}

	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return services.ProductRequest{}, apperrors.BadRequest("invalid image upload", err)
	}
	if file.Size > rv.maxUploadSize {
		return services.ProductRequest{}, apperrors.BadRequest("image too large", nil)
	}

	f, err := file.Open()
	if err != nil {
		return services.ProductRequest{}, apperrors.BadRequest("invalid image upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, rv.maxUploadSize+1))
	if err != nil {
		return services.ProductRequest{}, apperrors.BadRequest("invalid image upload", err)
	}
	if req.Image, err = rv.checkImage(data); err != nil {
		return services.ProductRequest{}, err
	}
	return req, nil
}

func (rv *RequestValidator) parseProductJSON(c *gin.Context) (services.ProductRequest, error) {
	var body productPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		return services.ProductRequest{}, apperrors.BadRequest("invalid request body", err)
	}

	req := services.ProductRequest{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		CategoryID:  body.CategoryID,
		Status:      body.Status,
	}
	if body.Image == "" {
		return req, nil
	}

	data, err := DecodeImagePayload(body.Image)
	if err != nil {
		return services.ProductRequest{}, apperrors.BadRequest("invalid image encoding", err)
	}
	if req.Image, err = rv.checkImage(data); err != nil {
		return services.ProductRequest{}, err
	}
	return req, nil
}

// ParseCategoryRequest reads and validates a category JSON body.
func (rv *RequestValidator) ParseCategoryRequest(c *gin.Context) (services.CategoryRequest, error) {
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, apperrors.BadRequest("invalid request body", err)
	}
	req.Description = strings.TrimSpace(req.Description)
	if err := rv.validate.Struct(&req); err != nil {
		return req, apperrors.BadRequest("validation failed", err)
	}
	return req, nil
}

// checkImage only bounds the size. Image bytes are stored as uploaded; the
// inline renderer tags anything it cannot identify as image/png.
func (rv *RequestValidator) checkImage(data []byte) ([]byte, error) {
	if int64(len(data)) > rv.maxUploadSize {
		return nil, apperrors.BadRequest("image too large", nil)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// DecodeImagePayload accepts raw base64 or a data URI.
func DecodeImagePayload(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, errors.New("malformed data URI")
		}
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}
