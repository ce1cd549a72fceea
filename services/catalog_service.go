package services

import (
	"context"
	"errors"
	"time"

	"catalog-service/models"
	"catalog-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultImageLookupConcurrency = 4

// CatalogService composes the product store and the image store. The product
// store is the system of record; image writes are best effort and never
// change the outcome of a product operation.
type CatalogService struct {
	products          repository.ProductRepo
	images            repository.ImageRepo
	events            EventPublisher
	logger            *zap.Logger
	lookupConcurrency int
	now               func() time.Time
}

type Option func(*CatalogService)

func WithEventPublisher(p EventPublisher) Option {
	return func(s *CatalogService) { s.events = p }
}

// WithLookupConcurrency bounds the number of parallel image lookups per request.
func WithLookupConcurrency(n int) Option {
	return func(s *CatalogService) {
		if n > 0 {
			s.lookupConcurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *CatalogService) { s.now = now }
}

func NewCatalogService(products repository.ProductRepo, images repository.ImageRepo, logger *zap.Logger, opts ...Option) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CatalogService{
		products:          products,
		images:            images,
		logger:            logger,
		lookupConcurrency: DefaultImageLookupConcurrency,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProduct stores a new active product and attaches its image when one
// was supplied. The response image is always "" since the stored image is not
// read back.
func (s *CatalogService) CreateProduct(ctx context.Context, req ProductRequest) (*models.Response[models.ProductResponse], error) {
	now := s.now()
	created, err := s.products.Create(ctx, &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Status:      true,
		CreatedAt:   now,
		UpdatedAt:   &now,
	})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return Failure[models.ProductResponse](MsgProductCreateFailed), nil
	}

	hasImage := false
	if len(req.Image) > 0 {
		if _, err := s.images.Create(ctx, created.ID, req.Image); err != nil {
			s.logger.Warn("Failed to store product image", zap.Int("product_id", created.ID), zap.Error(err))
		} else {
			hasImage = true
		}
	}

	s.publish(ctx, models.EventProductCreated, created, hasImage)

	return Success(MsgProductCreated, []models.ProductResponse{created.Response("")}), nil
}

// UpdateProduct overwrites a product of any status. New image bytes replace
// the stored image or create one. The response carries the image as stored
// after the update.
func (s *CatalogService) UpdateProduct(ctx context.Context, req ProductRequest) (*models.Response[models.ProductResponse], error) {
	status := true
	if req.Status != nil {
		status = *req.Status
	}

	updated, err := s.products.Update(ctx, &models.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Status:      status,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return Failure[models.ProductResponse](MsgProductUpdateFailed), nil
	}

	if len(req.Image) > 0 {
		s.replaceImage(ctx, updated.ID, req.Image)
	}

	current, err := s.images.FindByProductID(ctx, updated.ID)
	if err != nil {
		s.logger.Warn("Failed to reload product image", zap.Int("product_id", updated.ID), zap.Error(err))
		current = nil
	}

	s.publish(ctx, models.EventProductUpdated, updated, current.HasBytes())

	return Success(MsgProductUpdated, []models.ProductResponse{updated.Response(inlineOf(current))}), nil
}

func (s *CatalogService) replaceImage(ctx context.Context, productID int, data []byte) {
	existing, err := s.images.FindByProductID(ctx, productID)
	if err != nil {
		s.logger.Warn("Failed to look up product image", zap.Int("product_id", productID), zap.Error(err))
		return
	}

	if existing != nil {
		_, err = s.images.Update(ctx, productID, data)
	} else {
		_, err = s.images.Create(ctx, productID, data)
	}
	if err != nil {
		s.logger.Warn("Failed to store product image", zap.Int("product_id", productID), zap.Error(err))
	}
}

// RemoveProduct soft deletes a product and drops its image. The result is
// the soft delete outcome; the image removal does not affect it.
func (s *CatalogService) RemoveProduct(ctx context.Context, id int) (*models.Response[bool], error) {
	removed, err := s.products.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}

	message := MsgProductRemoveFailed
	if removed {
		message = MsgProductRemoved
		if _, err := s.images.Remove(ctx, id); err != nil {
			s.logger.Warn("Failed to remove product image", zap.Int("product_id", id), zap.Error(err))
		}
		s.publish(ctx, models.EventProductRemoved, &models.Product{ID: id}, false)
	}

	return &models.Response[bool]{Success: removed, Message: message, Result: []bool{removed}}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) (*models.Response[models.ProductResponse], error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.productList(ctx, products)
}

func (s *CatalogService) GetProductsByCategory(ctx context.Context, categoryID int) (*models.Response[models.ProductResponse], error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.productList(ctx, products)
}

func (s *CatalogService) productList(ctx context.Context, products []models.Product) (*models.Response[models.ProductResponse], error) {
	if products == nil {
		return Failure[models.ProductResponse](MsgProductsListFailed), nil
	}

	images, err := s.imagesFor(ctx, products)
	if err != nil {
		return nil, err
	}
	return Success(MsgProductsListed, ProductListResponse(products, images)), nil
}

// GetProductByID returns the product whatever its status. Store errors are
// reported in the envelope rather than returned.
func (s *CatalogService) GetProductByID(ctx context.Context, id int) *models.Response[models.ProductResponse] {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return Failure[models.ProductResponse](causeMessage(err))
	}
	if product == nil {
		return Failure[models.ProductResponse](MsgProductNotFound)
	}

	img, err := s.images.FindByProductID(ctx, id)
	if err != nil {
		return Failure[models.ProductResponse](causeMessage(err))
	}
	return Success(MsgProductFound, []models.ProductResponse{product.Response(inlineOf(img))})
}

// GetMenu builds the menu snapshot from the product store and inlines every
// product image in place. Errors are reported in the envelope.
func (s *CatalogService) GetMenu(ctx context.Context) *models.Response[models.MenuResponse] {
	menu, err := s.products.BuildMenu(ctx)
	if err != nil {
		return Failure[models.MenuResponse](causeMessage(err))
	}
	if menu == nil {
		return Failure[models.MenuResponse](MsgMenuFailed)
	}

	var ids []int
	for _, group := range menu.Categories {
		for _, p := range group.Products {
			ids = append(ids, p.ID)
		}
	}
	inline, err := s.lookupImages(ctx, ids)
	if err != nil {
		return Failure[models.MenuResponse](causeMessage(err))
	}

	n := 0
	for ci := range menu.Categories {
		for pi := range menu.Categories[ci].Products {
			menu.Categories[ci].Products[pi].Image = inline[n]
			n++
		}
	}

	return Success(MsgMenuBuilt, []models.MenuResponse{*menu})
}

// GetCategoryMenu assembles a single-category menu from the flat product
// listing of that category.
func (s *CatalogService) GetCategoryMenu(ctx context.Context, categoryID int) (*models.Response[models.MenuResponse], error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		return Failure[models.MenuResponse](MsgProductsListFailed), nil
	}

	images, err := s.imagesFor(ctx, products)
	if err != nil {
		return nil, err
	}
	menu := MenuFromProducts(ProductListResponse(products, images), s.now())
	return Success(MsgMenuBuilt, []models.MenuResponse{menu}), nil
}

// GetImage returns the inline image of a product. A missing or empty image
// yields success=false with a single "" result.
func (s *CatalogService) GetImage(ctx context.Context, productID int) (*models.Response[string], error) {
	img, err := s.images.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !img.HasBytes() {
		return &models.Response[string]{Success: false, Message: MsgImageNotFound, Result: []string{""}}, nil
	}
	return Success(MsgImageFound, []string{InlineImage(img.ImageBytes)}), nil
}

// causeMessage returns the text of the innermost wrapped error, the store's
// own message without the adapter's context prefixes.
func causeMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func (s *CatalogService) imagesFor(ctx context.Context, products []models.Product) (map[int]string, error) {
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	inline, err := s.lookupImages(ctx, ids)
	if err != nil {
		return nil, err
	}

	images := make(map[int]string, len(ids))
	for i, id := range ids {
		images[id] = inline[i]
	}
	return images, nil
}

// lookupImages fetches the images of ids concurrently. The result is aligned
// with ids; products without image bytes get "".
func (s *CatalogService) lookupImages(ctx context.Context, ids []int) ([]string, error) {
	inline := make([]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.lookupConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			img, err := s.images.FindByProductID(gctx, id)
			if err != nil {
				return err
			}
			inline[i] = inlineOf(img)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inline, nil
}

func (s *CatalogService) publish(ctx context.Context, eventType string, p *models.Product, hasImage bool) {
	if s.events == nil {
		return
	}
	event := models.ProductEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		CategoryID: p.CategoryID,
		Status:     p.Status,
		HasImage:   hasImage,
		Timestamp:  s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish product event",
			zap.String("event_type", eventType),
			zap.Int("product_id", p.ID),
			zap.Error(err),
		)
	}
}
