package services_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"catalog-service/models"
	"catalog-service/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(products *memProductRepo, images *memImageRepo, opts ...services.Option) *services.CatalogService {
	return services.NewCatalogService(products, images, zap.NewNop(), opts...)
}

func decodeInline(t *testing.T, inline string) []byte {
	t.Helper()
	require.True(t, strings.HasPrefix(inline, "data:image/"), "unexpected inline image %q", inline)
	parts := strings.SplitN(inline, ",", 2)
	require.Len(t, parts, 2)
	data, err := base64.StdEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	return data
}

func boolPtr(b bool) *bool { return &b }

func TestCreateProduct_WithoutImage(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	svc := newService(products, images)

	resp, err := svc.CreateProduct(context.Background(), services.ProductRequest{
		Name:       "X-Bacon",
		Price:      decimal.RequireFromString("31.99"),
		CategoryID: 1,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Result, 1)
	assert.Equal(t, "X-Bacon", resp.Result[0].Name)
	assert.Equal(t, "", resp.Result[0].Image)
	assert.True(t, resp.Result[0].Status)
	assert.Equal(t, 0, images.creates)
}

func TestCreateProduct_WithImageRoundTrip(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	svc := newService(products, images)
	payload := []byte{0x10, 0x20, 0x30, 0x40}

	created, err := svc.CreateProduct(context.Background(), services.ProductRequest{
		Name:       "Batata frita",
		Price:      decimal.RequireFromString("15"),
		CategoryID: 2,
		Image:      payload,
	})
	require.NoError(t, err)
	require.True(t, created.Success)
	assert.Equal(t, "", created.Result[0].Image, "the new image is not read back on create")
	assert.Equal(t, 1, images.creates)

	fetched := svc.GetProductByID(context.Background(), created.Result[0].ID)
	require.True(t, fetched.Success)
	assert.Equal(t, payload, decodeInline(t, fetched.Result[0].Image))
	assert.Equal(t, "Acompanhamento", fetched.Result[0].CategoryDescription)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	svc := newService(products, images)

	resp, err := svc.CreateProduct(context.Background(), services.ProductRequest{
		Name:       "Ghost",
		CategoryID: 99,
		Image:      []byte{1},
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, services.MsgProductCreateFailed, resp.Message)
	assert.Empty(t, resp.Result)
	assert.NotNil(t, resp.Result)
	assert.Equal(t, 0, images.creates)
}

func TestCreateProduct_ImageFailureIsNotPropagated(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	images.createErr = errors.New("mongo down")
	svc := newService(products, images)

	resp, err := svc.CreateProduct(context.Background(), services.ProductRequest{
		Name:       "Pudim",
		Price:      decimal.RequireFromString("99"),
		CategoryID: 4,
		Image:      []byte{1, 2},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Result, 1)
}

func TestUpdateProduct_MissingIDDoesNotTouchImages(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	svc := newService(products, images)

	resp, err := svc.UpdateProduct(context.Background(), services.ProductRequest{
		ID:         404,
		Name:       "Nope",
		CategoryID: 1,
		Image:      []byte{1, 2, 3},
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, services.MsgProductUpdateFailed, resp.Message)
	assert.Equal(t, 0, images.creates)
	assert.Equal(t, 0, images.updates)
	assert.Empty(t, images.images)
}

func TestUpdateProduct_CreatesImageWhenNoneExists(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(5, "X-Salada", "24.99", 1, true)
	svc := newService(products, images)

	resp, err := svc.UpdateProduct(context.Background(), services.ProductRequest{
		ID:         5,
		Name:       "X-Salada",
		Price:      decimal.RequireFromString("25.99"),
		CategoryID: 1,
		Image:      []byte{1, 2, 3},
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, 1, images.creates)
	assert.Equal(t, 0, images.updates)
	assert.Equal(t, []byte{1, 2, 3}, decodeInline(t, resp.Result[0].Image))

	fetched := svc.GetProductByID(context.Background(), 5)
	require.True(t, fetched.Success)
	assert.Equal(t, []byte{1, 2, 3}, decodeInline(t, fetched.Result[0].Image))
}

func TestUpdateProduct_ReplacesExistingImage(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(5, "X-Salada", "24.99", 1, true)
	images.images[5] = []byte{9, 9}
	svc := newService(products, images)

	resp, err := svc.UpdateProduct(context.Background(), services.ProductRequest{
		ID: 5, Name: "X-Salada", CategoryID: 1, Image: []byte{7},
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, 0, images.creates)
	assert.Equal(t, 1, images.updates)
	assert.Equal(t, []byte{7}, decodeInline(t, resp.Result[0].Image))
}

func TestUpdateProduct_WithoutImageKeepsStoredImage(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(5, "X-Salada", "24.99", 1, true)
	images.images[5] = []byte{4, 2}
	svc := newService(products, images)

	resp, err := svc.UpdateProduct(context.Background(), services.ProductRequest{
		ID: 5, Name: "X-Salada Especial", CategoryID: 1,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "X-Salada Especial", resp.Result[0].Name)
	assert.Equal(t, []byte{4, 2}, decodeInline(t, resp.Result[0].Image))
	assert.Equal(t, 0, images.creates+images.updates)
}

func TestUpdateProduct_StatusDefaultsToActive(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(4, "Sorvete", "9", 4, false)
	svc := newService(products, images)

	resp, err := svc.UpdateProduct(context.Background(), services.ProductRequest{ID: 4, Name: "Sorvete", CategoryID: 4})
	require.NoError(t, err)
	assert.True(t, resp.Result[0].Status)

	resp, err = svc.UpdateProduct(context.Background(), services.ProductRequest{ID: 4, Name: "Sorvete", CategoryID: 4, Status: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, resp.Result[0].Status)
}

func TestUpdateProduct_ImageReloadFailureRendersEmpty(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(5, "X-Salada", "24.99", 1, true)
	images.findErr = errors.New("mongo timeout")
	svc := newService(products, images)

	resp, err := svc.UpdateProduct(context.Background(), services.ProductRequest{ID: 5, Name: "X-Salada", CategoryID: 1, Image: []byte{1}})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "", resp.Result[0].Image)
}

func TestUpdateProduct_StoreErrorPropagates(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.updateErr = errors.New("connection reset")
	svc := newService(products, images)

	resp, err := svc.UpdateProduct(context.Background(), services.ProductRequest{ID: 1, Name: "X", CategoryID: 1})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestRemoveProduct_Missing(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	svc := newService(products, images)

	resp, err := svc.RemoveProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "error")
	assert.Equal(t, []bool{false}, resp.Result)
	assert.Equal(t, 0, images.removes)
}

func TestRemoveProduct_StrictSecondCall(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(7, "Onion rings", "20", 2, true)
	images.images[7] = []byte{1}
	svc := newService(products, images)

	first, err := svc.RemoveProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, []bool{true}, first.Result)
	assert.NotContains(t, images.images, 7)

	second, err := svc.RemoveProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, []bool{false}, second.Result)

	list, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list.Result)
}

func TestListProducts_ActiveOnlyWithImages(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(1, "X-Bacon", "31.99", 1, true)
	products.seed(2, "Coca-Cola", "7", 3, true)
	products.seed(3, "Batata frita", "15", 2, true)
	products.seed(4, "Sorvete", "9", 4, false)
	images.images[1] = []byte{1}
	images.images[3] = []byte{3}
	images.images[4] = []byte{4}
	images.images[2] = []byte{}
	svc := newService(products, images, services.WithLookupConcurrency(2))

	resp, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, services.MsgProductsListed, resp.Message)
	require.Len(t, resp.Result, 3)

	names := []string{resp.Result[0].Name, resp.Result[1].Name, resp.Result[2].Name}
	assert.Equal(t, []string{"Batata frita", "Coca-Cola", "X-Bacon"}, names)

	withImage := 0
	for _, p := range resp.Result {
		if p.Image != "" {
			withImage++
		}
	}
	assert.Equal(t, 2, withImage)
	assert.Equal(t, "", resp.Result[1].Image)
}

func TestListProducts_NilListIsFailure(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.listNil = true
	svc := newService(products, images)

	resp, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, services.MsgProductsListFailed, resp.Message)
}

func TestListProducts_ErrorsPropagate(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(1, "X-Bacon", "31.99", 1, true)
	images.findErr = errors.New("mongo down")
	svc := newService(products, images)

	resp, err := svc.ListProducts(context.Background())
	assert.EqualError(t, err, "mongo down")
	assert.Nil(t, resp)

	products.listErr = errors.New("pg down")
	_, err = svc.ListProducts(context.Background())
	assert.EqualError(t, err, "pg down")
}

func TestGetProductsByCategory(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(6, "Pepsi", "7", 3, true)
	products.seed(17, "H2O", "5", 3, true)
	products.seed(16, "Suco de limão", "7", 3, false)
	products.seed(1, "X-Bacon", "31.99", 1, true)
	images.images[6] = []byte{6}
	svc := newService(products, images)

	resp, err := svc.GetProductsByCategory(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, resp.Result, 2)
	assert.Equal(t, "H2O", resp.Result[0].Name)
	assert.Equal(t, "", resp.Result[0].Image)
	assert.Equal(t, []byte{6}, decodeInline(t, resp.Result[1].Image))
}

func TestGetProductByID(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(4, "Sorvete", "9", 4, false)
	svc := newService(products, images)

	t.Run("inactive products are still returned", func(t *testing.T) {
		resp := svc.GetProductByID(context.Background(), 4)
		require.True(t, resp.Success)
		assert.Equal(t, services.MsgProductFound, resp.Message)
		assert.False(t, resp.Result[0].Status)
		assert.Equal(t, "", resp.Result[0].Image)
	})

	t.Run("not found", func(t *testing.T) {
		resp := svc.GetProductByID(context.Background(), 404)
		assert.False(t, resp.Success)
		assert.Equal(t, services.MsgProductNotFound, resp.Message)
		assert.Empty(t, resp.Result)
		assert.NotNil(t, resp.Result)
	})

	t.Run("store errors surface verbatim", func(t *testing.T) {
		images.findErr = errors.New("image store unavailable")
		defer func() { images.findErr = nil }()

		resp := svc.GetProductByID(context.Background(), 4)
		assert.False(t, resp.Success)
		assert.Equal(t, "image store unavailable", resp.Message)
	})
}

func TestReadPathsReportTheStoreMessage(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(4, "Pudim", "9", 4, true)
	svc := newService(products, images)

	products.findErr = fmt.Errorf("find product 4: %w", errors.New("pq: connection reset by peer"))
	resp := svc.GetProductByID(context.Background(), 4)
	assert.False(t, resp.Success)
	assert.Equal(t, "pq: connection reset by peer", resp.Message)
	products.findErr = nil

	products.menuErr = fmt.Errorf("load menu products: %w", errors.New("pq: relation \"products\" does not exist"))
	menu := svc.GetMenu(context.Background())
	assert.False(t, menu.Success)
	assert.Equal(t, "pq: relation \"products\" does not exist", menu.Message)
}

func TestGetMenu_OrderingAndImages(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(2, "Coca-Cola", "7", 3, true)
	products.seed(5, "X-Salada", "24.99", 1, true)
	products.seed(1, "X-Bacon", "31.99", 1, true)
	products.seed(3, "Batata frita", "15", 2, true)
	products.seed(12, "Pudim", "99", 4, false)
	images.images[5] = []byte{5}
	images.images[3] = []byte{3}
	svc := newService(products, images)

	resp := svc.GetMenu(context.Background())
	require.True(t, resp.Success)
	require.Len(t, resp.Result, 1)
	menu := resp.Result[0]

	assert.Equal(t, 4, menu.TotalProducts)
	require.Len(t, menu.Categories, 4)
	for i, c := range menu.Categories {
		assert.Equal(t, i+1, c.ID)
	}

	lanche := menu.Categories[0]
	require.Len(t, lanche.Products, 2)
	assert.Equal(t, "X-Bacon", lanche.Products[0].Name)
	assert.Equal(t, "", lanche.Products[0].Image)
	assert.Equal(t, "X-Salada", lanche.Products[1].Name)
	assert.Equal(t, []byte{5}, decodeInline(t, lanche.Products[1].Image))

	assert.Equal(t, []byte{3}, decodeInline(t, menu.Categories[1].Products[0].Image))
	assert.Empty(t, menu.Categories[3].Products)
}

func TestGetMenu_ErrorsBecomeFailures(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.menuErr = errors.New("relation \"products\" does not exist")
	svc := newService(products, images)

	resp := svc.GetMenu(context.Background())
	assert.False(t, resp.Success)
	assert.Equal(t, "relation \"products\" does not exist", resp.Message)
	assert.Empty(t, resp.Result)
	assert.NotNil(t, resp.Result)

	products.menuErr = nil
	products.seed(1, "X-Bacon", "31.99", 1, true)
	images.findErr = errors.New("mongo down")
	resp = svc.GetMenu(context.Background())
	assert.False(t, resp.Success)
	assert.Equal(t, "mongo down", resp.Message)
}

func TestGetCategoryMenu(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	products.seed(7, "Onion rings", "20", 2, true)
	products.seed(3, "Batata frita", "15", 2, true)
	svc := newService(products, images)

	resp, err := svc.GetCategoryMenu(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, resp.Success)
	menu := resp.Result[0]
	assert.Equal(t, 2, menu.TotalProducts)
	require.Len(t, menu.Categories, 1)
	assert.Equal(t, "Acompanhamento", menu.Categories[0].Description)
	assert.Equal(t, "Batata frita", menu.Categories[0].Products[0].Name)
}

func TestGetImage(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	images.images[9] = []byte{}
	images.images[10] = []byte{1, 2}
	svc := newService(products, images)

	tests := []struct {
		name      string
		productID int
		success   bool
	}{
		{"zero-length bytes", 9, false},
		{"missing document", 11, false},
		{"present", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetImage(context.Background(), tt.productID)
			require.NoError(t, err)
			assert.Equal(t, tt.success, resp.Success)
			require.Len(t, resp.Result, 1)
			if tt.success {
				assert.Equal(t, []byte{1, 2}, decodeInline(t, resp.Result[0]))
			} else {
				assert.Equal(t, services.MsgImageNotFound, resp.Message)
				assert.Equal(t, "", resp.Result[0])
			}
		})
	}
}

func TestEventsArePublishedBestEffort(t *testing.T) {
	products, images := newMemProductRepo(), newMemImageRepo()
	publisher := &recordingPublisher{err: errors.New("sns unavailable")}
	svc := newService(products, images, services.WithEventPublisher(publisher))

	created, err := svc.CreateProduct(context.Background(), services.ProductRequest{Name: "X-Tudo", CategoryID: 1, Image: []byte{1}})
	require.NoError(t, err)
	require.True(t, created.Success)
	id := created.Result[0].ID

	_, err = svc.UpdateProduct(context.Background(), services.ProductRequest{ID: id, Name: "X-Tudo", CategoryID: 1})
	require.NoError(t, err)
	removed, err := svc.RemoveProduct(context.Background(), id)
	require.NoError(t, err)
	require.True(t, removed.Success)
	_, err = svc.RemoveProduct(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, []string{
		models.EventProductCreated,
		models.EventProductUpdated,
		models.EventProductRemoved,
	}, publisher.types())
	assert.True(t, publisher.events[0].HasImage)
	assert.NotEmpty(t, publisher.events[0].EventID)
}
