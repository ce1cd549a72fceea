package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"catalog-service/models"

	"github.com/shopspring/decimal"
)

// ---- in-memory product store ----

type memProductRepo struct {
	mu         sync.Mutex
	products   map[int]*models.Product
	categories map[int]models.Category
	nextID     int

	listErr   error
	findErr   error
	menuErr   error
	listNil   bool
	updateErr error
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{
		products: map[int]*models.Product{},
		categories: map[int]models.Category{
			1: {ID: 1, Description: "Lanche", Active: true},
			2: {ID: 2, Description: "Acompanhamento", Active: true},
			3: {ID: 3, Description: "Bebida", Active: true},
			4: {ID: 4, Description: "Sobremesa", Active: true},
		},
		nextID: 1,
	}
}

func (m *memProductRepo) seed(id int, name string, price string, categoryID int, status bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id] = &models.Product{
		ID:         id,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		Status:     status,
		CreatedAt:  time.Now(),
	}
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

func (m *memProductRepo) withCategory(p models.Product) models.Product {
	if c, ok := m.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (m *memProductRepo) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[p.CategoryID]; !ok {
		return nil, nil
	}
	p.ID = m.nextID
	m.nextID++
	stored := *p
	m.products[p.ID] = &stored
	return p, nil
}

func (m *memProductRepo) active(filter func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range m.products {
		if p.Status && filter(*p) {
			out = append(out, m.withCategory(*p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memProductRepo) List(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.listNil {
		return nil, nil
	}
	return m.active(func(models.Product) bool { return true }), nil
}

func (m *memProductRepo) FindByID(_ context.Context, id int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	out := m.withCategory(*p)
	return &out, nil
}

func (m *memProductRepo) Update(_ context.Context, p *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	existing, ok := m.products[p.ID]
	if !ok {
		return nil, nil
	}
	if _, ok := m.categories[p.CategoryID]; !ok {
		return nil, nil
	}
	now := time.Now()
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.CategoryID = p.CategoryID
	existing.Status = p.Status
	existing.UpdatedAt = &now
	out := m.withCategory(*existing)
	return &out, nil
}

func (m *memProductRepo) SoftDelete(_ context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || !p.Status {
		return false, nil
	}
	now := time.Now()
	p.Status = false
	p.UpdatedAt = &now
	return true, nil
}

func (m *memProductRepo) ListByCategory(_ context.Context, categoryID int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.active(func(p models.Product) bool { return p.CategoryID == categoryID }), nil
}

func (m *memProductRepo) BuildMenu(_ context.Context) (*models.MenuResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.menuErr != nil {
		return nil, m.menuErr
	}

	ids := make([]int, 0, len(m.categories))
	for id, c := range m.categories {
		if c.Active {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	all := m.active(func(models.Product) bool { return true })
	menu := &models.MenuResponse{TotalProducts: len(all), GeneratedAt: time.Now()}
	for _, id := range ids {
		group := m.categories[id].Response()
		for _, p := range all {
			if p.CategoryID == id {
				group.Products = append(group.Products, p.Response(""))
			}
		}
		menu.Categories = append(menu.Categories, group)
	}
	return menu, nil
}

// ---- in-memory image store ----

type memImageRepo struct {
	mu     sync.Mutex
	images map[int][]byte

	creates int
	updates int
	removes int

	findErr   error
	createErr error
}

func newMemImageRepo() *memImageRepo {
	return &memImageRepo{images: map[int][]byte{}}
}

func (m *memImageRepo) Create(_ context.Context, productID int, data []byte) (*models.ProductImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.images[productID] = data
	return &models.ProductImage{ProductID: productID, ImageBytes: data}, nil
}

func (m *memImageRepo) FindByProductID(_ context.Context, productID int) (*models.ProductImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	data, ok := m.images[productID]
	if !ok {
		return nil, nil
	}
	return &models.ProductImage{ProductID: productID, ImageBytes: data}, nil
}

func (m *memImageRepo) Update(_ context.Context, productID int, data []byte) (*models.ProductImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if _, ok := m.images[productID]; !ok {
		return nil, nil
	}
	m.images[productID] = data
	return &models.ProductImage{ProductID: productID, ImageBytes: data}, nil
}

func (m *memImageRepo) Remove(_ context.Context, productID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes++
	if _, ok := m.images[productID]; !ok {
		return false, nil
	}
	delete(m.images, productID)
	return true, nil
}

// ---- recording publisher ----

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ProductEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e models.ProductEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}
