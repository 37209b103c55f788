package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"produk/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. It emulates the backing store's filter, sort and
// page semantics so the service layer can be exercised without a
// database. Records are kept in insertion order.
type MockProductRepository struct {
	products map[string]models.Product
	order    []string
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

func matches(p models.Product, q ProductQuery) bool {
	if q.Type != "" && p.Type != q.Type {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		inName := strings.Contains(strings.ToLower(p.Name), needle)
		inDesc := p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle)
		if !inName && !inDesc {
			return false
		}
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}

func (r *MockProductRepository) filtered(q ProductQuery) []models.Product {
	matched := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.products[id]; ok && matches(p, q) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Find applies the descriptor's filter, sort and page window.
func (r *MockProductRepository) Find(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	r.mu.RLock()
	matched := r.filtered(q)
	r.mu.RUnlock()

	less := func(a, b models.Product) bool {
		switch q.SortField {
		case "name":
			return a.Name < b.Name
		case "price":
			return a.Price < b.Price
		case "quantity":
			return a.Quantity < b.Quantity
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	// Stable sort keeps insertion order on equal keys, so page walks
	// never duplicate or drop records.
	sort.SliceStable(matched, func(i, j int) bool {
		if q.SortDesc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	if q.Offset >= len(matched) {
		return []models.Product{}, nil
	}
	end := q.Offset + q.Limit
	if q.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[q.Offset:end], nil
}

// Count returns the number of records under the same filter, ignoring
// the page window.
func (r *MockProductRepository) Count(ctx context.Context, q ProductQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filtered(q))), nil
}

// GetAll returns every product in insertion order.
func (r *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.products[id]; ok {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product, enforcing SKU uniqueness.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == product.SKU {
			return ErrDuplicateSKU
		}
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// Update replaces an existing product.
func (r *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return ErrProductNotFound
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}
