package repositories

import (
	"context"
	"errors"

	"produk/internal/models"
)

// ErrProductNotFound is returned when no product exists for an id. A
// malformed id yields the same error so callers cannot probe id formats.
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicateSKU is returned when a create collides with an existing SKU.
var ErrDuplicateSKU = errors.New("product with this SKU already exists")

// ProductQuery is the normalized query descriptor built by the service
// layer. The repository only applies it; all defaulting, clamping and
// role-based constraints happen before it gets here.
type ProductQuery struct {
	// Type constrains product visibility; empty means no constraint.
	Type     string
	Category string
	// Search matches case-insensitively against name or description.
	Search   string
	MinPrice *float64
	MaxPrice *float64
	// SortField is one of: name, price, quantity, createdAt.
	SortField string
	SortDesc  bool
	Offset    int
	Limit     int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Find(ctx context.Context, q ProductQuery) ([]models.Product, error)
	Count(ctx context.Context, q ProductQuery) (int64, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
