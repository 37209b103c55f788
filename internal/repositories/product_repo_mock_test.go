package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"produk/internal/models"
	"produk/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func seedRepo(t *testing.T) *repositories.MockProductRepository {
	t.Helper()

	repo := repositories.NewMockProductRepository()
	products := []models.Product{
		{SKU: "LAPTOP-1", Name: "Laptop", Description: strPtr("High performance laptop"), Category: "Electronics", Type: models.TypePublic, Price: 1200.00, Quantity: 10},
		{SKU: "KEYB-1", Name: "Keyboard", Description: strPtr("Mechanical keyboard"), Category: "Electronics", Type: models.TypePublic, Price: 75.00, Quantity: 25},
		{SKU: "MOUSE-1", Name: "Mouse", Category: "Electronics", Type: models.TypePrivate, Price: 25.00, Quantity: 50},
		{SKU: "DESK-1", Name: "Desk", Category: "Furniture", Type: models.TypePublic, Price: 300.00, Quantity: 0},
	}
	for i := range products {
		require.NoError(t, repo.Create(context.Background(), &products[i]))
	}
	return repo
}

func TestMockProductRepository_FilterAndCount(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	q := repositories.ProductQuery{Category: "Electronics", Limit: 10}
	found, err := repo.Find(ctx, q)
	assert.NoError(t, err)
	assert.Len(t, found, 3)

	count, err := repo.Count(ctx, q)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Type constraint combines with the category filter.
	q.Type = models.TypePublic
	found, err = repo.Find(ctx, q)
	assert.NoError(t, err)
	assert.Len(t, found, 2)

	// Search matches name or description, case-insensitively.
	found, err = repo.Find(ctx, repositories.ProductQuery{Search: "MECHANICAL", Limit: 10})
	assert.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "KEYB-1", found[0].SKU)

	// Inclusive price bounds.
	found, err = repo.Find(ctx, repositories.ProductQuery{MinPrice: floatPtr(75.00), MaxPrice: floatPtr(300.00), Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestMockProductRepository_SortAndPage(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	found, err := repo.Find(ctx, repositories.ProductQuery{SortField: "price", Limit: 10})
	assert.NoError(t, err)
	require.Len(t, found, 4)
	for i := 1; i < len(found); i++ {
		assert.LessOrEqual(t, found[i-1].Price, found[i].Price)
	}

	found, err = repo.Find(ctx, repositories.ProductQuery{SortField: "price", SortDesc: true, Limit: 2})
	assert.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "LAPTOP-1", found[0].SKU)

	// Second page picks up where the first stopped.
	found, err = repo.Find(ctx, repositories.ProductQuery{SortField: "price", SortDesc: true, Offset: 2, Limit: 2})
	assert.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "KEYB-1", found[0].SKU)

	// An offset past the end yields an empty page, not an error.
	found, err = repo.Find(ctx, repositories.ProductQuery{Offset: 10, Limit: 10})
	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestMockProductRepository_CRUD(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	ctx := context.Background()

	product := &models.Product{SKU: "WIDGET-1", Name: "Widget", Category: "Tools", Type: models.TypePublic, Price: 9.99, Quantity: 1}
	require.NoError(t, repo.Create(ctx, product))
	assert.NotEmpty(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())

	// SKU uniqueness is enforced like the real store's index.
	err := repo.Create(ctx, &models.Product{SKU: "WIDGET-1", Name: "Other"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateSKU)

	got, err := repo.GetByID(ctx, product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "WIDGET-1", got.SKU)

	got.Name = "Widget Pro"
	assert.NoError(t, repo.Update(ctx, got))
	got, _ = repo.GetByID(ctx, product.ID)
	assert.Equal(t, "Widget Pro", got.Name)

	assert.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), repositories.ErrProductNotFound)

	all, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestMockProductRepository_InsertionOrder(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.Product{SKU: fmt.Sprintf("SKU-%d", i), Name: fmt.Sprintf("Item %d", i)}))
	}

	all, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	require.Len(t, all, 5)
	for i, p := range all {
		assert.Equal(t, fmt.Sprintf("SKU-%d", i), p.SKU)
	}
}
