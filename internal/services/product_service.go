package services

import (
	"context"
	"math"

	"produk/internal/models"
	"produk/internal/repositories"

	"github.com/rs/zerolog"
)

// ValidationError reports a failed cross-field invariant with the same
// detail shape the schema validator produces.
type ValidationError struct {
	Details []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func errDiscountNotBelowPrice() *ValidationError {
	return &ValidationError{Details: []models.FieldError{{
		Field:   "discountPrice",
		Message: "Discount price must be less than the original price",
	}}}
}

// EventPublisher publishes product lifecycle events to the message broker.
type EventPublisher interface {
	PublishProductEvent(event string, payload map[string]interface{}) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
	log    zerolog.Logger
}

// NewProductService creates a new ProductService. events may be nil when
// no broker is configured.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, log zerolog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// sortFields is the whitelist of listing sort keys. Anything else falls
// back to createdAt rather than erroring.
var sortFields = map[string]bool{
	"name":      true,
	"price":     true,
	"quantity":  true,
	"createdAt": true,
}

// BuildProductQuery translates the caller role and raw listing parameters
// into a normalized query descriptor plus the effective page and limit.
// Page defaults to 1 (minimum 1); limit defaults to 10 and is clamped to
// 1..100.
func BuildProductQuery(role models.Role, p models.ListProductsParams) (repositories.ProductQuery, int, int) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit == 0 {
		limit = 10
	} else if limit < 1 {
		limit = 1
	} else if limit > 100 {
		limit = 100
	}

	sortField := p.Sort
	if !sortFields[sortField] {
		sortField = "createdAt"
	}

	q := repositories.ProductQuery{
		Type:      TypeConstraintFor(role, p.Type),
		Category:  p.Category,
		Search:    p.Search,
		MinPrice:  p.MinPrice,
		MaxPrice:  p.MaxPrice,
		SortField: sortField,
		SortDesc:  p.Order == "desc",
		Offset:    (page - 1) * limit,
		Limit:     limit,
	}
	return q, page, limit
}

// ListProducts returns the page of products visible to the role along
// with the pagination envelope.
func (s *ProductService) ListProducts(ctx context.Context, role models.Role, params models.ListProductsParams) ([]models.Product, *models.Pagination, error) {
	q, page, limit := BuildProductQuery(role, params)

	products, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	totalItems, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))
	pagination := &models.Pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      totalItems,
		ItemsPerPage:    limit,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}

	s.log.Info().Int("count", len(products)).Int("page", page).Int("totalPages", totalPages).Msg("products retrieved")
	return products, pagination, nil
}

// GetProductByID retrieves a single product, honoring role visibility.
// A product the role may not see yields the same ErrProductNotFound as a
// missing id.
func (s *ProductService) GetProductByID(ctx context.Context, role models.Role, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(role, product) {
		return nil, repositories.ErrProductNotFound
	}
	return product, nil
}

// CreateProduct validates the discount invariant, stores the product and
// publishes a creation event.
func (s *ProductService) CreateProduct(ctx context.Context, input models.CreateProductInput) (*models.Product, error) {
	if input.DiscountPrice != nil && *input.DiscountPrice >= input.Price {
		return nil, errDiscountNotBelowPrice()
	}

	product := &models.Product{
		SKU:           input.SKU,
		Name:          input.Name,
		Description:   normalizeDescription(input.Description),
		Category:      input.Category,
		Type:          input.Type,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Quantity:      *input.Quantity,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info().Str("sku", product.SKU).Str("name", product.Name).Msg("product created")
	s.publish("product.created", product)
	return product, nil
}

// UpdateProduct applies a partial update. The discount invariant is
// re-checked against the effective values: supplied fields merged over
// the stored record.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input models.UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	effectivePrice := product.Price
	if input.Price != nil {
		effectivePrice = *input.Price
	}
	effectiveDiscount := product.DiscountPrice
	if input.DiscountPrice != nil {
		effectiveDiscount = input.DiscountPrice
	}
	if effectiveDiscount != nil && *effectiveDiscount >= effectivePrice {
		return nil, errDiscountNotBelowPrice()
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = normalizeDescription(input.Description)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Type != nil {
		product.Type = *input.Type
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.DiscountPrice != nil {
		product.DiscountPrice = input.DiscountPrice
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info().Str("sku", product.SKU).Str("name", product.Name).Msg("product updated")
	s.publish("product.updated", product)
	return product, nil
}

// DeleteProduct removes a product and publishes a deletion event.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("sku", product.SKU).Str("name", product.Name).Msg("product deleted")
	s.publish("product.deleted", product)
	return nil
}

// ProductStats aggregates metrics over the entire catalog. Role gating
// happens at the route layer; this always sees every record.
func (s *ProductService) ProductStats(ctx context.Context) (*models.ProductStats, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.ProductStats{
		TotalProducts:      len(products),
		ProductsByCategory: []models.CategoryStats{},
		ProductsByType:     []models.TypeStats{},
	}

	categoryIndex := make(map[string]int)
	typeIndex := make(map[string]int)
	var totalInventoryValue, totalDiscountedValue float64

	for _, p := range products {
		inventoryValue := p.Price * float64(p.Quantity)
		totalInventoryValue += inventoryValue

		if p.DiscountPrice != nil {
			totalDiscountedValue += *p.DiscountPrice * float64(p.Quantity)
		}
		if p.Quantity == 0 {
			stats.OutOfStockCount++
		}

		if i, ok := categoryIndex[p.Category]; ok {
			stats.ProductsByCategory[i].Count++
			stats.ProductsByCategory[i].TotalValue += inventoryValue
		} else {
			categoryIndex[p.Category] = len(stats.ProductsByCategory)
			stats.ProductsByCategory = append(stats.ProductsByCategory, models.CategoryStats{
				Category:   p.Category,
				Count:      1,
				TotalValue: inventoryValue,
			})
		}

		if i, ok := typeIndex[p.Type]; ok {
			stats.ProductsByType[i].Count++
			stats.ProductsByType[i].TotalValue += inventoryValue
		} else {
			typeIndex[p.Type] = len(stats.ProductsByType)
			stats.ProductsByType = append(stats.ProductsByType, models.TypeStats{
				Type:       p.Type,
				Count:      1,
				TotalValue: inventoryValue,
			})
		}
	}

	stats.TotalInventoryValue = round2(totalInventoryValue)
	stats.TotalDiscountedValue = round2(totalDiscountedValue)
	if stats.TotalProducts > 0 {
		stats.AveragePrice = round2(totalInventoryValue / float64(stats.TotalProducts))
	}
	for i := range stats.ProductsByCategory {
		stats.ProductsByCategory[i].TotalValue = round2(stats.ProductsByCategory[i].TotalValue)
	}
	for i := range stats.ProductsByType {
		stats.ProductsByType[i].TotalValue = round2(stats.ProductsByType[i].TotalValue)
	}

	s.log.Info().Int("totalProducts", stats.TotalProducts).Msg("statistics retrieved")
	return stats, nil
}

// publish sends a lifecycle event without blocking the request. Broker
// failures are logged, never surfaced.
func (s *ProductService) publish(event string, product *models.Product) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"id":   product.ID,
		"sku":  product.SKU,
		"name": product.Name,
		"type": product.Type,
	}
	go func() {
		if err := s.events.PublishProductEvent(event, payload); err != nil {
			s.log.Error().Err(err).Str("event", event).Msg("failed to publish product event")
		}
	}()
}

// normalizeDescription maps an empty string to null, matching the stored
// nullable field.
func normalizeDescription(desc *string) *string {
	if desc == nil || *desc == "" {
		return nil
	}
	return desc
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
