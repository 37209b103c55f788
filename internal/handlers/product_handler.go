package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"produk/internal/cache"
	"produk/internal/middleware"
	"produk/internal/models"
	"produk/internal/repositories"
	"produk/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service     *services.ProductService
	readThrough *cache.ReadThrough
	invalidator *cache.Invalidator
	validate    *validator.Validate
	statsLimit  int
	log         zerolog.Logger
}

// NewProductHandler creates a new ProductHandler. statsLimit is the
// per-minute request cap on the statistics endpoint.
func NewProductHandler(service *services.ProductService, readThrough *cache.ReadThrough, invalidator *cache.Invalidator, statsLimit int, log zerolog.Logger) *ProductHandler {
	validate := validator.New()
	validate.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return skuPattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("dp2", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return math.Abs(v*100-math.Round(v*100)) < 1e-9
	})

	return &ProductHandler{
		service:     service,
		readThrough: readThrough,
		invalidator: invalidator,
		validate:    validate,
		statsLimit:  statsLimit,
		log:         log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// The stats route must come before /:id so it is not captured as an id.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", middleware.Authenticate(), h.HandleListProducts)
	products.Get("/stats", h.statsLimiter(), middleware.Authenticate(), middleware.RequireAdmin(), h.HandleProductStats)
	products.Get("/:id", middleware.Authenticate(), h.HandleGetProductByID)
	products.Post("/", middleware.Authenticate(), middleware.RequireAdmin(), h.HandleCreateProduct)
	products.Put("/:id", middleware.Authenticate(), middleware.RequireAdmin(), h.HandleUpdateProduct)
	products.Delete("/:id", middleware.Authenticate(), middleware.RequireAdmin(), h.HandleDeleteProduct)
}

// statsLimiter applies a strict rate limit to the resource-intensive
// statistics endpoint.
func (h *ProductHandler) statsLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        h.statsLimit,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Success: false,
				Message: "Too many requests, please try again later",
				Error: models.ErrorDetail{
					Code:    models.CodeRateLimitExceeded,
					Details: "Rate limit exceeded for this endpoint",
				},
			})
		},
	})
}

// HandleListProducts serves GET /products through the cache-aside path.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	role := middleware.RoleFromCtx(c)
	params := parseListParams(c)

	key := cache.Key(c.OriginalURL(), string(role))
	body, _, err := h.readThrough.Fetch(c.Context(), key, cache.ListTTLSeconds*time.Second, func() (interface{}, error) {
		products, pagination, err := h.service.ListProducts(c.Context(), role, params)
		if err != nil {
			return nil, err
		}
		return models.SuccessResponse{
			Success:    true,
			Message:    "Products retrieved successfully",
			Data:       products,
			Pagination: pagination,
		}, nil
	})
	if err != nil {
		return h.respondError(c, err, "")
	}
	return sendJSON(c, fiber.StatusOK, body)
}

// HandleGetProductByID serves GET /products/:id through the cache-aside
// path. Products the role may not see yield the same not-found response
// as a missing id.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	role := middleware.RoleFromCtx(c)
	id := c.Params("id")

	key := cache.Key(c.OriginalURL(), string(role))
	body, _, err := h.readThrough.Fetch(c.Context(), key, cache.ProductTTLSeconds*time.Second, func() (interface{}, error) {
		product, err := h.service.GetProductByID(c.Context(), role, id)
		if err != nil {
			return nil, err
		}
		return models.SuccessResponse{
			Success: true,
			Message: "Product retrieved successfully",
			Data:    product,
		}, nil
	})
	if err != nil {
		return h.respondError(c, err, id)
	}
	return sendJSON(c, fiber.StatusOK, body)
}

// HandleProductStats serves GET /products/stats (admin only).
func (h *ProductHandler) HandleProductStats(c *fiber.Ctx) error {
	key := cache.Key(c.OriginalURL(), string(middleware.RoleFromCtx(c)))
	body, _, err := h.readThrough.Fetch(c.Context(), key, cache.StatsTTLSeconds*time.Second, func() (interface{}, error) {
		stats, err := h.service.ProductStats(c.Context())
		if err != nil {
			return nil, err
		}
		return models.SuccessResponse{
			Success: true,
			Message: "Statistics retrieved successfully",
			Data:    stats,
		}, nil
	})
	if err != nil {
		return h.respondError(c, err, "")
	}
	return sendJSON(c, fiber.StatusOK, body)
}

// HandleCreateProduct serves POST /products (admin only).
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondBadBody(c, err)
	}
	if err := h.validate.Struct(input); err != nil {
		return h.respondValidationErrors(c, err)
	}

	product, err := h.service.CreateProduct(c.Context(), input)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			return h.respondDuplicateSKU(c, input.SKU)
		}
		return h.respondError(c, err, "")
	}

	go h.invalidator.InvalidateProducts(context.Background())

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// HandleUpdateProduct serves PUT /products/:id (admin only). The body is
// a partial update; a supplied sku is rejected outright.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var input models.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondBadBody(c, err)
	}
	if input.SKU != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Error: models.ErrorDetail{
				Code: models.CodeValidationError,
				Details: []models.FieldError{{
					Field:   "sku",
					Message: "sku is immutable and cannot be updated",
				}},
			},
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return h.respondValidationErrors(c, err)
	}

	product, err := h.service.UpdateProduct(c.Context(), id, input)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			return h.respondDuplicateSKU(c, "")
		}
		return h.respondError(c, err, id)
	}

	go func() {
		h.invalidator.InvalidateProducts(context.Background())
		h.invalidator.InvalidateProduct(context.Background(), id)
	}()

	return c.Status(fiber.StatusOK).JSON(models.SuccessResponse{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// HandleDeleteProduct serves DELETE /products/:id (admin only).
// Success is an empty 204.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.DeleteProduct(c.Context(), id); err != nil {
		return h.respondError(c, err, id)
	}

	go func() {
		h.invalidator.InvalidateProducts(context.Background())
		h.invalidator.InvalidateProduct(context.Background(), id)
	}()

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// parseListParams decodes the raw listing parameters from the query
// string. Unparsable numeric values are treated as absent; all
// normalization lives in the service layer.
func parseListParams(c *fiber.Ctx) models.ListProductsParams {
	params := models.ListProductsParams{
		Category: c.Query("category"),
		Type:     c.Query("type"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
		Page:     c.QueryInt("page"),
		Limit:    c.QueryInt("limit"),
	}
	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MaxPrice = &v
		}
	}
	return params
}

// sendJSON writes a pre-serialized envelope. Cached and fresh responses
// go through the same path so repeated reads are byte-identical.
func sendJSON(c *fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}

// respondError maps service errors onto the error envelope. Unknown
// failures are logged and collapsed into a generic internal error.
func (h *ProductHandler) respondError(c *fiber.Ctx, err error, id string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Success: false,
			Message: "Product not found",
			Error: models.ErrorDetail{
				Code: models.CodeNotFound,
				Details: fiber.Map{
					"resource": "Product",
					"id":       id,
				},
			},
		})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Error: models.ErrorDetail{
				Code:    models.CodeValidationError,
				Details: validationErr.Details,
			},
		})
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Success: false,
			Message: "An unexpected error occurred",
			Error: models.ErrorDetail{
				Code:    models.CodeInternalError,
				Details: "Please try again later",
			},
		})
	}
}

func (h *ProductHandler) respondDuplicateSKU(c *fiber.Ctx, sku string) error {
	return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{
		Success: false,
		Message: "Product with this SKU already exists",
		Error: models.ErrorDetail{
			Code: models.CodeDuplicateSKU,
			Details: fiber.Map{
				"field": "sku",
				"value": sku,
			},
		},
	})
}

func (h *ProductHandler) respondBadBody(c *fiber.Ctx, err error) error {
	h.log.Warn().Err(err).Msg("failed to parse request body")
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Success: false,
		Message: "Validation failed",
		Error: models.ErrorDetail{
			Code:    models.CodeValidationError,
			Details: "Invalid request body",
		},
	})
}

// respondValidationErrors converts validator failures into the
// field/message detail list of the envelope.
func (h *ProductHandler) respondValidationErrors(c *fiber.Ctx, err error) error {
	details := []models.FieldError{}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, models.FieldError{
				Field:   fieldName(e),
				Message: messageForTag(e),
			})
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Success: false,
		Message: "Validation failed",
		Error: models.ErrorDetail{
			Code:    models.CodeValidationError,
			Details: details,
		},
	})
}

// fieldName lowercases the struct field's first rune to match the JSON
// shape of the inputs.
func fieldName(e validator.FieldError) string {
	name := e.Field()
	if name == "SKU" {
		return "sku"
	}
	if len(name) > 0 {
		return string(name[0]|0x20) + name[1:]
	}
	return name
}

// messageForTag renders a human message per failed constraint.
func messageForTag(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "sku":
		return "must match the required pattern (alphanumeric with hyphens/underscores)"
	case "oneof":
		return "must be one of: public, private"
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "dp2":
		return "can have maximum 2 decimal places"
	default:
		return "invalid value"
	}
}
