package models

// Stable error codes returned in the error envelope.
const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicateSKU      = "DUPLICATE_SKU"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// SuccessResponse is the envelope for every successful JSON response.
type SuccessResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorResponse is the envelope for every error response.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code for programmatic handling plus
// free-form details. No stack traces or internals are ever exposed here.
type ErrorDetail struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details"`
}

// FieldError describes one failed validation constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// CategoryStats is the per-category breakdown entry. Entries keep the
// order in which categories were first encountered.
type CategoryStats struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// TypeStats is the per-type breakdown entry.
type TypeStats struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// ProductStats are the aggregate metrics computed over the full catalog.
type ProductStats struct {
	TotalProducts        int             `json:"totalProducts"`
	TotalInventoryValue  float64         `json:"totalInventoryValue"`
	TotalDiscountedValue float64         `json:"totalDiscountedValue"`
	AveragePrice         float64         `json:"averagePrice"`
	OutOfStockCount      int             `json:"outOfStockCount"`
	ProductsByCategory   []CategoryStats `json:"productsByCategory"`
	ProductsByType       []TypeStats     `json:"productsByType"`
}
