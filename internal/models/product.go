package models

import "time"

// Role is the caller role resolved from the X-User-Role header.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Product type values. Type governs visibility: regular users only ever
// see public products.
const (
	TypePublic  = "public"
	TypePrivate = "private"
)

// Product represents a catalog product.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SKU           string    `json:"sku" gorm:"column:sku;uniqueIndex;type:varchar(50)"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Category      string    `json:"category"`
	Type          string    `json:"type" gorm:"type:varchar(10);index"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discountPrice"`
	Quantity      int       `json:"quantity"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CreateProductInput is the request body for POST /api/products.
// Quantity is a pointer so an explicit 0 passes while a missing field fails.
type CreateProductInput struct {
	SKU           string   `json:"sku" validate:"required,min=3,max=50,sku"`
	Name          string   `json:"name" validate:"required,min=3,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=1000"`
	Category      string   `json:"category" validate:"required,min=2,max=100"`
	Type          string   `json:"type" validate:"required,oneof=public private"`
	Price         float64  `json:"price" validate:"required,gt=0,dp2"`
	DiscountPrice *float64 `json:"discountPrice" validate:"omitempty,gte=0,dp2"`
	Quantity      *int     `json:"quantity" validate:"required,gte=0"`
}

// UpdateProductInput is the partial-update body for PUT /api/products/:id.
// Only supplied fields change. SKU is immutable; its presence is rejected
// before the remaining fields are validated.
type UpdateProductInput struct {
	SKU           *string  `json:"sku"`
	Name          *string  `json:"name" validate:"omitempty,min=3,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=1000"`
	Category      *string  `json:"category" validate:"omitempty,min=2,max=100"`
	Type          *string  `json:"type" validate:"omitempty,oneof=public private"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0,dp2"`
	DiscountPrice *float64 `json:"discountPrice" validate:"omitempty,gte=0,dp2"`
	Quantity      *int     `json:"quantity" validate:"omitempty,gte=0"`
}

// ListProductsParams are the raw listing parameters as decoded from the
// query string. Normalization (defaults, clamps, sort whitelist, role
// constraint) happens in the service layer, not here.
type ListProductsParams struct {
	Category string
	Type     string
	Search   string
	Sort     string
	Order    string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}
