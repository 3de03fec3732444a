package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProductStatus represents the sale state of a product.
type ProductStatus string

// Possible product status values.
const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Common validation errors for Product.
var (
	ErrEmptyProductID        = errors.New("product ID cannot be empty")
	ErrEmptyProductName      = errors.New("product name cannot be empty")
	ErrEmptyProductCode      = errors.New("product code cannot be empty")
	ErrInvalidExpirationTime = errors.New("product expiration time must be positive")
	ErrInvalidProductStatus  = errors.New("invalid product status")
)

// Product is a purchasable plan. Its Code is the external reference used by
// the payment provider, and ExpirationTime is how long a purchased
// subscription lasts.
type Product struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Code           string        `json:"code"`
	Course         Course        `json:"course"`
	ExpirationTime time.Duration `json:"expiration_time"`
	Status         ProductStatus `json:"status"`
}

// NewProduct creates a new active Product.
func NewProduct(name, code string, course Course, expirationTime time.Duration) (*Product, error) {
	product := &Product{
		ID:             uuid.New(),
		Name:           name,
		Code:           code,
		Course:         course,
		ExpirationTime: expirationTime,
		Status:         ProductStatusActive,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate checks if the Product has valid data.
// Returns an error if any field fails validation.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProductID
	}

	if p.Name == "" {
		return ErrEmptyProductName
	}

	if p.Code == "" {
		return ErrEmptyProductCode
	}

	if !IsValidCourse(p.Course) {
		return ErrInvalidCourse
	}

	if p.ExpirationTime <= 0 {
		return ErrInvalidExpirationTime
	}

	if p.Status != ProductStatusActive && p.Status != ProductStatusInactive {
		return ErrInvalidProductStatus
	}

	return nil
}
