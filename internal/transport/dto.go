package transport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fdtraverso/mercadito/internal/domain"
)

// CreateProductRequest is the typed result of validating the untrusted
// multipart form fields. Nothing is persisted until parsing succeeds.
type CreateProductRequest struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
}

func ParseCreateProduct(name, description, price, stock string) (*CreateProductRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}

	p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: price is not a number", domain.ErrValidation)
	}
	if p < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", domain.ErrValidation)
	}

	s, err := strconv.Atoi(strings.TrimSpace(stock))
	if err != nil {
		return nil, fmt.Errorf("%w: stock is not an integer", domain.ErrValidation)
	}
	if s < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", domain.ErrValidation)
	}

	return &CreateProductRequest{
		Name:        name,
		Description: description,
		Price:       p,
		Stock:       s,
	}, nil
}

type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

func (r *PatchProductRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if r.Price != nil && *r.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", domain.ErrValidation)
	}
	if r.Stock != nil && *r.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", domain.ErrValidation)
	}
	return nil
}
