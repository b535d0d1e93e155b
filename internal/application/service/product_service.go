package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/travelport/order-approval/internal/application/port"
	"github.com/travelport/order-approval/internal/domain/entity"
)

// ErrMissingLocation is returned when a catalog lookup omits the location
var ErrMissingLocation = errors.New("missing required parameter: location")

// ProductService looks up the travel-product catalog
type ProductService interface {
	ListByLocation(ctx context.Context, location string) ([]*entity.Product, error)
}

type productServiceImpl struct {
	productRepo port.ProductRepository
	logger      Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo port.ProductRepository, logger Logger) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
		logger:      logger,
	}
}

// ListByLocation returns the products applicable to a location. Matching is
// case insensitive and always includes rows marked BOTH.
func (s *productServiceImpl) ListByLocation(ctx context.Context, location string) ([]*entity.Product, error) {
	if location == "" {
		return nil, ErrMissingLocation
	}

	products, err := s.productRepo.ListByLocation(ctx, strings.ToUpper(location))
	if err != nil {
		s.logger.Error("Failed to list products", "error", err, "location", location)
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
