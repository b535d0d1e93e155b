package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/travelport/order-approval/internal/application/port"
	"github.com/travelport/order-approval/internal/domain/entity"
)

// ProductRepository implements port.ProductRepository over the read-only
// product_master catalog table
type ProductRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) port.ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// ListByLocation retrieves the catalog rows for a location plus the rows
// that apply everywhere. The caller normalizes case.
func (r *ProductRepository) ListByLocation(ctx context.Context, location string) ([]*entity.Product, error) {
	query := `
		SELECT product_name, location_applicable, rack_rate, product_type
		FROM product_master
		WHERE location_applicable = ? OR location_applicable = 'BOTH'
		ORDER BY product_name
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, location)
	if err != nil {
		r.logger.Error("Failed to list products", zap.String("location", location), zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.Name, &p.LocationApplicable, &p.RackRate, &p.Type); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

// Verify interface compliance
var _ port.ProductRepository = (*ProductRepository)(nil)
