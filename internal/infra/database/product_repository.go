package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

// ProductRepository serves the catalog from the products table when no
// catalog service is configured.
type ProductRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) ListCatalog(ctx context.Context) (entity.Catalog, error) {
	query := `
		SELECT id, product_name, manufacturer, vehicle
		FROM products
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	catalog := make(entity.Catalog)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Vehicle); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		catalog[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return catalog, nil
}
