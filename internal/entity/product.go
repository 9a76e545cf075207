package entity

import (
	"context"
	"fmt"
)

// Product is one catalog entry a review can be attached to.
type Product struct {
	ID           int64  `json:"id"`
	Name         string `json:"product_name"`
	Manufacturer string `json:"manufacturer"`
	Vehicle      string `json:"vehicle"`
}

// Label renders the entry as it is listed to the user: "(id: manufacturer vehicle)".
func (p Product) Label() string {
	return fmt.Sprintf("(%d: %s %s)", p.ID, p.Manufacturer, p.Vehicle)
}

type Catalog map[int64]Product

type ProductRepositoryInterface interface {
	ListCatalog(ctx context.Context) (Catalog, error)
}
