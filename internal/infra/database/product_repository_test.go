package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

func TestProductRepositoryListCatalog(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("SELECT id, product_name, manufacturer, vehicle FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_name", "manufacturer", "vehicle"}).
			AddRow(int64(1), "Roof rack", "Acme", "Rocket").
			AddRow(int64(3), "Mud flaps", "Globex", "Hover"))

	catalog, err := repo.ListCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.Catalog{
		1: {ID: 1, Name: "Roof rack", Manufacturer: "Acme", Vehicle: "Rocket"},
		3: {ID: 3, Name: "Mud flaps", Manufacturer: "Globex", Vehicle: "Hover"},
	}, catalog)
}

func TestProductRepositoryListCatalogScanError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_name", "manufacturer", "vehicle"}).
			AddRow("not-a-number", "x", "y", "z"))

	_, err := repo.ListCatalog(context.Background())
	assert.Error(t, err)
}
