package service

import (
	"testing"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/app/repository"
	"github.com/ghain/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductServiceTest(t *testing.T) ProductService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	require.NoError(t, db.SeedCatalog(testDB))

	productRepo := repository.NewProductRepository(testDB)
	return NewProductService(productRepo)
}

func TestProductService_GetProductByID(t *testing.T) {
	productService := setupProductServiceTest(t)

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{
			name:    "Existing product",
			id:      "1",
			wantErr: nil,
		},
		{
			name:    "Padded id",
			id:      " 3 ",
			wantErr: nil,
		},
		{
			name:    "Unknown product",
			id:      "999",
			wantErr: ErrProductNotFound,
		},
		{
			name:    "Empty id",
			id:      "",
			wantErr: ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := productService.GetProductByID(tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, product)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, product.Title)
		})
	}
}

func TestProductService_ListProducts(t *testing.T) {
	productService := setupProductServiceTest(t)

	products, err := productService.ListProducts(ProductListOptions{})
	require.NoError(t, err)
	assert.Len(t, products, 6)

	scarves, err := productService.ListProducts(ProductListOptions{Category: "شيلات"})
	require.NoError(t, err)
	require.Len(t, scarves, 1)
	assert.Equal(t, "6", scarves[0].ID)

	categories, err := productService.ListCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}

func TestProductService_ImportProducts(t *testing.T) {
	productService := setupProductServiceTest(t)

	err := productService.ImportProducts([]model.Product{
		{ID: "7", Title: "Evening Abaya", Category: "جلابيات", Price: "520.00", InStock: true},
		{ID: "", Title: "No id"},
		{ID: "8", Title: "  "},
	})
	require.NoError(t, err)

	imported, err := productService.GetProductByID("7")
	require.NoError(t, err)
	assert.Equal(t, "520.00", imported.Price)

	_, err = productService.GetProductByID("8")
	assert.ErrorIs(t, err, ErrProductNotFound)

	products, err := productService.ListProducts(ProductListOptions{})
	require.NoError(t, err)
	assert.Len(t, products, 7)
}
