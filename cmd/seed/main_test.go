package main

import (
	"path/filepath"
	"testing"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadProductsFromXLSX(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"ID", "Name", "Category", "Price", "Old_Price", "Images", "Rating", "In_Stock"},
		{"7", "شيلة حرير", "shawls", "320.00", "400.00", "a.jpg|b.jpg", "4", "yes"},
		{"8", "عباءة", "abayas", "900.00", "", "", "x", "no"},
		{"", "no id", "abayas", "1.00"},
		{"7", "duplicate", "shawls", "1.00"},
	})

	products, skipped, err := readProductsFromXLSX(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 2, skipped)

	first := products[0]
	assert.Equal(t, "7", first.ID)
	assert.Equal(t, "شيلة حرير", first.Title)
	assert.Equal(t, "320.00", first.Price)
	assert.Equal(t, "400.00", first.OldPrice)
	assert.Equal(t, model.ImageList{"a.jpg", "b.jpg"}, first.Images)
	assert.Equal(t, 4, first.Rating)
	assert.True(t, first.InStock)

	second := products[1]
	assert.Nil(t, second.Images)
	assert.Equal(t, 0, second.Rating)
	assert.False(t, second.InStock)
}

func TestReadProductsFromXLSX_MissingColumns(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"Title", "Price"},
		{"Scarf", "10"},
	})

	_, _, err := readProductsFromXLSX(path)
	assert.Error(t, err)
}

func TestReadProductsFromXLSX_MissingFile(t *testing.T) {
	_, _, err := readProductsFromXLSX(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestSplitImages(t *testing.T) {
	assert.Nil(t, splitImages(""))
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, splitImages(" a.jpg , b.jpg "))
}
