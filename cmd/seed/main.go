package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ghain/storefront-backend/config"
	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/app/repository"
	"github.com/ghain/storefront-backend/internal/app/service"
	"github.com/ghain/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports or updates catalog products from a spreadsheet. The first row
// names the columns; recognised headers are listed in columnAliases.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [-y]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productService := service.NewProductService(repository.NewProductRepository(db.GetDB()))

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(products), skipped)

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := productService.ImportProducts(products); err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
}

// columnAliases maps accepted header spellings to product fields.
var columnAliases = map[string]string{
	"id":          "id",
	"title":       "title",
	"name":        "title",
	"category":    "category",
	"price":       "price",
	"old_price":   "old_price",
	"oldprice":    "old_price",
	"description": "description",
	"image":       "image",
	"images":      "images",
	"rating":      "rating",
	"reviews":     "reviews",
	"in_stock":    "in_stock",
	"instock":     "in_stock",
}

func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if field, ok := columnAliases[key]; ok {
			columns[field] = i
		}
	}
	if _, ok := columns["id"]; !ok {
		return nil, 0, fmt.Errorf("missing id column")
	}
	if _, ok := columns["title"]; !ok {
		return nil, 0, fmt.Errorf("missing title column")
	}

	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for _, row := range rows[1:] {
		cell := func(field string) string {
			i, ok := columns[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		id := cell("id")
		title := cell("title")
		if id == "" || title == "" || seen[id] {
			skipped++
			continue
		}
		seen[id] = true

		products = append(products, model.Product{
			ID:          id,
			Title:       title,
			Category:    cell("category"),
			Price:       cell("price"),
			OldPrice:    cell("old_price"),
			Description: cell("description"),
			Image:       cell("image"),
			Images:      splitImages(cell("images")),
			Rating:      atoiOr(cell("rating"), 0),
			Reviews:     atoiOr(cell("reviews"), 0),
			InStock:     parseInStock(cell("in_stock")),
		})
	}

	return products, skipped, nil
}

// splitImages accepts "a.jpg|b.jpg" or "a.jpg, b.jpg".
func splitImages(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' })
	images := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			images = append(images, p)
		}
	}
	return images
}

func atoiOr(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

// parseInStock treats an empty cell as in stock.
func parseInStock(s string) bool {
	switch strings.ToLower(s) {
	case "", "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
