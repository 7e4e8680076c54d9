package service

import (
	"errors"
	"strings"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/app/repository"
	"github.com/ghain/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

type ProductListOptions struct {
	Category    string
	Search      string
	InStockOnly bool
	Limit       int
	Offset      int
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, error)
	GetProductByID(id string) (*model.Product, error)
	ListCategories() ([]string, error)
	ImportProducts(products []model.Product) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category": opts.Category,
		"search":   opts.Search,
		"limit":    opts.Limit,
		"offset":   opts.Offset,
	})

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Category:    strings.TrimSpace(opts.Category),
		InStockOnly: opts.InStockOnly,
		Search:      opts.Search,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
	})
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(id string) (*model.Product, error) {
	id = strings.TrimSpace(id)
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})
	if id == "" {
		return nil, ErrProductNotFound
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) ListCategories() ([]string, error) {
	categories, err := s.productRepo.ListCategories()
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

// ImportProducts upserts catalog rows by id. Rows without an id or title are
// skipped.
func (s *productService) ImportProducts(products []model.Product) error {
	valid := make([]model.Product, 0, len(products))
	for _, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		p.Title = strings.TrimSpace(p.Title)
		if p.ID == "" || p.Title == "" {
			logger.Warn("Skipping catalog row without id or title", map[string]interface{}{
				"product_id": p.ID,
			})
			continue
		}
		valid = append(valid, p)
	}

	if err := s.productRepo.Upsert(valid); err != nil {
		logger.Error("Failed to import products", err, map[string]interface{}{
			"count": len(valid),
		})
		return err
	}

	logger.Info("Products imported", map[string]interface{}{
		"imported": len(valid),
		"skipped":  len(products) - len(valid),
	})
	return nil
}
