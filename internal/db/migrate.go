package db

import (
	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations against the global connection
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB creates the catalog and storage slot tables and seeds the
// default catalog when it is empty.
func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Product{},
		&model.StorageSlot{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedCatalog(db); err != nil {
		logger.Error("Failed to seed catalog during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedCatalog inserts DefaultCatalog when the products table is empty.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Catalog already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	products := DefaultCatalog()
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	logger.Info("Catalog seeded", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

// DefaultCatalog is the storefront's built-in product list.
func DefaultCatalog() []model.Product {
	return []model.Product{
		{
			ID:          "1",
			Title:       "مخور حرير فاخر",
			Category:    "مخاوير",
			Price:       "300.00",
			OldPrice:    "450.00",
			Description: "مخور حرير بجودة عالية وتصميم عصري يناسب جميع المناسبات.",
			Image:       "assets/img/products/1.png",
			Images:      []string{"assets/img/products/1.png", "assets/img/products/1.png"},
			Rating:      5,
			Reviews:     36,
			InStock:     true,
		},
		{
			ID:          "2",
			Title:       "مخور قطن مريح",
			Category:    "مخاوير",
			Price:       "250.00",
			OldPrice:    "350.00",
			Description: "مخور قطن بارد ومريح للاستخدام اليومي.",
			Image:       "assets/img/products/2.png",
			Images:      []string{"assets/img/products/2.png", "assets/img/products/3.png"},
			Rating:      4,
			Reviews:     24,
			InStock:     true,
		},
		{
			ID:          "3",
			Title:       "مخور بناتي",
			Category:    "مخاوير",
			Price:       "180.00",
			OldPrice:    "220.00",
			Description: "مخور بناتي بتصاميم جذابة وعصرية.",
			Image:       "assets/img/products/3.png",
			Images:      []string{"assets/img/products/3.png", "assets/img/products/1.png"},
			Rating:      5,
			Reviews:     12,
			InStock:     true,
		},
		{
			ID:          "4",
			Title:       "جلابية مناسبات",
			Category:    "جلابيات",
			Price:       "480.00",
			OldPrice:    "600.00",
			Description: "جلابية فاخرة للمناسبات الخاصة والأعياد.",
			Image:       "assets/img/products/1.png",
			Images:      []string{"assets/img/products/1.png", "assets/img/products/2.png"},
			Rating:      5,
			Reviews:     45,
			InStock:     true,
		},
		{
			ID:          "5",
			Title:       "جلابية رجالي",
			Category:    "جلابيات",
			Price:       "180.00",
			OldPrice:    "250.00",
			Description: "جلابية رجالي مريحة وأنيقة.",
			Image:       "assets/img/products/2.png",
			Images:      []string{"assets/img/products/2.png", "assets/img/products/1.png"},
			Rating:      4,
			Reviews:     18,
			InStock:     true,
		},
		{
			ID:          "6",
			Title:       "طقم شيلة ومخور",
			Category:    "شيلات",
			Price:       "450.00",
			OldPrice:    "550.00",
			Description: "طقم متكامل من الشيلة والمخور بنفس التطريز.",
			Image:       "assets/img/products/3.png",
			Images:      []string{"assets/img/products/2.png", "assets/img/products/1.png"},
			Rating:      5,
			Reviews:     30,
			InStock:     true,
		},
	}
}
