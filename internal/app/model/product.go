package model

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Product is a read-only catalog entry. Prices are display strings as
// catalogued ("300.00").
type Product struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Price       string    `gorm:"type:varchar(32);not null" json:"price"`
	OldPrice    string    `gorm:"type:varchar(32)" json:"oldPrice"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `json:"image"`
	Images      ImageList `json:"images"`
	Rating      int       `gorm:"default:0" json:"rating"`
	Reviews     int       `gorm:"default:0" json:"reviews"`
	InStock     bool      `gorm:"not null" json:"inStock"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ImageList is stored as a postgres text[] through pq.StringArray. Other
// drivers keep the same array literal ("{a.png,b.png}") in a text column.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *ImageList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*l = ImageList(arr)
	return nil
}

func (ImageList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// SelectedProduct is the record handed from a listing page to the product
// page through the transient selection slot.
type SelectedProduct struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	OldPrice    string `json:"oldPrice"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
