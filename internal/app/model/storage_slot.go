package model

import (
	"time"
)

// StorageSlot backs the database storage backend: one serialized value per key.
type StorageSlot struct {
	Key       string    `gorm:"column:slot_key;primaryKey;type:varchar(255)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"index"`
}

func (StorageSlot) TableName() string {
	return "storage_slots"
}
