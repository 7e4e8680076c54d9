package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseBackend keeps slots in the storage_slots table.
type DatabaseBackend struct {
	db *gorm.DB
}

func NewDatabaseBackend(db *gorm.DB) *DatabaseBackend {
	return &DatabaseBackend{db: db}
}

func (b *DatabaseBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var slot model.StorageSlot
	err := b.db.WithContext(ctx).Where("slot_key = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		logger.Error("Failed to read storage slot from database", err, map[string]interface{}{
			"key": key,
		})
		return "", false, err
	}
	return slot.Value, true, nil
}

func (b *DatabaseBackend) Set(ctx context.Context, key, value string) error {
	slot := model.StorageSlot{Key: key, Value: value, UpdatedAt: time.Now()}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		logger.Error("Failed to write storage slot to database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (b *DatabaseBackend) Delete(ctx context.Context, key string) error {
	if err := b.db.WithContext(ctx).Where("slot_key = ?", key).Delete(&model.StorageSlot{}).Error; err != nil {
		logger.Error("Failed to delete storage slot from database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

// PurgeOlderThan removes slots not written since the cutoff and returns how
// many were dropped.
func (b *DatabaseBackend) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := b.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&model.StorageSlot{})
	if res.Error != nil {
		logger.Error("Failed to purge storage slots", res.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
