package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"paypal-order-sync/internal/model"
)

// SnapshotRepository stores the last-known remote order state. The service
// layer replaces a baseline only after the remote accepted the patches, so
// reads always diff against what the remote actually holds.
type SnapshotRepository interface {
	Create(ctx context.Context, tx *gorm.DB, snapshot *model.OrderSnapshot) error
	FindByOrderID(ctx context.Context, orderID string) (*model.OrderSnapshot, error)
	Replace(ctx context.Context, tx *gorm.DB, orderID string, status, intent string, payload []byte) error
}

type snapshotRepoImpl struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepoImpl{
		db: db,
	}
}

func (r *snapshotRepoImpl) Create(ctx context.Context, tx *gorm.DB, snapshot *model.OrderSnapshot) error {
	return tx.WithContext(ctx).Create(snapshot).Error
}

func (r *snapshotRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.OrderSnapshot, error) {
	var snapshot model.OrderSnapshot
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&snapshot).Error

	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (r *snapshotRepoImpl) Replace(ctx context.Context, tx *gorm.DB, orderID string, status, intent string, payload []byte) error {
	result := tx.WithContext(ctx).Model(&model.OrderSnapshot{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"intent":     intent,
			"payload":    payload,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
