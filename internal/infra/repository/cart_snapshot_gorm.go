package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/cart"
	"storefront/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// カートの保存先（DBのキー/値テーブル）
type CartSnapshotGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartSnapshotGormRepository(db *gorm.DB) *CartSnapshotGormRepository {
	return &CartSnapshotGormRepository{db: db}
}

func (r *CartSnapshotGormRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var snap model.CartSnapshot
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(snap.Data), nil
}

// 同じキーなら上書き
func (r *CartSnapshotGormRepository) Save(ctx context.Context, key string, data []byte) error {
	snap := model.CartSnapshot{
		Key:       key,
		Data:      string(data),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snap).Error
}

func (r *CartSnapshotGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.CartSnapshot{}).Error
}

var _ cart.Storage = (*CartSnapshotGormRepository)(nil)
