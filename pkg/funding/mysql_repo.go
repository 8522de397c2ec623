// 文件: pkg/funding/mysql_repo.go
// 费率覆盖 MySQL 存储实现
//
// 【设计】
// - 使用 GORM 作为 ORM
// - 所有操作带 context 支持超时控制
// - gorm.ErrRecordNotFound 统一映射为领域错误

package funding

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 确保实现了接口
var _ RateRepository = (*MySQLRateRepository)(nil)

// MySQLRateRepository MySQL 实现
type MySQLRateRepository struct {
	db *gorm.DB
}

// NewMySQLRateRepository 创建 MySQL 存储
func NewMySQLRateRepository(db *gorm.DB) *MySQLRateRepository {
	return &MySQLRateRepository{db: db}
}

// UpsertOverride 写入或更新覆盖值
func (r *MySQLRateRepository) UpsertOverride(ctx context.Context, override *RateOverride) error {
	now := time.Now().UnixMilli()
	if override.CreatedAt == 0 {
		override.CreatedAt = now
	}
	override.UpdatedAt = now

	// ON DUPLICATE KEY UPDATE daily_rate/source/updated_at
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "exchange"}, {Name: "volatility"}},
			DoUpdates: clause.AssignmentColumns([]string{"daily_rate", "source", "updated_at"}),
		}).
		Create(override).Error
}

// GetOverride 查询覆盖值
func (r *MySQLRateRepository) GetOverride(ctx context.Context, exchange, volatility string) (*RateOverride, error) {
	var override RateOverride
	err := r.db.WithContext(ctx).
		Where("exchange = ? AND volatility = ?", exchange, volatility).
		First(&override).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOverrideNotFound
		}
		return nil, err
	}
	return &override, nil
}

// ListOverrides 列出全部覆盖值
func (r *MySQLRateRepository) ListOverrides(ctx context.Context) ([]*RateOverride, error) {
	var overrides []*RateOverride
	err := r.db.WithContext(ctx).Find(&overrides).Error
	return overrides, err
}

// DeleteOverride 删除覆盖值
func (r *MySQLRateRepository) DeleteOverride(ctx context.Context, exchange, volatility string) error {
	result := r.db.WithContext(ctx).
		Where("exchange = ? AND volatility = ?", exchange, volatility).
		Delete(&RateOverride{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

// SaveSnapshot 追加费率快照
func (r *MySQLRateRepository) SaveSnapshot(ctx context.Context, snapshot *RateSnapshot) error {
	if snapshot.CreatedAt == 0 {
		snapshot.CreatedAt = time.Now().UnixMilli()
	}
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// ListSnapshots 按档位查询最近快照
func (r *MySQLRateRepository) ListSnapshots(ctx context.Context, exchange, volatility string, limit int) ([]*RateSnapshot, error) {
	var snapshots []*RateSnapshot
	err := r.db.WithContext(ctx).
		Where("exchange = ? AND volatility = ?", exchange, volatility).
		Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	return snapshots, err
}
