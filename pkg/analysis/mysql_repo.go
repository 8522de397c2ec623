// 文件: pkg/analysis/mysql_repo.go
// 分析记录 MySQL 存储实现

package analysis

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// 确保实现了接口
var _ RecordRepository = (*MySQLRecordRepository)(nil)

// MySQLRecordRepository MySQL 实现
type MySQLRecordRepository struct {
	db *gorm.DB
}

// NewMySQLRecordRepository 创建 MySQL 存储
func NewMySQLRecordRepository(db *gorm.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}

// Save 保存分析记录
func (r *MySQLRecordRepository) Save(ctx context.Context, record *Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID 按 ID 查询
func (r *MySQLRecordRepository) GetByID(ctx context.Context, id int64) (*Record, error) {
	var record Record
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListBySymbol 按交易对查询最近记录
func (r *MySQLRecordRepository) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*Record, error) {
	var records []*Record
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ListByUser 按用户查询最近记录
func (r *MySQLRecordRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*Record, error) {
	var records []*Record
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
