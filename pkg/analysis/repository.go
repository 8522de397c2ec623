// 文件: pkg/analysis/repository.go
// 分析记录存储接口 + 内存实现

package analysis

import (
	"context"
	"errors"
	"sync"
)

// =============================================================================
// 错误定义
// =============================================================================

var ErrRecordNotFound = errors.New("analysis record not found")

// =============================================================================
// 接口定义
// =============================================================================

// RecordRepository 分析记录存储接口
type RecordRepository interface {
	// Save 保存一条分析记录
	Save(ctx context.Context, record *Record) error

	// GetByID 按 ID 查询
	// 不存在返回 ErrRecordNotFound
	GetByID(ctx context.Context, id int64) (*Record, error)

	// ListBySymbol 按交易对查询最近记录 (按时间倒序)
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]*Record, error)

	// ListByUser 按用户查询最近记录 (按时间倒序)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Record, error)
}

// =============================================================================
// 内存实现 (测试与 simulation 用)
// =============================================================================

var _ RecordRepository = (*MemoryRecordRepository)(nil)

// MemoryRecordRepository 内存实现
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records []*Record
}

func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{}
}

func (r *MemoryRecordRepository) Save(ctx context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *record
	r.records = append(r.records, &cp)
	return nil
}

func (r *MemoryRecordRepository) GetByID(ctx context.Context, id int64) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *MemoryRecordRepository) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		if r.records[i].Symbol == symbol {
			cp := *r.records[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryRecordRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		if r.records[i].UserID == userID {
			cp := *r.records[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}
