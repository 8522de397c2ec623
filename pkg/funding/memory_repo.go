// 文件: pkg/funding/memory_repo.go
// 内存版费率存储
// 用于单元测试和 cmd/simulation，不依赖 MySQL/Redis

package funding

import (
	"context"
	"sync"
	"time"
)

// 确保实现了接口
var _ RateRepository = (*MemoryRateRepository)(nil)

// MemoryRateRepository 内存实现
type MemoryRateRepository struct {
	mu        sync.RWMutex
	overrides map[string]*RateOverride // key: exchange:volatility
	snapshots []*RateSnapshot
}

func NewMemoryRateRepository() *MemoryRateRepository {
	return &MemoryRateRepository{
		overrides: make(map[string]*RateOverride),
	}
}

func tierKey(exchange, volatility string) string {
	return exchange + ":" + volatility
}

func (r *MemoryRateRepository) UpsertOverride(ctx context.Context, override *RateOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UnixMilli()
	key := tierKey(override.Exchange, override.Volatility)
	if existing, ok := r.overrides[key]; ok {
		override.CreatedAt = existing.CreatedAt
	} else if override.CreatedAt == 0 {
		override.CreatedAt = now
	}
	override.UpdatedAt = now

	cp := *override
	r.overrides[key] = &cp
	return nil
}

func (r *MemoryRateRepository) GetOverride(ctx context.Context, exchange, volatility string) (*RateOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	override, ok := r.overrides[tierKey(exchange, volatility)]
	if !ok {
		return nil, ErrOverrideNotFound
	}
	cp := *override
	return &cp, nil
}

func (r *MemoryRateRepository) ListOverrides(ctx context.Context) ([]*RateOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*RateOverride, 0, len(r.overrides))
	for _, o := range r.overrides {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRateRepository) DeleteOverride(ctx context.Context, exchange, volatility string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := tierKey(exchange, volatility)
	if _, ok := r.overrides[key]; !ok {
		return ErrOverrideNotFound
	}
	delete(r.overrides, key)
	return nil
}

func (r *MemoryRateRepository) SaveSnapshot(ctx context.Context, snapshot *RateSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snapshot.CreatedAt == 0 {
		snapshot.CreatedAt = time.Now().UnixMilli()
	}
	cp := *snapshot
	r.snapshots = append(r.snapshots, &cp)
	return nil
}

func (r *MemoryRateRepository) ListSnapshots(ctx context.Context, exchange, volatility string, limit int) ([]*RateSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// 倒序遍历，模拟 ORDER BY created_at DESC
	out := make([]*RateSnapshot, 0, limit)
	for i := len(r.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		s := r.snapshots[i]
		if s.Exchange == exchange && s.Volatility == volatility {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}
