// 文件: pkg/funding/repository.go
// 费率覆盖存储接口
//
// 【设计模式】Repository Pattern
// - 业务层 (Manager) 只依赖接口
// - MySQL 实现负责持久化，Redis 装饰器负责缓存
// - 单元测试用内存实现，不依赖基础设施

package funding

import (
	"context"
	"errors"
)

// =============================================================================
// 错误定义
// =============================================================================

var (
	ErrOverrideNotFound = errors.New("funding rate override not found")
	ErrInvalidOverride  = errors.New("invalid funding rate override")
)

// =============================================================================
// 接口定义
// =============================================================================

// RateRepository 费率覆盖存储接口
type RateRepository interface {
	// UpsertOverride 写入或更新覆盖值 (按 exchange+volatility 幂等)
	UpsertOverride(ctx context.Context, override *RateOverride) error

	// GetOverride 查询覆盖值
	// 不存在返回 ErrOverrideNotFound
	GetOverride(ctx context.Context, exchange, volatility string) (*RateOverride, error)

	// ListOverrides 列出全部覆盖值
	ListOverrides(ctx context.Context) ([]*RateOverride, error)

	// DeleteOverride 删除覆盖值 (回退到静态表)
	DeleteOverride(ctx context.Context, exchange, volatility string) error

	// SaveSnapshot 追加一条费率快照
	SaveSnapshot(ctx context.Context, snapshot *RateSnapshot) error

	// ListSnapshots 按档位查询最近的快照 (按时间倒序)
	ListSnapshots(ctx context.Context, exchange, volatility string, limit int) ([]*RateSnapshot, error)
}
