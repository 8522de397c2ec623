// 文件: pkg/funding/cache_repo.go
// 费率覆盖 Redis 缓存层
//
// 【设计模式】装饰器模式 (Decorator Pattern)
// - 包装底层 Repository，透明添加缓存能力
// - 调用方只看到 RateRepository 接口
//
// 【缓存策略】
// - 读: 先查 Redis，miss 则查 DB 并回填
// - 写: 先写 DB，成功后删除缓存 (Cache Aside)
// - 覆盖不存在也缓存 (空值标记)，避免每次解析费率都打到 DB

package funding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 确保实现了接口
var _ RateRepository = (*CachedRateRepository)(nil)

// =============================================================================
// 缓存配置
// =============================================================================

const (
	// 单个覆盖值: funding:override:{exchange}:{volatility}
	cacheKeyOverride = "funding:override:%s:%s"

	// 空值标记，区分"没查过"和"查过但不存在"
	cacheMissSentinel = "__none__"

	// 覆盖值缓存过期时间
	overrideCacheTTL = 10 * time.Minute
)

func overrideKey(exchange, volatility string) string {
	return fmt.Sprintf(cacheKeyOverride, exchange, volatility)
}

// =============================================================================
// CachedRateRepository - 带缓存的 Repository
// =============================================================================

// CachedRateRepository Redis 缓存装饰器
type CachedRateRepository struct {
	repo  RateRepository // 被装饰的底层 Repository
	redis *redis.Client
}

// NewCachedRateRepository 创建带缓存的 Repository
//
// 用法:
//
//	mysqlRepo := NewMySQLRateRepository(db)
//	cachedRepo := NewCachedRateRepository(mysqlRepo, redisClient)
//	manager := NewManager(cachedRepo)
func NewCachedRateRepository(repo RateRepository, rds *redis.Client) *CachedRateRepository {
	return &CachedRateRepository{
		repo:  repo,
		redis: rds,
	}
}

// =============================================================================
// 读操作 (带缓存)
// =============================================================================

// GetOverride 查询覆盖值 (带缓存)
func (r *CachedRateRepository) GetOverride(ctx context.Context, exchange, volatility string) (*RateOverride, error) {
	key := overrideKey(exchange, volatility)

	// 1. 查缓存
	data, err := r.redis.Get(ctx, key).Bytes()
	if err == nil {
		if string(data) == cacheMissSentinel {
			return nil, ErrOverrideNotFound
		}
		var override RateOverride
		if json.Unmarshal(data, &override) == nil {
			return &override, nil // Cache hit
		}
	}

	// 2. Cache miss, 查底层
	override, err := r.repo.GetOverride(ctx, exchange, volatility)
	if err != nil {
		if err == ErrOverrideNotFound {
			// 空值也回填，费率解析是热路径
			go r.redis.Set(context.Background(), key, cacheMissSentinel, overrideCacheTTL)
		}
		return nil, err
	}

	// 3. 回填缓存 (异步，不阻塞主流程)
	go r.setCache(context.Background(), key, override)

	return override, nil
}

// ListOverrides 列表查询不缓存，直接查底层
func (r *CachedRateRepository) ListOverrides(ctx context.Context) ([]*RateOverride, error) {
	return r.repo.ListOverrides(ctx)
}

// ListSnapshots 快照查询不缓存
func (r *CachedRateRepository) ListSnapshots(ctx context.Context, exchange, volatility string, limit int) ([]*RateSnapshot, error) {
	return r.repo.ListSnapshots(ctx, exchange, volatility, limit)
}

// =============================================================================
// 写操作 (写穿 + 删缓存)
// =============================================================================

// UpsertOverride 写入覆盖值
func (r *CachedRateRepository) UpsertOverride(ctx context.Context, override *RateOverride) error {
	if err := r.repo.UpsertOverride(ctx, override); err != nil {
		return err
	}
	r.redis.Del(ctx, overrideKey(override.Exchange, override.Volatility))
	return nil
}

// DeleteOverride 删除覆盖值
func (r *CachedRateRepository) DeleteOverride(ctx context.Context, exchange, volatility string) error {
	if err := r.repo.DeleteOverride(ctx, exchange, volatility); err != nil {
		return err
	}
	r.redis.Del(ctx, overrideKey(exchange, volatility))
	return nil
}

// SaveSnapshot 快照只追加，不经过缓存
func (r *CachedRateRepository) SaveSnapshot(ctx context.Context, snapshot *RateSnapshot) error {
	return r.repo.SaveSnapshot(ctx, snapshot)
}

// =============================================================================
// 缓存操作
// =============================================================================

func (r *CachedRateRepository) setCache(ctx context.Context, key string, override *RateOverride) {
	data, err := json.Marshal(override)
	if err != nil {
		return
	}
	r.redis.Set(ctx, key, data, overrideCacheTTL)
}
