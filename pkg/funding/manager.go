// 文件: pkg/funding/manager.go
// 费率管理器 - 业务逻辑层
//
// 【职责】
// 1. 档位校验 (未知档位在任何 I/O 之前报错)
// 2. 解析生效费率: DB 覆盖值优先，静态表兜底
// 3. 可选地记录费率快照
//
// Manager 实现 perpcalc.RateSource，可直接注入计算器:
//
//	manager := funding.NewManager(cachedRepo)
//	calc := perpcalc.NewCalculator(manager)

package funding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"perpcalc.com/pkg/perpcalc"
)

// 确保实现了接口
var _ perpcalc.RateSource = (*Manager)(nil)

// =============================================================================
// Manager
// =============================================================================

// Manager 费率管理器
//
// 【设计】只依赖 RateRepository 接口
// - 可以传入 MySQLRateRepository (无缓存)
// - 可以传入 CachedRateRepository (有缓存)
// - 单元测试时传入 MemoryRateRepository
type Manager struct {
	repo   RateRepository
	static *perpcalc.RateEstimator

	lookupTimeout time.Duration
}

// NewManager 创建费率管理器
func NewManager(repo RateRepository) *Manager {
	return &Manager{
		repo:          repo,
		static:        perpcalc.NewRateEstimator(),
		lookupTimeout: 2 * time.Second,
	}
}

// =============================================================================
// perpcalc.RateSource 实现
// =============================================================================

// DailyRate 日资金费率 (RateSource 接口)
// 计算器不带 context，这里用内部超时兜底
func (m *Manager) DailyRate(exchange perpcalc.Exchange, volatility perpcalc.VolatilityLevel) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.lookupTimeout)
	defer cancel()
	rate, _, err := m.Resolve(ctx, exchange, volatility)
	return rate, err
}

// =============================================================================
// 费率解析
// =============================================================================

// Resolve 解析生效费率
// 返回 (费率, 是否来自覆盖表, 错误)
//
// 【顺序】
// 1. 校验档位: 未知档位直接 ErrUnknownRateTier，不打 DB
// 2. 查覆盖表，命中则用覆盖值
// 3. 覆盖不存在回退静态表
// 4. 存储故障时同样回退静态表: 估算工具的可用性优先于覆盖值新鲜度
func (m *Manager) Resolve(ctx context.Context, exchange perpcalc.Exchange, volatility perpcalc.VolatilityLevel) (float64, bool, error) {
	if _, err := perpcalc.ParseExchange(string(exchange)); err != nil {
		return 0, false, err
	}
	if _, err := perpcalc.ParseVolatilityLevel(string(volatility)); err != nil {
		return 0, false, err
	}

	override, err := m.repo.GetOverride(ctx, string(exchange), string(volatility))
	if err == nil {
		return override.DailyRate, true, nil
	}
	if !errors.Is(err, ErrOverrideNotFound) {
		// 存储故障，降级用静态表
		log.Printf("[Funding] override lookup failed, falling back to static table: %v", err)
	}

	rate, err := m.static.DailyRate(exchange, volatility)
	return rate, false, err
}

// =============================================================================
// 覆盖值维护
// =============================================================================

// SetOverride 写入覆盖值并记录快照
func (m *Manager) SetOverride(ctx context.Context, exchange perpcalc.Exchange, volatility perpcalc.VolatilityLevel, dailyRate float64, source string) error {
	if _, err := perpcalc.ParseExchange(string(exchange)); err != nil {
		return err
	}
	if _, err := perpcalc.ParseVolatilityLevel(string(volatility)); err != nil {
		return err
	}
	// 费率可以为负 (空头主导行情)，但幅度超过 ±5%/天 基本是脏数据
	if dailyRate < -0.05 || dailyRate > 0.05 {
		return fmt.Errorf("%w: daily_rate=%v out of sane range", ErrInvalidOverride, dailyRate)
	}

	override := &RateOverride{
		Exchange:   string(exchange),
		Volatility: string(volatility),
		DailyRate:  dailyRate,
		Source:     source,
	}
	if err := m.repo.UpsertOverride(ctx, override); err != nil {
		return err
	}

	return m.repo.SaveSnapshot(ctx, NewRateSnapshot(string(exchange), string(volatility), dailyRate, true))
}

// ClearOverride 删除覆盖值，回退静态表
func (m *Manager) ClearOverride(ctx context.Context, exchange perpcalc.Exchange, volatility perpcalc.VolatilityLevel) error {
	return m.repo.DeleteOverride(ctx, string(exchange), string(volatility))
}

// RecentSnapshots 查询某档位最近的费率快照
func (m *Manager) RecentSnapshots(ctx context.Context, exchange perpcalc.Exchange, volatility perpcalc.VolatilityLevel, limit int) ([]*RateSnapshot, error) {
	return m.repo.ListSnapshots(ctx, string(exchange), string(volatility), limit)
}
