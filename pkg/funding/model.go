// 文件: pkg/funding/model.go
// 资金费率覆盖与快照数据结构
//
// 【存储策略】
// - 主存储: MySQL (持久化)
// - 缓存: Redis (查询加速，Cache Aside)
//
// 静态费率表是历史平均值，运营方可以定期用实盘数据写入覆盖值，
// 计算器通过 Manager 透明拿到最新费率

package funding

import "time"

// =============================================================================
// RateOverride - 费率覆盖
// =============================================================================

// RateOverride 某个 (交易所, 波动率档位) 的日费率覆盖值
// 存在覆盖时优先于静态表
type RateOverride struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	Exchange   string  `gorm:"column:exchange;type:varchar(32);uniqueIndex:idx_tier"`
	Volatility string  `gorm:"column:volatility;type:varchar(16);uniqueIndex:idx_tier"`
	DailyRate  float64 `gorm:"column:daily_rate"` // 小数形式 (0.0001 = 0.01%/天)
	Source     string  `gorm:"column:source;type:varchar(64)"` // 数据来源说明
	CreatedAt  int64   `gorm:"column:created_at"`
	UpdatedAt  int64   `gorm:"column:updated_at"`
}

func (RateOverride) TableName() string {
	return "funding_rate_overrides"
}

// =============================================================================
// RateSnapshot - 费率快照历史
// =============================================================================

// RateSnapshot 某次费率解析的历史记录
type RateSnapshot struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	Exchange   string  `gorm:"column:exchange;type:varchar(32);index:idx_snap_tier"`
	Volatility string  `gorm:"column:volatility;type:varchar(16);index:idx_snap_tier"`
	DailyRate  float64 `gorm:"column:daily_rate"`
	Overridden bool    `gorm:"column:overridden"` // true = 来自覆盖表而非静态表
	CreatedAt  int64   `gorm:"column:created_at;index"`
}

func (RateSnapshot) TableName() string {
	return "funding_rate_snapshots"
}

// NewRateSnapshot 便捷构造
func NewRateSnapshot(exchange, volatility string, dailyRate float64, overridden bool) *RateSnapshot {
	return &RateSnapshot{
		Exchange:   exchange,
		Volatility: volatility,
		DailyRate:  dailyRate,
		Overridden: overridden,
		CreatedAt:  time.Now().UnixMilli(),
	}
}
