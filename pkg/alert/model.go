// 文件: pkg/alert/model.go
// 强平距离预警 - 数据结构
//
// 持仓快照算出强平价后，在强平价外侧留一段缓冲设置预警价:
// 行情逼近预警价时通知用户追加保证金或减仓，而不是等到真被强平

package alert

import (
	"errors"
	"time"

	"perpcalc.com/pkg/perpcalc"
)

// =============================================================================
// 错误定义
// =============================================================================

var (
	ErrMissingAlertID = errors.New("alert_id is required")
	ErrInvalidBuffer  = errors.New("warn buffer percent must be positive")
)

// =============================================================================
// 预警类型
// =============================================================================

// AlertType 定义预警的生命周期类型
type AlertType string

const (
	AlertOnce   AlertType = "once"   // 触发一次后自动删除 (最常见)
	AlertDaily  AlertType = "daily"  // 每天最多触发一次
	AlertAlways AlertType = "always" // 只要满足条件就一直触发 (慎用，容易骚扰用户)
)

// =============================================================================
// 触发方向
// =============================================================================

const (
	// DirectionLow 价格跌破预警价触发 (多头仓位: 强平价在下方)
	DirectionLow = "low"

	// DirectionHigh 价格涨破预警价触发 (空头仓位: 强平价在上方)
	DirectionHigh = "high"
)

// =============================================================================
// MarginRule - 强平距离预警规则
// =============================================================================

// MarginRule 一条强平距离预警
// 对应 Redis 详情 Key 中的数据
type MarginRule struct {
	AlertID string    `json:"alert_id"`
	UserID  int64     `json:"user_id"`
	Symbol  string    `json:"symbol"` // 交易对，如 "BTCUSDT"
	Type    AlertType `json:"type"`

	// 仓位信息
	Side             string  `json:"side"`              // LONG / SHORT
	Leverage         int     `json:"leverage"`
	LiquidationPrice float64 `json:"liquidation_price"` // 估算强平价

	// 触发条件
	WarnPrice float64 `json:"warn_price"` // 预警价 (强平价外侧留出缓冲)
	Direction string  `json:"direction"`  // low / high，由仓位方向决定

	// 状态字段
	LastTriggeredAt int64 `json:"last_triggered_at"` // 上次触发时间戳 (秒)
	CreatedAt       int64 `json:"created_at"`
}

// NewRuleFromSnapshot 从持仓快照构造预警规则
//
// warnBufferPercent: 预警价相对强平价的缓冲 (如 5 = 提前 5% 预警)
// - LONG:  强平价在入场价下方，warn = liq × (1 + buffer/100)，价格跌到 warn 触发
// - SHORT: 强平价在入场价上方，warn = liq × (1 - buffer/100)，价格涨到 warn 触发
func NewRuleFromSnapshot(
	alertID string,
	userID int64,
	symbol string,
	snap perpcalc.PositionSnapshot,
	warnBufferPercent float64,
	alertType AlertType,
) (MarginRule, error) {
	if alertID == "" {
		return MarginRule{}, ErrMissingAlertID
	}
	if warnBufferPercent <= 0 {
		return MarginRule{}, ErrInvalidBuffer
	}

	rule := MarginRule{
		AlertID:          alertID,
		UserID:           userID,
		Symbol:           symbol,
		Type:             alertType,
		Side:             snap.Side.String(),
		Leverage:         snap.Leverage,
		LiquidationPrice: snap.LiquidationPrice,
		CreatedAt:        time.Now().Unix(),
	}

	if snap.Side == perpcalc.SideLong {
		rule.Direction = DirectionLow
		rule.WarnPrice = snap.LiquidationPrice * (1 + warnBufferPercent/100)
	} else {
		rule.Direction = DirectionHigh
		rule.WarnPrice = snap.LiquidationPrice * (1 - warnBufferPercent/100)
	}

	return rule, nil
}

// =============================================================================
// SubscriptionManager 接口
// =============================================================================

// SubscriptionManager 预警订阅管理器
// 内存版用于测试和 simulation，Redis 版用于线上
type SubscriptionManager interface {
	// Subscribe 创建一条预警订阅
	Subscribe(rule MarginRule) error

	// Unsubscribe 取消订阅
	Unsubscribe(alertID string) error

	// GetTriggeredAlerts 获取当前价格触发的所有预警
	GetTriggeredAlerts(symbol string, currentPrice float64) ([]MarginRule, error)
}
