// 文件: pkg/perpcalc/analyzer.go
// 持仓分析 - 未平仓位的实时快照
//
// 【与 ComputeCost 的区别】
// - 用当前价代替出场价，盈亏是"未实现"的
// - 资金费按 entry_time → now 实时累计 (查询时计算，不是累积状态)
// - 只扣已付的开仓手续费，平仓手续费只做预估不计入净盈亏
// - 额外给出强平价、强平距离和 break-even 分析

package perpcalc

import (
	"fmt"
	"time"
)

// =============================================================================
// PositionSnapshot - 持仓快照
// =============================================================================

// PositionSnapshot 未平仓位的完整分析结果
type PositionSnapshot struct {
	// 持仓信息
	Side         Side
	SizeQuote    float64
	QuantityBase float64
	Leverage     int
	Exchange     Exchange
	Volatility   VolatilityLevel

	// 价格信息
	EntryPrice       float64
	CurrentPrice     float64
	PriceMove        float64 // current - entry (带符号)
	PriceMovePercent float64

	// 时间信息
	HoldHours float64
	HoldDays  float64

	// 盈亏信息
	UnrealizedPnL   float64 // 未实现毛盈亏
	FundingAccrued  float64 // 累计资金费 (开仓至今)
	EntryFee        float64 // 已付开仓手续费
	ExitFeeEstimate float64 // 预估平仓手续费 (未计入净盈亏)
	NetPnL          float64 // UnrealizedPnL - FundingAccrued - EntryFee
	ROIPercent      float64

	// 风险信息
	DailyFundingRate      float64 // 日费率 (小数，SHORT 已取反)
	LiquidationPrice      float64
	DistanceToLiquidation float64 // |current - liq|
	DistanceToLiqPercent  float64 // 相对当前价
	BreakEven             BreakEvenResult
}

// =============================================================================
// 强平价估算
// =============================================================================

// LiquidationPrice 强平价估算
//
// 【简化模型】逐仓、单仓位、不计维持保证金档位:
// LONG:  entry × (1 - 1/leverage)
// SHORT: entry × (1 + 1/leverage)
//
// 真实交易所用维持保证金率档位，强平价会比这个估算更早到达。
// 这是有意的简化 (估算工具定位)，不是待修的 bug
//
// 边界: leverage=1 时 LONG 强平价为 0 (亏光全部名义价值)，
// SHORT 为 entry × 2
func LiquidationPrice(pos Position) float64 {
	if pos.Side == SideLong {
		return pos.EntryPrice * (1 - 1/float64(pos.Leverage))
	}
	return pos.EntryPrice * (1 + 1/float64(pos.Leverage))
}

// =============================================================================
// 分析
// =============================================================================

// Analyze 生成未平仓位的实时快照
//
// now 早于 entryTime 返回 ErrInvalidTimeRange，
// currentPrice <= 0 返回 ErrInvalidPrice
func (c *Calculator) Analyze(pos Position, currentPrice float64, entryTime, now time.Time) (PositionSnapshot, error) {
	if currentPrice <= 0 {
		return PositionSnapshot{}, fmt.Errorf("%w: current_price=%v", ErrInvalidPrice, currentPrice)
	}
	if now.Before(entryTime) {
		return PositionSnapshot{}, fmt.Errorf("%w: now %s before entry %s",
			ErrInvalidTimeRange, now.Format(time.RFC3339), entryTime.Format(time.RFC3339))
	}

	holdHours := HoursBetween(entryTime, now)

	// 未实现盈亏 (同 grossPnL，用当前价)
	unrealized := grossPnL(pos, currentPrice)

	// 累计资金费 (SHORT 符号取反，见 fundingCost 的建模说明)
	fundingAccrued, err := c.fundingCost(pos, holdHours)
	if err != nil {
		return PositionSnapshot{}, err
	}
	dailyRate, _ := c.rates.DailyRate(pos.Exchange, pos.Volatility)
	if pos.Side == SideShort {
		dailyRate = -dailyRate
	}

	// 已付开仓手续费 + 预估平仓手续费
	entryFee := pos.SizeQuote * c.feeRate
	exitFeeEstimate := pos.SizeQuote * c.feeRate

	// 净盈亏: 平仓手续费尚未发生，只扣已付部分
	net := unrealized - fundingAccrued - entryFee

	// 强平距离
	liqPrice := LiquidationPrice(pos)
	distance := currentPrice - liqPrice
	if distance < 0 {
		distance = -distance
	}

	breakEven, err := c.BreakEven(pos, holdHours)
	if err != nil {
		return PositionSnapshot{}, err
	}

	return PositionSnapshot{
		Side:         pos.Side,
		SizeQuote:    pos.SizeQuote,
		QuantityBase: pos.QuantityBase(),
		Leverage:     pos.Leverage,
		Exchange:     pos.Exchange,
		Volatility:   pos.Volatility,

		EntryPrice:       pos.EntryPrice,
		CurrentPrice:     currentPrice,
		PriceMove:        currentPrice - pos.EntryPrice,
		PriceMovePercent: (currentPrice - pos.EntryPrice) / pos.EntryPrice * 100,

		HoldHours: holdHours,
		HoldDays:  holdHours / 24,

		UnrealizedPnL:   unrealized,
		FundingAccrued:  fundingAccrued,
		EntryFee:        entryFee,
		ExitFeeEstimate: exitFeeEstimate,
		NetPnL:          net,
		ROIPercent:      net / pos.Margin() * 100,

		DailyFundingRate:      dailyRate,
		LiquidationPrice:      liqPrice,
		DistanceToLiquidation: distance,
		DistanceToLiqPercent:  distance / currentPrice * 100,
		BreakEven:             breakEven,
	}, nil
}
