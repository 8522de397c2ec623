// 文件: pkg/perpcalc/cost.go
// 持仓成本模型 - 已平仓交易的完整成本与盈亏
//
// 【核心公式】
// 资金费   = 名义价值 × (日费率/24) × 持仓小时数   (SHORT 符号取反)
// 手续费   = 名义价值 × 费率 × 2 (开仓 + 平仓)
// 毛盈亏   = (出场价 - 入场价) × 币数量            (SHORT 取反)
// 净盈亏   = 毛盈亏 - 总手续费 - 资金费
// ROI      = 净盈亏 / 保证金 × 100

package perpcalc

import "fmt"

// =============================================================================
// 手续费常量
// =============================================================================

const (
	// DefaultMakerFeeRate 挂单费率 (0.02%)
	DefaultMakerFeeRate = 0.0002

	// DefaultTakerFeeRate 吃单费率 (0.04%)
	// 成本测算默认按吃单计，偏保守
	DefaultTakerFeeRate = 0.0004
)

// =============================================================================
// 计算结果值对象
// =============================================================================

// CostBreakdown 成本明细
// 每次调用重新计算，不缓存、不复用
type CostBreakdown struct {
	FundingCost float64 // 资金费 (正=支付, 负=收取)
	EntryFee    float64 // 开仓手续费
	ExitFee     float64 // 平仓手续费
	TotalFees   float64 // EntryFee + ExitFee
}

// PnLResult 盈亏结果
// 不变式: NetPnL = GrossPnL - TotalFees - FundingCost (精确成立，不做中途取整)
type PnLResult struct {
	GrossPnL   float64 // 毛盈亏
	NetPnL     float64 // 净盈亏
	ROIPercent float64 // 相对保证金的收益率 (已 ×100)
}

// =============================================================================
// Calculator - 持仓经济学计算器
// =============================================================================

// Calculator 持仓经济学计算器
//
// 【设计】只依赖 RateSource 接口
// - 可以传入 RateEstimator (静态表)
// - 可以传入 funding.Manager (带 DB 覆盖)
// - 单元测试时可以传入固定费率的 stub
//
// 无共享可变状态，全部方法为纯函数，可并发调用
type Calculator struct {
	rates   RateSource
	feeRate float64 // 单边手续费率
}

// NewCalculator 创建计算器 (默认吃单费率)
func NewCalculator(rates RateSource) *Calculator {
	return &Calculator{
		rates:   rates,
		feeRate: DefaultTakerFeeRate,
	}
}

// SetFeeRate 设置单边手续费率
func (c *Calculator) SetFeeRate(rate float64) {
	c.feeRate = rate
}

// FeeRate 当前单边手续费率
func (c *Calculator) FeeRate() float64 {
	return c.feeRate
}

// =============================================================================
// 成本计算
// =============================================================================

// ComputeCost 计算一笔已平仓交易的成本明细与盈亏
//
// trade 由 NewClosedTrade 构造，时间区间和价格已经过校验
func (c *Calculator) ComputeCost(trade ClosedTrade) (CostBreakdown, PnLResult, error) {
	holdHours := trade.HoldHours()

	funding, err := c.fundingCost(trade.Position, holdHours)
	if err != nil {
		return CostBreakdown{}, PnLResult{}, err
	}

	cost := CostBreakdown{
		FundingCost: funding,
		EntryFee:    trade.SizeQuote * c.feeRate,
		ExitFee:     trade.SizeQuote * c.feeRate,
	}
	cost.TotalFees = cost.EntryFee + cost.ExitFee

	gross := grossPnL(trade.Position, trade.ExitPrice)
	pnl := netPnL(trade.Position, gross, cost)

	return cost, pnl, nil
}

// =============================================================================
// 内部公式
// =============================================================================

// fundingCost 资金费 = 名义价值 × 小时费率 × 持仓小时数
//
// 【建模约定】SHORT 持仓符号取反, 即"费率为正时空头收取资金费"。
// 真实交易所的资金费方向取决于标记价与指数价的价差符号，
// 与持仓方向无关；这里沿用上游消费者依赖的简化模型
func (c *Calculator) fundingCost(pos Position, holdHours float64) (float64, error) {
	dailyRate, err := c.rates.DailyRate(pos.Exchange, pos.Volatility)
	if err != nil {
		return 0, err
	}
	if pos.Side == SideShort {
		dailyRate = -dailyRate
	}
	return pos.SizeQuote * (dailyRate / 24) * holdHours, nil
}

// grossPnL 毛盈亏
// LONG:  (exit - entry) × qty
// SHORT: (entry - exit) × qty
func grossPnL(pos Position, exitPrice float64) float64 {
	qty := pos.QuantityBase()
	if pos.Side == SideLong {
		return (exitPrice - pos.EntryPrice) * qty
	}
	return (pos.EntryPrice - exitPrice) * qty
}

// netPnL 净盈亏与 ROI
// Leverage 在构造时已保证 >= 1，保证金恒为正
func netPnL(pos Position, gross float64, cost CostBreakdown) PnLResult {
	net := gross - cost.TotalFees - cost.FundingCost
	return PnLResult{
		GrossPnL:   gross,
		NetPnL:     net,
		ROIPercent: net / pos.Margin() * 100,
	}
}

// =============================================================================
// 便捷入口
// =============================================================================

// ComputeCostAt 按出场价和持仓时长计算 (不经过 ClosedTrade)
// 供 ScenarioSimulator 和回测类调用方使用
func (c *Calculator) ComputeCostAt(pos Position, exitPrice, holdHours float64) (CostBreakdown, PnLResult, error) {
	if exitPrice <= 0 {
		return CostBreakdown{}, PnLResult{}, fmt.Errorf("%w: exit_price=%v", ErrInvalidPrice, exitPrice)
	}
	if holdHours < 0 {
		return CostBreakdown{}, PnLResult{}, fmt.Errorf("%w: hold_hours=%v", ErrInvalidTimeRange, holdHours)
	}

	funding, err := c.fundingCost(pos, holdHours)
	if err != nil {
		return CostBreakdown{}, PnLResult{}, err
	}

	cost := CostBreakdown{
		FundingCost: funding,
		EntryFee:    pos.SizeQuote * c.feeRate,
		ExitFee:     pos.SizeQuote * c.feeRate,
	}
	cost.TotalFees = cost.EntryFee + cost.ExitFee

	gross := grossPnL(pos, exitPrice)
	return cost, netPnL(pos, gross, cost), nil
}
