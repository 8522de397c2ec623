// 文件: pkg/perpcalc/scenario.go
// 场景模拟 - 一组候选出场价的盈亏扫描
//
// 【优化】资金费和手续费只依赖仓位/时长，与出场价无关，
// 所以整批扫描只计算一次 (重复计算不算错，但浪费)

package perpcalc

import "fmt"

// =============================================================================
// Scenario - 单个出场价场景
// =============================================================================

// Scenario 单个出场价的盈亏结果
type Scenario struct {
	ExitPrice        float64
	PriceMovePercent float64 // 相对入场价
	GrossPnL         float64
	Fees             float64 // 双边手续费
	FundingCost      float64
	NetPnL           float64
	ROIPercent       float64
	Profitable       bool // NetPnL > 0
}

// =============================================================================
// 默认场景网格
// =============================================================================

// defaultScenarioGrid 默认出场价网格: -5%, -2%, -1%, 0, +1%, +2%, +5%, +10%
// 只是便捷默认值，不是契约，调用方可传任意价格序列
var defaultScenarioGrid = []float64{0.95, 0.98, 0.99, 1.00, 1.01, 1.02, 1.05, 1.10}

// DefaultScenarioPrices 基于入场价生成默认出场价序列
func DefaultScenarioPrices(entryPrice float64) []float64 {
	prices := make([]float64, len(defaultScenarioGrid))
	for i, m := range defaultScenarioGrid {
		prices[i] = entryPrice * m
	}
	return prices
}

// =============================================================================
// 模拟
// =============================================================================

// Simulate 对每个出场价计算一份盈亏，按输入顺序返回 (不排序)
//
// - exitPrices 为空返回空切片 (不是错误)
// - 任一出场价 <= 0 返回 ErrInvalidPrice
// - 每个场景等价于用该价格单独调用 ComputeCostAt
func (c *Calculator) Simulate(pos Position, holdHours float64, exitPrices []float64) ([]Scenario, error) {
	if holdHours < 0 {
		return nil, fmt.Errorf("%w: hold_hours=%v", ErrInvalidTimeRange, holdHours)
	}
	for _, p := range exitPrices {
		if p <= 0 {
			return nil, fmt.Errorf("%w: exit_price=%v", ErrInvalidPrice, p)
		}
	}

	// 费用基线整批只算一次
	fundingCost, err := c.fundingCost(pos, holdHours)
	if err != nil {
		return nil, err
	}
	totalFees := pos.SizeQuote * c.feeRate * 2
	margin := pos.Margin()

	scenarios := make([]Scenario, 0, len(exitPrices))
	for _, price := range exitPrices {
		gross := grossPnL(pos, price)
		net := gross - totalFees - fundingCost

		scenarios = append(scenarios, Scenario{
			ExitPrice:        price,
			PriceMovePercent: (price - pos.EntryPrice) / pos.EntryPrice * 100,
			GrossPnL:         gross,
			Fees:             totalFees,
			FundingCost:      fundingCost,
			NetPnL:           net,
			ROIPercent:       net / margin * 100,
			Profitable:       net > 0,
		})
	}
	return scenarios, nil
}
