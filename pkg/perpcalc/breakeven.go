// 文件: pkg/perpcalc/breakeven.go
// Break-even 求解 - 覆盖手续费和资金费所需的出场价
//
// 【核心公式】
// 总成本     = 双边手续费 + 资金费
// 单币成本   = 总成本 / 币数量
// LONG:  break_even = 入场价 + 单币成本
// SHORT: break_even = 入场价 - 单币成本

package perpcalc

import "fmt"

// =============================================================================
// 结果值对象
// =============================================================================

// BreakEvenResult break-even 分析结果
type BreakEvenResult struct {
	EntryPrice         float64 // 入场价 (回显)
	BreakEvenPrice     float64 // 净盈亏归零的出场价
	PriceDifference    float64 // |break_even - entry|
	MoveNeededPercent  float64 // 到 break-even 需要的价格变动 (%)
	TotalFees          float64 // 双边手续费
	FundingCost        float64 // 预估资金费
	TotalCostToRecover float64 // TotalFees + FundingCost
	HoldHours          float64 // 假设持仓时长 (回显)
}

// =============================================================================
// 求解
// =============================================================================

// BreakEven 计算覆盖全部成本的出场价
//
// holdHours 是假设的持仓时长，用于预估资金费
//
// 【注意】这里的资金费不按方向取反:
// break-even 回答的是"价格要朝有利方向走多远才能覆盖成本"，
// 两个方向的成本口径一致
func (c *Calculator) BreakEven(pos Position, holdHours float64) (BreakEvenResult, error) {
	if holdHours < 0 {
		return BreakEvenResult{}, fmt.Errorf("%w: hold_hours=%v", ErrInvalidTimeRange, holdHours)
	}

	dailyRate, err := c.rates.DailyRate(pos.Exchange, pos.Volatility)
	if err != nil {
		return BreakEvenResult{}, err
	}

	totalFees := pos.SizeQuote * c.feeRate * 2
	fundingCost := pos.SizeQuote * (dailyRate / 24) * holdHours
	totalCost := totalFees + fundingCost

	// EntryPrice > 0 由构造函数保证，qty 恒为正，无除零风险
	costPerUnit := totalCost / pos.QuantityBase()

	var breakEven float64
	if pos.Side == SideLong {
		breakEven = pos.EntryPrice + costPerUnit
	} else {
		breakEven = pos.EntryPrice - costPerUnit
	}

	diff := breakEven - pos.EntryPrice
	if diff < 0 {
		diff = -diff
	}

	return BreakEvenResult{
		EntryPrice:         pos.EntryPrice,
		BreakEvenPrice:     breakEven,
		PriceDifference:    diff,
		MoveNeededPercent:  diff / pos.EntryPrice * 100,
		TotalFees:          totalFees,
		FundingCost:        fundingCost,
		TotalCostToRecover: totalCost,
		HoldHours:          holdHours,
	}, nil
}
