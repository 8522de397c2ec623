// 文件: pkg/perpcalc/rates.go
// 日资金费率估算
//
// 【核心公式】
// 日费率 = 交易所基准费率 × 波动率乘数
//
// 基准费率是各交易所的历史平均值 (非实时行情)，
// 波动率乘数是风险溢价: 波动越大，多空失衡越严重，费率越高

package perpcalc

import "fmt"

// =============================================================================
// RateSource - 费率来源接口
// =============================================================================

// RateSource 日资金费率来源
//
// 【为什么用接口？】
// 静态表 (RateEstimator) 和带存储覆盖的实现 (funding.Manager)
// 对计算器来说无差别，单元测试也可以注入固定费率
type RateSource interface {
	// DailyRate 返回日资金费率 (小数形式，0.0001 = 0.01%/天)
	// 未知交易所或档位返回 ErrUnknownRateTier，绝不静默回退
	DailyRate(exchange Exchange, volatility VolatilityLevel) (float64, error)
}

// =============================================================================
// 静态费率表
// =============================================================================

// baseRates 各交易所平均日资金费率
var baseRates = map[Exchange]float64{
	ExchangeBinance:     0.0001,  // 0.01%
	ExchangeBybit:       0.00005, // 0.005%
	ExchangeOKX:         0.0001,  // 0.01%
	ExchangeDYDX:        0.00015, // 0.015%
	ExchangeHyperliquid: 0.0002,  // 0.02%
}

// volatilityMultipliers 波动率风险溢价乘数
var volatilityMultipliers = map[VolatilityLevel]float64{
	VolatilityLow:     0.5,
	VolatilityMedium:  1.0,
	VolatilityHigh:    1.5,
	VolatilityExtreme: 2.5,
}

// =============================================================================
// RateEstimator - 静态表实现
// =============================================================================

// 确保实现了接口
var _ RateSource = (*RateEstimator)(nil)

// RateEstimator 基于静态表的费率估算器
// 无状态、无副作用，零值即可用
type RateEstimator struct{}

// NewRateEstimator 创建费率估算器
func NewRateEstimator() *RateEstimator {
	return &RateEstimator{}
}

// DailyRate 日资金费率 = 基准费率 × 波动率乘数
//
// 【注意】未知档位显式报错，不静默回退到某个默认档位:
// 静默回退会掩盖调用方的拼写错误
func (e *RateEstimator) DailyRate(exchange Exchange, volatility VolatilityLevel) (float64, error) {
	base, ok := baseRates[exchange]
	if !ok {
		return 0, fmt.Errorf("%w: exchange %q", ErrUnknownRateTier, exchange)
	}
	multiplier, ok := volatilityMultipliers[volatility]
	if !ok {
		return 0, fmt.Errorf("%w: volatility level %q", ErrUnknownRateTier, volatility)
	}
	return base * multiplier, nil
}
