// 文件: pkg/perpcalc/model.go
// 永续合约持仓经济学 - 核心数据结构
//
// 【设计原则】Parse, don't validate
// 所有值对象通过智能构造函数创建，非法状态根本无法表示:
// - 交易所/波动率档位在构造时解析，未知值直接报错 (不做静默回退)
// - 价格/仓位/杠杆在构造时校验，下游公式不再需要除零保护
//
// 值对象没有身份，只有字段值，创建后不可变，可安全跨 goroutine 共享

package perpcalc

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// 错误定义
// =============================================================================

var (
	// ErrUnknownRateTier 未知的交易所或波动率档位
	// 【注意】未知 key 显式报错而不是静默回退到默认档位，
	// 调用方拼写错误不会被默认值掩盖
	ErrUnknownRateTier = errors.New("unknown exchange or volatility tier")

	// ErrInvalidTimeRange 平仓时间早于开仓时间
	ErrInvalidTimeRange = errors.New("exit time before entry time")

	// ErrInvalidPrice 价格必须为正数
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrInvalidLeverage 杠杆必须 >= 1
	ErrInvalidLeverage = errors.New("leverage must be at least 1")

	// ErrInvalidSize 仓位名义价值必须为正数
	ErrInvalidSize = errors.New("position size must be positive")
)

// =============================================================================
// 持仓方向
// =============================================================================

type Side int8

const (
	SideLong  Side = 1  // 多头
	SideShort Side = -1 // 空头
)

func (s Side) String() string {
	if s == SideLong {
		return "LONG"
	}
	return "SHORT"
}

// =============================================================================
// 交易所
// =============================================================================

// Exchange 支持的交易所
type Exchange string

const (
	ExchangeBinance     Exchange = "binance"
	ExchangeBybit       Exchange = "bybit"
	ExchangeOKX         Exchange = "okx"
	ExchangeDYDX        Exchange = "dydx"
	ExchangeHyperliquid Exchange = "hyperliquid"
)

// ParseExchange 解析交易所名称
// 未知名称返回 ErrUnknownRateTier
func ParseExchange(name string) (Exchange, error) {
	switch Exchange(name) {
	case ExchangeBinance, ExchangeBybit, ExchangeOKX, ExchangeDYDX, ExchangeHyperliquid:
		return Exchange(name), nil
	}
	return "", fmt.Errorf("%w: exchange %q", ErrUnknownRateTier, name)
}

// =============================================================================
// 波动率档位
// =============================================================================

// VolatilityLevel 波动率档位，决定资金费率的风险溢价
type VolatilityLevel string

const (
	VolatilityLow     VolatilityLevel = "low"     // 年化波动率 < 20%
	VolatilityMedium  VolatilityLevel = "medium"  // 20% - 50%
	VolatilityHigh    VolatilityLevel = "high"    // 50% - 100%
	VolatilityExtreme VolatilityLevel = "extreme" // > 100%
)

// ParseVolatilityLevel 解析波动率档位
// 未知档位返回 ErrUnknownRateTier
func ParseVolatilityLevel(name string) (VolatilityLevel, error) {
	switch VolatilityLevel(name) {
	case VolatilityLow, VolatilityMedium, VolatilityHigh, VolatilityExtreme:
		return VolatilityLevel(name), nil
	}
	return "", fmt.Errorf("%w: volatility level %q", ErrUnknownRateTier, name)
}

// =============================================================================
// Position - 持仓值对象
// =============================================================================

// Position 一笔永续合约持仓
//
// SizeQuote 是名义价值 (USDT 计)，已经是杠杆放大后的经济敞口
// 保证金 = SizeQuote / Leverage
type Position struct {
	Side       Side
	SizeQuote  float64 // 名义价值 (USDT)
	EntryPrice float64 // 开仓价
	Leverage   int     // 杠杆倍数 (>= 1)
	Exchange   Exchange
	Volatility VolatilityLevel
}

// NewPosition 构造持仓，集中完成全部输入校验
//
// 【为什么在这里校验？】
// 强平价格公式含 1/leverage，break-even 公式含 1/quantity，
// 在构造边界拦截非法值后，所有下游公式不再需要 guard
func NewPosition(
	side Side,
	sizeQuote, entryPrice float64,
	leverage int,
	exchange Exchange,
	volatility VolatilityLevel,
) (Position, error) {
	if sizeQuote <= 0 {
		return Position{}, fmt.Errorf("%w: size_quote=%v", ErrInvalidSize, sizeQuote)
	}
	if entryPrice <= 0 {
		return Position{}, fmt.Errorf("%w: entry_price=%v", ErrInvalidPrice, entryPrice)
	}
	if leverage < 1 {
		return Position{}, fmt.Errorf("%w: leverage=%d", ErrInvalidLeverage, leverage)
	}
	if _, err := ParseExchange(string(exchange)); err != nil {
		return Position{}, err
	}
	if _, err := ParseVolatilityLevel(string(volatility)); err != nil {
		return Position{}, err
	}

	return Position{
		Side:       side,
		SizeQuote:  sizeQuote,
		EntryPrice: entryPrice,
		Leverage:   leverage,
		Exchange:   exchange,
		Volatility: volatility,
	}, nil
}

// QuantityBase 基础货币数量 (如 BTC 枚数)
// EntryPrice 在构造时已保证 > 0，结果恒为正
func (p Position) QuantityBase() float64 {
	return p.SizeQuote / p.EntryPrice
}

// Margin 占用保证金
func (p Position) Margin() float64 {
	return p.SizeQuote / float64(p.Leverage)
}

// =============================================================================
// ClosedTrade - 已平仓交易
// =============================================================================

// ClosedTrade 已平仓交易 = 持仓 + 出场信息
type ClosedTrade struct {
	Position
	ExitPrice float64
	EntryTime time.Time
	ExitTime  time.Time
}

// NewClosedTrade 构造已平仓交易
// ExitTime 早于 EntryTime 返回 ErrInvalidTimeRange
func NewClosedTrade(pos Position, exitPrice float64, entryTime, exitTime time.Time) (ClosedTrade, error) {
	if exitPrice <= 0 {
		return ClosedTrade{}, fmt.Errorf("%w: exit_price=%v", ErrInvalidPrice, exitPrice)
	}
	if exitTime.Before(entryTime) {
		return ClosedTrade{}, fmt.Errorf("%w: exit %s before entry %s",
			ErrInvalidTimeRange, exitTime.Format(time.RFC3339), entryTime.Format(time.RFC3339))
	}
	return ClosedTrade{
		Position:  pos,
		ExitPrice: exitPrice,
		EntryTime: entryTime,
		ExitTime:  exitTime,
	}, nil
}

// HoldHours 持仓时长 (小时)
// 保留秒级精度: total_seconds / 3600，不做整小时截断
func (t ClosedTrade) HoldHours() float64 {
	return t.ExitTime.Sub(t.EntryTime).Seconds() / 3600
}

// =============================================================================
// HoursBetween - 时长计算
// =============================================================================

// HoursBetween 两个时间点之间的小时数 (秒级精度)
func HoursBetween(from, to time.Time) float64 {
	return to.Sub(from).Seconds() / 3600
}
