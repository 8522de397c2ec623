// 文件: pkg/analysis/model.go
// 持仓分析记录 - 数据结构
//
// 快照是查询时计算的，本身不落库；调用方 (看板/机器人) 想要的是
// "某个时刻算过一次"的留痕，用于追踪建议质量。Record 就是这份留痕

package analysis

import (
	"time"

	"perpcalc.com/pkg/perpcalc"
)

// =============================================================================
// Record - 分析记录
// =============================================================================

// Record 一次持仓分析的落库留痕
// ID 由雪花算法生成 (不用自增: 记录可能从多个分析节点写入)
type Record struct {
	ID     int64  `gorm:"primaryKey"`
	UserID int64  `gorm:"column:user_id;index"`
	Symbol string `gorm:"column:symbol;type:varchar(32);index"`

	// 持仓参数
	Side       string  `gorm:"column:side;type:varchar(8)"`
	Exchange   string  `gorm:"column:exchange;type:varchar(32)"`
	Volatility string  `gorm:"column:volatility;type:varchar(16)"`
	SizeQuote  float64 `gorm:"column:size_quote"`
	Leverage   int     `gorm:"column:leverage"`

	// 价格
	EntryPrice   float64 `gorm:"column:entry_price"`
	CurrentPrice float64 `gorm:"column:current_price"`

	// 盈亏
	UnrealizedPnL  float64 `gorm:"column:unrealized_pnl"`
	FundingAccrued float64 `gorm:"column:funding_accrued"`
	NetPnL         float64 `gorm:"column:net_pnl"`
	ROIPercent     float64 `gorm:"column:roi_percent"`

	// 风险
	LiquidationPrice     float64 `gorm:"column:liquidation_price"`
	DistanceToLiqPercent float64 `gorm:"column:distance_to_liq_percent"`
	BreakEvenPrice       float64 `gorm:"column:break_even_price"`

	HoldHours float64 `gorm:"column:hold_hours"`
	CreatedAt int64   `gorm:"column:created_at;index"`
}

func (Record) TableName() string {
	return "analysis_records"
}

// NewRecord 从持仓快照构造分析记录
func NewRecord(userID int64, symbol string, snap perpcalc.PositionSnapshot) *Record {
	return &Record{
		ID:     GenerateRecordID(),
		UserID: userID,
		Symbol: symbol,

		Side:       snap.Side.String(),
		Exchange:   string(snap.Exchange),
		Volatility: string(snap.Volatility),
		SizeQuote:  snap.SizeQuote,
		Leverage:   snap.Leverage,

		EntryPrice:   snap.EntryPrice,
		CurrentPrice: snap.CurrentPrice,

		UnrealizedPnL:  snap.UnrealizedPnL,
		FundingAccrued: snap.FundingAccrued,
		NetPnL:         snap.NetPnL,
		ROIPercent:     snap.ROIPercent,

		LiquidationPrice:     snap.LiquidationPrice,
		DistanceToLiqPercent: snap.DistanceToLiqPercent,
		BreakEvenPrice:       snap.BreakEven.BreakEvenPrice,

		HoldHours: snap.HoldHours,
		CreatedAt: time.Now().UnixMilli(),
	}
}
