package perpcalc

import (
	"errors"
	"math"
	"testing"
	"time"
)

// 测试辅助: binance/medium 的标准仓位
func testPosition(t *testing.T, side Side, leverage int) Position {
	t.Helper()
	pos, err := NewPosition(side, 5000, 95000, leverage, ExchangeBinance, VolatilityMedium)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	return pos
}

func testCalculator() *Calculator {
	return NewCalculator(NewRateEstimator())
}

// 种子场景 1:
// LONG $5000 @95000 → 96000, 2h, 10x, binance/medium
// funding ≈ $0.0417, fees = $4.00, gross ≈ $52.63, net ≈ $48.59, roi ≈ 9.72%
func TestComputeCostLong(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	entry := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	trade, err := NewClosedTrade(pos, 96000, entry, entry.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("NewClosedTrade: %v", err)
	}

	cost, pnl, err := calc.ComputeCost(trade)
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}

	// funding = 5000 × (0.0001/24) × 2
	wantFunding := 5000 * 0.0001 / 24 * 2
	if math.Abs(cost.FundingCost-wantFunding) > 1e-9 {
		t.Errorf("FundingCost = %v, want %v", cost.FundingCost, wantFunding)
	}
	if math.Abs(cost.TotalFees-4.0) > 1e-9 {
		t.Errorf("TotalFees = %v, want 4.00", cost.TotalFees)
	}
	if math.Abs(cost.EntryFee-2.0) > 1e-9 || math.Abs(cost.ExitFee-2.0) > 1e-9 {
		t.Errorf("EntryFee/ExitFee = %v/%v, want 2.00/2.00", cost.EntryFee, cost.ExitFee)
	}

	// gross = 1000 × (5000/95000) ≈ 52.6316
	wantGross := 1000 * 5000.0 / 95000.0
	if math.Abs(pnl.GrossPnL-wantGross) > 1e-9 {
		t.Errorf("GrossPnL = %v, want %v", pnl.GrossPnL, wantGross)
	}

	wantNet := wantGross - 4.0 - wantFunding
	if math.Abs(pnl.NetPnL-wantNet) > 1e-9 {
		t.Errorf("NetPnL = %v, want %v", pnl.NetPnL, wantNet)
	}

	// roi = net / (5000/10) × 100 ≈ 9.72%
	wantROI := wantNet / 500 * 100
	if math.Abs(pnl.ROIPercent-wantROI) > 1e-9 {
		t.Errorf("ROIPercent = %v, want %v", pnl.ROIPercent, wantROI)
	}
	if math.Abs(pnl.ROIPercent-9.72) > 0.01 {
		t.Errorf("ROIPercent = %v, want ≈9.72", pnl.ROIPercent)
	}
}

// 种子场景 4:
// 同场景 1 的 SHORT 镜像，出场 94000 → 价格下跌盈利，资金费符号取反
func TestComputeCostShort(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideShort, 10)

	entry := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	trade, _ := NewClosedTrade(pos, 94000, entry, entry.Add(2*time.Hour))

	cost, pnl, err := calc.ComputeCost(trade)
	if err != nil {
		t.Fatalf("ComputeCost: %v", err)
	}

	// SHORT 符号取反: 费率为正时空头收取资金费
	wantFunding := -(5000 * 0.0001 / 24 * 2)
	if math.Abs(cost.FundingCost-wantFunding) > 1e-9 {
		t.Errorf("FundingCost = %v, want %v", cost.FundingCost, wantFunding)
	}

	// 价格跌了 1000，空头毛盈亏为正
	wantGross := 1000 * 5000.0 / 95000.0
	if math.Abs(pnl.GrossPnL-wantGross) > 1e-9 {
		t.Errorf("GrossPnL = %v, want %v", pnl.GrossPnL, wantGross)
	}
	if pnl.NetPnL <= 0 {
		t.Errorf("NetPnL = %v, expected positive", pnl.NetPnL)
	}
}

// 不变式: net = gross - fees - funding 精确成立
func TestNetPnLIdentity(t *testing.T) {
	calc := testCalculator()
	entry := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	for _, side := range []Side{SideLong, SideShort} {
		for _, exit := range []float64{80000, 94999.5, 95000, 95000.5, 120000} {
			pos := testPosition(t, side, 5)
			trade, _ := NewClosedTrade(pos, exit, entry, entry.Add(7*time.Hour))

			cost, pnl, err := calc.ComputeCost(trade)
			if err != nil {
				t.Fatalf("ComputeCost(%s, %v): %v", side, exit, err)
			}
			if pnl.NetPnL != pnl.GrossPnL-cost.TotalFees-cost.FundingCost {
				t.Errorf("%s exit=%v: identity broken: net=%v gross=%v fees=%v funding=%v",
					side, exit, pnl.NetPnL, pnl.GrossPnL, cost.TotalFees, cost.FundingCost)
			}
		}
	}
}

// 不变式: LONG 毛盈亏随出场价单调递增，SHORT 单调递减
func TestGrossPnLMonotonicity(t *testing.T) {
	calc := testCalculator()
	prices := []float64{90000, 93000, 95000, 97000, 101000, 110000}

	var prevLong, prevShort float64
	for i, exit := range prices {
		_, long, err := calc.ComputeCostAt(testPosition(t, SideLong, 10), exit, 4)
		if err != nil {
			t.Fatal(err)
		}
		_, short, err := calc.ComputeCostAt(testPosition(t, SideShort, 10), exit, 4)
		if err != nil {
			t.Fatal(err)
		}

		if i > 0 {
			if long.GrossPnL <= prevLong {
				t.Errorf("LONG gross not increasing at %v", exit)
			}
			if short.GrossPnL >= prevShort {
				t.Errorf("SHORT gross not decreasing at %v", exit)
			}
		}
		prevLong, prevShort = long.GrossPnL, short.GrossPnL
	}
}

// 边界: hold_hours = 0 时资金费精确为 0
func TestZeroHoldHoursZeroFunding(t *testing.T) {
	calc := testCalculator()
	cost, _, err := calc.ComputeCostAt(testPosition(t, SideLong, 10), 96000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cost.FundingCost != 0 {
		t.Errorf("FundingCost = %v, want exactly 0", cost.FundingCost)
	}
}

// 不变式: 同样的 net (净盈亏不依赖杠杆)，ROI 随杠杆线性放大
func TestROIScalesWithLeverage(t *testing.T) {
	calc := testCalculator()

	_, pnl1, err := calc.ComputeCostAt(testPosition(t, SideLong, 1), 96000, 2)
	if err != nil {
		t.Fatal(err)
	}
	_, pnl10, err := calc.ComputeCostAt(testPosition(t, SideLong, 10), 96000, 2)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(pnl1.NetPnL-pnl10.NetPnL) > 1e-9 {
		t.Fatalf("NetPnL should not depend on leverage: %v vs %v", pnl1.NetPnL, pnl10.NetPnL)
	}
	if math.Abs(pnl10.ROIPercent-10*pnl1.ROIPercent) > 1e-9 {
		t.Errorf("ROI(10x) = %v, want 10 × ROI(1x) = %v", pnl10.ROIPercent, 10*pnl1.ROIPercent)
	}
}

func TestComputeCostAtValidation(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	if _, _, err := calc.ComputeCostAt(pos, 0, 2); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
	if _, _, err := calc.ComputeCostAt(pos, 96000, -1); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}

// 自定义手续费率生效
func TestSetFeeRate(t *testing.T) {
	calc := testCalculator()
	calc.SetFeeRate(DefaultMakerFeeRate)

	cost, _, err := calc.ComputeCostAt(testPosition(t, SideLong, 10), 96000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(cost.TotalFees-2.0) > 1e-9 { // 5000 × 0.0002 × 2
		t.Errorf("TotalFees = %v, want 2.00 at maker rate", cost.TotalFees)
	}
}

// 基准测试: 单笔成本计算
func BenchmarkComputeCostAt(b *testing.B) {
	calc := NewCalculator(NewRateEstimator())
	pos, _ := NewPosition(SideLong, 5000, 95000, 10, ExchangeBinance, VolatilityMedium)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = calc.ComputeCostAt(pos, 96000, 2)
	}
}
