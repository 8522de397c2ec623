package perpcalc

import (
	"errors"
	"math"
	"testing"
)

// 种子场景 2:
// LONG $5000 @95000, 2h → break-even 略高于 95000
func TestBreakEvenLong(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	result, err := calc.BreakEven(pos, 2)
	if err != nil {
		t.Fatalf("BreakEven: %v", err)
	}

	// total_cost = 4.00 + 0.0417 ≈ 4.0417
	wantCost := 4.0 + 5000*0.0001/24*2
	if math.Abs(result.TotalCostToRecover-wantCost) > 1e-9 {
		t.Errorf("TotalCostToRecover = %v, want %v", result.TotalCostToRecover, wantCost)
	}

	// break_even = 95000 + cost/qty ≈ 95076.79
	wantPrice := 95000 + wantCost/(5000.0/95000.0)
	if math.Abs(result.BreakEvenPrice-wantPrice) > 1e-9 {
		t.Errorf("BreakEvenPrice = %v, want %v", result.BreakEvenPrice, wantPrice)
	}
	if result.BreakEvenPrice <= pos.EntryPrice {
		t.Error("LONG break-even must sit above entry when costs are positive")
	}
	if math.Abs(result.MoveNeededPercent-(wantPrice-95000)/95000*100) > 1e-9 {
		t.Errorf("MoveNeededPercent = %v", result.MoveNeededPercent)
	}
}

func TestBreakEvenShort(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideShort, 10)

	result, err := calc.BreakEven(pos, 2)
	if err != nil {
		t.Fatalf("BreakEven: %v", err)
	}

	// SHORT: 成本为正时 break-even 低于入场价
	if result.BreakEvenPrice >= pos.EntryPrice {
		t.Errorf("SHORT break-even %v should sit below entry %v", result.BreakEvenPrice, pos.EntryPrice)
	}
	if result.MoveNeededPercent < 0 {
		t.Errorf("MoveNeededPercent = %v, must be non-negative", result.MoveNeededPercent)
	}
}

// 回环律: break-even 价作为出场价代回成本模型，净盈亏归零
//
// LONG 严格成立。SHORT 的成本模型对资金费取反而 break-even 不取反，
// 代回后净盈亏 = 2 × 资金费，一并锁定
func TestBreakEvenRoundTrip(t *testing.T) {
	calc := testCalculator()

	t.Run("Long", func(t *testing.T) {
		pos := testPosition(t, SideLong, 10)
		be, err := calc.BreakEven(pos, 2)
		if err != nil {
			t.Fatal(err)
		}

		_, pnl, err := calc.ComputeCostAt(pos, be.BreakEvenPrice, 2)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(pnl.NetPnL) > 1e-6 {
			t.Errorf("NetPnL at break-even = %v, want ≈0", pnl.NetPnL)
		}
	})

	t.Run("Short", func(t *testing.T) {
		pos := testPosition(t, SideShort, 10)
		be, err := calc.BreakEven(pos, 2)
		if err != nil {
			t.Fatal(err)
		}

		_, pnl, err := calc.ComputeCostAt(pos, be.BreakEvenPrice, 2)
		if err != nil {
			t.Fatal(err)
		}
		wantResidual := 2 * be.FundingCost
		if math.Abs(pnl.NetPnL-wantResidual) > 1e-6 {
			t.Errorf("NetPnL at break-even = %v, want %v (2×funding)", pnl.NetPnL, wantResidual)
		}
	})
}

// hold_hours = 0: 只剩手续费
func TestBreakEvenZeroHold(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	result, err := calc.BreakEven(pos, 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.FundingCost != 0 {
		t.Errorf("FundingCost = %v, want exactly 0", result.FundingCost)
	}
	if math.Abs(result.TotalCostToRecover-4.0) > 1e-9 {
		t.Errorf("TotalCostToRecover = %v, want 4.00", result.TotalCostToRecover)
	}
}

func TestBreakEvenNegativeHold(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	if _, err := calc.BreakEven(pos, -1); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}
