package perpcalc

import (
	"errors"
	"math"
	"testing"
)

// 空输入返回空切片，不是错误
func TestSimulateEmpty(t *testing.T) {
	calc := testCalculator()
	scenarios, err := calc.Simulate(testPosition(t, SideLong, 10), 8, []float64{})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(scenarios) != 0 {
		t.Errorf("expected empty result, got %d scenarios", len(scenarios))
	}
}

// 一致律: 单价格场景等价于直接调用成本模型
func TestSimulateSinglePriceConsistency(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	scenarios, err := calc.Simulate(pos, 8, []float64{97000})
	if err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(scenarios))
	}

	cost, pnl, err := calc.ComputeCostAt(pos, 97000, 8)
	if err != nil {
		t.Fatal(err)
	}

	s := scenarios[0]
	if math.Abs(s.GrossPnL-pnl.GrossPnL) > 1e-9 ||
		math.Abs(s.NetPnL-pnl.NetPnL) > 1e-9 ||
		math.Abs(s.ROIPercent-pnl.ROIPercent) > 1e-9 ||
		math.Abs(s.Fees-cost.TotalFees) > 1e-9 ||
		math.Abs(s.FundingCost-cost.FundingCost) > 1e-9 {
		t.Errorf("scenario diverges from cost model: %+v vs %+v / %+v", s, cost, pnl)
	}
}

// 种子场景 3:
// 出场价 = 入场价 → 毛盈亏 0，净盈亏 = -(手续费+资金费)，ROI 为负
func TestSimulateUnchangedPrice(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	scenarios, err := calc.Simulate(pos, 8, []float64{95000})
	if err != nil {
		t.Fatal(err)
	}

	s := scenarios[0]
	if s.GrossPnL != 0 {
		t.Errorf("GrossPnL = %v, want 0", s.GrossPnL)
	}
	wantNet := -(s.Fees + s.FundingCost)
	if math.Abs(s.NetPnL-wantNet) > 1e-12 {
		t.Errorf("NetPnL = %v, want %v", s.NetPnL, wantNet)
	}
	if s.ROIPercent >= 0 {
		t.Errorf("ROIPercent = %v, expected negative", s.ROIPercent)
	}
	if s.Profitable {
		t.Error("unchanged price must not be profitable")
	}
}

// 顺序保持: 按输入顺序返回，不排序
func TestSimulatePreservesOrder(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	prices := []float64{100000, 90000, 95000, 99000}
	scenarios, err := calc.Simulate(pos, 4, prices)
	if err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != len(prices) {
		t.Fatalf("expected %d scenarios, got %d", len(prices), len(scenarios))
	}
	for i, s := range scenarios {
		if s.ExitPrice != prices[i] {
			t.Errorf("scenario %d: ExitPrice = %v, want %v", i, s.ExitPrice, prices[i])
		}
	}
}

// 费用基线在整批内一致 (只计算一次的优化不改变结果)
func TestSimulateSharedBaseline(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideShort, 10)

	scenarios, err := calc.Simulate(pos, 8, DefaultScenarioPrices(pos.EntryPrice))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(scenarios); i++ {
		if scenarios[i].Fees != scenarios[0].Fees || scenarios[i].FundingCost != scenarios[0].FundingCost {
			t.Errorf("scenario %d has different fee baseline", i)
		}
	}
}

func TestSimulateInvalidPrice(t *testing.T) {
	calc := testCalculator()
	pos := testPosition(t, SideLong, 10)

	_, err := calc.Simulate(pos, 8, []float64{96000, -1})
	if !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestDefaultScenarioPrices(t *testing.T) {
	prices := DefaultScenarioPrices(100000)
	want := []float64{95000, 98000, 99000, 100000, 101000, 102000, 105000, 110000}

	if len(prices) != len(want) {
		t.Fatalf("expected %d prices, got %d", len(want), len(prices))
	}
	for i := range want {
		if math.Abs(prices[i]-want[i]) > 1e-9 {
			t.Errorf("price %d = %v, want %v", i, prices[i], want[i])
		}
	}
}

// 基准测试: 默认网格整批扫描
func BenchmarkSimulate(b *testing.B) {
	calc := NewCalculator(NewRateEstimator())
	pos, _ := NewPosition(SideLong, 5000, 95000, 10, ExchangeBinance, VolatilityMedium)
	prices := DefaultScenarioPrices(pos.EntryPrice)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = calc.Simulate(pos, 8, prices)
	}
}
