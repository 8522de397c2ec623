// 文件: cmd/simulation/main.go
// 永续合约持仓经济学全链路演示
//
// 跑通一遍完整流程:
//   费率解析 (含运营覆盖) -> 平仓成本核算 -> 保本价 -> 持仓快照 -> 场景扫描 -> 强平预警
//
// 全部用内存实现 (MemoryRateRepository / MemoryRecordRepository /
// MemorySubscriptionManager)，不依赖 MySQL / Redis / NATS / Kafka，可直接运行

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"perpcalc.com/pkg/alert"
	"perpcalc.com/pkg/analysis"
	"perpcalc.com/pkg/funding"
	"perpcalc.com/pkg/perpcalc"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.Println("🚀 Starting Position Economics Simulation...")

	ctx := context.Background()

	// 1. 初始化 费率管理器 (静态费率表 + 内存覆盖存储)
	// -------------------------------------------------------------------------
	rateRepo := funding.NewMemoryRateRepository()
	rateManager := funding.NewManager(rateRepo)

	rate, err := rateManager.DailyRate(perpcalc.ExchangeBinance, perpcalc.VolatilityMedium)
	if err != nil {
		log.Fatalf("Failed to resolve daily rate: %v", err)
	}
	log.Printf("[Funding] Static rate binance/medium: %.6f/day", rate)

	// 运营覆盖: 行情极端时手动调高 binance/medium 的费率
	if err := rateManager.SetOverride(ctx, perpcalc.ExchangeBinance, perpcalc.VolatilityMedium, 0.0003, "ops-manual"); err != nil {
		log.Fatalf("Failed to set override: %v", err)
	}
	rate, overridden, _ := rateManager.Resolve(ctx, perpcalc.ExchangeBinance, perpcalc.VolatilityMedium)
	log.Printf("[Funding] After override: %.6f/day (overridden=%v)", rate, overridden)

	// 演示完撤掉覆盖，回到静态表
	if err := rateManager.ClearOverride(ctx, perpcalc.ExchangeBinance, perpcalc.VolatilityMedium); err != nil {
		log.Fatalf("Failed to clear override: %v", err)
	}
	log.Println("[Funding] Override cleared, back to static table")

	// 2. 初始化 分析服务 (Manager 本身就是 RateSource)
	// -------------------------------------------------------------------------
	if err := analysis.InitSnowflake(1); err != nil {
		log.Fatalf("Failed to init snowflake: %v", err)
	}

	calc := perpcalc.NewCalculator(rateManager)
	recordRepo := analysis.NewMemoryRecordRepository()
	service := analysis.NewService(calc, recordRepo)

	// 3. 构造样例持仓: 多头 5000 USDT, 10x, 入场 95000
	// -------------------------------------------------------------------------
	pos, err := perpcalc.NewPosition(
		perpcalc.SideLong,
		5000, 95000, 10,
		perpcalc.ExchangeBinance,
		perpcalc.VolatilityMedium,
	)
	if err != nil {
		log.Fatalf("Failed to build position: %v", err)
	}
	log.Printf("[Position] LONG %.0f USDT @ %.0f, %dx (margin %.0f, qty %.6f BTC)",
		pos.SizeQuote, pos.EntryPrice, pos.Leverage, pos.Margin(), pos.QuantityBase())

	entryTime := time.Now().Add(-24 * time.Hour)
	now := time.Now()

	// 4. 平仓成本核算: 持有 24 小时后 96000 出场
	// -------------------------------------------------------------------------
	trade, err := perpcalc.NewClosedTrade(pos, 96000, entryTime, now)
	if err != nil {
		log.Fatalf("Failed to build trade: %v", err)
	}
	cost, pnl, err := calc.ComputeCost(trade)
	if err != nil {
		log.Fatalf("Failed to compute cost: %v", err)
	}

	fmt.Println()
	fmt.Println("============ CLOSED TRADE (exit 96000, hold 24h) ============")
	fmt.Printf("  Gross PnL:     %+10.4f USDT\n", pnl.GrossPnL)
	fmt.Printf("  Entry Fee:     %10.4f USDT\n", cost.EntryFee)
	fmt.Printf("  Exit Fee:      %10.4f USDT\n", cost.ExitFee)
	fmt.Printf("  Funding Cost:  %10.4f USDT\n", cost.FundingCost)
	fmt.Printf("  Net PnL:       %+10.4f USDT (ROI %+.2f%% on margin)\n", pnl.NetPnL, pnl.ROIPercent)

	// 5. 保本价: 覆盖全部成本需要的价格
	// -------------------------------------------------------------------------
	be, err := calc.BreakEven(pos, 24)
	if err != nil {
		log.Fatalf("Failed to compute break-even: %v", err)
	}

	fmt.Println()
	fmt.Println("============ BREAK-EVEN (hold 24h) ============")
	fmt.Printf("  Entry Price:      %12.2f\n", be.EntryPrice)
	fmt.Printf("  Break-Even Price: %12.2f\n", be.BreakEvenPrice)
	fmt.Printf("  Move Needed:      %+11.4f%% (%.2f USDT total cost)\n",
		be.MoveNeededPercent, be.TotalCostToRecover)

	// 6. 持仓快照: 现价 96200, 落库 + 生成风险信息
	// -------------------------------------------------------------------------
	record, snap, err := service.AnalyzePosition(ctx, 888, "BTCUSDT", pos, 96200, entryTime, now)
	if err != nil {
		log.Fatalf("Failed to analyze position: %v", err)
	}

	fmt.Println()
	fmt.Println("============ POSITION SNAPSHOT (current 96200) ============")
	fmt.Printf("  Record ID:        %d\n", record.ID)
	fmt.Printf("  Price Move:       %+.2f (%+.2f%%)\n", snap.PriceMove, snap.PriceMovePercent)
	fmt.Printf("  Unrealized PnL:   %+.4f USDT\n", snap.UnrealizedPnL)
	fmt.Printf("  Funding Accrued:  %.4f USDT over %.1fh\n", snap.FundingAccrued, snap.HoldHours)
	fmt.Printf("  Net PnL:          %+.4f USDT (ROI %+.2f%%)\n", snap.NetPnL, snap.ROIPercent)
	fmt.Printf("  Liquidation:      %.2f (distance %.2f, %.2f%%)\n",
		snap.LiquidationPrice, snap.DistanceToLiquidation, snap.DistanceToLiqPercent)

	// 7. 场景扫描: 默认网格 -5% ~ +10%
	// -------------------------------------------------------------------------
	scenarios, err := service.SweepScenarios(888, "BTCUSDT", pos, 24, nil)
	if err != nil {
		log.Fatalf("Failed to sweep scenarios: %v", err)
	}

	fmt.Println()
	fmt.Println("============ SCENARIO SWEEP (hold 24h) ============")
	fmt.Printf("  %-12s %-9s %-12s %-12s %-10s\n", "Exit", "Move", "Net PnL", "ROI", "Result")
	for _, sc := range scenarios {
		result := "LOSS"
		if sc.Profitable {
			result = "PROFIT"
		}
		fmt.Printf("  %-12.2f %+-8.2f%% %+-12.4f %+-11.2f%% %-10s\n",
			sc.ExitPrice, sc.PriceMovePercent, sc.NetPnL, sc.ROIPercent, result)
	}

	// 8. 强平预警: 强平价外侧 5% 设预警, 模拟价格下跌直到触发
	// -------------------------------------------------------------------------
	alertManager := alert.NewMemorySubscriptionManager()

	rule, err := alert.NewRuleFromSnapshot("sim-1", 888, "BTCUSDT", snap, 5, alert.AlertOnce)
	if err != nil {
		log.Fatalf("Failed to build alert rule: %v", err)
	}
	if err := alertManager.Subscribe(rule); err != nil {
		log.Fatalf("Failed to subscribe alert: %v", err)
	}
	log.Printf("[Alert] Armed: warn at %.2f (liq %.2f, direction %s)",
		rule.WarnPrice, rule.LiquidationPrice, rule.Direction)

	// 行情每跌 1% 查一次触发
	price := 96200.0
	for i := 0; i < 20; i++ {
		price *= 0.99

		triggered, err := alertManager.GetTriggeredAlerts("BTCUSDT", price)
		if err != nil {
			log.Fatalf("Failed to check alerts: %v", err)
		}
		if len(triggered) > 0 {
			log.Printf("[Alert] ⚡️ TRIGGERED at %.2f: user %d approaching liquidation (%.2f)",
				price, triggered[0].UserID, triggered[0].LiquidationPrice)
			break
		}
	}

	// 回看落库的分析记录
	records, _ := recordRepo.ListByUser(ctx, 888, 10)
	log.Printf("[Repo] %d analysis record(s) stored for user 888", len(records))

	log.Println("✅ Simulation finished")
}
