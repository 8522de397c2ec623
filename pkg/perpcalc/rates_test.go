package perpcalc

import (
	"errors"
	"math"
	"testing"
)

func TestDailyRate(t *testing.T) {
	e := NewRateEstimator()

	// 基准费率 × 波动率乘数
	cases := []struct {
		exchange Exchange
		vol      VolatilityLevel
		want     float64
	}{
		{ExchangeBinance, VolatilityMedium, 0.0001},
		{ExchangeBinance, VolatilityLow, 0.00005},
		{ExchangeBybit, VolatilityMedium, 0.00005},
		{ExchangeDYDX, VolatilityHigh, 0.000225},
		{ExchangeHyperliquid, VolatilityExtreme, 0.0005},
		{ExchangeOKX, VolatilityLow, 0.00005},
	}

	for _, c := range cases {
		got, err := e.DailyRate(c.exchange, c.vol)
		if err != nil {
			t.Fatalf("DailyRate(%s, %s): %v", c.exchange, c.vol, err)
		}
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("DailyRate(%s, %s) = %v, want %v", c.exchange, c.vol, got, c.want)
		}
	}
}

func TestDailyRateUnknownTier(t *testing.T) {
	e := NewRateEstimator()

	// 未知交易所: 报错而不是回退到 binance
	t.Run("Unknown Exchange", func(t *testing.T) {
		_, err := e.DailyRate("ftx", VolatilityMedium)
		if !errors.Is(err, ErrUnknownRateTier) {
			t.Errorf("expected ErrUnknownRateTier, got %v", err)
		}
	})

	// 未知档位: 报错而不是回退到 medium
	t.Run("Unknown Volatility", func(t *testing.T) {
		_, err := e.DailyRate(ExchangeBinance, "insane")
		if !errors.Is(err, ErrUnknownRateTier) {
			t.Errorf("expected ErrUnknownRateTier, got %v", err)
		}
	})
}

func TestParseExchange(t *testing.T) {
	for _, name := range []string{"binance", "bybit", "okx", "dydx", "hyperliquid"} {
		ex, err := ParseExchange(name)
		if err != nil {
			t.Errorf("ParseExchange(%q): %v", name, err)
		}
		if string(ex) != name {
			t.Errorf("ParseExchange(%q) = %q", name, ex)
		}
	}

	if _, err := ParseExchange("BINANCE"); !errors.Is(err, ErrUnknownRateTier) {
		t.Error("exchange names are lowercase, expected ErrUnknownRateTier")
	}
}

func TestParseVolatilityLevel(t *testing.T) {
	for _, name := range []string{"low", "medium", "high", "extreme"} {
		if _, err := ParseVolatilityLevel(name); err != nil {
			t.Errorf("ParseVolatilityLevel(%q): %v", name, err)
		}
	}

	if _, err := ParseVolatilityLevel("moderate"); !errors.Is(err, ErrUnknownRateTier) {
		t.Error("expected ErrUnknownRateTier for unknown level")
	}
}
