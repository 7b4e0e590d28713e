package strategy

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"StructureSentinel/internal/model"
)

func flatCandles(n int, price float64) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		out[i] = model.Candle{Timestamp: int64(i) * 60_000, Open: price, High: price, Low: price, Close: price}
	}
	return out
}

// risingCandles returns n candles where every low clears the previous high.
func risingCandles(n int) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		low := 100 + 10*float64(i)
		out[i] = model.Candle{Timestamp: int64(i) * 60_000, Open: low + 1, High: low + 5, Low: low, Close: low + 4}
	}
	return out
}

// waveCandles is a deterministic oscillating series with many pivots and zones.
func waveCandles(n int) []model.Candle {
	out := make([]model.Candle, n)
	prev := 100.0
	for i := range out {
		x := float64(i)
		c := 100 + 10*math.Sin(x/7) + 3*math.Sin(x/2.3) + 0.02*x
		out[i] = model.Candle{
			Timestamp: 1_700_000_000_000 + int64(i)*300_000,
			Open:      prev,
			High:      math.Max(prev, c) + 0.5,
			Low:       math.Min(prev, c) - 0.5,
			Close:     c,
			Volume:    1000 + x,
		}
		prev = c
	}
	return out
}

func mirrorCandles(candles []model.Candle) []model.Candle {
	out := make([]model.Candle, len(candles))
	for i, c := range candles {
		out[i] = model.Candle{
			Timestamp: c.Timestamp,
			Open:      1000 - c.Open,
			High:      1000 - c.Low,
			Low:       1000 - c.High,
			Close:     1000 - c.Close,
		}
	}
	return out
}

func mustAnalyze(t *testing.T, candles []model.Candle) *model.AnalysisResult {
	t.Helper()
	res, err := Analyze(candles)
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
	return res
}

func TestAnalyze_FlatMarket(t *testing.T) {
	res := mustAnalyze(t, flatCandles(60, 100))
	if len(res.OrderBlocks) != 0 {
		t.Errorf("expected 0 order blocks, got %d", len(res.OrderBlocks))
	}
	if len(res.FairValueGaps) != 0 {
		t.Errorf("expected 0 FVGs, got %d", len(res.FairValueGaps))
	}
	if res.MarketStructure.Trend != model.TrendRanging {
		t.Errorf("expected RANGING, got %s", res.MarketStructure.Trend)
	}
	if len(res.TradeSetups) != 0 || res.Confidence != 0 {
		t.Errorf("expected no setups and confidence 0, got %d setups, confidence %d", len(res.TradeSetups), res.Confidence)
	}
	if res.Sentiment != model.SentimentNeutral {
		t.Errorf("expected NEUTRAL, got %s", res.Sentiment)
	}
	if !contains(res.Risks, RiskNoSetups) || !contains(res.Risks, RiskRanging) {
		t.Errorf("expected no-setup and ranging risks, got %v", res.Risks)
	}
}

func TestAnalyze_RisingMarket(t *testing.T) {
	res := mustAnalyze(t, risingCandles(60))
	if len(res.FairValueGaps) != 15 {
		t.Fatalf("expected 15 FVGs, got %d", len(res.FairValueGaps))
	}
	for _, g := range res.FairValueGaps {
		if g.Kind != model.ZoneBullish {
			t.Errorf("expected only bullish gaps, got %s", g.Kind)
		}
	}
	if res.MarketStructure.Trend != model.TrendBullish {
		t.Errorf("expected BULLISH, got %s", res.MarketStructure.Trend)
	}
}

func TestAnalyze_OrderBlockReaction(t *testing.T) {
	candles := flatCandles(5, 110)
	candles = append(candles,
		model.Candle{Timestamp: 5 * 60_000, Open: 110, High: 110, Low: 100, Close: 100},
		model.Candle{Timestamp: 6 * 60_000, Open: 100, High: 130, Low: 100, Close: 130},
	)
	for i := 7; i < 12; i++ {
		candles = append(candles, model.Candle{Timestamp: int64(i) * 60_000, Open: 130, High: 130, Low: 130, Close: 130})
	}

	res := mustAnalyze(t, candles)
	if len(res.OrderBlocks) != 1 {
		t.Fatalf("expected exactly 1 order block, got %d", len(res.OrderBlocks))
	}
	ob := res.OrderBlocks[0]
	if ob.Kind != model.ZoneBullish || ob.Strength != 3.0 {
		t.Errorf("expected bullish block of strength 3.0, got %+v", ob)
	}
	if ob.Mitigated {
		t.Error("expected mitigation tracking to be off by default")
	}

	// A later revisit marks the block once tracking is enabled.
	candles = append(candles, model.Candle{Timestamp: 12 * 60_000, Open: 120, High: 121, Low: 108, Close: 112})
	p := DefaultParams()
	p.TrackMitigation = true
	eng, err := NewEngine(p)
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	tracked, err := eng.Analyze(candles)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if len(tracked.OrderBlocks) != 1 || !tracked.OrderBlocks[0].Mitigated {
		t.Errorf("expected the block to be mitigated, got %+v", tracked.OrderBlocks)
	}
}

func TestAnalyze_EqualHighsPool(t *testing.T) {
	var candles []model.Candle
	for i := 0; i < 20; i++ {
		low := 90 + 0.5*float64(i)
		candles = append(candles, model.Candle{Timestamp: int64(i) * 60_000, Open: low, High: 105, Low: low, Close: 104})
	}
	for i := 0; i < 5; i++ {
		low := 96 + float64(i)
		candles = append(candles, model.Candle{Timestamp: int64(20+i) * 60_000, Open: low, High: low + 4, Low: low, Close: low + 3})
	}

	res := mustAnalyze(t, candles)
	found := false
	for _, p := range res.LiquidityPools {
		if p.Kind == model.SellSide && p.Price == 105 && p.Strength == 20 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected sell-side pool at 105 with strength 20, got %+v", res.LiquidityPools)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	candles := waveCandles(300)
	for _, track := range []bool{false, true} {
		p := DefaultParams()
		p.TrackMitigation = track
		eng, err := NewEngine(p)
		if err != nil {
			t.Fatal(err)
		}
		a, _ := eng.Analyze(candles)
		b, _ := eng.Analyze(candles)
		ja, _ := json.Marshal(a)
		jb, _ := json.Marshal(b)
		if !bytes.Equal(ja, jb) {
			t.Errorf("track=%v: expected byte-identical results", track)
		}
	}
}

func TestAnalyze_TruncationAndBounds(t *testing.T) {
	for _, n := range []int{1, 11, 60, 500, 2000} {
		res := mustAnalyze(t, waveCandles(n))
		if len(res.OrderBlocks) > 10 {
			t.Errorf("n=%d: %d order blocks", n, len(res.OrderBlocks))
		}
		if len(res.FairValueGaps) > 15 {
			t.Errorf("n=%d: %d FVGs", n, len(res.FairValueGaps))
		}
		if len(res.LiquidityPools) > 10 {
			t.Errorf("n=%d: %d liquidity pools", n, len(res.LiquidityPools))
		}
		if len(res.SupportLevels) > 5 || len(res.ResistanceLevels) > 5 {
			t.Errorf("n=%d: %d support / %d resistance", n, len(res.SupportLevels), len(res.ResistanceLevels))
		}
		if res.Confidence < 0 || res.Confidence > 100 {
			t.Errorf("n=%d: confidence %d out of range", n, res.Confidence)
		}
		if (res.Confidence == 0) != (len(res.TradeSetups) == 0) {
			t.Errorf("n=%d: confidence %d with %d setups", n, res.Confidence, len(res.TradeSetups))
		}
	}
}

func TestAnalyze_ShortInput(t *testing.T) {
	res := mustAnalyze(t, waveCandles(10))
	ms := res.MarketStructure
	if ms.Trend != model.TrendRanging || ms.BrokeStructure || ms.ChangedCharacter {
		t.Errorf("expected RANGING/false/false, got %+v", ms)
	}
	if len(res.SupportLevels) != 0 || len(res.ResistanceLevels) != 0 {
		t.Errorf("expected no swing levels, got %v / %v", res.SupportLevels, res.ResistanceLevels)
	}
}

func TestAnalyze_MirrorFlipsTrend(t *testing.T) {
	up := risingCandles(60)
	down := mirrorCandles(up)
	if got := mustAnalyze(t, down).MarketStructure.Trend; got != model.TrendBearish {
		t.Errorf("expected mirrored rise to be BEARISH, got %s", got)
	}
	for _, g := range mustAnalyze(t, down).FairValueGaps {
		if g.Kind != model.ZoneBearish {
			t.Fatalf("expected mirrored gaps to be bearish, got %s", g.Kind)
		}
	}
}

func TestAnalyze_EmptyCollectionsSerializeAsArrays(t *testing.T) {
	res := mustAnalyze(t, flatCandles(3, 100))
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"orderBlocks":[]`, `"fairValueGaps":[]`, `"tradeSetups":[]`, `"supportLevels":[]`, `"opportunities":[]`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("expected %s in %s", key, raw)
		}
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		candles []model.Candle
	}{
		{"empty", nil},
		{"NaN price", []model.Candle{{Timestamp: 1, Open: math.NaN(), High: 1, Low: 1, Close: 1}}},
		{"negative price", []model.Candle{{Timestamp: 1, Open: -1, High: 1, Low: -1, Close: 1}}},
		{"unordered", []model.Candle{
			{Timestamp: 2, Open: 1, High: 1, Low: 1, Close: 1},
			{Timestamp: 1, Open: 1, High: 1, Low: 1, Close: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(tt.candles)
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if res != nil {
				t.Error("expected no partial result")
			}
		})
	}
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	if p.SwingLookback != 5 || p.EdgeBuffer != 5 || p.OrderBlockMinStrength != 1.5 ||
		p.MaxOrderBlocks != 10 || p.MaxFairValueGaps != 15 || p.LiquidityWindow != 20 ||
		p.LiquidityTolerance != 0.001 || p.LiquidityMinTouches != 3 || p.PoolDedupTolerance != 0.002 ||
		p.MaxLiquidityPools != 10 || p.MaxLevels != 5 || p.SupportProximity != 0.005 || p.TrackMitigation {
		t.Errorf("unexpected defaults %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	bad := p
	bad.LiquidityTolerance = 2
	if _, err := NewEngine(bad); err == nil {
		t.Error("expected out-of-range tolerance to be rejected")
	}

	partial := Params{SwingLookback: 3}
	if err := partial.ApplyDefaults(); err != nil {
		t.Fatal(err)
	}
	if partial.SwingLookback != 3 || partial.MaxFairValueGaps != 15 {
		t.Errorf("expected explicit value kept and zeros defaulted, got %+v", partial)
	}
	if partial.Fingerprint() == p.Fingerprint() {
		t.Error("expected different params to fingerprint differently")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
