package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"StructureSentinel/internal/cache"
	"StructureSentinel/internal/metrics"
	"StructureSentinel/internal/model"
	"StructureSentinel/internal/strategy"

	"github.com/prometheus/client_golang/prometheus"
)

func testCandles(n int) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		low := 100 + 10*float64(i)
		out[i] = model.Candle{Timestamp: int64(i) * 60_000, Open: low + 1, High: low + 5, Low: low, Close: low + 4}
	}
	return out
}

func newTestAnalyzer(t *testing.T, c cache.BytesCache, workers int) *Analyzer {
	t.Helper()
	eng, err := strategy.NewEngine(strategy.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	return NewAnalyzer(eng, Options{
		Cache:   c,
		TTL:     time.Minute,
		Metrics: metrics.New(prometheus.NewRegistry()),
		Workers: workers,
	})
}

type failingCache struct{}

func (failingCache) GetBytes(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingCache) SetBytes(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestAnalyze_CachesResults(t *testing.T) {
	ctx := context.Background()
	a := newTestAnalyzer(t, cache.NewTTLCache(100), 1)
	candles := testCandles(60)

	first, err := a.Analyze(ctx, "BTCUSDT", candles)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := a.Analyze(ctx, "BTCUSDT", candles)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	j1, _ := json.Marshal(first)
	j2, _ := json.Marshal(second)
	if !bytes.Equal(j1, j2) {
		t.Error("expected cached result to serialize identically")
	}

	st := a.Stats()
	if st.Analyses != 2 || st.CacheHits != 1 || st.CacheMisses != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	a := newTestAnalyzer(t, nil, 1)
	_, err := a.Analyze(context.Background(), "X", nil)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if st := a.Stats(); st.Invalid != 1 || st.Analyses != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestAnalyze_CacheFailureFallsThrough(t *testing.T) {
	a := newTestAnalyzer(t, failingCache{}, 1)
	res, err := a.Analyze(context.Background(), "ETHUSDT", testCandles(30))
	if err != nil {
		t.Fatalf("expected cache errors to be tolerated, got %v", err)
	}
	if res.MarketStructure.Trend != model.TrendBullish {
		t.Errorf("expected BULLISH, got %s", res.MarketStructure.Trend)
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	a := newTestAnalyzer(t, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Analyze(ctx, "X", testCandles(5)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	a := newTestAnalyzer(t, cache.NewTTLCache(100), 2)

	series := []Series{
		{Symbol: "A", Candles: testCandles(60)},
		{Symbol: "B", Candles: nil},
		{Symbol: "C", Candles: testCandles(20)},
	}
	for i := 0; i < 5; i++ {
		series = append(series, Series{Symbol: fmt.Sprintf("S%d", i), Candles: testCandles(15 + i)})
	}

	items, err := a.AnalyzeBatch(context.Background(), series)
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}
	if len(items) != len(series) {
		t.Fatalf("expected %d items, got %d", len(series), len(items))
	}
	for i, it := range items {
		if it.Symbol != series[i].Symbol {
			t.Errorf("item %d: expected symbol %s, got %s", i, series[i].Symbol, it.Symbol)
		}
	}
	if items[1].Error == "" || items[1].Result != nil {
		t.Errorf("expected inline error for empty series, got %+v", items[1])
	}
	if items[0].Result == nil || items[0].Error != "" {
		t.Errorf("expected result for series A, got %+v", items[0])
	}
	if items[2].Result == nil {
		t.Error("expected result for series C")
	}
}

func TestAnalyzeBatch_Cancelled(t *testing.T) {
	a := newTestAnalyzer(t, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items, err := a.AnalyzeBatch(ctx, []Series{{Symbol: "A", Candles: testCandles(20)}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(items) != 1 || items[0].Error == "" {
		t.Errorf("expected the cancelled series to carry an error, got %+v", items)
	}
}

func TestCacheKey_DependsOnParams(t *testing.T) {
	candles := testCandles(10)
	a := newTestAnalyzer(t, nil, 1)

	p := strategy.DefaultParams()
	p.SwingLookback = 3
	eng, err := strategy.NewEngine(p)
	if err != nil {
		t.Fatal(err)
	}
	b := NewAnalyzer(eng, Options{})

	k1, _ := a.cacheKey(candles)
	k2, _ := b.cacheKey(candles)
	if k1 == k2 {
		t.Error("expected different params to produce different cache keys")
	}
	k3, _ := a.cacheKey(candles)
	if k1 != k3 {
		t.Error("expected the cache key to be stable")
	}
}
