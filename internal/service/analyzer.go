package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"StructureSentinel/internal/cache"
	"StructureSentinel/internal/logger"
	"StructureSentinel/internal/metrics"
	"StructureSentinel/internal/model"
	"StructureSentinel/internal/strategy"
)

// Options wires the optional collaborators of an Analyzer.
type Options struct {
	Cache   cache.BytesCache // nil disables caching
	TTL     time.Duration
	Metrics *metrics.Recorder // nil disables metrics
	Logger  *logger.Logger    // nil discards logs
	Workers int               // batch concurrency, defaults to 1
}

// Analyzer runs the engine behind input validation, a result cache and metrics.
type Analyzer struct {
	engine  *strategy.Engine
	cache   cache.BytesCache
	ttl     time.Duration
	metrics *metrics.Recorder
	log     *logger.Logger
	workers int

	analyses    atomic.Uint64
	invalid     atomic.Uint64
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
	setups      atomic.Uint64
}

// Stats is a snapshot of the analyzer counters since start.
type Stats struct {
	Analyses    uint64
	Invalid     uint64
	CacheHits   uint64
	CacheMisses uint64
	Setups      uint64
}

// NewAnalyzer creates an Analyzer around engine.
func NewAnalyzer(engine *strategy.Engine, opts Options) *Analyzer {
	a := &Analyzer{
		engine:  engine,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		metrics: opts.Metrics,
		log:     opts.Logger,
		workers: opts.Workers,
	}
	if a.cache == nil {
		a.cache = cache.Nop{}
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	if a.workers <= 0 {
		a.workers = 1
	}
	return a
}

// Analyze validates candles and returns the analysis, serving repeated inputs
// from the cache. Validation failures wrap model.ErrInvalidInput.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, candles []model.Candle) (*model.AnalysisResult, error) {
	if err := model.ValidateCandles(candles); err != nil {
		a.invalid.Add(1)
		a.recordAnalysis(metrics.OutcomeInvalid)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := a.cacheKey(candles)
	if err != nil {
		a.recordAnalysis(metrics.OutcomeError)
		return nil, err
	}
	if res, ok := a.lookup(ctx, key); ok {
		a.analyses.Add(1)
		a.recordAnalysis(metrics.OutcomeOK)
		return res, nil
	}

	start := time.Now()
	res, err := a.engine.Analyze(candles)
	if err != nil {
		a.recordAnalysis(metrics.OutcomeError)
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	took := time.Since(start)

	a.analyses.Add(1)
	a.setups.Add(uint64(len(res.TradeSetups)))
	if a.metrics != nil {
		a.metrics.RecordDuration(took.Seconds())
		a.metrics.RecordAnalysis(metrics.OutcomeOK)
		for _, s := range res.TradeSetups {
			a.metrics.RecordSetup(s.Technique)
		}
	}
	a.store(ctx, key, res)

	a.log.Debug("analysis complete",
		logger.String("symbol", symbol),
		logger.Int("candles", len(candles)),
		logger.String("trend", string(res.MarketStructure.Trend)),
		logger.Bool("bos", res.MarketStructure.BrokeStructure),
		logger.Int("setups", len(res.TradeSetups)),
		logger.Duration("took_ms", took),
	)
	return res, nil
}

// Stats returns the current counters.
func (a *Analyzer) Stats() Stats {
	return Stats{
		Analyses:    a.analyses.Load(),
		Invalid:     a.invalid.Load(),
		CacheHits:   a.cacheHits.Load(),
		CacheMisses: a.cacheMisses.Load(),
		Setups:      a.setups.Load(),
	}
}

// Params returns the engine parameters in use.
func (a *Analyzer) Params() strategy.Params { return a.engine.Params() }

// cacheKey hashes the engine parameters together with the candle payload.
func (a *Analyzer) cacheKey(candles []model.Candle) (string, error) {
	payload, err := json.Marshal(candles)
	if err != nil {
		return "", fmt.Errorf("encode candles: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(a.engine.Params().Fingerprint()))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (a *Analyzer) lookup(ctx context.Context, key string) (*model.AnalysisResult, bool) {
	b, ok, err := a.cache.GetBytes(ctx, key)
	if err != nil {
		a.recordCache("error")
		a.log.Warn("cache lookup failed", logger.Error(err))
		return nil, false
	}
	if !ok {
		a.cacheMisses.Add(1)
		a.recordCache("miss")
		return nil, false
	}
	var res model.AnalysisResult
	if err := json.Unmarshal(b, &res); err != nil {
		a.recordCache("error")
		a.log.Warn("cached analysis is corrupt", logger.Error(err))
		return nil, false
	}
	a.cacheHits.Add(1)
	a.recordCache("hit")
	return &res, true
}

func (a *Analyzer) store(ctx context.Context, key string, res *model.AnalysisResult) {
	if _, nop := a.cache.(cache.Nop); nop {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		a.log.Warn("encode analysis for cache", logger.Error(err))
		return
	}
	if err := a.cache.SetBytes(ctx, key, b, a.ttl); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Warn("cache store failed", logger.Error(err))
	}
}

func (a *Analyzer) recordAnalysis(outcome string) {
	if a.metrics != nil {
		a.metrics.RecordAnalysis(outcome)
	}
}

func (a *Analyzer) recordCache(result string) {
	if a.metrics != nil {
		a.metrics.RecordCache(result)
	}
}
