package calculator

import "StructureSentinel/internal/model"

// PoolOptions holds the thresholds for DetectLiquidityPools.
type PoolOptions struct {
	Window         int     // candles per rolling window
	Tolerance      float64 // relative distance from the extreme that counts as a touch
	MinTouches     int     // touches required to emit a pool
	DedupTolerance float64
	Max            int
}

// DetectLiquidityPools slides a window over the candles. For each window ending at
// index i it counts the highs within Tolerance of the window's maximum high, and
// the lows within Tolerance of its minimum low. MinTouches or more emits a
// sell-side (highs) or buy-side (lows) pool with Strength equal to the count.
// A pool within DedupTolerance of an earlier kept pool is dropped whatever its
// side, then the most recent Max are kept.
func DetectLiquidityPools(candles []model.Candle, opts PoolOptions) []model.LiquidityPool {
	pools := make([]model.LiquidityPool, 0)
	if opts.Window <= 0 {
		return pools
	}

	for i := opts.Window - 1; i < len(candles); i++ {
		start := i - opts.Window + 1
		maxHigh, minLow := WindowRange(candles, start, i+1)

		highTouches, lowTouches := 0, 0
		for j := start; j <= i; j++ {
			if withinTolerance(candles[j].High, maxHigh, opts.Tolerance) {
				highTouches++
			}
			if withinTolerance(candles[j].Low, minLow, opts.Tolerance) {
				lowTouches++
			}
		}

		if highTouches >= opts.MinTouches {
			pools = append(pools, model.LiquidityPool{
				ID:       model.StableID("liquidity", model.SellSide, i, maxHigh),
				Kind:     model.SellSide,
				Price:    maxHigh,
				Strength: highTouches,
				Index:    i,
			})
		}
		if lowTouches >= opts.MinTouches {
			pools = append(pools, model.LiquidityPool{
				ID:       model.StableID("liquidity", model.BuySide, i, minLow),
				Kind:     model.BuySide,
				Price:    minLow,
				Strength: lowTouches,
				Index:    i,
			})
		}
	}

	return keepLast(dedupPools(pools, opts.DedupTolerance), opts.Max)
}

// dedupPools drops any pool within tol of an earlier kept pool, whatever its side.
func dedupPools(pools []model.LiquidityPool, tol float64) []model.LiquidityPool {
	out := make([]model.LiquidityPool, 0, len(pools))
	for _, p := range pools {
		dup := false
		for _, kept := range out {
			if withinTolerance(p.Price, kept.Price, tol) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}
