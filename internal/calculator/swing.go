package calculator

import "StructureSentinel/internal/model"

// DefaultSwingLookback is the number of candles required on each side of a pivot.
const DefaultSwingLookback = 5

// DetectSwings finds pivot highs and lows. Candle i is a swing high when its high
// is strictly greater than every other high in [i-lookback, i+lookback]; swing
// lows use the strict mirror rule. Plateaus of equal extremes produce nothing.
// Inputs with n <= 2*lookback return an empty slice.
func DetectSwings(candles []model.Candle, lookback int) []model.SwingPoint {
	swings := make([]model.SwingPoint, 0)
	n := len(candles)
	if lookback <= 0 || n <= 2*lookback {
		return swings
	}

	for i := lookback; i < n-lookback; i++ {
		isHigh, isLow := true, true
		for j := i - lookback; j <= i+lookback; j++ {
			if j == i {
				continue
			}
			if candles[j].High >= candles[i].High {
				isHigh = false
			}
			if candles[j].Low <= candles[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		// An outside bar can be both; the high is recorded first.
		if isHigh {
			swings = append(swings, model.SwingPoint{Kind: model.SwingHigh, Price: candles[i].High, Index: i})
		}
		if isLow {
			swings = append(swings, model.SwingPoint{Kind: model.SwingLow, Price: candles[i].Low, Index: i})
		}
	}
	return swings
}

// lastOfKind returns up to max most recent swings of the given kind, oldest first.
func lastOfKind(swings []model.SwingPoint, kind model.SwingKind, max int) []model.SwingPoint {
	out := make([]model.SwingPoint, 0, max)
	for i := len(swings) - 1; i >= 0 && len(out) < max; i-- {
		if swings[i].Kind == kind {
			out = append(out, swings[i])
		}
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}
