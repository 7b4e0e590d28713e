package calculator

import "StructureSentinel/internal/model"

// DetectFairValueGaps scans consecutive (prev, cur, next) triples. A bullish gap
// exists when next.Low > prev.High and spans [prev.High, next.Low]; a bearish gap
// exists when next.High < prev.Low and spans [next.High, prev.Low].
func DetectFairValueGaps(candles []model.Candle, max int) []model.FairValueGap {
	gaps := make([]model.FairValueGap, 0)

	for i := 1; i+1 < len(candles); i++ {
		prev, next := candles[i-1], candles[i+1]

		switch {
		case next.Low > prev.High:
			gaps = append(gaps, model.FairValueGap{
				ID:        model.StableID("fvg", model.ZoneBullish, i, prev.Timestamp),
				Kind:      model.ZoneBullish,
				Upper:     next.Low,
				Lower:     prev.High,
				StartTime: prev.Timestamp,
				EndTime:   next.Timestamp,
				Index:     i + 1,
			})
		case next.High < prev.Low:
			gaps = append(gaps, model.FairValueGap{
				ID:        model.StableID("fvg", model.ZoneBearish, i, prev.Timestamp),
				Kind:      model.ZoneBearish,
				Upper:     prev.Low,
				Lower:     next.High,
				StartTime: prev.Timestamp,
				EndTime:   next.Timestamp,
				Index:     i + 1,
			})
		}
	}
	return keepLast(gaps, max)
}
