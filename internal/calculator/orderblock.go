package calculator

import (
	"math"

	"StructureSentinel/internal/model"
)

// DetectOrderBlocks scans candles in [edgeBuffer, n-edgeBuffer) for a candle that
// is followed by an opposite candle whose body is more than minStrength times its
// own. A down candle followed by a strong up candle is a bullish block; the
// mirror is bearish. Only the most recent max blocks are kept.
func DetectOrderBlocks(candles []model.Candle, edgeBuffer int, minStrength float64, max int) []model.OrderBlock {
	blocks := make([]model.OrderBlock, 0)
	n := len(candles)
	if edgeBuffer < 0 {
		edgeBuffer = 0
	}

	for i := edgeBuffer; i < n-edgeBuffer && i+1 < n; i++ {
		cur, next := candles[i], candles[i+1]

		var kind model.ZoneKind
		switch {
		case cur.IsBearish() && next.IsBullish():
			kind = model.ZoneBullish
		case cur.IsBullish() && next.IsBearish():
			kind = model.ZoneBearish
		default:
			continue
		}

		strength := math.Abs(next.Body()) / math.Abs(cur.Body())
		if strength <= minStrength {
			continue
		}
		blocks = append(blocks, model.OrderBlock{
			ID:        model.StableID("order-block", kind, i, cur.Timestamp),
			Kind:      kind,
			High:      cur.High,
			Low:       cur.Low,
			Timestamp: cur.Timestamp,
			Strength:  strength,
			Index:     i,
		})
	}
	return keepLast(blocks, max)
}
