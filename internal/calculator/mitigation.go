package calculator

import "StructureSentinel/internal/model"

// MarkMitigated flags order blocks that price has returned to after the reaction
// candle: a later low at or below a bullish block's high, or a later high at or
// above a bearish block's low. The input is not modified.
func MarkMitigated(candles []model.Candle, blocks []model.OrderBlock) []model.OrderBlock {
	out := make([]model.OrderBlock, len(blocks))
	copy(out, blocks)
	for k := range out {
		ob := &out[k]
		for j := ob.Index + 2; j < len(candles); j++ {
			if ob.Kind == model.ZoneBullish && candles[j].Low <= ob.High ||
				ob.Kind == model.ZoneBearish && candles[j].High >= ob.Low {
				ob.Mitigated = true
				break
			}
		}
	}
	return out
}

// MarkFilled flags gaps that a later candle has traded through: a low reaching a
// bullish gap's lower bound, or a high reaching a bearish gap's upper bound.
func MarkFilled(candles []model.Candle, gaps []model.FairValueGap) []model.FairValueGap {
	out := make([]model.FairValueGap, len(gaps))
	copy(out, gaps)
	for k := range out {
		g := &out[k]
		for j := g.Index + 1; j < len(candles); j++ {
			if g.Kind == model.ZoneBullish && candles[j].Low <= g.Lower ||
				g.Kind == model.ZoneBearish && candles[j].High >= g.Upper {
				g.Filled = true
				break
			}
		}
	}
	return out
}

// MarkSwept flags pools that price has run through after their window closed.
func MarkSwept(candles []model.Candle, pools []model.LiquidityPool) []model.LiquidityPool {
	out := make([]model.LiquidityPool, len(pools))
	copy(out, pools)
	for k := range out {
		p := &out[k]
		for j := p.Index + 1; j < len(candles); j++ {
			if p.Kind == model.SellSide && candles[j].High > p.Price ||
				p.Kind == model.BuySide && candles[j].Low < p.Price {
				p.Swept = true
				break
			}
		}
	}
	return out
}
