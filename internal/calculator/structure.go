package calculator

import "StructureSentinel/internal/model"

// ClassifyStructure derives trend, break of structure and change of character
// from the detected swings. Missing history degrades to Ranging/false/false.
//
// With fewer than two swings of either kind the trend is Ranging. The exception is
// a series with no swings at all, where the trend is read from the last
// 2*lookback+1 candles: every candle making a strictly higher high and higher low
// is Bullish, the mirror is Bearish.
func ClassifyStructure(candles []model.Candle, swings []model.SwingPoint, lookback int) model.MarketStructure {
	ms := model.MarketStructure{Trend: model.TrendRanging}
	if len(candles) == 0 {
		return ms
	}

	last := candles[len(candles)-1]
	ms.LastSwingHigh = last.High
	ms.LastSwingLow = last.Low

	highs := lastOfKind(swings, model.SwingHigh, 2)
	lows := lastOfKind(swings, model.SwingLow, 2)
	if len(highs) > 0 {
		ms.LastSwingHigh = highs[len(highs)-1].Price
	}
	if len(lows) > 0 {
		ms.LastSwingLow = lows[len(lows)-1].Price
	}

	if len(highs) == 2 && len(lows) == 2 {
		higherHighs := highs[1].Price > highs[0].Price
		higherLows := lows[1].Price > lows[0].Price
		lowerHighs := highs[1].Price < highs[0].Price
		lowerLows := lows[1].Price < lows[0].Price
		switch {
		case higherHighs && higherLows:
			ms.Trend = model.TrendBullish
		case lowerHighs && lowerLows:
			ms.Trend = model.TrendBearish
		}
	} else if len(swings) == 0 {
		ms.Trend = stairTrend(candles, lookback)
	}

	ms.BrokeStructure = brokeStructure(swings)
	ms.ChangedCharacter = changedCharacter(swings)
	return ms
}

func brokeStructure(swings []model.SwingPoint) bool {
	if len(swings) < 2 {
		return false
	}
	a, b := swings[len(swings)-2], swings[len(swings)-1]
	if a.Kind != b.Kind {
		return false
	}
	if b.Kind == model.SwingHigh {
		return b.Price > a.Price
	}
	return b.Price < a.Price
}

func changedCharacter(swings []model.SwingPoint) bool {
	if len(swings) < 3 {
		return false
	}
	a, b, c := swings[len(swings)-3], swings[len(swings)-2], swings[len(swings)-1]
	if a.Kind != c.Kind || a.Kind == b.Kind {
		return false
	}
	if a.Kind == model.SwingHigh {
		return c.Price < a.Price
	}
	return c.Price > a.Price
}

// stairTrend reports a strictly stepping trend over the trailing 2*lookback+1 candles.
func stairTrend(candles []model.Candle, lookback int) model.Trend {
	span := 2*lookback + 1
	n := len(candles)
	if lookback <= 0 || n < span {
		return model.TrendRanging
	}

	rising, falling := true, true
	for i := n - span + 1; i < n; i++ {
		prev, cur := candles[i-1], candles[i]
		if !(cur.High > prev.High && cur.Low > prev.Low) {
			rising = false
		}
		if !(cur.High < prev.High && cur.Low < prev.Low) {
			falling = false
		}
	}
	switch {
	case rising:
		return model.TrendBullish
	case falling:
		return model.TrendBearish
	default:
		return model.TrendRanging
	}
}
