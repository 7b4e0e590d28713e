package strategy

import (
	"fmt"

	"StructureSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// Rule holds the fixed price multipliers and confidence of one confluence rule.
type Rule struct {
	Technique  string
	Confidence int
	Entry      float64   // multiplier on the anchor price
	Stop       float64   // multiplier on the stop anchor
	Targets    []float64 // multipliers on entry, nearest first
}

// Rules are the three BUY-only confluence rules.
var (
	OrderBlockFVG = Rule{
		Technique:  "Order Block + FVG Confluence",
		Confidence: 85,
		Entry:      1,
		Stop:       0.998,
		Targets:    []float64{1.015, 1.03, 1.05},
	}
	LiquiditySweepBOS = Rule{
		Technique:  "Liquidity Sweep + BOS",
		Confidence: 78,
		Entry:      1.002,
		Stop:       0.995,
		Targets:    []float64{1.02, 1.04},
	}
	SupportBounce = Rule{
		Technique:  "Support Bounce",
		Confidence: 72,
		Entry:      1.002,
		Stop:       0.995,
		Targets:    []float64{1.015, 1.03},
	}
)

// supportBounceFallbackTarget is applied to entry when no resistance lies above it.
const supportBounceFallbackTarget = 1.05

// Snapshot is the detector output the setup rules read.
type Snapshot struct {
	Structure      model.MarketStructure
	OrderBlocks    []model.OrderBlock
	FairValueGaps  []model.FairValueGap
	LiquidityPools []model.LiquidityPool
	Support        []float64
	Resistance     []float64
	CurrentPrice   float64
	Timestamp      int64
}

// GenerateSetups evaluates each confluence rule independently; a snapshot can
// trigger none, some or all of them. proximity is the maximum relative distance
// above the latest support that still counts as a bounce.
func GenerateSetups(s Snapshot, proximity float64) []model.TradeSetup {
	setups := make([]model.TradeSetup, 0, 3)
	if setup, ok := orderBlockFVGSetup(s); ok {
		setups = append(setups, setup)
	}
	if setup, ok := liquiditySweepSetup(s); ok {
		setups = append(setups, setup)
	}
	if setup, ok := supportBounceSetup(s, proximity); ok {
		setups = append(setups, setup)
	}
	return setups
}

func orderBlockFVGSetup(s Snapshot) (model.TradeSetup, bool) {
	if s.Structure.Trend != model.TrendBullish {
		return model.TradeSetup{}, false
	}
	ob, ok := latestBullishBlock(s.OrderBlocks)
	if !ok {
		return model.TradeSetup{}, false
	}
	gap, ok := latestBullishGap(s.FairValueGaps)
	if !ok {
		return model.TradeSetup{}, false
	}

	r := OrderBlockFVG
	entry := (ob.High + ob.Low) / 2 * r.Entry
	setup := newSetup(r, s.Timestamp, entry, ob.Low*r.Stop,
		entry*r.Targets[0], entry*r.Targets[1], entry*r.Targets[2])
	setup.Reasoning = fmt.Sprintf(
		"Bullish order block at %s-%s (strength %s) aligns with an unfilled bullish fair value gap at %s-%s in a bullish trend",
		price(ob.Low), price(ob.High), decimal.NewFromFloat(ob.Strength).StringFixed(2),
		price(gap.Lower), price(gap.Upper))
	return setup, true
}

func liquiditySweepSetup(s Snapshot) (model.TradeSetup, bool) {
	if s.Structure.Trend != model.TrendBullish || !s.Structure.BrokeStructure {
		return model.TradeSetup{}, false
	}
	pool, ok := latestBuySidePool(s.LiquidityPools)
	if !ok {
		return model.TradeSetup{}, false
	}

	r := LiquiditySweepBOS
	entry := pool.Price * r.Entry
	setup := newSetup(r, s.Timestamp, entry, pool.Price*r.Stop,
		entry*r.Targets[0], entry*r.Targets[1], s.Structure.LastSwingHigh)
	setup.Reasoning = fmt.Sprintf(
		"Buy-side liquidity resting at %s (%d touches) with a confirmed break of structure; targeting the swing high at %s",
		price(pool.Price), pool.Strength, price(s.Structure.LastSwingHigh))
	return setup, true
}

func supportBounceSetup(s Snapshot, proximity float64) (model.TradeSetup, bool) {
	if len(s.Support) == 0 {
		return model.TradeSetup{}, false
	}
	support := s.Support[len(s.Support)-1]
	if support <= 0 || s.CurrentPrice < support || (s.CurrentPrice-support)/support > proximity {
		return model.TradeSetup{}, false
	}

	r := SupportBounce
	entry := support * r.Entry
	tp3, ok := nearestAbove(s.Resistance, entry)
	if !ok {
		tp3 = entry * supportBounceFallbackTarget
	}
	setup := newSetup(r, s.Timestamp, entry, support*r.Stop,
		entry*r.Targets[0], entry*r.Targets[1], tp3)
	setup.Reasoning = fmt.Sprintf(
		"Price %s is holding within %s%% above support at %s",
		price(s.CurrentPrice), decimal.NewFromFloat(proximity*100).StringFixed(1), price(support))
	return setup, true
}

func newSetup(r Rule, ts int64, entry, stop, tp1, tp2, tp3 float64) model.TradeSetup {
	return model.TradeSetup{
		ID:              model.StableID("setup", r.Technique, ts, entry),
		Direction:       model.DirectionBuy,
		Technique:       r.Technique,
		Entry:           entry,
		StopLoss:        stop,
		TakeProfit1:     tp1,
		TakeProfit2:     tp2,
		TakeProfit3:     tp3,
		RiskRewardRatio: riskReward(entry, stop, tp2),
		Confidence:      r.Confidence,
		Timestamp:       ts,
	}
}

// riskReward is (tp2 - entry) / (entry - stop), or 0 when there is no risk.
func riskReward(entry, stop, tp2 float64) float64 {
	risk := entry - stop
	if risk <= 0 {
		return 0
	}
	return (tp2 - entry) / risk
}

func latestBullishBlock(blocks []model.OrderBlock) (model.OrderBlock, bool) {
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Kind == model.ZoneBullish && !blocks[i].Mitigated {
			return blocks[i], true
		}
	}
	return model.OrderBlock{}, false
}

func latestBullishGap(gaps []model.FairValueGap) (model.FairValueGap, bool) {
	for i := len(gaps) - 1; i >= 0; i-- {
		if gaps[i].Kind == model.ZoneBullish && !gaps[i].Filled {
			return gaps[i], true
		}
	}
	return model.FairValueGap{}, false
}

func latestBuySidePool(pools []model.LiquidityPool) (model.LiquidityPool, bool) {
	for i := len(pools) - 1; i >= 0; i-- {
		if pools[i].Kind == model.BuySide && !pools[i].Swept {
			return pools[i], true
		}
	}
	return model.LiquidityPool{}, false
}

// nearestAbove returns the lowest level strictly above ref.
func nearestAbove(levels []float64, ref float64) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l > ref && (!found || l < best) {
			best, found = l, true
		}
	}
	return best, found
}

func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
