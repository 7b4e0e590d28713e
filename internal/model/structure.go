package model

// SwingKind marks a pivot as a local high or low.
type SwingKind string

const (
	SwingHigh SwingKind = "HIGH"
	SwingLow  SwingKind = "LOW"
)

// SwingPoint is a local extremum confirmed by the candles on both sides.
type SwingPoint struct {
	Kind  SwingKind `json:"kind"`
	Price float64   `json:"price"`
	Index int       `json:"index"`
}

// Trend is the directional classification of market structure.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendRanging Trend = "RANGING"
)

// MarketStructure summarises trend, break of structure and change of character.
type MarketStructure struct {
	Trend            Trend   `json:"trend"`
	BrokeStructure   bool    `json:"brokeStructure"`
	ChangedCharacter bool    `json:"changedCharacter"`
	LastSwingHigh    float64 `json:"lastSwingHigh"`
	LastSwingLow     float64 `json:"lastSwingLow"`
}

// ZoneKind is the direction of an order block or fair value gap.
type ZoneKind string

const (
	ZoneBullish ZoneKind = "BULLISH"
	ZoneBearish ZoneKind = "BEARISH"
)

// OrderBlock is the candle preceding a disproportionately strong opposite move.
type OrderBlock struct {
	ID        string   `json:"id"`
	Kind      ZoneKind `json:"kind"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Timestamp int64    `json:"timestamp"`
	Strength  float64  `json:"strength"`
	Mitigated bool     `json:"mitigated"`

	// Index of the block candle in the analysed slice.
	Index int `json:"-"`
}

// FairValueGap is a three-candle imbalance between the first and third candle.
type FairValueGap struct {
	ID        string   `json:"id"`
	Kind      ZoneKind `json:"kind"`
	Upper     float64  `json:"upper"`
	Lower     float64  `json:"lower"`
	StartTime int64    `json:"startTime"`
	EndTime   int64    `json:"endTime"`
	Filled    bool     `json:"filled"`

	// Index of the third candle of the triple.
	Index int `json:"-"`
}

// PoolKind is the side of resting liquidity.
type PoolKind string

const (
	BuySide  PoolKind = "BUY_SIDE"
	SellSide PoolKind = "SELL_SIDE"
)

// LiquidityPool is a price level touched by several near-equal highs or lows.
type LiquidityPool struct {
	ID       string   `json:"id"`
	Kind     PoolKind `json:"kind"`
	Price    float64  `json:"price"`
	Strength int      `json:"strength"`
	Swept    bool     `json:"swept"`

	// Index of the last candle of the window the pool was found in.
	Index int `json:"-"`
}
