package model

// Direction is the side of a trade setup.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Sentiment is the overall read of an analysis.
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// TradeSetup is a ranked trade idea produced by a confluence rule.
type TradeSetup struct {
	ID              string    `json:"id"`
	Direction       Direction `json:"direction"`
	Technique       string    `json:"technique"`
	Entry           float64   `json:"entry"`
	StopLoss        float64   `json:"stopLoss"`
	TakeProfit1     float64   `json:"takeProfit1"`
	TakeProfit2     float64   `json:"takeProfit2"`
	TakeProfit3     float64   `json:"takeProfit3"`
	RiskRewardRatio float64   `json:"riskRewardRatio"`
	Confidence      int       `json:"confidence"`
	Reasoning       string    `json:"reasoning"`
	Timestamp       int64     `json:"timestamp"`
}

// AnalysisResult is the full output of one engine pass.
type AnalysisResult struct {
	MarketStructure  MarketStructure `json:"marketStructure"`
	OrderBlocks      []OrderBlock    `json:"orderBlocks"`
	FairValueGaps    []FairValueGap  `json:"fairValueGaps"`
	LiquidityPools   []LiquidityPool `json:"liquidityPools"`
	TradeSetups      []TradeSetup    `json:"tradeSetups"`
	SupportLevels    []float64       `json:"supportLevels"`
	ResistanceLevels []float64       `json:"resistanceLevels"`
	Sentiment        Sentiment       `json:"sentiment"`
	Confidence       int             `json:"confidence"`
	Summary          string          `json:"summary"`
	Risks            []string        `json:"risks"`
	Opportunities    []string        `json:"opportunities"`
}
