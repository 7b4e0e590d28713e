package strategy

import (
	"fmt"
	"math"
	"strings"

	"StructureSentinel/internal/model"
)

// Risk and opportunity notes attached to an analysis.
const (
	RiskChangeOfCharacter = "Change of character detected: the prevailing trend may be reversing"
	RiskNoSetups          = "No confluence setups at the current price"
	RiskRanging           = "Ranging market: breakouts are prone to failure"

	OpportunityTrendContinuation = "Break of structure confirms trend continuation"
	OpportunityHighRiskReward    = "Setup available with risk/reward above 1:2"
	OpportunityHighConfidence    = "High-confidence setup available"
)

// Sentiment reads the trend together with the setup directions.
func Sentiment(ms model.MarketStructure, setups []model.TradeSetup) model.Sentiment {
	buys, sells := 0, 0
	for _, s := range setups {
		switch s.Direction {
		case model.DirectionBuy:
			buys++
		case model.DirectionSell:
			sells++
		}
	}
	switch {
	case ms.Trend == model.TrendBullish && buys > sells:
		return model.SentimentBullish
	case ms.Trend == model.TrendBearish && sells > buys:
		return model.SentimentBearish
	default:
		return model.SentimentNeutral
	}
}

// Confidence is the rounded mean setup confidence, 0 without setups.
func Confidence(setups []model.TradeSetup) int {
	if len(setups) == 0 {
		return 0
	}
	sum := 0
	for _, s := range setups {
		sum += s.Confidence
	}
	c := int(math.Round(float64(sum) / float64(len(setups))))
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// Summary renders the one-paragraph narrative.
func Summary(ms model.MarketStructure, sentiment model.Sentiment, setups int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Market structure is %s.", strings.ToLower(string(ms.Trend)))
	if ms.BrokeStructure {
		sb.WriteString(" A break of structure confirms the current leg.")
	}
	if ms.ChangedCharacter {
		sb.WriteString(" A change of character warns of a possible reversal.")
	}
	fmt.Fprintf(&sb, " Overall sentiment is %s with %d trade setup", strings.ToLower(string(sentiment)), setups)
	if setups != 1 {
		sb.WriteString("s")
	}
	sb.WriteString(" identified.")
	return sb.String()
}

// Risks lists the cautionary notes.
func Risks(ms model.MarketStructure, setups []model.TradeSetup) []string {
	risks := make([]string, 0, 3)
	if ms.ChangedCharacter {
		risks = append(risks, RiskChangeOfCharacter)
	}
	if len(setups) == 0 {
		risks = append(risks, RiskNoSetups)
	}
	if ms.Trend == model.TrendRanging {
		risks = append(risks, RiskRanging)
	}
	return risks
}

// Opportunities lists the favourable notes.
func Opportunities(ms model.MarketStructure, setups []model.TradeSetup) []string {
	opps := make([]string, 0, 3)
	if ms.BrokeStructure && len(setups) > 0 {
		opps = append(opps, OpportunityTrendContinuation)
	}
	for _, s := range setups {
		if s.RiskRewardRatio > 2 {
			opps = append(opps, OpportunityHighRiskReward)
			break
		}
	}
	for _, s := range setups {
		if s.Confidence > 80 {
			opps = append(opps, OpportunityHighConfidence)
			break
		}
	}
	return opps
}
