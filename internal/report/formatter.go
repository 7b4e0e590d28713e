package report

import (
	"fmt"
	"strings"
	"time"

	"StructureSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// FormatAnalysis renders an analysis as a plain-text report. The output depends
// only on its arguments.
func FormatAnalysis(symbol string, res *model.AnalysisResult) string {
	var b strings.Builder

	if symbol == "" {
		symbol = "UNKNOWN"
	}
	b.WriteString(fmt.Sprintf("== %s structure report ==\n", symbol))
	b.WriteString(fmt.Sprintf("Sentiment: %s (confidence %d)\n\n", res.Sentiment, res.Confidence))

	// Structure
	ms := res.MarketStructure
	b.WriteString(fmt.Sprintf("Trend: %s | BOS: %s | CHoCH: %s\n", ms.Trend, yesNo(ms.BrokeStructure), yesNo(ms.ChangedCharacter)))
	b.WriteString(fmt.Sprintf("Last swing high: %s | Last swing low: %s\n\n", px(ms.LastSwingHigh), px(ms.LastSwingLow)))

	// Zones
	b.WriteString(fmt.Sprintf("Order blocks (%d):\n", len(res.OrderBlocks)))
	for _, ob := range res.OrderBlocks {
		b.WriteString(fmt.Sprintf("  %-7s %s-%s  strength %s  %s%s\n",
			ob.Kind, px(ob.Low), px(ob.High), decimal.NewFromFloat(ob.Strength).StringFixed(2),
			stamp(ob.Timestamp), flag(ob.Mitigated, "  [mitigated]")))
	}
	b.WriteString(fmt.Sprintf("Fair value gaps (%d):\n", len(res.FairValueGaps)))
	for _, g := range res.FairValueGaps {
		b.WriteString(fmt.Sprintf("  %-7s %s-%s  %s -> %s%s\n",
			g.Kind, px(g.Lower), px(g.Upper), stamp(g.StartTime), stamp(g.EndTime), flag(g.Filled, "  [filled]")))
	}
	b.WriteString(fmt.Sprintf("Liquidity pools (%d):\n", len(res.LiquidityPools)))
	for _, p := range res.LiquidityPools {
		b.WriteString(fmt.Sprintf("  %-9s %s  x%d%s\n", p.Kind, px(p.Price), p.Strength, flag(p.Swept, "  [swept]")))
	}

	// Levels
	b.WriteString(fmt.Sprintf("\nSupport: %s\n", levels(res.SupportLevels)))
	b.WriteString(fmt.Sprintf("Resistance: %s\n", levels(res.ResistanceLevels)))

	// Setups
	b.WriteString(fmt.Sprintf("\nTrade setups (%d):\n", len(res.TradeSetups)))
	for i, s := range res.TradeSetups {
		b.WriteString(fmt.Sprintf("  %d. %s %s (confidence %d)\n", i+1, s.Direction, s.Technique, s.Confidence))
		b.WriteString(fmt.Sprintf("     entry %s  stop %s  targets %s / %s / %s  R:R 1:%s\n",
			px(s.Entry), px(s.StopLoss), px(s.TakeProfit1), px(s.TakeProfit2), px(s.TakeProfit3),
			decimal.NewFromFloat(s.RiskRewardRatio).StringFixed(2)))
		b.WriteString(fmt.Sprintf("     %s\n", s.Reasoning))
	}

	b.WriteString(fmt.Sprintf("\n%s\n", res.Summary))
	writeList(&b, "Risks", res.Risks)
	writeList(&b, "Opportunities", res.Opportunities)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("%s:\n", title))
	for _, it := range items {
		b.WriteString(fmt.Sprintf("  - %s\n", it))
	}
}

func px(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func levels(vs []float64) string {
	if len(vs) == 0 {
		return "none"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = px(v)
	}
	return strings.Join(parts, ", ")
}

func stamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func flag(v bool, s string) string {
	if v {
		return s
	}
	return ""
}
