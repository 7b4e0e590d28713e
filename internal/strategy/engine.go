package strategy

import (
	"StructureSentinel/internal/calculator"
	"StructureSentinel/internal/model"
)

// Engine runs the detector pipeline with a fixed parameter set. It holds no
// per-call state and is safe for concurrent use.
type Engine struct {
	params Params
}

// NewEngine validates p and returns an engine using it.
func NewEngine(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: p}, nil
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params { return e.params }

var defaultEngine = &Engine{params: DefaultParams()}

// Analyze runs the default engine over candles.
func Analyze(candles []model.Candle) (*model.AnalysisResult, error) {
	return defaultEngine.Analyze(candles)
}

// Analyze validates candles and then computes the full analysis. Validation is
// the only failure; short or featureless input yields sparse results.
func (e *Engine) Analyze(candles []model.Candle) (*model.AnalysisResult, error) {
	if err := model.ValidateCandles(candles); err != nil {
		return nil, err
	}
	return e.evaluate(candles), nil
}

func (e *Engine) evaluate(candles []model.Candle) *model.AnalysisResult {
	p := e.params

	// Step a: pivots and structure
	swings := calculator.DetectSwings(candles, p.SwingLookback)
	structure := calculator.ClassifyStructure(candles, swings, p.SwingLookback)

	// Step b: zones and levels
	blocks := calculator.DetectOrderBlocks(candles, p.EdgeBuffer, p.OrderBlockMinStrength, p.MaxOrderBlocks)
	gaps := calculator.DetectFairValueGaps(candles, p.MaxFairValueGaps)
	pools := calculator.DetectLiquidityPools(candles, p.poolOptions())
	support, resistance := calculator.SupportResistance(swings, p.MaxLevels)

	if p.TrackMitigation {
		blocks = calculator.MarkMitigated(candles, blocks)
		gaps = calculator.MarkFilled(candles, gaps)
		pools = calculator.MarkSwept(candles, pools)
	}

	// Step c: confluence setups
	setups := GenerateSetups(Snapshot{
		Structure:      structure,
		OrderBlocks:    blocks,
		FairValueGaps:  gaps,
		LiquidityPools: pools,
		Support:        support,
		Resistance:     resistance,
		CurrentPrice:   model.CurrentPrice(candles),
		Timestamp:      candles[len(candles)-1].Timestamp,
	}, p.SupportProximity)

	// Step d: synthesis
	sentiment := Sentiment(structure, setups)
	return &model.AnalysisResult{
		MarketStructure:  structure,
		OrderBlocks:      blocks,
		FairValueGaps:    gaps,
		LiquidityPools:   pools,
		TradeSetups:      setups,
		SupportLevels:    support,
		ResistanceLevels: resistance,
		Sentiment:        sentiment,
		Confidence:       Confidence(setups),
		Summary:          Summary(structure, sentiment, len(setups)),
		Risks:            Risks(structure, setups),
		Opportunities:    Opportunities(structure, setups),
	}
}
