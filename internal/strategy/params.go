package strategy

import (
	"fmt"

	"StructureSentinel/internal/calculator"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Params holds every tunable threshold of the engine. Zero fields are filled from
// the default tags, so a partial YAML engine section is valid.
type Params struct {
	SwingLookback         int     `yaml:"swing_lookback" json:"swingLookback" default:"5" validate:"gte=1,lte=50"`
	EdgeBuffer            int     `yaml:"edge_buffer" json:"edgeBuffer" default:"5" validate:"gte=0"`
	OrderBlockMinStrength float64 `yaml:"order_block_min_strength" json:"orderBlockMinStrength" default:"1.5" validate:"gt=0"`
	MaxOrderBlocks        int     `yaml:"max_order_blocks" json:"maxOrderBlocks" default:"10" validate:"gte=1"`
	MaxFairValueGaps      int     `yaml:"max_fair_value_gaps" json:"maxFairValueGaps" default:"15" validate:"gte=1"`
	LiquidityWindow       int     `yaml:"liquidity_window" json:"liquidityWindow" default:"20" validate:"gte=2"`
	LiquidityTolerance    float64 `yaml:"liquidity_tolerance" json:"liquidityTolerance" default:"0.001" validate:"gt=0,lt=1"`
	LiquidityMinTouches   int     `yaml:"liquidity_min_touches" json:"liquidityMinTouches" default:"3" validate:"gte=2"`
	PoolDedupTolerance    float64 `yaml:"pool_dedup_tolerance" json:"poolDedupTolerance" default:"0.002" validate:"gte=0,lt=1"`
	MaxLiquidityPools     int     `yaml:"max_liquidity_pools" json:"maxLiquidityPools" default:"10" validate:"gte=1"`
	MaxLevels             int     `yaml:"max_levels" json:"maxLevels" default:"5" validate:"gte=1"`
	SupportProximity      float64 `yaml:"support_proximity" json:"supportProximity" default:"0.005" validate:"gt=0,lt=1"`

	// TrackMitigation re-scans trailing candles to set Mitigated, Filled and Swept.
	TrackMitigation bool `yaml:"track_mitigation" json:"trackMitigation"`
}

// DefaultParams returns the stock thresholds.
func DefaultParams() Params {
	var p Params
	defaults.MustSet(&p)
	return p
}

// ApplyDefaults fills zero-valued fields from the default tags.
func (p *Params) ApplyDefaults() error {
	if err := defaults.Set(p); err != nil {
		return fmt.Errorf("apply engine defaults: %w", err)
	}
	return nil
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid engine params: %w", err)
	}
	return nil
}

// Fingerprint is a stable textual form of the parameters, used in cache keys.
func (p Params) Fingerprint() string {
	return fmt.Sprintf("v1:%d:%d:%g:%d:%d:%d:%g:%d:%g:%d:%d:%g:%t",
		p.SwingLookback, p.EdgeBuffer, p.OrderBlockMinStrength, p.MaxOrderBlocks,
		p.MaxFairValueGaps, p.LiquidityWindow, p.LiquidityTolerance, p.LiquidityMinTouches,
		p.PoolDedupTolerance, p.MaxLiquidityPools, p.MaxLevels, p.SupportProximity, p.TrackMitigation)
}

func (p Params) poolOptions() calculator.PoolOptions {
	return calculator.PoolOptions{
		Window:         p.LiquidityWindow,
		Tolerance:      p.LiquidityTolerance,
		MinTouches:     p.LiquidityMinTouches,
		DedupTolerance: p.PoolDedupTolerance,
		Max:            p.MaxLiquidityPools,
	}
}
