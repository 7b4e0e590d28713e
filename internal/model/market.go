package model

import (
	"errors"
	"fmt"
	"math"
)

// Candle represents a single OHLCV bar. Timestamp is milliseconds since the Unix epoch.
type Candle struct {
	Timestamp int64   `json:"timestamp" validate:"gte=0"`
	Open      float64 `json:"open" validate:"gt=0"`
	High      float64 `json:"high" validate:"gt=0"`
	Low       float64 `json:"low" validate:"gt=0"`
	Close     float64 `json:"close" validate:"gt=0"`
	Volume    float64 `json:"volume,omitempty" validate:"gte=0"`
}

// Body returns the signed candle body (close - open).
func (c Candle) Body() float64 {
	return c.Close - c.Open
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool { return c.Close > c.Open }

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool { return c.Close < c.Open }

// ErrInvalidInput is returned when a candle sequence is malformed.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes the first malformed candle found by ValidateCandles.
type InputError struct {
	Index  int
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: candle %d: %s %s", e.Index, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error { return ErrInvalidInput }

// ValidateCandles checks the caller-facing preconditions: at least one candle,
// finite positive prices, a consistent OHLC range and non-decreasing timestamps.
func ValidateCandles(candles []Candle) error {
	if len(candles) == 0 {
		return &InputError{Index: -1, Reason: "at least one candle is required"}
	}
	for i, c := range candles {
		prices := []struct {
			name string
			v    float64
		}{
			{"open", c.Open}, {"high", c.High}, {"low", c.Low}, {"close", c.Close},
		}
		for _, p := range prices {
			if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
				return &InputError{Index: i, Field: p.name, Reason: "is not a finite number"}
			}
			if p.v <= 0 {
				return &InputError{Index: i, Field: p.name, Reason: "must be positive"}
			}
		}
		if c.High < c.Low {
			return &InputError{Index: i, Field: "high", Reason: "is below low"}
		}
		if c.Open > c.High || c.Open < c.Low {
			return &InputError{Index: i, Field: "open", Reason: "is outside the high/low range"}
		}
		if c.Close > c.High || c.Close < c.Low {
			return &InputError{Index: i, Field: "close", Reason: "is outside the high/low range"}
		}
		if math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) || c.Volume < 0 {
			return &InputError{Index: i, Field: "volume", Reason: "must be a non-negative number"}
		}
		if i > 0 && c.Timestamp < candles[i-1].Timestamp {
			return &InputError{Index: i, Field: "timestamp", Reason: "is earlier than the previous candle"}
		}
	}
	return nil
}

// CurrentPrice returns the close of the last candle, or 0 for an empty slice.
func CurrentPrice(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	return candles[len(candles)-1].Close
}
