package calculator

import (
	"math"

	"StructureSentinel/internal/model"
)

// WindowRange scans candles[start:end] and returns the highest high and lowest low.
// An empty or out-of-bounds window returns (-Inf, +Inf).
func WindowRange(candles []model.Candle, start, end int) (high, low float64) {
	if start < 0 {
		start = 0
	}
	if end > len(candles) {
		end = len(candles)
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < end; i++ {
		if candles[i].High > high {
			high = candles[i].High
		}
		if candles[i].Low < low {
			low = candles[i].Low
		}
	}
	return high, low
}

// withinTolerance reports whether v lies strictly within tol (relative) of ref.
func withinTolerance(v, ref, tol float64) bool {
	if ref == 0 {
		return v == 0
	}
	return math.Abs(v-ref)/math.Abs(ref) < tol
}

// keepLast returns the last max elements of s. A non-positive max keeps everything.
func keepLast[T any](s []T, max int) []T {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
