package calculator

import "StructureSentinel/internal/model"

// SupportResistance returns the prices of the max most recent swing lows (support)
// and swing highs (resistance), oldest first.
func SupportResistance(swings []model.SwingPoint, max int) (support, resistance []float64) {
	support = make([]float64, 0, max)
	resistance = make([]float64, 0, max)
	for _, s := range lastOfKind(swings, model.SwingLow, max) {
		support = append(support, s.Price)
	}
	for _, s := range lastOfKind(swings, model.SwingHigh, max) {
		resistance = append(resistance, s.Price)
	}
	return support, resistance
}
