package utils

import "math"

// RoundWithTwoDecimalPlace rounds monetary and score values for API payloads
func RoundWithTwoDecimalPlace(f float64) float64 {
	return math.Round(f*100) / 100
}
