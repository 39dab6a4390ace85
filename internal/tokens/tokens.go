package tokens

import "math"

// MaxOutputEstimate caps output-token estimates used for cost budgeting.
const MaxOutputEstimate = 1000

// EstimateText approximates tokens for a given text using a 4 characters per
// token heuristic.
func EstimateText(text string) int {
	if text == "" {
		return 0
	}
	runes := len([]rune(text))
	if runes == 0 {
		return 0
	}
	return int(math.Ceil(float64(runes) / 4.0))
}
