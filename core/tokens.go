package core

import "github.com/studymesh/tutorcore/internal/tokens"

// TokenEstimate summarises estimated token usage for a request.
type TokenEstimate struct {
	Input     int
	MaxOutput int
	Total     int
}

// EstimateRequestTokens estimates tokens for a request using heuristics.
// The output estimate is capped at min(2x input, 1000) for budgeting.
func EstimateRequestTokens(req Request) TokenEstimate {
	input := tokens.EstimateText(req.Query)
	if req.Course != nil {
		for _, m := range req.Course.ReferenceMaterials {
			input += tokens.EstimateText(m)
		}
	}
	maxOut := input * 2
	if maxOut > tokens.MaxOutputEstimate {
		maxOut = tokens.MaxOutputEstimate
	}
	return TokenEstimate{Input: input, MaxOutput: maxOut, Total: input + maxOut}
}

// EstimateTextTokens estimates tokens from raw text.
func EstimateTextTokens(text string) int {
	return tokens.EstimateText(text)
}
