package generaterecommendations

import (
	"loan-advisor/internal/loan/profile"
	"loan-advisor/internal/loan/recommend"
)

type Input struct {
	SessionID string          `json:"sessionId,omitempty"`
	Answers   profile.Answers `json:"answers"`
}

type Output struct {
	Recommendations     []recommend.Recommendation `json:"recommendations"`
	RecommendationCount int                        `json:"recommendationCount"`
	HasRecommendations  bool                       `json:"hasRecommendations"`
	TopProductID        string                     `json:"topProductId,omitempty"`
	TopEstimatedRate    float64                    `json:"topEstimatedRate,omitempty"`
}
