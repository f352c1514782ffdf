package dto

import "time"

// PredictionFactors is the factor payload of a top-N prediction entry.
type PredictionFactors struct {
	SocialSentiment   SentimentScore  `json:"social_sentiment"`
	TechnicalAnalysis PriceIndicators `json:"technical_analysis"`
	CommunityGrowth   float64         `json:"community_growth"`
	LiquidityScore    float64         `json:"liquidity_score"`
}

// SuccessPrediction is the read model returned by the top-predictions
// endpoint. Assembled at query time, never stored.
type SuccessPrediction struct {
	Symbol             string            `json:"symbol"`
	Name               string            `json:"name"`
	SuccessProbability float64           `json:"success_probability"`
	Factors            PredictionFactors `json:"factors"`
}

// FactorSnapshot is persisted alongside each prediction run.
type FactorSnapshot struct {
	SocialSentiment float64 `json:"social_sentiment"`
	Technical       float64 `json:"technical"`
	CommunityGrowth float64 `json:"community_growth"`
	Liquidity       float64 `json:"liquidity"`
	Misc            float64 `json:"misc"`
}

// PredictionHistoryEntry is one stored prediction run, newest first in the
// history listing.
type PredictionHistoryEntry struct {
	Probability float64        `json:"probability"`
	Factors     FactorSnapshot `json:"factors"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BatchResult summarizes one batch prediction run.
type BatchResult struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
