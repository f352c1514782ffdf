package dto

// CreateCoinRequest registers a new coin profile.
type CreateCoinRequest struct {
	Symbol              string   `json:"symbol"`
	Name                string   `json:"name"`
	MarketCap           float64  `json:"market_cap"`
	CommunityGrowth     float64  `json:"community_growth"`
	LiquidityScore      float64  `json:"liquidity_score"`
	Exchanges           []string `json:"exchanges"`
	DevelopmentActivity *float64 `json:"development_activity,omitempty"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
