package dto

// MarketChart is the CoinGecko market_chart payload: [timestamp_ms, value]
// pairs for prices and volumes.
type MarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}
