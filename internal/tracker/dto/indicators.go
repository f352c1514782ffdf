package dto

// MACD holds the MACD line, its signal line and the histogram.
type MACD struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// PriceIndicators is the derived technical reading for one coin. It is a
// cache, never authoritative: recomputed from the price series on demand.
// Degraded marks a neutral default substituted after an upstream failure,
// as opposed to a neutral reading computed from real data.
type PriceIndicators struct {
	RSI             float64 `json:"rsi"`
	MACD            MACD    `json:"macd"`
	EMA20           float64 `json:"ema20"`
	EMA50           float64 `json:"ema50"`
	VolumeChange24h float64 `json:"volume_change_24h"`
	Degraded        bool    `json:"degraded,omitempty"`
}

// TechnicalBreakdown pairs the raw indicators with human-readable
// interpretations and a 0-100 composite technical score.
type TechnicalBreakdown struct {
	Indicators      PriceIndicators          `json:"indicators"`
	Interpretations TechnicalInterpretations `json:"interpretations"`
	TechnicalScore  int                      `json:"technical_score"`
}

// TechnicalInterpretations labels each indicator's current stance.
type TechnicalInterpretations struct {
	RSI    string `json:"rsi"`
	MACD   string `json:"macd"`
	Volume string `json:"volume"`
}
