package models

// AnalysisResult is the narrative feedback produced by the LLM coach for a set
// of journaled trades.
type AnalysisResult struct {
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	ActionableTips []string `json:"actionableTips"`
	SentimentScore int      `json:"sentimentScore"` // 0-100 discipline score
}

// TradeSummary is the condensed view of a closed trade handed to the coach.
type TradeSummary struct {
	Symbol   string    `json:"symbol"`
	Type     TradeType `json:"type"`
	PnL      float64   `json:"pnl"`
	Setup    string    `json:"setup,omitempty"`
	Mistakes []string  `json:"mistakes,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}
