// Package api defines the JSON response contracts served to clients.
package api

// ErrorResponse is the body of every failure response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PingResponse is returned by the in-band health check (ping mode).
type PingResponse struct {
	Status     string `json:"status"`
	Instrument string `json:"instrument"`
	Time       string `json:"time"`
}

// CandleResponse is one candle in client-facing form. Hour and Minute are
// the UTC calendar components of Time.
type CandleResponse struct {
	Time   string  `json:"time"`
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// SummaryResponse aggregates candles over one day or over a whole batch
// range. Date is omitted for range summaries.
type SummaryResponse struct {
	Date     string  `json:"date,omitempty"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Range    float64 `json:"range"`
	NCandles int     `json:"n_candles"`
}

// BatchResponse is the full batch-mode payload. Candles and DailySummaries
// are ordered oldest to newest.
type BatchResponse struct {
	Status         string            `json:"status"`
	Date           string            `json:"date"`
	Days           int               `json:"days"`
	Timeframe      string            `json:"timeframe"`
	Instrument     string            `json:"instrument"`
	PriceType      string            `json:"price_type"`
	Session        string            `json:"session"`
	NCandles       int               `json:"n_candles"`
	NTradingDays   int               `json:"n_trading_days"`
	Summary        SummaryResponse   `json:"summary"`
	DailySummaries []SummaryResponse `json:"daily_summaries"`
	Candles        []CandleResponse  `json:"candles"`
}

// NoDataResponse signals a well-formed batch request for which the upstream
// returned nothing. It is served with HTTP 200; callers branch on Status.
type NoDataResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Date      string `json:"date,omitempty"`
	Days      int    `json:"days,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
}

// LiveResponse is the live-mode payload. Candle is omitted and Message set
// when the trailing window held no candles (market likely closed).
type LiveResponse struct {
	Status    string          `json:"status"`
	Mode      string          `json:"mode"`
	Candle    *CandleResponse `json:"candle,omitempty"`
	Message   string          `json:"message,omitempty"`
	NCandles  int             `json:"n_candles"`
	FetchedAt string          `json:"fetched_at"`
}
