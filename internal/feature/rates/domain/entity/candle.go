// Package entity defines the domain models for the rates feature.
package entity

import "time"

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// for one fixed time bucket of price activity. Candles are immutable once
// produced by the upstream feed.
type Candle struct {
	Time   time.Time // Timestamp for the start of this candle period (UTC)
	Open   float64   // Opening price
	High   float64   // Highest price during this period
	Low    float64   // Lowest price during this period
	Close  float64   // Closing price
	Volume float64   // Trading volume; 0 when the feed omits it
}

// DaySummary aggregates the candles of one calendar day. The same shape is
// reused for the whole-range summary of a multi-day batch, in which case
// Date is the zero value.
type DaySummary struct {
	Date     time.Time // Calendar day (UTC midnight); zero for range summaries
	Open     float64   // Open of the first candle
	High     float64   // Max high over all candles
	Low      float64   // Min low over all candles
	Close    float64   // Close of the last candle
	Range    float64   // High - Low, rounded to 1 decimal
	NCandles int       // Number of candles aggregated
}
