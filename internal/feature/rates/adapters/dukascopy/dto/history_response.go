// Package dto defines the wire format of the Dukascopy historical-rates feed.
package dto

// RawCandle is one candle as returned by the feed. The feed responds with a
// JSON array of these, ordered oldest first. Volume may be absent, in which
// case it unmarshals to 0.
type RawCandle struct {
	Timestamp int64   `json:"timestamp"` // Epoch milliseconds, UTC
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}
