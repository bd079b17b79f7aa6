// Package dukascopy provides a client for the Dukascopy historical-rates feed.
package dukascopy

import "time"

// Config holds configuration for the Dukascopy feed client.
type Config struct {
	BaseURL    string        // Base URL of the feed service
	Instrument string        // Instrument code (e.g., "XAUUSD")
	OfferSide  string        // Price side, "bid" or "ask"
	Timeout    time.Duration // HTTP request timeout
	RetryCount int           // Number of retries on transient failure
	RetryWait  time.Duration // Pause between retries
}
