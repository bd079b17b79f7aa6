package dukascopy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"rates_backend/internal/feature/rates/usecase"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:    baseURL,
		Instrument: "XAUUSD",
		OfferSide:  "bid",
		Timeout:    5 * time.Second,
		RetryCount: 0,
		RetryWait:  time.Millisecond,
	}
}

func TestClient_FetchCandles_Success(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 19, 16, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request parameters
		q := r.URL.Query()
		if q.Get("instrument") != "XAUUSD" {
			t.Errorf("expected instrument XAUUSD, got %s", q.Get("instrument"))
		}
		if q.Get("offer_side") != "bid" {
			t.Errorf("expected offer_side bid, got %s", q.Get("offer_side"))
		}
		if q.Get("timeframe") != "m1" {
			t.Errorf("expected timeframe m1, got %s", q.Get("timeframe"))
		}
		if q.Get("from") != strconv.FormatInt(from.UnixMilli(), 10) {
			t.Errorf("expected from %d, got %s", from.UnixMilli(), q.Get("from"))
		}
		if q.Get("to") != strconv.FormatInt(to.UnixMilli(), 10) {
			t.Errorf("expected to %d, got %s", to.UnixMilli(), q.Get("to"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		// 2本目はvolumeなし（0にデフォルトされる）
		_, _ = w.Write([]byte(`[
			{"timestamp": ` + strconv.FormatInt(from.UnixMilli(), 10) + `, "open": 2000.5, "high": 2001.0, "low": 2000.1, "close": 2000.8, "volume": 120.5},
			{"timestamp": ` + strconv.FormatInt(from.Add(time.Minute).UnixMilli(), 10) + `, "open": 2000.8, "high": 2002.0, "low": 2000.4, "close": 2001.6}
		]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), server.Client(), nil)

	candles, err := client.FetchCandles(context.Background(), usecase.TimeframeM1, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if !candles[0].Time.Equal(from) {
		t.Errorf("expected time %v, got %v", from, candles[0].Time)
	}
	if candles[0].Open != 2000.5 {
		t.Errorf("expected open 2000.5, got %f", candles[0].Open)
	}
	if candles[0].Volume != 120.5 {
		t.Errorf("expected volume 120.5, got %f", candles[0].Volume)
	}
	if candles[1].Volume != 0 {
		t.Errorf("expected missing volume to default to 0, got %f", candles[1].Volume)
	}
}

func TestClient_FetchCandles_EmptyRange(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), server.Client(), nil)

	candles, err := client.FetchCandles(context.Background(), usecase.TimeframeM1, time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 0 {
		t.Errorf("expected no candles, got %d", len(candles))
	}
}

func TestClient_FetchCandles_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 最初の2回は503、3回目で成功
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"timestamp": 1771488000000, "open": 1, "high": 2, "low": 0.5, "close": 1.5, "volume": 10}]`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RetryCount = 2
	client := NewClient(cfg, server.Client(), nil)

	candles, err := client.FetchCandles(context.Background(), usecase.TimeframeM5, time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 1 {
		t.Fatalf("expected 1 candle, got %d", len(candles))
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestClient_FetchCandles_UpstreamError(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RetryCount = 1
	client := NewClient(cfg, server.Client(), nil)

	if _, err := client.FetchCandles(context.Background(), usecase.TimeframeM1, time.Now().Add(-time.Hour), time.Now()); err == nil {
		t.Fatal("expected error on persistent upstream failure")
	}
	// リトライ分を含めて試行される
	if got := attempts.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestClient_FetchCandles_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RetryCount = 3
	client := NewClient(cfg, server.Client(), nil)

	if _, err := client.FetchCandles(context.Background(), usecase.TimeframeM1, time.Now().Add(-time.Hour), time.Now()); err == nil {
		t.Fatal("expected error on 404")
	}
	// 4xxは一時的な障害ではないためリトライしない
	if got := attempts.Load(); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
}
