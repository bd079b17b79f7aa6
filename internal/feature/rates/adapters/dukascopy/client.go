package dukascopy

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"rates_backend/internal/feature/rates/adapters/dukascopy/dto"
	"rates_backend/internal/feature/rates/domain/entity"
	"rates_backend/internal/feature/rates/usecase"
	"rates_backend/internal/shared/ratelimiter"
)

// Client はDukascopyのヒストリカルレートフィードからローソク足を取得する
// RateFetcher実装です。一時的な障害のリトライとレートリミット待機は
// このクライアントの責務であり、呼び出し側には透過です。
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter ratelimiter.RateLimiterInterface
}

// ClientがRateFetcherを実装していることをコンパイル時に検証します。
var _ usecase.RateFetcher = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// limiterがnilの場合は待機なしで呼び出します。
func NewClient(cfg Config, hc *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	rc := resty.NewWithClient(hc).
		SetBaseURL(cfg.BaseURL).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// ネットワーク障害とアップストリームの5xxのみリトライ
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Client{cfg: cfg, http: rc, limiter: limiter}
}

// FetchCandles はフィードから[from, to)区間のローソク足を取得し、
// entity.Candleのスライスとして古い順で返します。
// 区間にデータがない場合は空スライスを返します。
func (c *Client) FetchCandles(ctx context.Context, tf usecase.Timeframe, from, to time.Time) ([]entity.Candle, error) {
	if c.limiter != nil {
		c.limiter.WaitIfNeeded()
	}

	var body []dto.RawCandle
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"instrument": c.cfg.Instrument,
			"offer_side": c.cfg.OfferSide,
			"timeframe":  string(tf),
			"from":       strconv.FormatInt(from.UnixMilli(), 10),
			"to":         strconv.FormatInt(to.UnixMilli(), 10),
		}).
		SetResult(&body).
		Get("/historical-rates")
	if err != nil {
		return nil, fmt.Errorf("dukascopy: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("dukascopy http %d: %s", res.StatusCode(), res.String())
	}

	candles := make([]entity.Candle, 0, len(body))
	for _, v := range body {
		candles = append(candles, entity.Candle{
			Time:   time.UnixMilli(v.Timestamp).UTC(),
			Open:   v.Open,
			High:   v.High,
			Low:    v.Low,
			Close:  v.Close,
			Volume: v.Volume, // フィードがvolumeを省略した場合は0
		})
	}
	return candles, nil
}
