// Package handler はratesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rates_backend/internal/api"
	"rates_backend/internal/feature/rates/domain"
	"rates_backend/internal/feature/rates/domain/entity"
	"rates_backend/internal/feature/rates/usecase"
)

const (
	dateLayout   = "2006-01-02"
	candleLayout = "2006-01-02 15:04:05"
)

// dateRe はバッチモードのdateパラメータの厳密なフォーマットです。
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RatesUsecase はレート照会操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RatesUsecase interface {
	// Batch はアンカー日を直近の取引日とするdays日分のローソク足を取得します。
	Batch(ctx context.Context, anchor time.Time, tf usecase.Timeframe, days int) (*usecase.BatchResult, error)
	// Live は直近10分間の最新ローソク足を取得します。
	Live(ctx context.Context) (*usecase.LiveResult, error)
}

// RatesHandler は /rates エンドポイントのHTTPリクエストを処理します。
// ping・live・バッチの3モードをクエリパラメータで多重化します。
type RatesHandler struct {
	uc         RatesUsecase
	instrument string
	priceType  string
	session    string // 表示用のセッションウィンドウ文字列（例: "08:00-16:00 UTC"）
	now        func() time.Time
}

// NewRatesHandler は指定されたusecaseと設定でRatesHandlerの新しいインスタンスを生成します。
func NewRatesHandler(uc RatesUsecase, instrument, priceType, session string) *RatesHandler {
	return &RatesHandler{
		uc:         uc,
		instrument: instrument,
		priceType:  priceType,
		session:    session,
		now:        time.Now,
	}
}

// GetRates は /rates への全リクエストの入口です。
// モード選択は先勝ちの優先順: ping → live → バッチ。
//
// エンドポイント例:
// GET /rates?date=2026-02-19&tf=m1&days=3
func (h *RatesHandler) GetRates(c *gin.Context) {
	// JSの真偽値判定に合わせ、空でない値があればpingモード
	if c.Query("ping") != "" {
		c.JSON(http.StatusOK, api.PingResponse{
			Status:     "ok",
			Instrument: h.instrument,
			Time:       h.now().UTC().Format(time.RFC3339),
		})
		return
	}

	if c.Query("live") == "true" {
		h.live(c)
		return
	}

	h.batch(c)
}

// live はライブモードを処理します。ウィンドウが空の場合は
// エラーではなくstatus=no_dataを返します（市場クローズ等）。
func (h *RatesHandler) live(c *gin.Context) {
	res, err := h.uc.Live(c.Request.Context())
	if err != nil {
		slog.Error("live fetch failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := api.LiveResponse{
		Status:    "ok",
		Mode:      "live",
		NCandles:  res.NCandles,
		FetchedAt: res.FetchedAt.UTC().Format(time.RFC3339),
	}
	if res.Candle == nil {
		out.Status = "no_data"
		out.Message = "no candles in the last 10 minutes; the market is likely closed"
		c.JSON(http.StatusOK, out)
		return
	}

	cr := toCandleResponse(*res.Candle)
	out.Candle = &cr
	c.JSON(http.StatusOK, out)
}

// batch はバッチモードを処理します。
// - dateはYYYY-MM-DD形式必須
// - tfはm1/m5/m15/m30/h1（デフォルトm1）
// - daysはデフォルト1、最大15にクランプ
func (h *RatesHandler) batch(c *gin.Context) {
	dateStr := c.Query("date")
	if !dateRe.MatchString(dateStr) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error: "invalid or missing date: expected YYYY-MM-DD (e.g. 2026-02-19)",
		})
		return
	}
	anchor, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error: "invalid or missing date: expected YYYY-MM-DD (e.g. 2026-02-19)",
		})
		return
	}

	tf, err := usecase.ParseTimeframe(c.DefaultQuery("tf", "m1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error: fmt.Sprintf("invalid tf: must be one of %s", timeframeList()),
		})
		return
	}

	// 不正な値は0になり、usecase側でデフォルトの1日に丸められる
	days, _ := strconv.Atoi(c.DefaultQuery("days", "1"))

	res, err := h.uc.Batch(c.Request.Context(), anchor, tf, days)
	if err != nil {
		if errors.Is(err, domain.ErrFutureDate) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must not be in the future"})
			return
		}
		slog.Error("batch fetch failed", "error", err, "date", dateStr, "tf", tf, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	if len(res.Candles) == 0 {
		c.JSON(http.StatusOK, api.NoDataResponse{
			Status:    "no_data",
			Message:   fmt.Sprintf("no candles for %s (days=%d, tf=%s); market closed or holiday", dateStr, res.Days, tf),
			Date:      dateStr,
			Days:      res.Days,
			Timeframe: string(tf),
		})
		return
	}

	// データをレスポンス契約にフォーマット
	out := api.BatchResponse{
		Status:       "ok",
		Date:         dateStr,
		Days:         res.Days,
		Timeframe:    string(tf),
		Instrument:   h.instrument,
		PriceType:    h.priceType,
		Session:      h.session,
		NCandles:     len(res.Candles),
		NTradingDays: len(res.DailySummaries),
		Summary:      toSummaryResponse(res.Summary),
	}
	out.DailySummaries = make([]api.SummaryResponse, 0, len(res.DailySummaries))
	for _, s := range res.DailySummaries {
		out.DailySummaries = append(out.DailySummaries, toSummaryResponse(s))
	}
	out.Candles = make([]api.CandleResponse, 0, len(res.Candles))
	for _, cd := range res.Candles {
		out.Candles = append(out.Candles, toCandleResponse(cd))
	}

	c.JSON(http.StatusOK, out)
}

// toCandleResponse はドメインのローソク足をレスポンス形式に変換します。
// hour/minuteはUTCのカレンダー成分です。
func toCandleResponse(cd entity.Candle) api.CandleResponse {
	t := cd.Time.UTC()
	return api.CandleResponse{
		Time:   t.Format(candleLayout),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Open:   cd.Open,
		High:   cd.High,
		Low:    cd.Low,
		Close:  cd.Close,
		Volume: cd.Volume,
	}
}

// toSummaryResponse はサマリーをレスポンス形式に変換します。
// 全期間サマリー（Dateがゼロ値）ではdateフィールドを省略します。
func toSummaryResponse(s entity.DaySummary) api.SummaryResponse {
	out := api.SummaryResponse{
		Open:     s.Open,
		High:     s.High,
		Low:      s.Low,
		Close:    s.Close,
		Range:    s.Range,
		NCandles: s.NCandles,
	}
	if !s.Date.IsZero() {
		out.Date = s.Date.Format(dateLayout)
	}
	return out
}

// timeframeList は有効な時間足をエラーメッセージ用に列挙します。
func timeframeList() string {
	names := make([]string, 0, len(usecase.Timeframes))
	for _, tf := range usecase.Timeframes {
		names = append(names, string(tf))
	}
	return strings.Join(names, ", ")
}
