// Package usecase はレートデータ取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"math"
	"time"

	"rates_backend/internal/feature/rates/domain"
	"rates_backend/internal/feature/rates/domain/entity"
)

const (
	// DefaultBatchDays はバッチモードのデフォルト取引日数です。
	DefaultBatchDays = 1
	// MaxBatchDays はバッチモードの最大取引日数です。
	// 無制限の複数日フェッチを防ぐためのハードキャップです。
	MaxBatchDays = 15

	// liveLookback はライブモードで照会する直近のウィンドウ幅です。
	liveLookback = 10 * time.Minute
)

// RateFetcher はアップストリームのデータフィードからローソク足を取得する
// リポジトリのインターフェイスです。外部APIの実装を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type RateFetcher interface {
	// FetchCandles は[from, to)区間のローソク足を古い順で返します。
	// 区間にデータが存在しない場合は空スライスを返します。
	FetchCandles(ctx context.Context, tf Timeframe, from, to time.Time) ([]entity.Candle, error)
}

// BatchResult は1回のバッチ照会の結果です。
type BatchResult struct {
	Date           time.Time          // 要求されたアンカー日（直近の取引日として扱われる）
	Days           int                // クランプ後の有効取引日数
	Timeframe      Timeframe          // 使用された時間足
	Candles        []entity.Candle    // 全日分を古い順に連結したローソク足
	DailySummaries []entity.DaySummary // データのあった日ごとのサマリー（古い順）
	Summary        entity.DaySummary  // 全期間サマリー（Candlesが空の場合はゼロ値）
}

// LiveResult はライブ照会の結果です。ウィンドウ内にローソク足が
// 存在しない場合（市場クローズ等）、Candleはnilになります。
type LiveResult struct {
	Candle    *entity.Candle // ウィンドウ内の最新のローソク足
	NCandles  int            // ウィンドウ内のローソク足総数
	FetchedAt time.Time      // 照会時刻
}

// RatesUsecase はレートデータ照会のユースケースを定義します。
// リクエスト間で共有される状態は読み取り専用の設定のみです。
type RatesUsecase struct {
	fetcher      RateFetcher
	sessionStart int // セッション開始時刻（UTC時）
	sessionEnd   int // セッション終了時刻（UTC時、排他的）
	now          func() time.Time
}

// NewRatesUsecase はRatesUsecaseの新しいインスタンスを生成します。
// nowがnilの場合はtime.Nowを使用します。テストでは固定時刻を注入できます。
func NewRatesUsecase(fetcher RateFetcher, sessionStart, sessionEnd int, now func() time.Time) *RatesUsecase {
	if now == nil {
		now = time.Now
	}
	return &RatesUsecase{
		fetcher:      fetcher,
		sessionStart: sessionStart,
		sessionEnd:   sessionEnd,
		now:          now,
	}
}

// ClampDays は要求された日数を[1, MaxBatchDays]に丸めます。
// 0以下はデフォルト（1日）として扱います。
func ClampDays(days int) int {
	if days <= 0 {
		return DefaultBatchDays
	}
	if days > MaxBatchDays {
		return MaxBatchDays
	}
	return days
}

// TradingDates はアンカー日から1日ずつ遡り、土日（UTC曜日）をスキップして
// days個の取引日を収集し、古い順に並べ替えて返します。
// アンカー日自体が週末の場合は直前の平日から数え始めます。
// 週末を挟む場合、実効ウィンドウはdaysより多くの暦日にまたがります。
func (u *RatesUsecase) TradingDates(anchor time.Time, days int) []time.Time {
	dates := make([]time.Time, 0, days)
	d := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	for len(dates) < days {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	// 古い順に反転
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates
}

// Batch はアンカー日を直近の取引日とするdays日分のローソク足を取得し、
// 日次サマリーと全期間サマリーを集計します。
//
// 取引日ごとのフェッチは厳密に逐次実行され、いずれかの日のフェッチが
// 失敗した場合はバッチ全体を中断します（部分的な結果は返しません）。
// 全日を通してローソク足が1本もない場合はエラーではなく空の結果を返します。
func (u *RatesUsecase) Batch(ctx context.Context, anchor time.Time, tf Timeframe, days int) (*BatchResult, error) {
	days = ClampDays(days)

	// 未来日付の拒否: アンカー日のセッション開始時刻が現在より後なら拒否
	sessionOpen := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), u.sessionStart, 0, 0, 0, time.UTC)
	if sessionOpen.After(u.now()) {
		return nil, domain.ErrFutureDate
	}

	res := &BatchResult{Date: anchor, Days: days, Timeframe: tf}
	for _, d := range u.TradingDates(anchor, days) {
		from := time.Date(d.Year(), d.Month(), d.Day(), u.sessionStart, 0, 0, 0, time.UTC)
		to := time.Date(d.Year(), d.Month(), d.Day(), u.sessionEnd, 0, 0, 0, time.UTC)

		cs, err := u.fetcher.FetchCandles(ctx, tf, from, to)
		if err != nil {
			return nil, err
		}
		res.Candles = append(res.Candles, cs...)
		// データのない日（祝日等）はサマリーに含めない
		if len(cs) > 0 {
			res.DailySummaries = append(res.DailySummaries, summarize(d, cs))
		}
	}

	if len(res.Candles) > 0 {
		res.Summary = summarize(time.Time{}, res.Candles)
	}
	return res, nil
}

// Live は現在時刻までの直近10分間のM1ローソク足を照会し、
// 時系列で最後の1本を返します。ウィンドウが空の場合はCandleがnilの
// 結果を返します（エラーではありません）。
func (u *RatesUsecase) Live(ctx context.Context) (*LiveResult, error) {
	now := u.now()
	cs, err := u.fetcher.FetchCandles(ctx, TimeframeM1, now.Add(-liveLookback), now)
	if err != nil {
		return nil, err
	}

	res := &LiveResult{NCandles: len(cs), FetchedAt: now}
	if len(cs) > 0 {
		last := cs[len(cs)-1]
		res.Candle = &last
	}
	return res, nil
}

// summarize はローソク足リストを1つのサマリーに集計します。
// open/closeは先頭/末尾のローソク足、high/lowは全体の最大/最小です。
// 呼び出し側はcsが空でないことを保証します。
func summarize(date time.Time, cs []entity.Candle) entity.DaySummary {
	s := entity.DaySummary{
		Date:     date,
		Open:     cs[0].Open,
		High:     cs[0].High,
		Low:      cs[0].Low,
		Close:    cs[len(cs)-1].Close,
		NCandles: len(cs),
	}
	for _, c := range cs[1:] {
		s.High = math.Max(s.High, c.High)
		s.Low = math.Min(s.Low, c.Low)
	}
	s.Range = round1(s.High - s.Low)
	return s
}

// round1 は小数第1位に丸めます（四捨五入）。
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
