package usecase

import (
	"fmt"

	"rates_backend/internal/feature/rates/domain"
)

// Timeframe はローソク足1本のバケット幅を表します。
// 値はアップストリームのデータフィードにそのまま渡されます。
type Timeframe string

// サポートされる時間足。
const (
	TimeframeM1  Timeframe = "m1"
	TimeframeM5  Timeframe = "m5"
	TimeframeM15 Timeframe = "m15"
	TimeframeM30 Timeframe = "m30"
	TimeframeH1  Timeframe = "h1"
)

// Timeframes はサポートされる全時間足を定義順に列挙します。
var Timeframes = []Timeframe{TimeframeM1, TimeframeM5, TimeframeM15, TimeframeM30, TimeframeH1}

// ParseTimeframe は文字列を検証してTimeframeに変換します。
// 空文字列はデフォルト（m1）を返し、未知の値はdomain.ErrInvalidTimeframeを返します。
// 大文字小文字は区別されます（"M1"は不正）。
func ParseTimeframe(s string) (Timeframe, error) {
	if s == "" {
		return TimeframeM1, nil
	}
	for _, tf := range Timeframes {
		if s == string(tf) {
			return tf, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimeframe, s)
}
