// Package market K 线数据及其到行表的转换。
package market

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"

	"hyperoptbot/src/frame"
	"hyperoptbot/src/timeframes"
)

// Candle 一根 K 线，价格保持交易所/数据库的精确值
type Candle struct {
	Symbol    string          `json:"symbol"`
	OpenTime  int64           `json:"open_time"` // 毫秒
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
	CloseTime int64           `json:"close_time"`
}

// Query K 线查询条件，零值的 Start/End/Limit 表示不限制。
// 未给 Start 时 Limit 取最近的 N 根，结果始终按开盘时间升序
type Query struct {
	Symbol    string
	Timeframe timeframes.Timeframe
	Start     time.Time
	End       time.Time
	Limit     int
}

// Source K 线来源
type Source interface {
	GetCandles(ctx context.Context, q Query) ([]*Candle, error)
}

// ToFrame 按开盘时间排序后转换为行表
func ToFrame(candles []*Candle) (dataframe.DataFrame, error) {
	if len(candles) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no candles")
	}

	sorted := make([]*Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OpenTime < sorted[j].OpenTime })

	n := len(sorted)
	times := make([]int, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	for i, c := range sorted {
		times[i] = int(c.OpenTime)
		open[i] = c.Open.InexactFloat64()
		high[i] = c.High.InexactFloat64()
		low[i] = c.Low.InexactFloat64()
		closes[i] = c.Close.InexactFloat64()
		volume[i] = c.Volume.InexactFloat64()
	}

	df := dataframe.New(
		series.New(times, series.Int, frame.TimeColumn),
		series.New(open, series.Float, frame.OpenColumn),
		series.New(high, series.Float, frame.HighColumn),
		series.New(low, series.Float, frame.LowColumn),
		series.New(closes, series.Float, frame.CloseColumn),
		series.New(volume, series.Float, frame.VolumeColumn),
	)
	return df, df.Err
}

// ParseDecimals 解析交易所返回的字符串价格，任一字段非法即报错
func ParseDecimals(values ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal %q: %w", v, err)
		}
		out[i] = d
	}
	return out, nil
}
