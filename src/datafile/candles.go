// Package datafile 本地 K 线文件（Parquet、CSV）与参数文件（YAML、JSON）。
package datafile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"hyperoptbot/src/frame"
	"hyperoptbot/src/market"
)

// CandleRecord K 线文件的 Parquet 结构
type CandleRecord struct {
	Symbol    string  `parquet:"symbol"`
	OpenTime  int64   `parquet:"open_time,timestamp(millisecond)"`
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
	CloseTime int64   `parquet:"close_time,timestamp(millisecond)"`
}

// ReadCandles 按扩展名读取 .parquet 或 .csv
func ReadCandles(path string) ([]*market.Candle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return readParquet(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported candle file: %s", path)
	}
}

// WriteCandles 按扩展名写入 .parquet 或 .csv
func WriteCandles(path string, candles []*market.Candle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		records := make([]CandleRecord, len(candles))
		for i, c := range candles {
			records[i] = CandleRecord{
				Symbol:    c.Symbol,
				OpenTime:  c.OpenTime,
				Open:      c.Open.InexactFloat64(),
				High:      c.High.InexactFloat64(),
				Low:       c.Low.InexactFloat64(),
				Close:     c.Close.InexactFloat64(),
				Volume:    c.Volume.InexactFloat64(),
				CloseTime: c.CloseTime,
			}
		}
		return parquet.WriteFile(path, records)
	case ".csv":
		return writeCSV(path, candles)
	default:
		return fmt.Errorf("unsupported candle file: %s", path)
	}
}

func readParquet(path string) ([]*market.Candle, error) {
	records, err := parquet.ReadFile[CandleRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	candles := make([]*market.Candle, len(records))
	for i, r := range records {
		candles[i] = &market.Candle{
			Symbol:    r.Symbol,
			OpenTime:  r.OpenTime,
			Open:      decimal.NewFromFloat(r.Open),
			High:      decimal.NewFromFloat(r.High),
			Low:       decimal.NewFromFloat(r.Low),
			Close:     decimal.NewFromFloat(r.Close),
			Volume:    decimal.NewFromFloat(r.Volume),
			CloseTime: r.CloseTime,
		}
	}
	return candles, nil
}

// readCSV 读取带表头的 CSV，必需列 date(毫秒)、open、high、low、close，volume 可选
func readCSV(path string) ([]*market.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, df.Err)
	}

	cols, err := frame.Floats(df, frame.TimeColumn, frame.OpenColumn, frame.HighColumn, frame.LowColumn, frame.CloseColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	volume := make([]float64, df.Nrow())
	if frame.Has(df, frame.VolumeColumn) {
		volume = df.Col(frame.VolumeColumn).Float()
	}
	var symbols []string
	if frame.Has(df, "symbol") {
		symbols = df.Col("symbol").Records()
	}

	candles := make([]*market.Candle, df.Nrow())
	for i := range candles {
		c := &market.Candle{
			OpenTime: int64(cols[0][i]),
			Open:     decimal.NewFromFloat(cols[1][i]),
			High:     decimal.NewFromFloat(cols[2][i]),
			Low:      decimal.NewFromFloat(cols[3][i]),
			Close:    decimal.NewFromFloat(cols[4][i]),
			Volume:   decimal.NewFromFloat(volume[i]),
		}
		if symbols != nil {
			c.Symbol = symbols[i]
		}
		candles[i] = c
	}
	return candles, nil
}

func writeCSV(path string, candles []*market.Candle) error {
	n := len(candles)
	symbols := make([]string, n)
	times := make([]int, n)
	prices := [5][]string{}
	for j := range prices {
		prices[j] = make([]string, n)
	}
	for i, c := range candles {
		symbols[i] = c.Symbol
		times[i] = int(c.OpenTime)
		for j, d := range []decimal.Decimal{c.Open, c.High, c.Low, c.Close, c.Volume} {
			prices[j][i] = d.String()
		}
	}

	df := dataframe.New(
		series.New(symbols, series.String, "symbol"),
		series.New(times, series.Int, frame.TimeColumn),
		series.New(prices[0], series.Float, frame.OpenColumn),
		series.New(prices[1], series.Float, frame.HighColumn),
		series.New(prices[2], series.Float, frame.LowColumn),
		series.New(prices[3], series.Float, frame.CloseColumn),
		series.New(prices[4], series.Float, frame.VolumeColumn),
	)
	if df.Err != nil {
		return df.Err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return df.WriteCSV(f)
}

// FileSource 以本地文件为 K 线来源
type FileSource struct {
	Path string
}

// GetCandles 读取文件后按交易对、时间区间与条数过滤
func (s FileSource) GetCandles(_ context.Context, q market.Query) ([]*market.Candle, error) {
	all, err := ReadCandles(s.Path)
	if err != nil {
		return nil, err
	}

	var out []*market.Candle
	for _, c := range all {
		if q.Symbol != "" && c.Symbol != "" && c.Symbol != q.Symbol {
			continue
		}
		if !q.Start.IsZero() && c.OpenTime < q.Start.UnixMilli() {
			continue
		}
		if !q.End.IsZero() && c.OpenTime >= q.End.UnixMilli() {
			continue
		}
		if c.Symbol == "" {
			c.Symbol = q.Symbol
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenTime < out[j].OpenTime })

	if q.Limit > 0 && len(out) > q.Limit {
		if q.Start.IsZero() {
			out = out[len(out)-q.Limit:]
		} else {
			out = out[:q.Limit]
		}
	}
	return out, nil
}

var _ market.Source = FileSource{}
