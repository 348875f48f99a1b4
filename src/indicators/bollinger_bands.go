package indicators

import (
	"errors"
	"fmt"

	"hyperoptbot/src/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/markcheno/go-talib"
)

// BollingerBands 布林道结构体，基于典型价格计算
type BollingerBands struct {
	Period int    // 计算周期，通常为20
	Width  int    // 标准差倍数，同时作为列名后缀
	Bands  []Band // 输出的轨道，为空时输出全部三条
}

// BollingerBandsResult 布林道计算结果（逐行）
type BollingerBandsResult struct {
	UpperBand  []float64 // 上轨
	MiddleBand []float64 // 中轨（移动平均线）
	LowerBand  []float64 // 下轨
}

// NewBollingerBands 创建新的布林道指标
func NewBollingerBands(period, width int, bands ...Band) *BollingerBands {
	return &BollingerBands{
		Period: period,
		Width:  width,
		Bands:  bands,
	}
}

// Validate 验证参数有效性
func (bb *BollingerBands) Validate() error {
	if bb.Period <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidPeriod, bb.Period)
	}
	if bb.Width <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidMultiplier, bb.Width)
	}
	return nil
}

// Calculate 计算布林道指标，回看期内的值为 NaN
func (bb *BollingerBands) Calculate(prices []float64) (*BollingerBandsResult, error) {
	if err := bb.Validate(); err != nil {
		return nil, err
	}
	if len(prices) < bb.Period {
		return nil, ErrInsufficientData
	}

	k := float64(bb.Width)
	upper, middle, lower := talib.BBands(prices, bb.Period, k, k, talib.SMA)
	lookback := bb.Period - 1

	return &BollingerBandsResult{
		UpperBand:  warmup(upper, lookback),
		MiddleBand: warmup(middle, lookback),
		LowerBand:  warmup(lower, lookback),
	}, nil
}

// Columns 输出列名
func (bb *BollingerBands) Columns() []string {
	cols := make([]string, 0, 3)
	for _, band := range bb.bands() {
		cols = append(cols, band.Column(bb.Width))
	}
	return cols
}

// Apply 在典型价格上计算布林道并追加轨道列
func (bb *BollingerBands) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	typical, err := TypicalPrice(df)
	if err != nil {
		return df, err
	}

	result, err := bb.Calculate(typical)
	if errors.Is(err, ErrInsufficientData) {
		// 数据不足时与滚动窗口一致，整列为 NaN
		n := len(typical)
		result = &BollingerBandsResult{UpperBand: nanSeries(n), MiddleBand: nanSeries(n), LowerBand: nanSeries(n)}
	} else if err != nil {
		return df, fmt.Errorf("failed to calculate Bollinger Bands: %w", err)
	}

	out := df
	for _, band := range bb.bands() {
		out, err = frame.WithFloat(out, band.Column(bb.Width), result.series(band))
		if err != nil {
			return df, err
		}
	}
	return out, nil
}

func (bb *BollingerBands) bands() []Band {
	if len(bb.Bands) == 0 {
		return AllBands
	}
	return bb.Bands
}

func (r *BollingerBandsResult) series(band Band) []float64 {
	switch band {
	case BandUpper:
		return r.UpperBand
	case BandMiddle:
		return r.MiddleBand
	default:
		return r.LowerBand
	}
}

// TypicalPrice 典型价格 (high+low+close)/3
func TypicalPrice(df dataframe.DataFrame) ([]float64, error) {
	cols, err := frame.Floats(df, frame.HighColumn, frame.LowColumn, frame.CloseColumn)
	if err != nil {
		return nil, err
	}
	return talib.TypPrice(cols[0], cols[1], cols[2]), nil
}
