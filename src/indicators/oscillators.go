package indicators

import (
	"fmt"
	"math"

	"hyperoptbot/src/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/markcheno/go-talib"
)

// RSI 相对强弱指标，值域 [0,100]
type RSI struct {
	Period  int
	Outputs []string // 输出列名，同一结果可以写入多个列
}

// NewRSI 创建 RSI 指标，未指定列名时输出到 rsi
func NewRSI(period int, columns ...string) *RSI {
	if len(columns) == 0 {
		columns = []string{RSIColumn}
	}
	return &RSI{Period: period, Outputs: columns}
}

func (r *RSI) Columns() []string { return r.Outputs }

func (r *RSI) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if r.Period <= 0 {
		return df, fmt.Errorf("%w, got %d", ErrInvalidPeriod, r.Period)
	}
	closes, err := frame.Float(df, frame.CloseColumn)
	if err != nil {
		return df, err
	}

	values := nanSeries(len(closes))
	if len(closes) > r.Period {
		values = warmup(talib.Rsi(closes, r.Period), r.Period)
	}

	out := df
	for _, col := range r.Outputs {
		if out, err = frame.WithFloat(out, col, values); err != nil {
			return df, err
		}
	}
	return out, nil
}

// SlowStochastic 慢速随机指标的 %K（STOCH 的 slowk 输出）
type SlowStochastic struct {
	FastKPeriod int
	SlowKPeriod int
	SlowDPeriod int
}

// NewSlowStochastic 默认参数 5/3/3，与 TA-Lib STOCH 一致
func NewSlowStochastic() *SlowStochastic {
	return &SlowStochastic{FastKPeriod: 5, SlowKPeriod: 3, SlowDPeriod: 3}
}

func (s *SlowStochastic) Columns() []string { return []string{SlowKColumn} }

func (s *SlowStochastic) lookback() int {
	return (s.FastKPeriod - 1) + (s.SlowKPeriod - 1) + (s.SlowDPeriod - 1)
}

func (s *SlowStochastic) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if s.FastKPeriod <= 0 || s.SlowKPeriod <= 0 || s.SlowDPeriod <= 0 {
		return df, fmt.Errorf("%w: stoch %d/%d/%d", ErrInvalidPeriod, s.FastKPeriod, s.SlowKPeriod, s.SlowDPeriod)
	}
	cols, err := frame.Floats(df, frame.HighColumn, frame.LowColumn, frame.CloseColumn)
	if err != nil {
		return df, err
	}

	n := len(cols[2])
	slowK := nanSeries(n)
	if n > s.lookback() {
		k, _ := talib.Stoch(cols[0], cols[1], cols[2], s.FastKPeriod, s.SlowKPeriod, talib.SMA, s.SlowDPeriod, talib.SMA)
		slowK = warmup(k, s.lookback())
	}
	return frame.WithFloat(df, SlowKColumn, slowK)
}

// FisherRSI 对 RSI 做反 Fisher 变换，值域 [-1,1]，依赖 rsi 列
type FisherRSI struct{}

func (FisherRSI) Columns() []string { return []string{FisherRSIColumn} }

func (FisherRSI) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	rsi, err := frame.Float(df, RSIColumn)
	if err != nil {
		return df, err
	}

	values := make([]float64, len(rsi))
	for i, v := range rsi {
		x := 0.1 * (v - 50)
		values[i] = (math.Exp(2*x) - 1) / (math.Exp(2*x) + 1)
	}
	return frame.WithFloat(df, FisherRSIColumn, values)
}
