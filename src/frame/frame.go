package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 信号列名
const (
	BuyColumn  = "buy"
	SellColumn = "sell"
)

// 行情基础列名
const (
	OpenColumn   = "open"
	HighColumn   = "high"
	LowColumn    = "low"
	CloseColumn  = "close"
	VolumeColumn = "volume"
	TimeColumn   = "date"
)

// Has 判断行表是否包含指定列
func Has(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Float 读取数值列（返回副本）
func Float(df dataframe.DataFrame, name string) ([]float64, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if !Has(df, name) {
		return nil, fmt.Errorf("%w: %s", ErrMissingInputColumn, name)
	}
	return df.Col(name).Float(), nil
}

// Floats 按顺序读取多个数值列
func Floats(df dataframe.DataFrame, names ...string) ([][]float64, error) {
	cols := make([][]float64, len(names))
	for i, name := range names {
		col, err := Float(df, name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return cols, nil
}

// WithFloat 追加或替换数值列，行顺序与行数保持不变
func WithFloat(df dataframe.DataFrame, name string, values []float64) (dataframe.DataFrame, error) {
	if len(values) != df.Nrow() {
		return df, fmt.Errorf("%w: %s has %d values, table has %d rows", ErrLengthMismatch, name, len(values), df.Nrow())
	}
	out := df.Mutate(series.New(values, series.Float, name))
	if out.Err != nil {
		return df, fmt.Errorf("failed to add column %s: %w", name, out.Err)
	}
	return out, nil
}

// Signal 读取信号列的当前状态，缺失的列视为全部为 false
func Signal(df dataframe.DataFrame, name string) []bool {
	state := make([]bool, df.Nrow())
	if !Has(df, name) {
		return state
	}
	// Bool 列之外（例如 0/1 数值列）按非零处理
	for i, v := range df.Col(name).Float() {
		state[i] = v != 0 && v == v
	}
	return state
}

// MarkTrue 在 mask 为 true 的行上把信号列置为 true，其它行保持原状态
func MarkTrue(df dataframe.DataFrame, name string, mask []bool) (dataframe.DataFrame, error) {
	if len(mask) != df.Nrow() {
		return df, fmt.Errorf("%w: mask has %d values, table has %d rows", ErrLengthMismatch, len(mask), df.Nrow())
	}
	state := Signal(df, name)
	for i, hit := range mask {
		if hit {
			state[i] = true
		}
	}
	out := df.Mutate(series.New(state, series.Bool, name))
	if out.Err != nil {
		return df, fmt.Errorf("failed to mark %s: %w", name, out.Err)
	}
	return out, nil
}

// Count 统计信号列中为 true 的行数
func Count(df dataframe.DataFrame, name string) int {
	n := 0
	for _, v := range Signal(df, name) {
		if v {
			n++
		}
	}
	return n
}
