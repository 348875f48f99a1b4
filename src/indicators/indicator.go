package indicators

import (
	"math"

	"github.com/go-gota/gota/dataframe"
)

// Step 单个指标计算步骤，向行表追加固定的列
type Step interface {
	// Columns 该步骤输出的列名
	Columns() []string

	// Apply 计算指标并追加到行表
	Apply(df dataframe.DataFrame) (dataframe.DataFrame, error)
}

// Set 有序的指标步骤集合，即一个策略的指标标注器
type Set []Step

// Columns 标注后新增的全部列名（静态可知）
func (s Set) Columns() []string {
	var cols []string
	for _, step := range s {
		cols = append(cols, step.Columns()...)
	}
	return cols
}

// Populate 依次执行全部步骤，不改变行顺序与行数
func (s Set) Populate(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	out := df
	for _, step := range s {
		next, err := step.Apply(out)
		if err != nil {
			return df, err
		}
		out = next
	}
	return out, nil
}

// nanSeries 全部为 NaN 的列
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// warmup 把 talib 回看期内的输出置为 NaN，NaN 参与的比较恒为 false
func warmup(values []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(values); i++ {
		values[i] = math.NaN()
	}
	return values
}
