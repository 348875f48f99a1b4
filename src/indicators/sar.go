package indicators

import (
	"hyperoptbot/src/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/markcheno/go-talib"
)

// ParabolicSAR 抛物线转向指标
type ParabolicSAR struct {
	Acceleration float64
	Maximum      float64
}

// NewParabolicSAR 默认加速因子 0.02，上限 0.2
func NewParabolicSAR() *ParabolicSAR {
	return &ParabolicSAR{Acceleration: 0.02, Maximum: 0.2}
}

func (p *ParabolicSAR) Columns() []string { return []string{SARColumn} }

func (p *ParabolicSAR) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cols, err := frame.Floats(df, frame.HighColumn, frame.LowColumn)
	if err != nil {
		return df, err
	}

	n := len(cols[0])
	values := nanSeries(n)
	if n > 1 {
		values = warmup(talib.Sar(cols[0], cols[1], p.Acceleration, p.Maximum), 1)
	}
	return frame.WithFloat(df, SARColumn, values)
}
