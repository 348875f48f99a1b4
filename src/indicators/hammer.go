package indicators

import (
	"math"

	"hyperoptbot/src/frame"

	"github.com/go-gota/gota/dataframe"
)

// Hammer 锤子线形态识别，命中为 100，否则为 0
//
// 判定条件：实体小、下影线长、几乎没有上影线、实体位于前一根K线低点附近。
type Hammer struct {
	BodyRatio        float64 // 实体占振幅上限
	LowerShadowRatio float64 // 下影线至少为实体的倍数
	UpperShadowRatio float64 // 上影线占振幅上限
	NearRatio        float64 // 距前一根低点的容差（占前一根振幅）
}

// NewHammer 默认阈值
func NewHammer() *Hammer {
	return &Hammer{
		BodyRatio:        0.3,
		LowerShadowRatio: 2.0,
		UpperShadowRatio: 0.1,
		NearRatio:        0.2,
	}
}

func (h *Hammer) Columns() []string { return []string{HammerColumn} }

func (h *Hammer) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cols, err := frame.Floats(df, frame.OpenColumn, frame.HighColumn, frame.LowColumn, frame.CloseColumn)
	if err != nil {
		return df, err
	}
	open, high, low, closes := cols[0], cols[1], cols[2], cols[3]

	scores := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		if h.matches(open[i], high[i], low[i], closes[i], high[i-1], low[i-1]) {
			scores[i] = 100
		}
	}
	return frame.WithFloat(df, HammerColumn, scores)
}

func (h *Hammer) matches(o, hi, lo, c, prevHigh, prevLow float64) bool {
	rng := hi - lo
	if !(rng > 0) {
		return false
	}
	body := math.Abs(c - o)
	bottom := math.Min(o, c)
	lowerShadow := bottom - lo
	upperShadow := hi - math.Max(o, c)

	if body > h.BodyRatio*rng {
		return false
	}
	if lowerShadow < h.LowerShadowRatio*body || lowerShadow <= 0 {
		return false
	}
	if upperShadow > h.UpperShadowRatio*rng {
		return false
	}
	return bottom <= prevLow+h.NearRatio*(prevHigh-prevLow)
}
