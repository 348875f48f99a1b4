package indicators

import "fmt"

// 指标列名
const (
	RSIColumn       = "rsi"
	SellRSIColumn   = "sell-rsi"
	SlowKColumn     = "slowk"
	FisherRSIColumn = "fisher_rsi"
	SARColumn       = "sar"
	HammerColumn    = "CDLHAMMER"
	TypicalColumn   = "typical_price"
)

// Band 布林道轨道
type Band int

const (
	BandLower Band = iota
	BandMiddle
	BandUpper
)

// AllBands 全部三条轨道
var AllBands = []Band{BandLower, BandMiddle, BandUpper}

// String 轨道名称，与列名前缀一致
func (b Band) String() string {
	switch b {
	case BandLower:
		return "lower"
	case BandMiddle:
		return "middle"
	case BandUpper:
		return "upper"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// Column 指定宽度的轨道列名，例如 bb_lowerband2
func (b Band) Column(width int) string {
	return fmt.Sprintf("bb_%sband%d", b, width)
}
