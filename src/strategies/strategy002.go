package strategies

import (
	"hyperoptbot/src/frame"
	"hyperoptbot/src/indicators"
	"hyperoptbot/src/rules"
	"hyperoptbot/src/space"
)

// Strategy002Name 注册名
const Strategy002Name = "strategy002"

// NewStrategy002 RSI、慢速 K、锤子线与布林下轨组合的买入，
// fisher RSI 与 SAR 组合的卖出，卖出侧没有触发器。
func NewStrategy002() Hyperopt {
	set := indicators.Set{
		indicators.NewSlowStochastic(),
		indicators.NewRSI(14, indicators.RSIColumn),
		indicators.FisherRSI{},
	}
	for width := 1; width <= 4; width++ {
		set = append(set, indicators.NewBollingerBands(20, width, indicators.BandLower))
	}
	set = append(set, indicators.NewParabolicSAR(), indicators.NewHammer())

	return &ruleHyperopt{
		name:       Strategy002Name,
		indicators: set,
		buy: rules.Rule{
			Side: rules.Buy,
			Guards: []rules.Guard{
				{
					EnableKey: "rsi-enabled",
					ValueKey:  "rsi-value",
					Column:    indicators.RSIColumn,
					Op:        rules.Less,
					Value:     space.NewInteger(20, 40, "rsi-value"),
				},
				{
					EnableKey: "slowk-enabled",
					ValueKey:  "slowk-value",
					Column:    indicators.SlowKColumn,
					Op:        rules.Less,
					Value:     space.NewInteger(10, 30, "slowk-value"),
				},
				{
					EnableKey: "CDLHAMMER-enabled",
					ValueKey:  "CDLHAMMER-value",
					Column:    indicators.HammerColumn,
					Op:        rules.Equal,
					Value:     space.NewInteger(0, 100, "CDLHAMMER-value"),
				},
			},
			Triggers: []rules.TriggerFamily{{
				Key:     "trigger",
				Price:   frame.CloseColumn,
				Op:      rules.Less,
				Choices: rules.Choices(indicators.BandLower, 1, 4),
			}},
		},
		sell: rules.Rule{
			Side: rules.Sell,
			Guards: []rules.Guard{
				{
					// 阈值域是 [-1, 1]，比较 fisher_rsi 而不是原始 rsi
					EnableKey: "sell-fisher-rsi-enabled",
					ValueKey:  "sell-fisher-rsi-value",
					Column:    indicators.FisherRSIColumn,
					Op:        rules.Greater,
					Value:     space.NewReal(-1, 1, "sell-fisher-rsi-value"),
				},
				{
					// sar 是价格量级，与 [-1, 1] 的阈值比较几乎恒为真
					EnableKey: "sell-sar-enabled",
					ValueKey:  "sell-sar-value",
					Column:    indicators.SARColumn,
					Op:        rules.Greater,
					Value:     space.NewReal(-1, 1, "sell-sar-value"),
				},
			},
		},
		refBuy: rules.Reference(rules.Buy,
			rules.ColumnValue{Column: indicators.RSIColumn, Op: rules.Less, Value: 30},
			rules.ColumnValue{Column: indicators.SlowKColumn, Op: rules.Less, Value: 20},
			rules.ColumnColumn{Left: indicators.BandLower.Column(canonicalWidth), Op: rules.Greater, Right: frame.CloseColumn},
			rules.ColumnValue{Column: indicators.HammerColumn, Op: rules.Equal, Value: 100},
		),
		refSell: rules.Reference(rules.Sell,
			rules.ColumnColumn{Left: indicators.SARColumn, Op: rules.Greater, Right: frame.CloseColumn},
			rules.ColumnValue{Column: indicators.FisherRSIColumn, Op: rules.Greater, Value: 0.3},
		),
	}
}
