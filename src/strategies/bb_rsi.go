package strategies

import (
	"hyperoptbot/src/frame"
	"hyperoptbot/src/indicators"
	"hyperoptbot/src/rules"
	"hyperoptbot/src/space"
)

// BBRSIName 布林道 + RSI 策略的注册名
const BBRSIName = "bb_rsi"

// canonicalWidth 参考规则使用的布林道宽度
const canonicalWidth = 2

// NewBBRSI 布林道 + RSI 策略。
// 买入：RSI 低于阈值且收盘价跌破某宽度的下轨；
// 卖出：RSI 高于阈值且收盘价低于 1 倍宽度的某条轨道。
func NewBBRSI() Hyperopt {
	bbSteps := make(indicators.Set, 0, 4)
	for width := 1; width <= 4; width++ {
		bbSteps = append(bbSteps, indicators.NewBollingerBands(20, width, indicators.AllBands...))
	}

	return &ruleHyperopt{
		name: BBRSIName,
		indicators: append(indicators.Set{
			indicators.NewRSI(14, indicators.RSIColumn, indicators.SellRSIColumn),
		}, bbSteps...),
		buy: rules.Rule{
			Side: rules.Buy,
			Guards: []rules.Guard{{
				EnableKey: "rsi-enabled",
				ValueKey:  "rsi-value",
				Column:    indicators.RSIColumn,
				Op:        rules.Less,
				Value:     space.NewInteger(5, 50, "rsi-value"),
			}},
			Triggers: []rules.TriggerFamily{{
				Key:     "trigger",
				Price:   frame.CloseColumn,
				Op:      rules.Less,
				Choices: rules.Choices(indicators.BandLower, 1, 4),
			}},
		},
		sell: rules.Rule{
			Side: rules.Sell,
			Guards: []rules.Guard{{
				EnableKey: "sell-rsi-enabled",
				ValueKey:  "sell-rsi-value",
				Column:    indicators.RSIColumn,
				Op:        rules.Greater,
				Value:     space.NewInteger(30, 100, "sell-rsi-value"),
			}},
			Triggers: []rules.TriggerFamily{{
				Key:    "sell-trigger",
				Prefix: "sell_",
				Price:  frame.CloseColumn,
				// 三个选项都是收盘价低于轨道
				Op: rules.Less,
				Choices: []rules.TriggerChoice{
					{Band: indicators.BandLower, Width: 1},
					{Band: indicators.BandMiddle, Width: 1},
					{Band: indicators.BandUpper, Width: 1},
				},
			}},
		},
		refBuy: rules.Reference(rules.Buy,
			rules.ColumnValue{Column: indicators.RSIColumn, Op: rules.Greater, Value: 30},
			rules.ColumnColumn{Left: frame.CloseColumn, Op: rules.Less, Right: indicators.BandLower.Column(canonicalWidth)},
		),
		refSell: rules.Reference(rules.Sell,
			rules.ColumnColumn{Left: frame.CloseColumn, Op: rules.Greater, Right: indicators.BandMiddle.Column(canonicalWidth)},
		),
	}
}
