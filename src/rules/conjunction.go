package rules

import (
	"strings"

	"github.com/go-gota/gota/dataframe"

	"hyperoptbot/src/frame"
)

// Side 信号方向
type Side string

const (
	Buy  Side = frame.BuyColumn
	Sell Side = frame.SellColumn
)

// Column 信号列名
func (s Side) Column() string { return string(s) }

// Conjunction 已编译的信号规则：全部条件同时成立的行被标记
type Conjunction struct {
	Side       Side
	Conditions []Condition
}

// Reference 不依赖参数取值的固定规则
func Reference(side Side, conditions ...Condition) *Conjunction {
	return &Conjunction{Side: side, Conditions: conditions}
}

// Apply 在行表上标记信号。条件为空时原样返回；
// 只会把信号置为 true，重复调用结果不变。
func (c *Conjunction) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if len(c.Conditions) == 0 {
		return df, nil
	}

	var combined []bool
	for _, cond := range c.Conditions {
		mask, err := cond.Mask(df)
		if err != nil {
			return df, err
		}
		if combined == nil {
			combined = mask
			continue
		}
		for i := range combined {
			combined[i] = combined[i] && mask[i]
		}
	}

	return frame.MarkTrue(df, c.Side.Column(), combined)
}

// Empty 没有任何条件
func (c *Conjunction) Empty() bool { return len(c.Conditions) == 0 }

func (c *Conjunction) String() string {
	if c.Empty() {
		return string(c.Side) + ": <none>"
	}
	parts := make([]string, len(c.Conditions))
	for i, cond := range c.Conditions {
		parts[i] = "(" + cond.String() + ")"
	}
	return string(c.Side) + ": " + strings.Join(parts, " & ")
}
