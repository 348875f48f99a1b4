package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"hyperoptbot/src/indicators"
	"hyperoptbot/src/space"
)

// TriggerChoice 触发器的一个选项：某宽度下的某条布林轨道
type TriggerChoice struct {
	Band  indicators.Band
	Width int
}

// Label 选项标签，例如 bb_lower1、sell_bb_middle1
func (c TriggerChoice) Label(prefix string) string {
	return fmt.Sprintf("%sbb_%s%d", prefix, c.Band, c.Width)
}

// Column 选项对应的轨道列
func (c TriggerChoice) Column() string {
	return c.Band.Column(c.Width)
}

// ParseTriggerChoice 解析 Label 生成的标签
func ParseTriggerChoice(prefix, label string) (TriggerChoice, error) {
	rest, ok := strings.CutPrefix(label, prefix+"bb_")
	if !ok {
		return TriggerChoice{}, fmt.Errorf("%w: trigger %q", ErrOutOfDomainValue, label)
	}
	for _, band := range indicators.AllBands {
		digits, ok := strings.CutPrefix(rest, band.String())
		if !ok {
			continue
		}
		width, err := strconv.Atoi(digits)
		if err != nil || width <= 0 {
			break
		}
		choice := TriggerChoice{Band: band, Width: width}
		// 只接受 Label 的规范写法，bb_lower01 之类不算
		if choice.Label(prefix) != label {
			break
		}
		return choice, nil
	}
	return TriggerChoice{}, fmt.Errorf("%w: trigger %q", ErrOutOfDomainValue, label)
}

// TriggerFamily 互斥的触发器选项，取值存在时恰好追加一个条件
type TriggerFamily struct {
	Key     string
	Prefix  string
	Price   string
	Op      Op
	Choices []TriggerChoice
}

// Labels 全部选项标签
func (f TriggerFamily) Labels() []string {
	return lo.Map(f.Choices, func(c TriggerChoice, _ int) string { return c.Label(f.Prefix) })
}

// Dimension 触发器的枚举维度
func (f TriggerFamily) Dimension() space.Dimension {
	return space.NewLabels(f.Labels(), f.Key)
}

// Condition 根据取值生成条件；键缺失时返回 nil
func (f TriggerFamily) Condition(a space.Assignment) (Condition, error) {
	if !a.Has(f.Key) {
		return nil, nil
	}
	label, ok := a.String(f.Key)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%v", ErrOutOfDomainValue, f.Key, a[f.Key])
	}
	choice, ok := f.byLabel()[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s=%q", ErrOutOfDomainValue, f.Key, label)
	}
	return ColumnColumn{Left: f.Price, Op: f.Op, Right: choice.Column()}, nil
}

func (f TriggerFamily) byLabel() map[string]TriggerChoice {
	return lo.Associate(f.Choices, func(c TriggerChoice) (string, TriggerChoice) {
		return c.Label(f.Prefix), c
	})
}

// Choices 生成指定轨道在宽度 from..to 上的选项
func Choices(band indicators.Band, from, to int) []TriggerChoice {
	return lo.Map(lo.RangeWithSteps(from, to+1, 1), func(w int, _ int) TriggerChoice {
		return TriggerChoice{Band: band, Width: w}
	})
}
