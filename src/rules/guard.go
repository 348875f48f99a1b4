package rules

import (
	"fmt"

	"hyperoptbot/src/space"
)

// Guard 可开关的阈值条件：EnableKey 为真时追加 Column Op a[ValueKey]
type Guard struct {
	EnableKey string
	ValueKey  string
	Column    string
	Op        Op

	// Value 阈值的取值范围
	Value space.Dimension
}

// Condition 根据取值生成条件；未启用时返回 nil
func (g Guard) Condition(a space.Assignment) (Condition, error) {
	enabled, ok := a.Bool(g.EnableKey)
	if !ok {
		if a.Has(g.EnableKey) {
			return nil, fmt.Errorf("%w: %s=%v", ErrOutOfDomainValue, g.EnableKey, a[g.EnableKey])
		}
		return nil, nil
	}
	if !enabled {
		return nil, nil
	}

	value, ok := a.Float(g.ValueKey)
	if !ok {
		if a.Has(g.ValueKey) {
			return nil, fmt.Errorf("%w: %s=%v", ErrOutOfDomainValue, g.ValueKey, a[g.ValueKey])
		}
		return nil, fmt.Errorf("%w: %s enabled, %s missing", ErrMissingValue, g.EnableKey, g.ValueKey)
	}
	return ColumnValue{Column: g.Column, Op: g.Op, Value: value}, nil
}
