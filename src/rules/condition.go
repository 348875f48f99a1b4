// Package rules 把一次参数取值编译为行表上的信号规则。
package rules

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"hyperoptbot/src/frame"
)

// Op 比较运算
type Op int

const (
	Less Op = iota
	Greater
	Equal
)

func (op Op) String() string {
	switch op {
	case Less:
		return "<"
	case Greater:
		return ">"
	case Equal:
		return "=="
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// compare 逐元素比较，NaN 参与的比较恒为 false
func (op Op) compare(l, r float64) bool {
	switch op {
	case Less:
		return l < r
	case Greater:
		return l > r
	case Equal:
		return l == r
	default:
		return false
	}
}

func (op Op) valid() bool {
	return op == Less || op == Greater || op == Equal
}

// Condition 行表上的逐行布尔判断
type Condition interface {
	Mask(df dataframe.DataFrame) ([]bool, error)
	String() string
}

// ColumnValue 列与常数比较
type ColumnValue struct {
	Column string
	Op     Op
	Value  float64
}

func (c ColumnValue) Mask(df dataframe.DataFrame) ([]bool, error) {
	if !c.Op.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownOp, c.Op)
	}
	col, err := frame.Float(df, c.Column)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(col))
	for i, v := range col {
		mask[i] = c.Op.compare(v, c.Value)
	}
	return mask, nil
}

func (c ColumnValue) String() string {
	return fmt.Sprintf("%s %s %v", c.Column, c.Op, c.Value)
}

// ColumnColumn 两列逐行比较
type ColumnColumn struct {
	Left  string
	Op    Op
	Right string
}

func (c ColumnColumn) Mask(df dataframe.DataFrame) ([]bool, error) {
	if !c.Op.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownOp, c.Op)
	}
	cols, err := frame.Floats(df, c.Left, c.Right)
	if err != nil {
		return nil, err
	}
	left, right := cols[0], cols[1]
	mask := make([]bool, len(left))
	for i := range left {
		mask[i] = c.Op.compare(left[i], right[i])
	}
	return mask, nil
}

func (c ColumnColumn) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

var (
	_ Condition = ColumnValue{}
	_ Condition = ColumnColumn{}
)
