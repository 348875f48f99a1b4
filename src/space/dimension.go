// Package space 描述超参数搜索空间：维度声明与一次参数取值。
package space

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Kind 维度类型
type Kind string

const (
	KindReal        Kind = "real"        // 连续区间
	KindInteger     Kind = "integer"     // 整数区间
	KindCategorical Kind = "categorical" // 枚举集合
)

// Dimension 搜索空间中的一个命名维度，声明后不可变
type Dimension interface {
	// Name 维度名称，在同一空间内唯一
	Name() string

	// Kind 维度类型
	Kind() Kind

	// Contains 判断取值是否在维度范围内
	Contains(v any) bool

	// Values 有限维度的全部取值，连续维度返回 nil
	Values() []any

	// Validate 检查声明本身是否有效
	Validate() error
}

// Real 连续区间 [Low, High]
type Real struct {
	name      string
	Low, High float64
}

// NewReal 创建连续维度
func NewReal(low, high float64, name string) *Real {
	return &Real{name: name, Low: low, High: high}
}

func (d *Real) Name() string { return d.name }
func (d *Real) Kind() Kind   { return KindReal }
func (d *Real) Values() []any { return nil }

func (d *Real) Contains(v any) bool {
	f, ok := toFloat(v)
	return ok && !math.IsNaN(f) && f >= d.Low && f <= d.High
}

func (d *Real) Validate() error {
	if d.name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDimension)
	}
	if d.Low > d.High {
		return fmt.Errorf("%w: %s low %v > high %v", ErrInvalidDimension, d.name, d.Low, d.High)
	}
	return nil
}

// Integer 整数区间 [Low, High]，两端包含
type Integer struct {
	name      string
	Low, High int
}

// NewInteger 创建整数维度
func NewInteger(low, high int, name string) *Integer {
	return &Integer{name: name, Low: low, High: high}
}

func (d *Integer) Name() string { return d.name }
func (d *Integer) Kind() Kind   { return KindInteger }

func (d *Integer) Contains(v any) bool {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return false
	}
	return f >= float64(d.Low) && f <= float64(d.High)
}

// Values 按升序列出区间内的全部整数
func (d *Integer) Values() []any {
	if d.Low > d.High {
		return nil
	}
	return lo.Map(lo.RangeWithSteps(d.Low, d.High+1, 1), func(v int, _ int) any { return v })
}

func (d *Integer) Validate() error {
	if d.name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDimension)
	}
	if d.Low > d.High {
		return fmt.Errorf("%w: %s low %d > high %d", ErrInvalidDimension, d.name, d.Low, d.High)
	}
	return nil
}

// Categorical 枚举集合
type Categorical struct {
	name    string
	Options []any
}

// NewCategorical 创建枚举维度
func NewCategorical(options []any, name string) *Categorical {
	return &Categorical{name: name, Options: options}
}

// NewBool 创建 {true, false} 开关维度
func NewBool(name string) *Categorical {
	return NewCategorical([]any{true, false}, name)
}

// NewLabels 创建字符串枚举维度
func NewLabels(labels []string, name string) *Categorical {
	return NewCategorical(lo.Map(labels, func(l string, _ int) any { return l }), name)
}

func (d *Categorical) Name() string  { return d.name }
func (d *Categorical) Kind() Kind    { return KindCategorical }
func (d *Categorical) Values() []any { return append([]any(nil), d.Options...) }

func (d *Categorical) Contains(v any) bool {
	for _, opt := range d.Options {
		if equal(opt, v) {
			return true
		}
	}
	return false
}

func (d *Categorical) Validate() error {
	if d.name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDimension)
	}
	if len(d.Options) == 0 {
		return fmt.Errorf("%w: %s has no options", ErrInvalidDimension, d.name)
	}
	return nil
}

// equal 比较两个取值，数值类型按数值比较（JSON 解码后的整数为 float64）
func equal(a, b any) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	if okA != okB {
		return false
	}
	return a == b
}

// toFloat 把数值类型统一转为 float64，bool 与字符串不视为数值
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
