package space

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Space 有序的维度列表
type Space []Dimension

// Names 按声明顺序返回维度名称
func (s Space) Names() []string {
	return lo.Map(s, func(d Dimension, _ int) string { return d.Name() })
}

// Get 按名称查找维度
func (s Space) Get(name string) (Dimension, bool) {
	return lo.Find(s, func(d Dimension) bool { return d.Name() == name })
}

// Validate 检查每个维度声明以及名称唯一性
func (s Space) Validate() error {
	for _, d := range s {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	if dup := lo.FindDuplicates(s.Names()); len(dup) > 0 {
		return fmt.Errorf("%w: %v", ErrDuplicateDimension, dup)
	}
	return nil
}

// Join 合并多个空间用于联合搜索，名称冲突时报错
func Join(spaces ...Space) (Space, error) {
	joined := Space(lo.Flatten(lo.Map(spaces, func(s Space, _ int) []Dimension { return s })))
	if err := joined.Validate(); err != nil {
		return nil, err
	}
	return joined, nil
}

// Check 边界校验：已出现的键其取值必须在对应维度范围内。
// 空间未声明的键被忽略。
func (s Space) Check(a Assignment) error {
	for _, d := range s {
		v, ok := a[d.Name()]
		if !ok {
			continue
		}
		if !d.Contains(v) {
			return fmt.Errorf("%w: %s=%v", ErrOutOfDomainValue, d.Name(), v)
		}
	}
	return nil
}

// Unknown 返回取值中空间未声明的键，按字典序
func (s Space) Unknown(a Assignment) []string {
	declared := lo.Associate(s, func(d Dimension) (string, struct{}) { return d.Name(), struct{}{} })
	keys := lo.Filter(lo.Keys(map[string]any(a)), func(k string, _ int) bool {
		_, ok := declared[k]
		return !ok
	})
	sort.Strings(keys)
	return keys
}

// Description 维度的可序列化描述
type Description struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Low     *float64 `json:"low,omitempty"`
	High    *float64 `json:"high,omitempty"`
	Options []any    `json:"options,omitempty"`
}

// Describe 生成空间的描述，供命令行输出
func (s Space) Describe() []Description {
	return lo.Map(s, func(d Dimension, _ int) Description {
		desc := Description{Name: d.Name(), Kind: d.Kind()}
		switch dim := d.(type) {
		case *Real:
			desc.Low, desc.High = lo.ToPtr(dim.Low), lo.ToPtr(dim.High)
		case *Integer:
			desc.Low, desc.High = lo.ToPtr(float64(dim.Low)), lo.ToPtr(float64(dim.High))
		case *Categorical:
			desc.Options = dim.Values()
		}
		return desc
	})
}
