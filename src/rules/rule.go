package rules

import (
	"hyperoptbot/src/space"
)

// Rule 参数化的信号规则：先守卫条件，后触发器
type Rule struct {
	Side     Side
	Guards   []Guard
	Triggers []TriggerFamily
}

// Evaluator 按取值编译出条件列表。编译只做一次，
// 之后的 Apply 不再读取取值。
func (r Rule) Evaluator(a space.Assignment) (*Conjunction, error) {
	conj := &Conjunction{Side: r.Side}
	for _, g := range r.Guards {
		cond, err := g.Condition(a)
		if err != nil {
			return nil, err
		}
		if cond != nil {
			conj.Conditions = append(conj.Conditions, cond)
		}
	}
	for _, f := range r.Triggers {
		cond, err := f.Condition(a)
		if err != nil {
			return nil, err
		}
		if cond != nil {
			conj.Conditions = append(conj.Conditions, cond)
		}
	}
	return conj, nil
}

// Space 规则对应的搜索空间：阈值维度、开关维度、触发器维度
func (r Rule) Space() space.Space {
	var s space.Space
	for _, g := range r.Guards {
		if g.Value != nil {
			s = append(s, g.Value)
		}
	}
	for _, g := range r.Guards {
		s = append(s, space.NewBool(g.EnableKey))
	}
	for _, f := range r.Triggers {
		s = append(s, f.Dimension())
	}
	return s
}
