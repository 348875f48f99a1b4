// Package strategies 定义可供超参数搜索的信号策略。
package strategies

import (
	"github.com/go-gota/gota/dataframe"

	"hyperoptbot/src/indicators"
	"hyperoptbot/src/rules"
	"hyperoptbot/src/space"
)

// Evaluator 在标注后的行表上标记信号列
type Evaluator interface {
	Apply(df dataframe.DataFrame) (dataframe.DataFrame, error)
}

// Hyperopt 一个可搜索的策略：指标标注器、买卖搜索空间、规则生成器与参考规则
type Hyperopt interface {
	// Name 注册名
	Name() string

	// Indicators 指标标注步骤
	Indicators() indicators.Set

	// PopulateIndicators 在 K 线行表上追加全部指标列
	PopulateIndicators(df dataframe.DataFrame) (dataframe.DataFrame, error)

	// BuySpace 买入参数空间
	BuySpace() space.Space

	// SellSpace 卖出参数空间
	SellSpace() space.Space

	// BuyEvaluator 按取值生成买入规则
	BuyEvaluator(a space.Assignment) (Evaluator, error)

	// SellEvaluator 按取值生成卖出规则
	SellEvaluator(a space.Assignment) (Evaluator, error)

	// ReferenceBuy 未搜索买入空间时使用的固定规则
	ReferenceBuy() Evaluator

	// ReferenceSell 未搜索卖出空间时使用的固定规则
	ReferenceSell() Evaluator
}

// ruleHyperopt 由规则声明组合出的 Hyperopt 实现
type ruleHyperopt struct {
	name            string
	indicators      indicators.Set
	buy, sell       rules.Rule
	refBuy, refSell *rules.Conjunction
}

func (h *ruleHyperopt) Name() string               { return h.name }
func (h *ruleHyperopt) Indicators() indicators.Set { return h.indicators }
func (h *ruleHyperopt) BuySpace() space.Space      { return h.buy.Space() }
func (h *ruleHyperopt) SellSpace() space.Space     { return h.sell.Space() }
func (h *ruleHyperopt) ReferenceBuy() Evaluator    { return h.refBuy }
func (h *ruleHyperopt) ReferenceSell() Evaluator   { return h.refSell }

func (h *ruleHyperopt) PopulateIndicators(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return h.indicators.Populate(df)
}

func (h *ruleHyperopt) BuyEvaluator(a space.Assignment) (Evaluator, error) {
	return evaluator(h.buy, a)
}

func (h *ruleHyperopt) SellEvaluator(a space.Assignment) (Evaluator, error) {
	return evaluator(h.sell, a)
}

func evaluator(r rules.Rule, a space.Assignment) (Evaluator, error) {
	conj, err := r.Evaluator(a)
	if err != nil {
		return nil, err
	}
	return conj, nil
}

var _ Hyperopt = (*ruleHyperopt)(nil)
