package strategies

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"hyperoptbot/src/frame"
	"hyperoptbot/src/space"
)

// Session 一份 K 线只标注一次，之后每次评估都在标注结果的副本上进行，
// 多个搜索协程可以共用同一个 Session。
type Session struct {
	strategy  Hyperopt
	annotated dataframe.DataFrame
}

// NewSession 标注指标并返回会话
func NewSession(h Hyperopt, candles dataframe.DataFrame) (*Session, error) {
	annotated, err := h.PopulateIndicators(candles)
	if err != nil {
		return nil, fmt.Errorf("populate indicators for %s: %w", h.Name(), err)
	}
	return &Session{strategy: h, annotated: annotated}, nil
}

// Strategy 会话使用的策略
func (s *Session) Strategy() Hyperopt { return s.strategy }

// Annotated 标注后行表的副本
func (s *Session) Annotated() dataframe.DataFrame { return s.annotated.Copy() }

// Rows 行数
func (s *Session) Rows() int { return s.annotated.Nrow() }

// Buy 评估买入规则。a 为 nil 表示未搜索买入空间，使用参考规则。
func (s *Session) Buy(a space.Assignment) (dataframe.DataFrame, error) {
	ev, err := s.buyEvaluator(a)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return ev.Apply(s.Annotated())
}

// Sell 评估卖出规则，nil 的含义同 Buy
func (s *Session) Sell(a space.Assignment) (dataframe.DataFrame, error) {
	ev, err := s.sellEvaluator(a)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return ev.Apply(s.Annotated())
}

// Result 一次买卖评估的信号统计
type Result struct {
	Rows        int
	BuySignals  int
	SellSignals int
	Table       dataframe.DataFrame
}

// Signals 在同一份副本上依次评估买入与卖出
func (s *Session) Signals(buy, sell space.Assignment) (*Result, error) {
	buyEv, err := s.buyEvaluator(buy)
	if err != nil {
		return nil, err
	}
	sellEv, err := s.sellEvaluator(sell)
	if err != nil {
		return nil, err
	}

	df, err := buyEv.Apply(s.Annotated())
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}
	df, err = sellEv.Apply(df)
	if err != nil {
		return nil, fmt.Errorf("sell: %w", err)
	}

	return &Result{
		Rows:        df.Nrow(),
		BuySignals:  frame.Count(df, frame.BuyColumn),
		SellSignals: frame.Count(df, frame.SellColumn),
		Table:       df,
	}, nil
}

func (s *Session) buyEvaluator(a space.Assignment) (Evaluator, error) {
	if a == nil {
		return s.strategy.ReferenceBuy(), nil
	}
	if err := s.strategy.BuySpace().Check(a); err != nil {
		return nil, fmt.Errorf("buy params: %w", err)
	}
	return s.strategy.BuyEvaluator(a)
}

func (s *Session) sellEvaluator(a space.Assignment) (Evaluator, error) {
	if a == nil {
		return s.strategy.ReferenceSell(), nil
	}
	if err := s.strategy.SellSpace().Check(a); err != nil {
		return nil, fmt.Errorf("sell params: %w", err)
	}
	return s.strategy.SellEvaluator(a)
}
