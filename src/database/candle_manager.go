package database

import (
	"context"
	"sort"

	"github.com/xpwu/go-log/log"

	"hyperoptbot/src/market"
)

// CandleManager K 线数据管理器：优先读库，缺失时从远端补充并回写
type CandleManager struct {
	store  *Store
	remote market.Source
}

// NewCandleManager 创建 K 线数据管理器
func NewCandleManager(store *Store, remote market.Source) *CandleManager {
	return &CandleManager{store: store, remote: remote}
}

// GetCandles 智能获取 K 线数据
func (m *CandleManager) GetCandles(ctx context.Context, q market.Query) ([]*market.Candle, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("CandleManager")

	logger.Debug("尝试从数据库获取K线数据", "symbol", q.Symbol, "timeframe", q.Timeframe, "limit", q.Limit)

	dbCandles, err := m.store.GetCandles(ctx, q)
	if err != nil {
		logger.Error("从数据库获取K线数据失败", "error", err)
		return m.remote.GetCandles(ctx, q)
	}

	if m.complete(dbCandles, q) {
		logger.Info("数据库数据完整", "count", len(dbCandles))
		return dbCandles, nil
	}

	logger.Info("数据库数据不足，从网络补充", "db_count", len(dbCandles))

	remote, err := m.remote.GetCandles(ctx, q)
	if err != nil {
		logger.Error("从网络获取K线数据失败", "error", err)
		if len(dbCandles) > 0 {
			return dbCandles, nil
		}
		return nil, err
	}

	if err := m.store.SaveCandles(ctx, q.Timeframe.String(), remote); err != nil {
		logger.Error("保存K线数据到数据库失败", "error", err)
	} else {
		logger.Info("保存新K线数据到数据库", "count", len(remote))
	}

	merged := mergeCandles(dbCandles, remote)
	if q.Limit > 0 && len(merged) > q.Limit {
		if q.Start.IsZero() {
			merged = merged[len(merged)-q.Limit:]
		} else {
			merged = merged[:q.Limit]
		}
	}
	return merged, nil
}

// complete 数据库结果是否已覆盖查询
func (m *CandleManager) complete(candles []*market.Candle, q market.Query) bool {
	if len(candles) == 0 {
		return false
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return q.Limit > 0 && len(candles) >= q.Limit
	}

	interval, err := q.Timeframe.Duration()
	if err != nil {
		return false
	}
	return len(findMissingRanges(candles, q.Start.UnixMilli(), q.End.UnixMilli(), interval.Milliseconds())) == 0
}

// TimeRange 时间范围（毫秒，两端包含）
type TimeRange struct {
	Start int64
	End   int64
}

// findMissingRanges 查找 [start, end) 内缺失的时间段
func findMissingRanges(candles []*market.Candle, start, end, interval int64) []TimeRange {
	if len(candles) == 0 {
		return []TimeRange{{Start: start, End: end - interval}}
	}

	var missing []TimeRange

	if candles[0].OpenTime > start {
		missing = append(missing, TimeRange{Start: start, End: candles[0].OpenTime - interval})
	}

	for i := 0; i < len(candles)-1; i++ {
		expectedNext := candles[i].OpenTime + interval
		if actual := candles[i+1].OpenTime; actual > expectedNext {
			missing = append(missing, TimeRange{Start: expectedNext, End: actual - interval})
		}
	}

	if last := candles[len(candles)-1]; last.OpenTime+interval < end {
		missing = append(missing, TimeRange{Start: last.OpenTime + interval, End: end - interval})
	}

	return missing
}

// mergeCandles 按开盘时间合并去重，后者覆盖前者
func mergeCandles(sets ...[]*market.Candle) []*market.Candle {
	byTime := make(map[int64]*market.Candle)
	for _, set := range sets {
		for _, c := range set {
			byTime[c.OpenTime] = c
		}
	}

	merged := make([]*market.Candle, 0, len(byTime))
	for _, c := range byTime {
		merged = append(merged, c)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].OpenTime < merged[j].OpenTime })
	return merged
}

var _ market.Source = (*CandleManager)(nil)
