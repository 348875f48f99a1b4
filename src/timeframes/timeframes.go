// Package timeframes K 线周期。
package timeframes

import (
	"fmt"
	"sort"
	"time"
)

// Timeframe K 线周期，字符串与币安 interval 一致
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
	Timeframe1w  Timeframe = "1w"
)

var durations = map[Timeframe]time.Duration{
	Timeframe1m:  time.Minute,
	Timeframe5m:  5 * time.Minute,
	Timeframe15m: 15 * time.Minute,
	Timeframe30m: 30 * time.Minute,
	Timeframe1h:  time.Hour,
	Timeframe4h:  4 * time.Hour,
	Timeframe1d:  24 * time.Hour,
	Timeframe1w:  7 * 24 * time.Hour,
}

// Duration 一根 K 线的时长
func (tf Timeframe) Duration() (time.Duration, error) {
	d, ok := durations[tf]
	if !ok {
		return 0, fmt.Errorf("unsupported timeframe: %s", tf)
	}
	return d, nil
}

func (tf Timeframe) String() string { return string(tf) }

// IsValid 是否为支持的周期
func (tf Timeframe) IsValid() bool {
	_, ok := durations[tf]
	return ok
}

// All 全部支持的周期，从短到长
func All() []Timeframe {
	all := make([]Timeframe, 0, len(durations))
	for tf := range durations {
		all = append(all, tf)
	}
	sort.Slice(all, func(i, j int) bool { return durations[all[i]] < durations[all[j]] })
	return all
}

// Parse 解析周期字符串
func Parse(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if !tf.IsValid() {
		return "", fmt.Errorf("invalid timeframe: %s", s)
	}
	return tf, nil
}

// Bars 区间 [start, end) 内的 K 线根数
func (tf Timeframe) Bars(start, end time.Time) (int, error) {
	d, err := tf.Duration()
	if err != nil {
		return 0, err
	}
	if !end.After(start) {
		return 0, nil
	}
	return int(end.Sub(start) / d), nil
}

// WarmupStart 为指标回看期向前多取 bars 根 K 线后的起始时间
func (tf Timeframe) WarmupStart(start time.Time, bars int) (time.Time, error) {
	d, err := tf.Duration()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(-time.Duration(bars) * d), nil
}
