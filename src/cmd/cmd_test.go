package cmd

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperoptbot/src/config"
	"hyperoptbot/src/datafile"
	"hyperoptbot/src/market"
	"hyperoptbot/src/space"
	"hyperoptbot/src/strategies"
	"hyperoptbot/src/timeframes"
)

func waveCandles(n int) []*market.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	out := make([]*market.Candle, n)
	for i := range out {
		c := 100 + 10*math.Sin(float64(i)/5)
		o := c - 0.5*math.Cos(float64(i))
		out[i] = &market.Candle{
			Symbol:    "BTCUSDT",
			OpenTime:  base + int64(i)*time.Hour.Milliseconds(),
			Open:      decimal.NewFromFloat(o),
			High:      decimal.NewFromFloat(math.Max(o, c) + 1),
			Low:       decimal.NewFromFloat(math.Min(o, c) - 1),
			Close:     decimal.NewFromFloat(c),
			Volume:    decimal.NewFromInt(1),
			CloseTime: base + int64(i+1)*time.Hour.Milliseconds() - 1,
		}
	}
	return out
}

func fileConfig(t *testing.T, strategy string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, datafile.WriteCandles(path, waveCandles(200)))

	return &config.Config{
		Data: config.DataConfig{
			Source:    config.SourceFile,
			File:      path,
			Symbol:    "BTCUSDT",
			Timeframe: "1h",
		},
		Hyperopt: config.HyperoptConfig{Strategy: strategy},
	}
}

func TestDescribeStrategy(t *testing.T) {
	out, err := describeStrategy(strategies.BBRSIName)
	require.NoError(t, err)

	var got spacesOutput
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, strategies.BBRSIName, got.Strategy)
	assert.Contains(t, got.Indicators, "rsi")

	names := make([]string, len(got.Buy))
	for i, d := range got.Buy {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"rsi-value", "rsi-enabled", "trigger"}, names)

	_, err = describeStrategy("nope")
	assert.ErrorIs(t, err, strategies.ErrUnknownStrategy)
}

func TestValidateParams(t *testing.T) {
	h, err := strategies.Default().Get(strategies.BBRSIName)
	require.NoError(t, err)

	tests := []struct {
		name     string
		params   *datafile.ParamsFile
		warnings int
		errors   int
	}{
		{
			name: "valid",
			params: &datafile.ParamsFile{
				Buy:  space.Assignment{"rsi-enabled": true, "rsi-value": 30, "trigger": "bb_lower2"},
				Sell: space.Assignment{"sell-trigger": "sell_bb_middle1"},
			},
		},
		{
			name:     "missing sell uses reference",
			params:   &datafile.ParamsFile{Buy: space.Assignment{"trigger": "bb_lower1"}},
			warnings: 1,
		},
		{
			name: "unknown key",
			params: &datafile.ParamsFile{
				Buy:  space.Assignment{"trigger": "bb_lower1", "foo": 1},
				Sell: space.Assignment{},
			},
			warnings: 1,
		},
		{
			name: "out of domain",
			params: &datafile.ParamsFile{
				Buy:  space.Assignment{"rsi-value": 99},
				Sell: space.Assignment{},
			},
			errors: 1,
		},
		{
			name: "enabled without value",
			params: &datafile.ParamsFile{
				Buy:  space.Assignment{},
				Sell: space.Assignment{"sell-rsi-enabled": true},
			},
			errors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validateParams(h, tt.params)
			assert.Len(t, r.Warnings, tt.warnings, r.Warnings)
			assert.Len(t, r.Errors, tt.errors, r.Errors)
		})
	}
}

func TestBuildQuery(t *testing.T) {
	c := &config.Config{Data: config.DataConfig{Symbol: "ETHUSDT", Timeframe: "1h", Limit: 300}}

	q, err := buildQuery(c)
	require.NoError(t, err)
	assert.Equal(t, timeframes.Timeframe("1h"), q.Timeframe)
	assert.Equal(t, 300, q.Limit)
	assert.True(t, q.Start.IsZero())

	c.Data.StartDate = "2024-01-10"
	c.Data.EndDate = "2024-01-20"
	q, err = buildQuery(c)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Limit)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).Add(-warmupBars*time.Hour), q.Start)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), q.End)
}

func TestRequestRounds(t *testing.T) {
	assert.Equal(t, 1, requestRounds(market.Query{Limit: 500}))
	assert.Equal(t, 3, requestRounds(market.Query{Limit: 2500}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q := market.Query{Timeframe: "1m", Start: start, End: start.Add(2000 * time.Minute)}
	assert.Equal(t, 3, requestRounds(q))
}

func TestRunSignalsReference(t *testing.T) {
	c := fileConfig(t, strategies.BBRSIName)

	run, err := runSignals(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 200, run.Rows)
	assert.Equal(t, run.Rows, run.Result.Rows)
	assert.Equal(t, strategies.BBRSIName, run.Strategy)
	assert.Equal(t, "1h", run.Timeframe)
	assert.Nil(t, run.BuyParams)
	assert.Nil(t, run.SellParams)
	assert.Greater(t, run.SellSignals, 0)
}

func TestRunSignalsWithParams(t *testing.T) {
	c := fileConfig(t, strategies.BBRSIName)

	params := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(params, []byte(`
buy:
  trigger: bb_lower1
sell:
  sell-trigger: sell_bb_upper1
`), 0o644))
	c.Hyperopt.ParamsFile = params

	run, err := runSignals(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "bb_lower1", run.BuyParams["trigger"])
	assert.Greater(t, run.BuySignals, 0)
	assert.Greater(t, run.SellSignals, 0)

	out := filepath.Join(t.TempDir(), "signals.csv")
	require.NoError(t, writeTable(out, run.Result.Table))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunSignalsErrors(t *testing.T) {
	c := fileConfig(t, "nope")
	_, err := runSignals(context.Background(), c)
	assert.ErrorIs(t, err, strategies.ErrUnknownStrategy)

	c = fileConfig(t, strategies.Strategy002Name)
	c.Data.Symbol = "ETHUSDT"
	_, err = runSignals(context.Background(), c)
	assert.Error(t, err)
}

func TestQuality(t *testing.T) {
	assert.Equal(t, "优秀", quality(50*time.Millisecond))
	assert.Equal(t, "良好", quality(200*time.Millisecond))
	assert.Equal(t, "一般", quality(500*time.Millisecond))
	assert.Equal(t, "较差", quality(2*time.Second))
}
