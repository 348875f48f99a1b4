package datafile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperoptbot/src/market"
	"hyperoptbot/src/space"
	"hyperoptbot/src/timeframes"
)

func sampleCandles() []*market.Candle {
	out := make([]*market.Candle, 4)
	for i := range out {
		p := decimal.NewFromInt(int64(100 + i))
		out[i] = &market.Candle{
			Symbol:    "ETHUSDT",
			OpenTime:  int64(i) * 60000,
			Open:      p,
			High:      p.Add(decimal.RequireFromString("0.5")),
			Low:       p.Sub(decimal.RequireFromString("0.5")),
			Close:     p.Add(decimal.RequireFromString("0.25")),
			Volume:    decimal.NewFromInt(3),
			CloseTime: int64(i)*60000 + 59999,
		}
	}
	return out
}

func TestCandleFiles_RoundTrip(t *testing.T) {
	for _, ext := range []string{".parquet", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "candles"+ext)
			require.NoError(t, WriteCandles(path, sampleCandles()))

			got, err := ReadCandles(path)
			require.NoError(t, err)
			require.Len(t, got, 4)
			assert.Equal(t, "ETHUSDT", got[2].Symbol)
			assert.Equal(t, int64(120000), got[2].OpenTime)
			assert.True(t, got[2].Close.Equal(decimal.RequireFromString("102.25")), got[2].Close.String())
			assert.True(t, got[3].Low.Equal(decimal.RequireFromString("102.5")))
		})
	}
}

func TestReadCandles_Unsupported(t *testing.T) {
	_, err := ReadCandles("candles.xlsx")
	assert.Error(t, err)
	assert.Error(t, WriteCandles(filepath.Join(t.TempDir(), "c.txt"), nil))
}

func TestFileSource_Filters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.parquet")
	require.NoError(t, WriteCandles(path, sampleCandles()))
	src := FileSource{Path: path}

	got, err := src.GetCandles(context.Background(), market.Query{
		Symbol: "ETHUSDT", Timeframe: timeframes.Timeframe1m,
		Start: time.UnixMilli(60000), End: time.UnixMilli(180000),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(60000), got[0].OpenTime)

	got, err = src.GetCandles(context.Background(), market.Query{Symbol: "ETHUSDT", Limit: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(60000), got[0].OpenTime)

	got, err = src.GetCandles(context.Background(), market.Query{Symbol: "ETHUSDT", Start: time.UnixMilli(0), Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(0), got[0].OpenTime)

	got, err = src.GetCandles(context.Background(), market.Query{Symbol: "BTCUSDT"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseParams(t *testing.T) {
	yamlDoc := []byte(`
buy:
  rsi-enabled: true
  rsi-value: 30
  trigger: bb_lower2
sell:
  sell-fisher-rsi-value: 0.3
`)
	p, err := ParseParams(yamlDoc, ".yaml")
	require.NoError(t, err)
	assert.Equal(t, space.Assignment{"rsi-enabled": true, "rsi-value": 30, "trigger": "bb_lower2"}, p.Buy)

	v, ok := p.Sell.Float("sell-fisher-rsi-value")
	assert.True(t, ok)
	assert.Equal(t, 0.3, v)

	p, err = ParseParams([]byte(`{"sell": {"sell-trigger": "sell_bb_upper1"}}`), ".json")
	require.NoError(t, err)
	assert.Nil(t, p.Buy)
	assert.Equal(t, space.Assignment{"sell-trigger": "sell_bb_upper1"}, p.Sell)

	p, err = ParseParams([]byte(`{"buy": {}}`), ".json")
	require.NoError(t, err)
	assert.NotNil(t, p.Buy)
	assert.Empty(t, p.Buy)

	_, err = ParseParams([]byte(`x`), ".toml")
	assert.Error(t, err)
	_, err = ParseParams([]byte(`{`), ".json")
	assert.Error(t, err)
}

func TestParams_WriteRead(t *testing.T) {
	for _, name := range []string{"p.yml", "p.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			in := &ParamsFile{Buy: space.Assignment{"trigger": "bb_lower1", "rsi-enabled": false}}
			require.NoError(t, WriteParams(path, in))

			out, err := ReadParams(path)
			require.NoError(t, err)
			assert.Equal(t, in.Buy, out.Buy)
			assert.Nil(t, out.Sell)
		})
	}
}
