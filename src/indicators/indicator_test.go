package indicators

import (
	"math"
	"testing"

	"hyperoptbot/src/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	return prices
}

func TestRSI_Apply(t *testing.T) {
	t.Run("monotonic rise", func(t *testing.T) {
		df := flatCandles(risingPrices(30)...)
		out, err := NewRSI(14).Apply(df)
		require.NoError(t, err)

		rsi, err := frame.Float(out, RSIColumn)
		require.NoError(t, err)
		for i := 0; i < 14; i++ {
			assert.True(t, math.IsNaN(rsi[i]), "row %d should be warm-up", i)
		}
		assert.InDelta(t, 100.0, rsi[29], 1e-6)
	})

	t.Run("multiple outputs", func(t *testing.T) {
		out, err := NewRSI(14, RSIColumn, SellRSIColumn).Apply(flatCandles(risingPrices(20)...))
		require.NoError(t, err)
		assert.True(t, frame.Has(out, RSIColumn))
		assert.True(t, frame.Has(out, SellRSIColumn))
	})

	t.Run("short table", func(t *testing.T) {
		out, err := NewRSI(14).Apply(flatCandles(1, 2, 3))
		require.NoError(t, err)
		rsi, _ := frame.Float(out, RSIColumn)
		for _, v := range rsi {
			assert.True(t, math.IsNaN(v))
		}
	})

	t.Run("missing close", func(t *testing.T) {
		df := dataframe.New(series.New([]float64{1}, series.Float, frame.OpenColumn))
		_, err := NewRSI(14).Apply(df)
		assert.ErrorIs(t, err, frame.ErrMissingInputColumn)
	})
}

func TestSlowStochastic_Apply(t *testing.T) {
	out, err := NewSlowStochastic().Apply(flatCandles(risingPrices(20)...))
	require.NoError(t, err)

	slowk, err := frame.Float(out, SlowKColumn)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		assert.True(t, math.IsNaN(slowk[i]))
	}
	for _, v := range slowk[8:] {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestFisherRSI_Apply(t *testing.T) {
	df := dataframe.New(series.New([]float64{50, 100, 0, math.NaN()}, series.Float, RSIColumn))
	out, err := FisherRSI{}.Apply(df)
	require.NoError(t, err)

	fisher, err := frame.Float(out, FisherRSIColumn)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, fisher[0], 1e-9)
	assert.InDelta(t, math.Tanh(5), fisher[1], 1e-9)
	assert.InDelta(t, -math.Tanh(5), fisher[2], 1e-9)
	assert.True(t, math.IsNaN(fisher[3]))

	_, err = FisherRSI{}.Apply(flatCandles(1, 2))
	assert.ErrorIs(t, err, frame.ErrMissingInputColumn)
}

func TestParabolicSAR_Apply(t *testing.T) {
	out, err := NewParabolicSAR().Apply(flatCandles(risingPrices(10)...))
	require.NoError(t, err)

	sar, err := frame.Float(out, SARColumn)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(sar[0]))
	assert.Len(t, sar, 10)
}

func TestHammer_Apply(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{10, 9.6}, series.Float, frame.OpenColumn),
		series.New([]float64{10.5, 10.0}, series.Float, frame.HighColumn),
		series.New([]float64{9.5, 8.0}, series.Float, frame.LowColumn),
		series.New([]float64{9.8, 9.9}, series.Float, frame.CloseColumn),
	)
	out, err := NewHammer().Apply(df)
	require.NoError(t, err)

	scores, err := frame.Float(out, HammerColumn)
	require.NoError(t, err)
	// 第二根：实体 0.3、下影线 1.6、上影线 0.1、振幅 2.0
	assert.Equal(t, []float64{0, 100}, scores)
}

func TestSet_Populate(t *testing.T) {
	set := Set{NewRSI(14), FisherRSI{}, NewBollingerBands(20, 1, BandLower)}
	assert.Equal(t, []string{RSIColumn, FisherRSIColumn, "bb_lowerband1"}, set.Columns())

	df := flatCandles(risingPrices(40)...)
	out, err := set.Populate(df)
	require.NoError(t, err)
	assert.Equal(t, df.Nrow(), out.Nrow())
	for _, col := range set.Columns() {
		assert.True(t, frame.Has(out, col), col)
	}

	t.Run("order matters for dependent steps", func(t *testing.T) {
		_, err := Set{FisherRSI{}, NewRSI(14)}.Populate(df)
		assert.ErrorIs(t, err, frame.ErrMissingInputColumn)
	})
}
