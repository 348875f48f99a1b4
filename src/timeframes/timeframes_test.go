package timeframes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframe_Duration(t *testing.T) {
	tests := []struct {
		name      string
		timeframe Timeframe
		expected  time.Duration
		wantErr   bool
	}{
		{"1m", Timeframe1m, time.Minute, false},
		{"15m", Timeframe15m, 15 * time.Minute, false},
		{"1h", Timeframe1h, time.Hour, false},
		{"4h", Timeframe4h, 4 * time.Hour, false},
		{"1d", Timeframe1d, 24 * time.Hour, false},
		{"1w", Timeframe1w, 7 * 24 * time.Hour, false},
		{"invalid", Timeframe("invalid"), 0, true},
		{"empty", Timeframe(""), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.timeframe.Duration()
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, tt.timeframe.IsValid())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.True(t, tt.timeframe.IsValid())
		})
	}
}

func TestParse(t *testing.T) {
	tf, err := Parse("5m")
	require.NoError(t, err)
	assert.Equal(t, Timeframe5m, tf)

	_, err = Parse("7m")
	assert.Error(t, err)
}

func TestAll_Ordered(t *testing.T) {
	all := All()
	require.Len(t, all, 8)
	assert.Equal(t, Timeframe1m, all[0])
	assert.Equal(t, Timeframe1w, all[len(all)-1])
}

func TestTimeframe_Bars(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	n, err := Timeframe1h.Bars(start, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 24, n)

	n, err = Timeframe1h.Bars(start, start)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = Timeframe("x").Bars(start, start.Add(time.Hour))
	assert.Error(t, err)
}

func TestTimeframe_WarmupStart(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	got, err := Timeframe15m.WarmupStart(start, 20)
	require.NoError(t, err)
	assert.Equal(t, start.Add(-5*time.Hour), got)
}
