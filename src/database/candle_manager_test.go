package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperoptbot/src/market"
	"hyperoptbot/src/timeframes"
)

type fakeSource struct {
	candles []*market.Candle
	err     error
	calls   int
}

func (f *fakeSource) GetCandles(_ context.Context, _ market.Query) ([]*market.Candle, error) {
	f.calls++
	return f.candles, f.err
}

var candleColumns = []string{"open_time", "close_time", "open_price", "high_price", "low_price", "close_price", "volume"}

func TestCandleManager_UsesDatabaseWhenComplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM candles").
		WillReturnRows(sqlmock.NewRows(candleColumns).
			AddRow(int64(0), int64(1), "1", "2", "0.5", "1.5", "10").
			AddRow(int64(3600000), int64(1), "1", "2", "0.5", "1.5", "10"))

	remote := &fakeSource{}
	m := NewCandleManager(NewStore(db, DriverPostgres), remote)

	got, err := m.GetCandles(context.Background(), market.Query{Symbol: "BTCUSDT", Timeframe: timeframes.Timeframe1h, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 0, remote.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandleManager_FillsFromRemote(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM candles").
		WillReturnRows(sqlmock.NewRows(candleColumns).
			AddRow(int64(0), int64(1), "1", "2", "0.5", "1.5", "10"))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO candles").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	remote := &fakeSource{candles: []*market.Candle{testCandle(3600000, "2"), testCandle(7200000, "3")}}
	m := NewCandleManager(NewStore(db, DriverPostgres), remote)

	start := time.UnixMilli(0)
	got, err := m.GetCandles(context.Background(), market.Query{
		Symbol: "BTCUSDT", Timeframe: timeframes.Timeframe1h, Start: start, End: start.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(7200000), got[2].OpenTime)
	assert.Equal(t, 1, remote.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandleManager_RemoteFailureKeepsDatabaseRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM candles").
		WillReturnRows(sqlmock.NewRows(candleColumns).
			AddRow(int64(0), int64(1), "1", "2", "0.5", "1.5", "10"))

	m := NewCandleManager(NewStore(db, DriverPostgres), &fakeSource{err: errors.New("offline")})
	got, err := m.GetCandles(context.Background(), market.Query{Symbol: "BTCUSDT", Timeframe: timeframes.Timeframe1h, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	mock.ExpectQuery("SELECT (.+) FROM candles").WillReturnRows(sqlmock.NewRows(candleColumns))
	_, err = m.GetCandles(context.Background(), market.Query{Symbol: "BTCUSDT", Timeframe: timeframes.Timeframe1h, Limit: 5})
	assert.Error(t, err)
}

func TestFindMissingRanges(t *testing.T) {
	const h = int64(3600000)
	candles := []*market.Candle{{OpenTime: h}, {OpenTime: 2 * h}, {OpenTime: 5 * h}}

	missing := findMissingRanges(candles, 0, 7*h, h)
	assert.Equal(t, []TimeRange{
		{Start: 0, End: 0},
		{Start: 3 * h, End: 4 * h},
		{Start: 6 * h, End: 6 * h},
	}, missing)

	assert.Empty(t, findMissingRanges(candles[:2], h, 3*h, h))
	assert.Equal(t, []TimeRange{{Start: 0, End: h}}, findMissingRanges(nil, 0, 2*h, h))
}
