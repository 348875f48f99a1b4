package database

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"hyperoptbot/src/market"
)

const upsertCandles = `
	INSERT INTO candles (
		symbol, timeframe, open_time, close_time,
		open_price, high_price, low_price, close_price, volume
	) VALUES %s
	ON CONFLICT (symbol, timeframe, open_time)
	DO UPDATE SET
		close_time = EXCLUDED.close_time,
		open_price = EXCLUDED.open_price,
		high_price = EXCLUDED.high_price,
		low_price = EXCLUDED.low_price,
		close_price = EXCLUDED.close_price,
		volume = EXCLUDED.volume,
		updated_at = CURRENT_TIMESTAMP
`

// candleBatchSize 单条 INSERT 的最大行数，避免语句过长
const candleBatchSize = 100

// SaveCandles 批量写入 K 线，按 (symbol, timeframe, open_time) 覆盖
func (s *Store) SaveCandles(ctx context.Context, timeframe string, candles []*market.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := 0; i < len(candles); i += candleBatchSize {
		end := i + candleBatchSize
		if end > len(candles) {
			end = len(candles)
		}
		if err := s.saveBatch(ctx, tx, timeframe, candles[i:end]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) saveBatch(ctx context.Context, tx *sql.Tx, timeframe string, candles []*market.Candle) error {
	const cols = 9
	values := make([]string, 0, len(candles))
	args := make([]any, 0, len(candles)*cols)

	for i, c := range candles {
		ph := make([]string, cols)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", i*cols+j+1)
		}
		values = append(values, "("+strings.Join(ph, ", ")+")")
		args = append(args,
			c.Symbol, timeframe, c.OpenTime, c.CloseTime,
			c.Open.String(), c.High.String(), c.Low.String(), c.Close.String(), c.Volume.String(),
		)
	}

	query := s.rebind(fmt.Sprintf(upsertCandles, strings.Join(values, ", ")))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to batch insert candles: %w", err)
	}
	return nil
}

// GetCandles 按开盘时间升序查询 K 线
func (s *Store) GetCandles(ctx context.Context, q market.Query) ([]*market.Candle, error) {
	query := `
		SELECT open_time, close_time, open_price, high_price, low_price, close_price, volume
		FROM candles
		WHERE symbol = $1 AND timeframe = $2
	`
	args := []any{q.Symbol, q.Timeframe.String()}
	argIndex := 3

	if !q.Start.IsZero() {
		query += fmt.Sprintf(" AND open_time >= $%d", argIndex)
		args = append(args, q.Start.UnixMilli())
		argIndex++
	}

	if !q.End.IsZero() {
		query += fmt.Sprintf(" AND open_time < $%d", argIndex)
		args = append(args, q.End.UnixMilli())
		argIndex++
	}

	// 没有起点时取最近的 Limit 根
	latest := q.Start.IsZero() && q.Limit > 0
	if latest {
		query += " ORDER BY open_time DESC"
	} else {
		query += " ORDER BY open_time ASC"
	}

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []*market.Candle
	for rows.Next() {
		c := &market.Candle{Symbol: q.Symbol}
		err := rows.Scan(
			&c.OpenTime, &c.CloseTime,
			&c.Open, &c.High, &c.Low, &c.Close, &c.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if latest {
		slices.Reverse(candles)
	}
	return candles, nil
}

// LatestOpenTime 最新一根 K 线的开盘时间，没有数据时为 0
func (s *Store) LatestOpenTime(ctx context.Context, symbol, timeframe string) (int64, error) {
	var openTime sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT MAX(open_time) FROM candles WHERE symbol = $1 AND timeframe = $2"),
		symbol, timeframe,
	).Scan(&openTime)

	if err != nil {
		return 0, fmt.Errorf("failed to get latest candle time: %w", err)
	}

	if !openTime.Valid {
		return 0, nil
	}

	return openTime.Int64, nil
}

var _ market.Source = (*Store)(nil)
