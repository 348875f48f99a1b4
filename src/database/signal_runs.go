package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hyperoptbot/src/space"
)

// SignalRun 一次信号评估的记录
type SignalRun struct {
	ID          string           `json:"id"`
	Strategy    string           `json:"strategy"`
	Symbol      string           `json:"symbol"`
	Timeframe   string           `json:"timeframe"`
	BuyParams   space.Assignment `json:"buy_params"`  // nil 表示参考规则
	SellParams  space.Assignment `json:"sell_params"` // nil 表示参考规则
	Rows        int              `json:"rows"`
	BuySignals  int              `json:"buy_signals"`
	SellSignals int              `json:"sell_signals"`
	CreatedAt   time.Time        `json:"created_at"`
}

// SaveSignalRun 保存运行记录，ID 与创建时间为空时自动生成
func (s *Store) SaveSignalRun(ctx context.Context, run *SignalRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	buy, err := encodeParams(run.BuyParams)
	if err != nil {
		return err
	}
	sell, err := encodeParams(run.SellParams)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO signal_runs (
			id, strategy, symbol, timeframe, buy_params, sell_params,
			rows_total, buy_signals, sell_signals, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`),
		run.ID, run.Strategy, run.Symbol, run.Timeframe, buy, sell,
		run.Rows, run.BuySignals, run.SellSignals, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save signal run: %w", err)
	}
	return nil
}

// ListSignalRuns 某策略最近的运行记录，按创建时间倒序
func (s *Store) ListSignalRuns(ctx context.Context, strategy string, limit int) ([]*SignalRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, strategy, symbol, timeframe, buy_params, sell_params,
		       rows_total, buy_signals, sell_signals, created_at
		FROM signal_runs
		WHERE strategy = $1
		ORDER BY created_at DESC
		LIMIT $2
	`), strategy, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signal runs: %w", err)
	}
	defer rows.Close()

	var runs []*SignalRun
	for rows.Next() {
		run := &SignalRun{}
		var buy, sell sql.NullString
		err := rows.Scan(
			&run.ID, &run.Strategy, &run.Symbol, &run.Timeframe, &buy, &sell,
			&run.Rows, &run.BuySignals, &run.SellSignals, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal run: %w", err)
		}
		if run.BuyParams, err = decodeParams(buy); err != nil {
			return nil, err
		}
		if run.SellParams, err = decodeParams(sell); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func encodeParams(a space.Assignment) (sql.NullString, error) {
	if a == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal params: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeParams(raw sql.NullString) (space.Assignment, error) {
	if !raw.Valid {
		return nil, nil
	}
	a := space.Assignment{}
	if err := json.Unmarshal([]byte(raw.String), &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %w", err)
	}
	return a, nil
}
