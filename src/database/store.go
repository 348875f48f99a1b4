package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Store K 线与信号运行记录的 SQL 存储，Postgres 与 SQLite 共用同一套语句
type Store struct {
	db     *sql.DB
	driver string
}

// Open 按配置打开数据库并检查连接
func Open(ctx context.Context, cfg DatabaseConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite 单写者
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return &Store{db: db, driver: cfg.Driver}, nil
}

// NewStore 包装已有连接
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}

var placeholder = regexp.MustCompile(`\$\d+`)

// rebind 把 $N 占位符转换为当前驱动的写法
func (s *Store) rebind(query string) string {
	if s.driver != DriverSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}

// Migrate 建表
func (s *Store) Migrate(ctx context.Context) error {
	numeric := "NUMERIC(36, 18)"
	if s.driver == DriverSQLite {
		numeric = "TEXT"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS candles (
			symbol      VARCHAR(32) NOT NULL,
			timeframe   VARCHAR(8)  NOT NULL,
			open_time   BIGINT      NOT NULL,
			close_time  BIGINT      NOT NULL,
			open_price  ` + numeric + ` NOT NULL,
			high_price  ` + numeric + ` NOT NULL,
			low_price   ` + numeric + ` NOT NULL,
			close_price ` + numeric + ` NOT NULL,
			volume      ` + numeric + ` NOT NULL,
			updated_at  TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (symbol, timeframe, open_time)
		)`,
		`CREATE TABLE IF NOT EXISTS signal_runs (
			id           VARCHAR(36) PRIMARY KEY,
			strategy     VARCHAR(64) NOT NULL,
			symbol       VARCHAR(32) NOT NULL,
			timeframe    VARCHAR(8)  NOT NULL,
			buy_params   TEXT,
			sell_params  TEXT,
			rows_total   INTEGER     NOT NULL,
			buy_signals  INTEGER     NOT NULL,
			sell_signals INTEGER     NOT NULL,
			created_at   TIMESTAMP   NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}
