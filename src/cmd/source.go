package cmd

import (
	"context"
	"fmt"

	"github.com/xpwu/go-log/log"

	"hyperoptbot/src/binance"
	"hyperoptbot/src/config"
	"hyperoptbot/src/database"
	"hyperoptbot/src/datafile"
	"hyperoptbot/src/market"
)

// openSource 按配置创建 K 线来源，返回的 closer 释放数据库连接
func openSource(ctx context.Context, c *config.Config) (market.Source, func(), error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Source")

	noop := func() {}

	switch c.Data.Source {
	case config.SourceFile:
		logger.Info("使用本地K线文件", "path", c.Data.File)
		return datafile.FileSource{Path: c.Data.File}, noop, nil

	case config.SourceBinance:
		client := binance.NewClient(c.Binance.APIKey, c.Binance.SecretKey, c.Binance.BaseURL)
		if !c.Data.Cache {
			logger.Info("使用币安行情", "base_url", c.Binance.BaseURL)
			return client, noop, nil
		}
		store, err := openStore(ctx, c.Database)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("使用币安行情并缓存到数据库", "driver", c.Database.Driver)
		return database.NewCandleManager(store, client), func() { store.Close() }, nil

	case config.SourcePostgres, config.SourceSQLite:
		store, err := openStore(ctx, c.Database.WithDriver(c.Data.Source))
		if err != nil {
			return nil, noop, err
		}
		logger.Info("使用数据库K线", "driver", c.Data.Source)
		return store, func() { store.Close() }, nil
	}

	return nil, noop, fmt.Errorf("invalid data source: %q", c.Data.Source)
}

// openStore 打开数据库并建表
func openStore(ctx context.Context, cfg database.DatabaseConfig) (*database.Store, error) {
	store, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
