package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hyperoptbot/src/database"
	"hyperoptbot/src/strategies"
	"hyperoptbot/src/timeframes"
)

func validConfig() *Config {
	return &Config{
		Binance:  BinanceConfig{BaseURL: "https://api.binance.com", Timeout: 10},
		Database: database.GlobalDatabaseConfig,
		Data: DataConfig{
			Source:    SourceBinance,
			Symbol:    "BTCUSDT",
			Timeframe: "1h",
			Limit:     500,
		},
		Hyperopt: HyperoptConfig{Strategy: strategies.Strategy002Name},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad timeframe", func(c *Config) { c.Data.Timeframe = "7m" }, "invalid timeframe"},
		{"bad source", func(c *Config) { c.Data.Source = "ftp" }, "invalid data source"},
		{"file without path", func(c *Config) { c.Data.Source = SourceFile }, "data.file is required"},
		{"file with path", func(c *Config) { c.Data.Source = SourceFile; c.Data.File = "c.parquet" }, ""},
		{"sqlite source", func(c *Config) { c.Data.Source = SourceSQLite }, ""},
		{"empty base url", func(c *Config) { c.Binance.BaseURL = "" }, "base url"},
		{"negative limit", func(c *Config) { c.Data.Limit = -1 }, "limit"},
		{"bad start date", func(c *Config) { c.Data.StartDate = "2024/01/01" }, "invalid start date"},
		{"inverted range", func(c *Config) { c.Data.StartDate = "2024-02-01"; c.Data.EndDate = "2024-01-01" }, "must be after"},
		{"unknown strategy", func(c *Config) { c.Hyperopt.Strategy = "nope" }, "unknown strategy"},
		{"save runs needs db", func(c *Config) { c.Hyperopt.SaveRuns = true; c.Database.Driver = "" }, "run store database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_TimeRange(t *testing.T) {
	c := validConfig()
	start, end, err := c.TimeRange()
	assert.NoError(t, err)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())

	c.Data.StartDate = "2024-01-01"
	c.Data.EndDate = "2024-01-31"
	start, end, err = c.TimeRange()
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 30*24*time.Hour, end.Sub(start))
}

func TestConfig_GetTimeframe(t *testing.T) {
	tf, err := validConfig().GetTimeframe()
	assert.NoError(t, err)
	assert.Equal(t, timeframes.Timeframe1h, tf)
}

func TestConfig_RequestTimeout(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 10*time.Second, c.RequestTimeout())
	c.Binance.Timeout = 0
	assert.Equal(t, 10*time.Second, c.RequestTimeout())
}

func TestAppConfig_Defaults(t *testing.T) {
	assert.NoError(t, AppConfig.Validate())
}
