package config

import (
	"fmt"
	"time"

	"github.com/xpwu/go-config/configs"

	"hyperoptbot/src/database"
	"hyperoptbot/src/strategies"
	"hyperoptbot/src/timeframes"
)

// 支持的 K 线来源
const (
	SourceFile     = "file"
	SourceBinance  = "binance"
	SourcePostgres = database.DriverPostgres
	SourceSQLite   = database.DriverSQLite
)

// Config 主配置结构
type Config struct {
	Binance  BinanceConfig           `conf:"binance,币安行情配置"`
	Database database.DatabaseConfig `conf:"database,数据库配置"`
	Data     DataConfig              `conf:"data,K线数据配置"`
	Hyperopt HyperoptConfig          `conf:"hyperopt,信号评估配置"`
}

// BinanceConfig 币安API配置，只读取行情
type BinanceConfig struct {
	APIKey    string `conf:"api_key,API密钥 - 行情接口可留空"`
	SecretKey string `conf:"secret_key,API私钥 - 行情接口可留空"`
	BaseURL   string `conf:"base_url,API地址"`
	Timeout   int    `conf:"timeout,请求超时时间(秒)"`
}

// DataConfig K线数据配置
type DataConfig struct {
	Source    string `conf:"source,K线来源 - file/binance/postgres/sqlite"`
	File      string `conf:"file,K线文件 - source=file 时使用，支持 .parquet/.csv"`
	Symbol    string `conf:"symbol,交易对 - 可被命令行参数覆盖"`
	Timeframe string `conf:"timeframe,K线周期 - 支持1m,5m,15m,30m,1h,4h,1d,1w"`
	Limit     int    `conf:"limit,K线条数 - 未指定时间范围时使用"`
	StartDate string `conf:"start_date,开始日期 - 2006-01-02，可留空"`
	EndDate   string `conf:"end_date,结束日期 - 2006-01-02，可留空"`
	Cache     bool   `conf:"cache,从币安获取时写入数据库缓存"`
}

// HyperoptConfig 信号评估配置
type HyperoptConfig struct {
	Strategy   string `conf:"strategy,策略名称 - bb_rsi 或 strategy002"`
	ParamsFile string `conf:"params_file,参数文件 - .yaml/.json，留空使用参考规则"`
	SaveRuns   bool   `conf:"save_runs,是否保存信号运行记录到数据库"`
}

// AppConfig 全局配置实例
var AppConfig = &Config{
	Binance: BinanceConfig{
		BaseURL: "https://api.binance.com",
		Timeout: 10,
	},
	Database: database.GlobalDatabaseConfig,
	Data: DataConfig{
		Source:    SourceBinance,
		Symbol:    "BTCUSDT",
		Timeframe: "1h",
		Limit:     500,
	},
	Hyperopt: HyperoptConfig{
		Strategy: strategies.BBRSIName,
	},
}

// 在包的 init() 函数中注册配置
func init() {
	configs.Unmarshal(AppConfig)
}

const dateLayout = "2006-01-02"

// Validate 验证配置
func (c *Config) Validate() error {
	if _, err := timeframes.Parse(c.Data.Timeframe); err != nil {
		return fmt.Errorf("invalid timeframe: %w", err)
	}

	switch c.Data.Source {
	case SourceFile:
		if c.Data.File == "" {
			return fmt.Errorf("data.file is required when source is file")
		}
	case SourceBinance:
		if c.Binance.BaseURL == "" {
			return fmt.Errorf("binance base url cannot be empty")
		}
		if c.Data.Cache {
			if err := c.Database.Validate(); err != nil {
				return fmt.Errorf("cache database: %w", err)
			}
		}
	case SourcePostgres, SourceSQLite:
		if err := c.Database.WithDriver(c.Data.Source).Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid data source: %q", c.Data.Source)
	}

	if c.Data.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}

	start, end, err := c.TimeRange()
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		return fmt.Errorf("end date %s must be after start date %s", c.Data.EndDate, c.Data.StartDate)
	}

	if _, err := strategies.Default().Get(c.Hyperopt.Strategy); err != nil {
		return err
	}

	if c.Hyperopt.SaveRuns {
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("run store database: %w", err)
		}
	}

	return nil
}

// GetTimeframe 获取时间周期
func (c *Config) GetTimeframe() (timeframes.Timeframe, error) {
	return timeframes.Parse(c.Data.Timeframe)
}

// TimeRange 开始与结束时间，未配置的一端为零值
func (c *Config) TimeRange() (start, end time.Time, err error) {
	if c.Data.StartDate != "" {
		if start, err = time.Parse(dateLayout, c.Data.StartDate); err != nil {
			return start, end, fmt.Errorf("invalid start date format: %s", c.Data.StartDate)
		}
	}
	if c.Data.EndDate != "" {
		if end, err = time.Parse(dateLayout, c.Data.EndDate); err != nil {
			return start, end, fmt.Errorf("invalid end date format: %s", c.Data.EndDate)
		}
	}
	return start, end, nil
}

// RequestTimeout 币安请求超时
func (c *Config) RequestTimeout() time.Duration {
	if c.Binance.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Binance.Timeout) * time.Second
}
