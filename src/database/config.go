package database

import (
	"fmt"

	"github.com/xpwu/go-config/configs"
)

// 支持的数据库驱动
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string `json:"driver"`         // 驱动：postgres 或 sqlite
	Host         string `json:"host"`           // 数据库主机地址
	Port         string `json:"port"`           // 数据库端口
	User         string `json:"user"`           // 数据库用户名
	Password     string `json:"password"`       // 数据库密码
	DBName       string `json:"dbname"`         // 数据库名称
	SSLMode      string `json:"sslmode"`        // SSL模式
	Path         string `json:"path"`           // SQLite 文件路径
	MaxOpenConns int    `json:"max_open_conns"` // 最大连接数
	MaxIdleConns int    `json:"max_idle_conns"` // 最大空闲连接数
}

// GlobalDatabaseConfig 全局数据库配置实例
var GlobalDatabaseConfig = DatabaseConfig{
	Driver:       DriverSQLite,
	Host:         "localhost",
	Port:         "5432",
	User:         "hyperopt",
	Password:     "",
	DBName:       "hyperopt",
	SSLMode:      "disable",
	Path:         "hyperopt.db",
	MaxOpenConns: 25,
	MaxIdleConns: 5,
}

// WithDriver 复制配置并替换驱动
func (c DatabaseConfig) WithDriver(driver string) DatabaseConfig {
	c.Driver = driver
	return c
}

// Validate 验证配置
func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.DBName == "" {
			return fmt.Errorf("postgres requires host and dbname")
		}
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("sqlite requires path")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
	return nil
}

// dsn 连接串
func (c DatabaseConfig) dsn() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslmode)
}

func init() {
	configs.Unmarshal(&GlobalDatabaseConfig)
}
