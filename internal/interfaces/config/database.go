// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"slices"
	"strings"
	"time"
)

type DatabaseType string

const (
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
	SQLite     DatabaseType = "sqlite3"
)

// DefaultInsertBatchSize 单条INSERT携带的航班行数, 需低于各数据库的占位符上限
const DefaultInsertBatchSize = 500

var allowedDatabaseType = []DatabaseType{MySQL, PostgreSQL, SQLite}

type dialectorBuilder func(db *DatabaseConfig) (dsn string, dialector gorm.Dialector)

var dialectorBuilders = map[DatabaseType]dialectorBuilder{
	MySQL: func(db *DatabaseConfig) (string, gorm.Dialector) {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&tls=%t",
			db.Username, db.Password, db.Host, db.Port, db.Database, db.EnableSSL)
		return dsn, mysql.Open(dsn)
	},
	PostgreSQL: func(db *DatabaseConfig) (string, gorm.Dialector) {
		sslMode := "disable"
		if db.EnableSSL {
			sslMode = "require"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
			db.Host, db.Username, db.Password, db.Database, db.Port, sslMode)
		return dsn, postgres.Open(dsn)
	},
	SQLite: func(db *DatabaseConfig) (string, gorm.Dialector) {
		return db.Database, sqlite.Open(db.Database)
	},
}

type DatabaseConfig struct {
	Type                 string        `json:"type"`
	DBType               DatabaseType  `json:"-"`
	Database             string        `json:"database"`
	Host                 string        `json:"host"`
	Port                 int           `json:"port"`
	Username             string        `json:"username"`
	Password             string        `json:"password"`
	EnableSSL            bool          `json:"enable_ssl"`
	ConnectIdleTimeout   string        `json:"connect_idle_timeout"`
	ConnectIdleDuration  time.Duration `json:"-"`
	QueryTimeout         string        `json:"query_timeout"` // 单次查询与批量写入事务的超时
	QueryDuration        time.Duration `json:"-"`
	ServerMaxConnections int           `json:"server_max_connections"`
	InsertBatchSize      int           `json:"insert_batch_size"`
}

func defaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type:                 string(SQLite),
		Database:             "logistics.db",
		ConnectIdleTimeout:   "1h",
		QueryTimeout:         "10s",
		ServerMaxConnections: 32,
		InsertBatchSize:      DefaultInsertBatchSize,
	}
}

func (config *DatabaseConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	config.DBType = DatabaseType(strings.ToLower(config.Type))
	if !slices.Contains(allowedDatabaseType, config.DBType) {
		return ValidFail(fmt.Errorf("database type %s is not allowed, supported types are %v", config.Type, allowedDatabaseType))
	}

	if config.Database == "" {
		return ValidFail(errors.New("database name (or sqlite file path) must not be empty"))
	}

	if config.DBType != SQLite {
		if config.Host == "" {
			return ValidFail(fmt.Errorf("database host is required for %s", config.DBType))
		}
		if result := checkPort(uint(config.Port)); result.IsFail() {
			return result
		}
	}

	duration, err := time.ParseDuration(config.ConnectIdleTimeout)
	if err != nil {
		return ValidFailWith(errors.New("invalid json field connect_idle_timeout"), err)
	}
	config.ConnectIdleDuration = duration

	if duration, err = time.ParseDuration(config.QueryTimeout); err != nil {
		return ValidFailWith(errors.New("invalid json field query_timeout"), err)
	}
	if duration <= 0 {
		return ValidFail(errors.New("query_timeout must be positive"))
	}
	config.QueryDuration = duration

	if config.ServerMaxConnections <= 0 {
		return ValidFail(errors.New("server_max_connections must be positive"))
	}

	if config.InsertBatchSize <= 0 {
		logger.WarnF("insert_batch_size %d is invalid, using %d", config.InsertBatchSize, DefaultInsertBatchSize)
		config.InsertBatchSize = DefaultInsertBatchSize
	}
	return ValidPass()
}

// GetConnection 按数据库类型构造dialector, 类型不受支持时返回nil
func (config *DatabaseConfig) GetConnection(logger log.LoggerInterface) gorm.Dialector {
	builder, ok := dialectorBuilders[config.DBType]
	if !ok {
		return nil
	}
	dsn, dialector := builder(config)
	if config.Password != "" {
		dsn = strings.ReplaceAll(dsn, config.Password, "******")
	}
	logger.DebugF("%s connection DSN %s", config.DBType, dsn)
	return dialector
}
