// Package database
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	. "github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"time"
)

type DBCloseCallback struct {
	db *sql.DB
}

func NewDBCloseCallback(db *sql.DB) *DBCloseCallback {
	return &DBCloseCallback{db: db}
}

func (dc *DBCloseCallback) Invoke(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- dc.db.Close() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ConnectDatabase 连接数据库并完成表迁移, 返回关闭回调与所有数据库操作
func ConnectDatabase(lg log.LoggerInterface, cfg *config.Config, debug bool) (*DBCloseCallback, *DatabaseOperations, error) {
	return Connect(lg, cfg.Database, cfg.Database.GetConnection(lg), cfg.Server.General, debug)
}

// Connect 使用给定的dialector建立连接, 便于测试注入sqlite
func Connect(
	lg log.LoggerInterface,
	dbConfig *config.DatabaseConfig,
	dialector gorm.Dialector,
	generalConfig *config.GeneralConfig,
	debug bool,
) (*DBCloseCallback, *DatabaseOperations, error) {
	if dialector == nil {
		return nil, nil, fmt.Errorf("unsupported database type %s", dbConfig.DBType)
	}

	gormConfig := &gorm.Config{
		DefaultTransactionTimeout: dbConfig.QueryDuration,
		PrepareStmt:               true,
		Logger:                    logger.Default.LogMode(logger.Silent),
	}
	if debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("error occured while connecting to operation: %w", err)
	}

	if err = db.Migrator().AutoMigrate(&User{}, &Event{}, &EventMember{}, &FlightSchedule{}, &AuditLog{}); err != nil {
		return nil, nil, fmt.Errorf("error occured while migrating operation: %w", err)
	}

	dbPool, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("error occured while creating operation pool: %w", err)
	}

	maxOpenConnections := float32(dbConfig.ServerMaxConnections) * 0.8 // 不超过数据库最大连接的80%
	maxIdleConnections := maxOpenConnections / 5                       // 空闲连接约为最大连接的20%
	if dbConfig.DBType == config.SQLite {
		// sqlite只允许单写者
		maxOpenConnections, maxIdleConnections = 1, 1
	}

	dbPool.SetMaxIdleConns(int(maxIdleConnections))
	dbPool.SetMaxOpenConns(int(maxOpenConnections))
	dbPool.SetConnMaxIdleTime(dbConfig.ConnectIdleDuration)

	if err = dbPool.Ping(); err != nil {
		return nil, nil, errors.Join(errors.New("error occured while pinging operation"), err)
	}

	lg.InfoF("Database connected, type %s, max open connections %d", dbConfig.DBType, int(maxOpenConnections))

	queryTimeout := dbConfig.QueryDuration
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}

	batchSize := dbConfig.InsertBatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultInsertBatchSize
	}

	userOperation := NewUserOperation(db, queryTimeout, generalConfig)
	eventOperation := NewEventOperation(db, queryTimeout)
	flightScheduleOperation := NewFlightScheduleOperation(db, queryTimeout, batchSize)
	auditLogOperation := NewAuditLogOperation(db, queryTimeout)

	return NewDBCloseCallback(dbPool), NewDatabaseOperations(userOperation, eventOperation, flightScheduleOperation, auditLogOperation), nil
}
