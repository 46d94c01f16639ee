package db

import (
	// 外部依赖
	"context"
	"fmt"
	"time"

	postgres "gorm.io/driver/postgres"
	gorm "gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
	tracing "gorm.io/plugin/opentelemetry/tracing"

	// 内部引用
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
)

type LogConf struct {
	Level string
}

type Config struct {
	Host   string
	Port   int
	User   string
	PW     string
	DBName string
	LogConf
}

// Datastore 进程级存储句柄，显式注入 repo 与 core，
// 不作为环境全局状态被各层隐式引用
type Datastore struct {
	db *gorm.DB
}

type txKey struct{}

var defaultDS *Datastore

// New 由既有 gorm 连接构造句柄，测试用 sqlite 时走这里
func New(db *gorm.DB) *Datastore {
	return &Datastore{db: db}
}

func InitPostgres(ctx context.Context, conf *Config) *Datastore {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		conf.Host, conf.User, conf.PW, conf.DBName, conf.Port)

	level := glogger.Warn
	if conf.Level == "debug" {
		level = glogger.Info
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(level),
	})
	if err != nil {
		logger.Fatalf(ctx, "connect postgres fail err: %+v", err)
	}

	if err := gdb.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		logger.Errorf(ctx, "install gorm tracing plugin err: %+v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Fatalf(ctx, "get sql.DB fail err: %+v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	defaultDS = &Datastore{db: gdb}
	return defaultDS
}

func ClosePostgres(_ context.Context) {
	if defaultDS == nil {
		return
	}
	if sqlDB, err := defaultDS.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// DB 进程级句柄，仅供 cmd 装配使用
func DB() *Datastore {
	return defaultDS
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// DBWithContext ctx 中带事务时返回事务句柄，嵌套调用自动加入同一事务
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

// ExecTx 在事务中执行 fn，事务句柄通过 ctx 传递给内层 repo 调用
// fn 返回 error 时整体回滚
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		// 已在事务内，直接加入
		return fn(ctx)
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
