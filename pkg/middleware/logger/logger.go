package logger

import (
	// 外部依赖
	"context"
	"os"

	otelzap "github.com/uptrace/opentelemetry-go-extra/otelzap"
	zap "go.uber.org/zap"
	zapcore "go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path     string
	LogLevel string
	ServiceEnv
}

var log *otelzap.Logger

// Init 初始化全局日志，文件按大小滚动，同时输出到 stdout
// otelzap 将日志挂到当前 span 上，trace 开启时可在链路里看到
func Init(conf *LogConfig) {
	level := zapcore.InfoLevel
	if err := level.Set(conf.LogLevel); err != nil {
		level = zapcore.InfoLevel
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encConf)

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   conf.Path,
		MaxSize:    100, // MB
		MaxBackups: 10,
		MaxAge:     30, // days
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, fileWriter, level),
		zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), level),
	)

	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).With(
		zap.String("platform", conf.Platform),
		zap.String("service", conf.Service),
		zap.String("env", conf.Env),
	)

	log = otelzap.New(base, otelzap.WithMinLevel(level))
}

func Close() {
	if log != nil {
		_ = log.Sync()
	}
}

func sugar(ctx context.Context) otelzap.SugaredLoggerWithCtx {
	if log == nil {
		// 未 Init 时兜底，避免测试或脚本里空指针
		log = otelzap.New(zap.NewNop())
	}
	return log.Sugar().Ctx(ctx)
}

func Debugf(ctx context.Context, format string, args ...any) {
	sugar(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	sugar(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	sugar(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	sugar(ctx).Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	sugar(ctx).Fatalf(format, args...)
}
