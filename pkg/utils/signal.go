package utils

import (
	// 外部依赖
	"context"
	"os/signal"
	"syscall"
)

// SetupSignalContext SIGINT/SIGTERM 触发 ctx 取消，优雅退出
func SetupSignalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}
