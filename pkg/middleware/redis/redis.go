package redis

import (
	// 外部依赖
	"context"
	"fmt"

	r "github.com/redis/go-redis/v9"

	// 内部引用
	config "github.com/hemolink/bloodlink/internal/config"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
)

var redisClient *r.Client

// InitRedis host 为空时不启用 redis，统计缓存自动退化为直读
func InitRedis(ctx context.Context, conf *config.Redis) {
	if conf.Host == "" {
		logger.Infof(ctx, "redis disabled, stats cache falls back to direct reads")
		return
	}

	client := r.NewClient(&r.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatalf(ctx, "init redis fail err: %+v", err)
	}
	redisClient = client
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// GetClient 获取 Redis 客户端实例，未启用时返回 nil
func GetClient() *r.Client {
	return redisClient
}
