package web

import (
	// 外部依赖
	"time"

	cors "github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	// 内部引用
	config "github.com/hemolink/bloodlink/internal/config"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
)

func installMiddleware(g *gin.Engine) {
	g.Use(gin.Recovery())
	g.Use(otelgin.Middleware(config.Global().Server.Service))
	g.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	g.Use(accessLog())
}

// accessLog 结构化访问日志，健康检查不记
func accessLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.FullPath() == "/api/health" {
			ctx.Next()
			return
		}

		start := time.Now()
		ctx.Next()

		logger.Infof(ctx, "%s %s %d %s",
			ctx.Request.Method,
			ctx.Request.URL.Path,
			ctx.Writer.Status(),
			time.Since(start))
	}
}
