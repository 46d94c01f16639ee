package api

import (
	// 外部依赖
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	cobra "github.com/spf13/cobra"

	// 内部引用
	config "github.com/hemolink/bloodlink/internal/config"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	redis "github.com/hemolink/bloodlink/pkg/middleware/redis"
	trace "github.com/hemolink/bloodlink/pkg/middleware/trace"
	web "github.com/hemolink/bloodlink/pkg/web"
)

func NewWeb() *cobra.Command {
	webServer := &cobra.Command{
		Use:  "apiserver",
		Long: `api server start`,

		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         runWeb,
		PostRunE:     cleanWebResource,
	}

	return webServer
}

func initWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	ctx := cmd.Context()

	trace.Init(ctx, &conf.Trace, &conf.Server)
	db.InitPostgres(ctx, &db.Config{
		Host:   conf.Database.Host,
		Port:   conf.Database.Port,
		User:   conf.Database.User,
		PW:     conf.Database.Password,
		DBName: conf.Database.Name,
		LogConf: db.LogConf{
			Level: conf.Log.LogLevel,
		},
	})
	redis.InitRedis(ctx, &conf.Redis)

	return nil
}

func runWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	ctx := cmd.Context()

	if conf.Server.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	g := gin.New()
	web.NewRouter(ctx, g, db.DB())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Server.Port),
		Handler:           g,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Infof(ctx, "api server listening on :%d", conf.Server.Port)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	redis.CloseRedis(ctx)
	db.ClosePostgres(ctx)
	trace.Close(ctx)
	return nil
}
