package web

import (
	// 外部依赖
	"context"

	gin "github.com/gin-gonic/gin"

	// 内部引用
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
)

func NewRouter(ctx context.Context, g *gin.Engine, ds *db.Datastore) {
	installMiddleware(g)
	InstallURL(ctx, g, ds)
}
