package testenv

import (
	// 外部依赖
	"context"
	"fmt"
	"strings"
	"testing"

	require "github.com/stretchr/testify/require"
	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	// 内部引用
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	migrate "github.com/hemolink/bloodlink/pkg/model/migrate"
)

// NewDatastore 每个测试独立的 sqlite 内存库，带全量表结构
// 单连接串行执行，行为与 postgres 对齐到测试关心的范围
func NewDatastore(t *testing.T) *db.Datastore {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewV4().String(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ds := db.New(gdb)
	require.NoError(t, migrate.Table(context.Background(), ds))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return ds
}
