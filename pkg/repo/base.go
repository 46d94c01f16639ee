package repo

import (
	// 外部依赖
	"context"
	"errors"
	"fmt"
	"strings"

	haxmap "github.com/alphadose/haxmap"
	gorm "gorm.io/gorm"

	// 内部引用
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// BaseDB 各 repo 共享的数据访问基座，显式注入 Datastore
type BaseDB interface {
	DBWithContext(ctx context.Context) *gorm.DB
	ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error
	// UUID2ID 批量换算资源 uuid -> 主键，查不到的 uuid 不在返回 map 里
	UUID2ID(ctx context.Context, m model.BaseDBModel, uuids ...uuid.UUID) map[uuid.UUID]int64
}

type baseDB struct {
	ds *db.Datastore
	// uuid->id 映射不可变，进程内缓存
	idCache *haxmap.Map[string, int64]
}

func NewBaseDB(ds *db.Datastore) BaseDB {
	return &baseDB{
		ds:      ds,
		idCache: haxmap.New[string, int64](),
	}
}

func (b *baseDB) DBWithContext(ctx context.Context) *gorm.DB {
	return b.ds.DBWithContext(ctx)
}

func (b *baseDB) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return b.ds.ExecTx(ctx, fn)
}

type idRow struct {
	ID   int64     `gorm:"column:id"`
	UUID uuid.UUID `gorm:"column:uuid"`
}

func (b *baseDB) UUID2ID(ctx context.Context, m model.BaseDBModel, uuids ...uuid.UUID) map[uuid.UUID]int64 {
	result := make(map[uuid.UUID]int64, len(uuids))

	table := fmt.Sprintf("%T", m)
	missing := make([]uuid.UUID, 0, len(uuids))
	for _, u := range uuids {
		if u == uuid.Nil {
			continue
		}
		if id, ok := b.idCache.Get(table + u.String()); ok {
			result[u] = id
		} else {
			missing = append(missing, u)
		}
	}
	if len(missing) == 0 {
		return result
	}

	rows := make([]*idRow, 0, len(missing))
	if err := b.DBWithContext(ctx).Model(m).
		Select("id", "uuid").
		Where("uuid IN ?", missing).
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "UUID2ID query err: %+v", err)
		return result
	}

	for _, row := range rows {
		result[row.UUID] = row.ID
		b.idCache.Set(table+row.UUID.String(), row.ID)
	}
	return result
}

// IsRetryableConflict 存储层写写冲突，引擎内部有限重试
// 40001 serialization_failure / 40P01 deadlock_detected / sqlite busy
func IsRetryableConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		(err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")) ||
		(err != nil && strings.Contains(err.Error(), "duplicate key value"))
}

func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
