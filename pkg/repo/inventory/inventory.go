package inventory

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"
	clause "gorm.io/gorm/clause"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
)

type inventoryImpl struct {
	repo.BaseDB
}

func New(ds *db.Datastore) repo.InventoryRepo {
	return &inventoryImpl{BaseDB: repo.NewBaseDB(ds)}
}

func (i *inventoryImpl) GetStockLine(ctx context.Context, bloodBankID int64, group common.BloodGroup) (*model.StockLine, error) {
	line := &model.StockLine{}
	if err := i.DBWithContext(ctx).
		Where("blood_bank_id = ?", bloodBankID).
		Where("blood_group = ?", group).
		Take(line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound
		}
		logger.Errorf(ctx, "GetStockLine err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return line, nil
}

// DecrementStock 单条条件更新，quantity >= qty 才扣减，
// 避免读-改-写丢失更新；返回 false 表示余量不足或行不存在
func (i *inventoryImpl) DecrementStock(ctx context.Context, bloodBankID int64, group common.BloodGroup, qty int) (bool, error) {
	res := i.DBWithContext(ctx).Model(&model.StockLine{}).
		Where("blood_bank_id = ?", bloodBankID).
		Where("blood_group = ?", group).
		Where("quantity >= ?", qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		logger.Errorf(ctx, "DecrementStock err: %+v", res.Error)
		return false, code.UpdateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AddStock (blood_bank_id, blood_group) 命中唯一索引时累加，否则建行
func (i *inventoryImpl) AddStock(ctx context.Context, bloodBankID int64, group common.BloodGroup, qty int) error {
	line := &model.StockLine{
		BloodBankID: bloodBankID,
		BloodGroup:  group,
		Quantity:    qty,
	}

	statement := i.DBWithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "blood_bank_id"},
			{Name: "blood_group"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(line)

	if statement.Error != nil {
		logger.Errorf(ctx, "AddStock err: %+v", statement.Error)
		return code.UpdateDataErr.WithErr(statement.Error)
	}
	return nil
}

func (i *inventoryImpl) ListAvailability(ctx context.Context, q repo.AvailabilityQuery) ([]*repo.StockLineView, int64, error) {
	db := i.DBWithContext(ctx).Model(&model.StockLine{}).
		Joins("JOIN blood_bank ON blood_bank.id = stock_line.blood_bank_id").
		Where("blood_bank.is_active = ?", true).
		Where("stock_line.quantity > 0")

	if q.BloodGroup != nil {
		db = db.Where("stock_line.blood_group = ?", *q.BloodGroup)
	}
	if q.City != nil && *q.City != "" {
		db = db.Where("LOWER(blood_bank.city) = LOWER(?)", *q.City)
	}
	if q.State != nil && *q.State != "" {
		db = db.Where("LOWER(blood_bank.state) = LOWER(?)", *q.State)
	}
	if q.MinQuantity != nil {
		db = db.Where("stock_line.quantity >= ?", *q.MinQuantity)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListAvailability count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*repo.StockLineView, 0, q.Limit)
	if err := db.
		Select(`stock_line.uuid AS stock_uuid,
			stock_line.blood_group,
			stock_line.quantity,
			blood_bank.uuid AS blood_bank_uuid,
			blood_bank.name AS blood_bank_name,
			blood_bank.city,
			blood_bank.state,
			blood_bank.phone`).
		Order("stock_line.quantity DESC, stock_line.id ASC").
		Offset(q.Offset).Limit(q.Limit).
		Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListAvailability query err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (i *inventoryImpl) GroupStats(ctx context.Context) ([]*repo.GroupStat, error) {
	stats := make([]*repo.GroupStat, 0, len(common.AllBloodGroups))
	if err := i.DBWithContext(ctx).Model(&model.StockLine{}).
		Select("blood_group, SUM(quantity) AS total, AVG(quantity) AS average").
		Group("blood_group").
		Order("blood_group ASC").
		Find(&stats).Error; err != nil {
		logger.Errorf(ctx, "GroupStats err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return stats, nil
}
