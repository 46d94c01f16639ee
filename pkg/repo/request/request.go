package request

import (
	// 外部依赖
	"context"
	"errors"
	"strings"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
)

type requestImpl struct {
	repo.BaseDB
}

func New(ds *db.Datastore) repo.RequestRepo {
	return &requestImpl{BaseDB: repo.NewBaseDB(ds)}
}

func (r *requestImpl) CreateRequest(ctx context.Context, data *model.RequestRecord) error {
	if err := r.DBWithContext(ctx).Create(data).Error; err != nil {
		logger.Errorf(ctx, "CreateRequest err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (r *requestImpl) GetRequestByUUID(ctx context.Context, id uuid.UUID) (*model.RequestRecord, error) {
	record := &model.RequestRecord{}
	if err := r.DBWithContext(ctx).
		Where("uuid = ?", id).
		Take(record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound
		}
		logger.Errorf(ctx, "GetRequestByUUID err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return record, nil
}

// UpdateRequestStatus 条件更新带前置状态，
// 并发下前置状态被别人改掉时返回 false，由引擎决定重读还是报错
func (r *requestImpl) UpdateRequestStatus(ctx context.Context, id int64, from model.RequestStatus, to repo.StatusTransition) (bool, error) {
	updates := map[string]any{
		"status":     to.Status,
		"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
	}
	if to.BloodBankID != nil {
		updates["blood_bank_id"] = *to.BloodBankID
	}
	if to.FulfilledAt != nil {
		updates["fulfilled_at"] = *to.FulfilledAt
	}
	if to.RejectionNote != nil {
		updates["rejection_note"] = *to.RejectionNote
	}

	res := r.DBWithContext(ctx).Model(&model.RequestRecord{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(updates)
	if res.Error != nil {
		logger.Errorf(ctx, "UpdateRequestStatus err: %+v", res.Error)
		return false, code.UpdateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *requestImpl) ListRequests(ctx context.Context, q repo.RequestQuery) ([]*model.RequestRecord, int64, error) {
	db := r.DBWithContext(ctx).Model(&model.RequestRecord{})

	if q.RequesterID != nil {
		db = db.Where("requester_id = ?", *q.RequesterID)
	}
	if q.BloodGroup != nil {
		db = db.Where("blood_group = ?", *q.BloodGroup)
	}
	if len(q.Status) > 0 {
		db = db.Where("status IN ?", q.Status)
	}
	if q.Urgency != nil {
		db = db.Where("urgency = ?", *q.Urgency)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListRequests count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	order := strings.TrimSpace(q.OrderBy)
	if order == "" {
		order = "id desc"
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.RequestRecord, 0, q.Limit)
	if err := db.Order(order).Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListRequests query err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

type statusCount struct {
	Status model.RequestStatus `gorm:"column:status"`
	Count  int64               `gorm:"column:count"`
}

func (r *requestImpl) CountRequestsByStatus(ctx context.Context) (map[model.RequestStatus]int64, error) {
	rows := make([]*statusCount, 0, 5)
	if err := r.DBWithContext(ctx).Model(&model.RequestRecord{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "CountRequestsByStatus err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}

	result := make(map[model.RequestStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
