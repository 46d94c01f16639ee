package donation

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
)

type donationImpl struct {
	repo.BaseDB
}

func New(ds *db.Datastore) repo.DonationRepo {
	return &donationImpl{BaseDB: repo.NewBaseDB(ds)}
}

func (d *donationImpl) CreateDonation(ctx context.Context, data *model.DonationRecord) error {
	if err := d.DBWithContext(ctx).Create(data).Error; err != nil {
		logger.Errorf(ctx, "CreateDonation err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (d *donationImpl) GetDonationByUUID(ctx context.Context, id uuid.UUID) (*model.DonationRecord, error) {
	record := &model.DonationRecord{}
	if err := d.DBWithContext(ctx).
		Preload("BloodBank").
		Where("uuid = ?", id).
		Take(record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound
		}
		logger.Errorf(ctx, "GetDonationByUUID err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return record, nil
}

// MarkCompleted 一次性落库全部完成字段，前置状态必须还是 SCHEDULED
// unit_serial 撞唯一索引时错误原样上抛，引擎按 IsDuplicateKey 识别后换号重试
func (d *donationImpl) MarkCompleted(ctx context.Context, id int64, data *repo.CompletionData) (bool, error) {
	updates := map[string]any{
		"status":        model.DonationCompleted,
		"donation_date": data.DonationDate,
		"eligible":      data.Eligible,
		"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
	}
	if data.UnitSerial != nil {
		updates["unit_serial"] = *data.UnitSerial
	}
	if data.Hemoglobin != nil {
		updates["hemoglobin"] = *data.Hemoglobin
	}
	if data.BloodPressure != nil {
		updates["blood_pressure"] = *data.BloodPressure
	}
	if data.Weight != nil {
		updates["weight"] = *data.Weight
	}
	if data.Temperature != nil {
		updates["temperature"] = *data.Temperature
	}
	if data.RejectionReason != nil {
		updates["rejection_reason"] = *data.RejectionReason
	}
	if len(data.HealthReport) > 0 {
		updates["health_report"] = data.HealthReport
	}

	res := d.DBWithContext(ctx).Model(&model.DonationRecord{}).
		Where("id = ?", id).
		Where("status = ?", model.DonationScheduled).
		Updates(updates)
	if res.Error != nil {
		if repo.IsDuplicateKey(res.Error) {
			return false, res.Error
		}
		logger.Errorf(ctx, "MarkCompleted err: %+v", res.Error)
		return false, code.UpdateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (d *donationImpl) UpdateDonationStatus(ctx context.Context, id int64, from model.DonationStatus, to model.DonationStatus) (bool, error) {
	res := d.DBWithContext(ctx).Model(&model.DonationRecord{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		logger.Errorf(ctx, "UpdateDonationStatus err: %+v", res.Error)
		return false, code.UpdateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (d *donationImpl) ListDonations(ctx context.Context, q repo.DonationQuery) ([]*model.DonationRecord, int64, error) {
	db := d.DBWithContext(ctx).Model(&model.DonationRecord{})

	if q.DonorID != nil {
		db = db.Where("donor_id = ?", *q.DonorID)
	}
	if q.BloodBankID != nil {
		db = db.Where("blood_bank_id = ?", *q.BloodBankID)
	}
	if q.BloodGroup != nil {
		db = db.Where("blood_group = ?", *q.BloodGroup)
	}
	if len(q.Status) > 0 {
		db = db.Where("status IN ?", q.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListDonations count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.DonationRecord, 0, q.Limit)
	if err := db.Order("id desc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListDonations query err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

type statusCount struct {
	Status model.DonationStatus `gorm:"column:status"`
	Count  int64                `gorm:"column:count"`
}

func (d *donationImpl) CountDonationsByStatus(ctx context.Context) (map[model.DonationStatus]int64, error) {
	rows := make([]*statusCount, 0, 4)
	if err := d.DBWithContext(ctx).Model(&model.DonationRecord{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "CountDonationsByStatus err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}

	result := make(map[model.DonationStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
