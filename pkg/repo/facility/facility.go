package facility

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

type facilityImpl struct {
	repo.BaseDB
}

func New(ds *db.Datastore) repo.FacilityRepo {
	return &facilityImpl{BaseDB: repo.NewBaseDB(ds)}
}

func (f *facilityImpl) CreateBloodBank(ctx context.Context, data *model.BloodBank) error {
	if err := f.DBWithContext(ctx).Create(data).Error; err != nil {
		if repo.IsDuplicateKey(err) {
			return code.DuplicateRecord.WithMsg("registration number, email or phone already in use")
		}
		logger.Errorf(ctx, "CreateBloodBank err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (f *facilityImpl) GetBloodBankByUUID(ctx context.Context, id uuid.UUID) (*model.BloodBank, error) {
	bank := &model.BloodBank{}
	if err := f.DBWithContext(ctx).
		Where("uuid = ?", id).
		Take(bank).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound
		}
		logger.Errorf(ctx, "GetBloodBankByUUID err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return bank, nil
}

func (f *facilityImpl) ListBloodBanks(ctx context.Context, q repo.FacilityQuery) ([]*model.BloodBank, int64, error) {
	db := f.DBWithContext(ctx).Model(&model.BloodBank{}).
		Where("is_active = ?", true)
	db = applyLocation(db, q)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListBloodBanks count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.BloodBank, 0, q.Limit)
	if err := db.Order("id desc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListBloodBanks query err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (f *facilityImpl) CreateHospital(ctx context.Context, data *model.Hospital) error {
	if err := f.DBWithContext(ctx).Create(data).Error; err != nil {
		if repo.IsDuplicateKey(err) {
			return code.DuplicateRecord.WithMsg("registration number, email or phone already in use")
		}
		logger.Errorf(ctx, "CreateHospital err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (f *facilityImpl) GetHospitalByUUID(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	hospital := &model.Hospital{}
	if err := f.DBWithContext(ctx).
		Where("uuid = ?", id).
		Take(hospital).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound
		}
		logger.Errorf(ctx, "GetHospitalByUUID err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return hospital, nil
}

func (f *facilityImpl) ListHospitals(ctx context.Context, q repo.FacilityQuery) ([]*model.Hospital, int64, error) {
	db := f.DBWithContext(ctx).Model(&model.Hospital{}).
		Where("is_active = ?", true)
	db = applyLocation(db, q)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListHospitals count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.Hospital, 0, q.Limit)
	if err := db.Order("id desc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListHospitals query err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func applyLocation(db *gorm.DB, q repo.FacilityQuery) *gorm.DB {
	if q.City != nil && *q.City != "" {
		db = db.Where("LOWER(city) = LOWER(?)", *q.City)
	}
	if q.State != nil && *q.State != "" {
		db = db.Where("LOWER(state) = LOWER(?)", *q.State)
	}
	return db
}
