package person

import (
	// 外部依赖
	"context"
	"errors"
	"time"

	gorm "gorm.io/gorm"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
)

type personImpl struct {
	repo.BaseDB
}

func New(ds *db.Datastore) repo.PersonRepo {
	return &personImpl{BaseDB: repo.NewBaseDB(ds)}
}

func (p *personImpl) CreatePerson(ctx context.Context, data *model.Person) error {
	if err := p.DBWithContext(ctx).Create(data).Error; err != nil {
		if repo.IsDuplicateKey(err) {
			return code.DuplicateRecord.WithMsg("email or phone already registered")
		}
		logger.Errorf(ctx, "CreatePerson err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (p *personImpl) GetPersonByUUID(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	person := &model.Person{}
	if err := p.DBWithContext(ctx).
		Where("uuid = ?", id).
		Take(person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound
		}
		logger.Errorf(ctx, "GetPersonByUUID err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return person, nil
}

func (p *personImpl) GetPersonByID(ctx context.Context, id int64) (*model.Person, error) {
	person := &model.Person{}
	if err := p.DBWithContext(ctx).
		Where("id = ?", id).
		Take(person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound
		}
		logger.Errorf(ctx, "GetPersonByID err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return person, nil
}

func (p *personImpl) ListPersons(ctx context.Context, q repo.PersonQuery) ([]*model.Person, int64, error) {
	db := p.DBWithContext(ctx).Model(&model.Person{})

	if q.Role != nil {
		db = db.Where("role = ?", *q.Role)
	}
	if q.City != nil && *q.City != "" {
		db = db.Where("LOWER(city) = LOWER(?)", *q.City)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListPersons count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.Person, 0, q.Limit)
	if err := db.Order("id desc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListPersons query err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

// ListEligibleDonors 等得最久的排前面：last_donation asc，空值最前，
// 再按 id asc 保证同值稳定
func (p *personImpl) ListEligibleDonors(ctx context.Context, q repo.DonorQuery) ([]*model.Person, int64, error) {
	db := p.DBWithContext(ctx).Model(&model.Person{}).
		Where("role = ?", common.RoleDonor).
		Where("is_active = ?", true).
		Where("is_verified = ?", true).
		Where("last_donation IS NULL OR last_donation <= ?", q.EligibleBefore)

	if q.BloodGroup != nil {
		db = db.Where("blood_group = ?", *q.BloodGroup)
	}
	if q.City != nil && *q.City != "" {
		db = db.Where("LOWER(city) = LOWER(?)", *q.City)
	}
	if q.State != nil && *q.State != "" {
		db = db.Where("LOWER(state) = LOWER(?)", *q.State)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListEligibleDonors count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.Person, 0, q.Limit)
	if err := db.
		Order("last_donation ASC NULLS FIRST, id ASC").
		Offset(q.Offset).Limit(q.Limit).
		Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListEligibleDonors query err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

// TouchLastDonation 只允许时间前移，旧于当前值的写入不生效
func (p *personImpl) TouchLastDonation(ctx context.Context, id int64, donatedAt time.Time) error {
	res := p.DBWithContext(ctx).Model(&model.Person{}).
		Where("id = ?", id).
		Where("last_donation IS NULL OR last_donation < ?", donatedAt).
		UpdateColumn("last_donation", donatedAt)
	if res.Error != nil {
		logger.Errorf(ctx, "TouchLastDonation err: %+v", res.Error)
		return code.UpdateDataErr.WithErr(res.Error)
	}
	return nil
}
