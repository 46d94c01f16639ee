package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

type FacilityQuery struct {
	City   *string
	State  *string
	Offset int
	Limit  int
}

type FacilityRepo interface {
	BaseDB

	CreateBloodBank(ctx context.Context, data *model.BloodBank) error
	GetBloodBankByUUID(ctx context.Context, id uuid.UUID) (*model.BloodBank, error)
	ListBloodBanks(ctx context.Context, q FacilityQuery) ([]*model.BloodBank, int64, error)

	CreateHospital(ctx context.Context, data *model.Hospital) error
	GetHospitalByUUID(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
	ListHospitals(ctx context.Context, q FacilityQuery) ([]*model.Hospital, int64, error)
}
