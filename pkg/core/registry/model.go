package registry

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// 账号与机构登记：person / blood bank / hospital 的建档与检索
type Service interface {
	RegisterPerson(ctx context.Context, req *RegisterPersonReq) (*model.Person, error)
	GetPerson(ctx context.Context, id uuid.UUID) (*model.Person, error)
	ListPersons(ctx context.Context, req *ListPersonsReq) (*common.PageResp[[]*model.Person], error)

	CreateBloodBank(ctx context.Context, req *CreateBloodBankReq) (*model.BloodBank, error)
	GetBloodBank(ctx context.Context, id uuid.UUID) (*model.BloodBank, error)
	ListBloodBanks(ctx context.Context, req *ListFacilitiesReq) (*common.PageResp[[]*model.BloodBank], error)

	CreateHospital(ctx context.Context, req *CreateHospitalReq) (*model.Hospital, error)
	GetHospital(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
	ListHospitals(ctx context.Context, req *ListFacilitiesReq) (*common.PageResp[[]*model.Hospital], error)
}

type RegisterPersonReq struct {
	Name       string             `json:"name" binding:"required"`
	Email      string             `json:"email" binding:"required,email"`
	Phone      string             `json:"phone" binding:"required"`
	Role       common.Role        `json:"role" binding:"required"`
	BloodGroup *common.BloodGroup `json:"blood_group"`
	Age        *int               `json:"age" binding:"omitempty,gte=18,lte=65"`
	City       string             `json:"city"`
	State      string             `json:"state"`
}

type ListPersonsReq struct {
	common.PageReq
	Role *common.Role `form:"role"`
	City *string      `form:"city"`
}

type CreateBloodBankReq struct {
	Name           string     `json:"name" binding:"required"`
	RegistrationNo string     `json:"registration_no" binding:"required"`
	Email          string     `json:"email" binding:"required,email"`
	Phone          string     `json:"phone" binding:"required"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	ManagerUUID    *uuid.UUID `json:"manager_uuid"`
}

type CreateHospitalReq struct {
	Name           string     `json:"name" binding:"required"`
	RegistrationNo string     `json:"registration_no" binding:"required"`
	Email          string     `json:"email" binding:"required,email"`
	Phone          string     `json:"phone" binding:"required"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	ContactUUID    *uuid.UUID `json:"contact_uuid"`
}

type ListFacilitiesReq struct {
	common.PageReq
	City  *string `form:"city"`
	State *string `form:"state"`
}
