package registry

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	core "github.com/hemolink/bloodlink/pkg/core/registry"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
	repoFacility "github.com/hemolink/bloodlink/pkg/repo/facility"
	repoPerson "github.com/hemolink/bloodlink/pkg/repo/person"
)

type registryImpl struct {
	personStore   repo.PersonRepo
	facilityStore repo.FacilityRepo
}

func New(ds *db.Datastore) core.Service {
	return &registryImpl{
		personStore:   repoPerson.New(ds),
		facilityStore: repoFacility.New(ds),
	}
}

func (s *registryImpl) RegisterPerson(ctx context.Context, req *core.RegisterPersonReq) (*model.Person, error) {
	if !req.Role.Valid() {
		return nil, code.ParamErr.WithMsgf("unknown role %q", req.Role)
	}
	if req.BloodGroup != nil && !req.BloodGroup.Valid() {
		return nil, code.ParamErr.WithMsgf("unknown blood group %q", *req.BloodGroup)
	}
	// donor 建档必须带血型，否则后续可用性检索无从谈起
	if req.Role == common.RoleDonor && req.BloodGroup == nil {
		return nil, code.ParamErr.WithMsg("blood group is required for donor registration")
	}

	person := &model.Person{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		BloodGroup: req.BloodGroup,
		Age:        req.Age,
		City:       req.City,
		State:      req.State,
		IsActive:   true,
	}
	if err := s.personStore.CreatePerson(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *registryImpl) GetPerson(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	return s.personStore.GetPersonByUUID(ctx, id)
}

func (s *registryImpl) ListPersons(ctx context.Context, req *core.ListPersonsReq) (*common.PageResp[[]*model.Person], error) {
	req.Normalize()

	list, total, err := s.personStore.ListPersons(ctx, repo.PersonQuery{
		Role:   req.Role,
		City:   req.City,
		Offset: req.Offest(),
		Limit:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &common.PageResp[[]*model.Person]{
		Data:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (s *registryImpl) CreateBloodBank(ctx context.Context, req *core.CreateBloodBankReq) (*model.BloodBank, error) {
	bank := &model.BloodBank{
		Name:           req.Name,
		RegistrationNo: req.RegistrationNo,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		IsActive:       true,
	}
	if req.ManagerUUID != nil {
		manager, err := s.personStore.GetPersonByUUID(ctx, *req.ManagerUUID)
		if err != nil {
			return nil, err
		}
		bank.ManagerID = &manager.ID
	}

	if err := s.facilityStore.CreateBloodBank(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (s *registryImpl) GetBloodBank(ctx context.Context, id uuid.UUID) (*model.BloodBank, error) {
	return s.facilityStore.GetBloodBankByUUID(ctx, id)
}

func (s *registryImpl) ListBloodBanks(ctx context.Context, req *core.ListFacilitiesReq) (*common.PageResp[[]*model.BloodBank], error) {
	req.Normalize()

	list, total, err := s.facilityStore.ListBloodBanks(ctx, repo.FacilityQuery{
		City:   req.City,
		State:  req.State,
		Offset: req.Offest(),
		Limit:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &common.PageResp[[]*model.BloodBank]{
		Data:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (s *registryImpl) CreateHospital(ctx context.Context, req *core.CreateHospitalReq) (*model.Hospital, error) {
	hospital := &model.Hospital{
		Name:           req.Name,
		RegistrationNo: req.RegistrationNo,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		IsActive:       true,
	}
	if req.ContactUUID != nil {
		contact, err := s.personStore.GetPersonByUUID(ctx, *req.ContactUUID)
		if err != nil {
			return nil, err
		}
		hospital.ContactID = &contact.ID
	}

	if err := s.facilityStore.CreateHospital(ctx, hospital); err != nil {
		return nil, err
	}
	return hospital, nil
}

func (s *registryImpl) GetHospital(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	return s.facilityStore.GetHospitalByUUID(ctx, id)
}

func (s *registryImpl) ListHospitals(ctx context.Context, req *core.ListFacilitiesReq) (*common.PageResp[[]*model.Hospital], error) {
	req.Normalize()

	list, total, err := s.facilityStore.ListHospitals(ctx, repo.FacilityQuery{
		City:   req.City,
		State:  req.State,
		Offset: req.Offest(),
		Limit:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &common.PageResp[[]*model.Hospital]{
		Data:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
