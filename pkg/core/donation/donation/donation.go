package donation

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	core "github.com/hemolink/bloodlink/pkg/core/donation"
	query "github.com/hemolink/bloodlink/pkg/core/query"
	transition "github.com/hemolink/bloodlink/pkg/core/transition"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
	repoDonation "github.com/hemolink/bloodlink/pkg/repo/donation"
	repoFacility "github.com/hemolink/bloodlink/pkg/repo/facility"
	repoPerson "github.com/hemolink/bloodlink/pkg/repo/person"
	utils "github.com/hemolink/bloodlink/pkg/utils"
)

type donationImpl struct {
	donationStore repo.DonationRepo
	personStore   repo.PersonRepo
	facilityStore repo.FacilityRepo

	now func() time.Time
}

type Option func(*donationImpl)

// WithClock 覆盖当前时间来源，资格窗口测试用
func WithClock(now func() time.Time) Option {
	return func(d *donationImpl) { d.now = now }
}

func New(ds *db.Datastore, opts ...Option) core.Service {
	d := &donationImpl{
		donationStore: repoDonation.New(ds),
		personStore:   repoPerson.New(ds),
		facilityStore: repoFacility.New(ds),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Schedule 预约前校验 donor 资格：距上次献血不满间隔期直接拒绝
func (s *donationImpl) Schedule(ctx context.Context, req *core.ScheduleReq) (*core.DonationItem, error) {
	donor, err := s.personStore.GetPersonByUUID(ctx, req.DonorUUID)
	if err != nil {
		return nil, err
	}
	if donor.Role != common.RoleDonor {
		return nil, code.ParamErr.WithMsgf("person %s is not a donor", req.DonorUUID)
	}
	if !donor.IsActive {
		return nil, code.ParamErr.WithMsgf("donor %s is deactivated", req.DonorUUID)
	}

	now := s.now()
	if donor.LastDonation != nil {
		next := donor.LastDonation.Add(query.EligibilityWindow)
		if now.Before(next) {
			return nil, code.DonorNotEligible.
				WithMsgf("donor %s eligible again at %s", req.DonorUUID, next.Format(time.RFC3339)).
				WithData(&core.EligibilityDetail{
					LastDonation:   *donor.LastDonation,
					NextEligibleAt: next,
				})
		}
	}

	bank, err := s.facilityStore.GetBloodBankByUUID(ctx, req.BloodBankUUID)
	if err != nil {
		return nil, err
	}

	group := req.BloodGroup
	if group == nil {
		group = donor.BloodGroup
	}
	if group == nil || !group.Valid() {
		return nil, code.ParamErr.WithMsg("blood group required: donor profile has none and request carries none")
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	scheduledAt := now
	if req.ScheduledAt != nil {
		scheduledAt = *req.ScheduledAt
	}

	record := &model.DonationRecord{
		DonorID:     donor.ID,
		BloodBankID: bank.ID,
		BloodGroup:  *group,
		Quantity:    quantity,
		Status:      model.DonationScheduled,
		ScheduledAt: scheduledAt,
	}
	if err := s.donationStore.CreateDonation(ctx, record); err != nil {
		return nil, err
	}
	return toItem(record), nil
}

func (s *donationImpl) Get(ctx context.Context, id uuid.UUID) (*core.DonationItem, error) {
	record, err := s.donationStore.GetDonationByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItem(record), nil
}

func (s *donationImpl) List(ctx context.Context, req *core.ListReq) (*common.PageResp[[]*core.DonationItem], error) {
	req.Normalize()

	q := repo.DonationQuery{
		BloodGroup: req.BloodGroup,
		Status:     req.Status,
		Offset:     req.Offest(),
		Limit:      req.PageSize,
	}
	if req.DonorUUID != nil {
		ids := s.donationStore.UUID2ID(ctx, &model.Person{}, *req.DonorUUID)
		id, ok := ids[*req.DonorUUID]
		if !ok {
			return nil, code.RecordNotFound.WithMsgf("person %s not found", *req.DonorUUID)
		}
		q.DonorID = &id
	}
	if req.BloodBankUUID != nil {
		ids := s.donationStore.UUID2ID(ctx, &model.BloodBank{}, *req.BloodBankUUID)
		id, ok := ids[*req.BloodBankUUID]
		if !ok {
			return nil, code.RecordNotFound.WithMsgf("blood bank %s not found", *req.BloodBankUUID)
		}
		q.BloodBankID = &id
	}

	list, total, err := s.donationStore.ListDonations(ctx, q)
	if err != nil {
		return nil, err
	}

	items := utils.FilterSlice(list, func(r *model.DonationRecord) (*core.DonationItem, bool) {
		return toItem(r), true
	})
	return &common.PageResp[[]*core.DonationItem]{
		Data:     items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (s *donationImpl) Cancel(ctx context.Context, id uuid.UUID) (*core.DonationItem, error) {
	return s.shift(ctx, id, model.DonationCancelled)
}

func (s *donationImpl) NoShow(ctx context.Context, id uuid.UUID) (*core.DonationItem, error) {
	return s.shift(ctx, id, model.DonationNoShow)
}

func (s *donationImpl) shift(ctx context.Context, id uuid.UUID, to model.DonationStatus) (*core.DonationItem, error) {
	record, err := s.donationStore.GetDonationByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transition.ValidateDonation(record.UUID, record.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.donationStore.UpdateDonationStatus(ctx, record.ID, record.Status, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, code.ConcurrentModification.WithMsgf("donation %s changed concurrently", id)
	}

	record.Status = to
	return toItem(record), nil
}

func toItem(r *model.DonationRecord) *core.DonationItem {
	return &core.DonationItem{
		UUID:         r.UUID,
		BloodGroup:   r.BloodGroup,
		Quantity:     r.Quantity,
		Status:       r.Status,
		ScheduledAt:  r.ScheduledAt,
		DonationDate: r.DonationDate,
		UnitSerial:   r.UnitSerial,
		CreatedAt:    r.CreatedAt,
	}
}
