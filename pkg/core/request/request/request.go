package request

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	core "github.com/hemolink/bloodlink/pkg/core/request"
	transition "github.com/hemolink/bloodlink/pkg/core/transition"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
	repoPerson "github.com/hemolink/bloodlink/pkg/repo/person"
	repoRequest "github.com/hemolink/bloodlink/pkg/repo/request"
	utils "github.com/hemolink/bloodlink/pkg/utils"
)

type requestImpl struct {
	requestStore repo.RequestRepo
	personStore  repo.PersonRepo
}

func New(ds *db.Datastore) core.Service {
	return &requestImpl{
		requestStore: repoRequest.New(ds),
		personStore:  repoPerson.New(ds),
	}
}

func (s *requestImpl) Create(ctx context.Context, req *core.CreateReq) (*core.RequestItem, error) {
	if !req.BloodGroup.Valid() {
		return nil, code.ParamErr.WithMsgf("unknown blood group %q", req.BloodGroup)
	}
	if req.Urgency == "" {
		req.Urgency = model.UrgencyNormal
	}
	if !req.Urgency.Valid() {
		return nil, code.ParamErr.WithMsgf("unknown urgency %q", req.Urgency)
	}

	requester, err := s.personStore.GetPersonByUUID(ctx, req.RequesterUUID)
	if err != nil {
		return nil, err
	}

	record := &model.RequestRecord{
		RequesterID: requester.ID,
		BloodGroup:  req.BloodGroup,
		Quantity:    req.Quantity,
		Status:      model.RequestPending,
		Urgency:     req.Urgency,
		Reason:      req.Reason,
	}
	if req.HospitalUUID != nil {
		ids := s.requestStore.UUID2ID(ctx, &model.Hospital{}, *req.HospitalUUID)
		id, ok := ids[*req.HospitalUUID]
		if !ok {
			return nil, code.RecordNotFound.WithMsgf("hospital %s not found", *req.HospitalUUID)
		}
		record.HospitalID = &id
	}

	if err := s.requestStore.CreateRequest(ctx, record); err != nil {
		return nil, err
	}
	return toItem(record), nil
}

func (s *requestImpl) Get(ctx context.Context, id uuid.UUID) (*core.RequestItem, error) {
	record, err := s.requestStore.GetRequestByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItem(record), nil
}

func (s *requestImpl) List(ctx context.Context, req *core.ListReq) (*common.PageResp[[]*core.RequestItem], error) {
	req.Normalize()

	q := repo.RequestQuery{
		BloodGroup: req.BloodGroup,
		Status:     req.Status,
		Urgency:    req.Urgency,
		Offset:     req.Offest(),
		Limit:      req.PageSize,
	}
	if req.RequesterUUID != nil {
		ids := s.requestStore.UUID2ID(ctx, &model.Person{}, *req.RequesterUUID)
		id, ok := ids[*req.RequesterUUID]
		if !ok {
			return nil, code.RecordNotFound.WithMsgf("person %s not found", *req.RequesterUUID)
		}
		q.RequesterID = &id
	}

	list, total, err := s.requestStore.ListRequests(ctx, q)
	if err != nil {
		return nil, err
	}

	items := utils.FilterSlice(list, func(r *model.RequestRecord) (*core.RequestItem, bool) {
		return toItem(r), true
	})
	return &common.PageResp[[]*core.RequestItem]{
		Data:     items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (s *requestImpl) Approve(ctx context.Context, id uuid.UUID) (*core.RequestItem, error) {
	return s.shift(ctx, id, model.RequestApproved, repo.StatusTransition{Status: model.RequestApproved})
}

func (s *requestImpl) Reject(ctx context.Context, req *core.RejectReq) (*core.RequestItem, error) {
	return s.shift(ctx, req.RequestUUID, model.RequestRejected, repo.StatusTransition{
		Status:        model.RequestRejected,
		RejectionNote: &req.Note,
	})
}

func (s *requestImpl) Cancel(ctx context.Context, id uuid.UUID) (*core.RequestItem, error) {
	return s.shift(ctx, id, model.RequestCancelled, repo.StatusTransition{Status: model.RequestCancelled})
}

// shift 状态机校验 + 带前置状态的条件更新，前置状态被并发改掉按冲突上报
func (s *requestImpl) shift(ctx context.Context, id uuid.UUID, to model.RequestStatus, tr repo.StatusTransition) (*core.RequestItem, error) {
	record, err := s.requestStore.GetRequestByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transition.ValidateRequest(record.UUID, record.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.requestStore.UpdateRequestStatus(ctx, record.ID, record.Status, tr)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, code.ConcurrentModification.WithMsgf("request %s changed concurrently", id)
	}

	record.Status = to
	record.RejectionNote = tr.RejectionNote
	return toItem(record), nil
}

func toItem(r *model.RequestRecord) *core.RequestItem {
	return &core.RequestItem{
		UUID:          r.UUID,
		BloodGroup:    r.BloodGroup,
		Quantity:      r.Quantity,
		Status:        r.Status,
		Urgency:       r.Urgency,
		Reason:        r.Reason,
		FulfilledAt:   r.FulfilledAt,
		RejectionNote: r.RejectionNote,
		CreatedAt:     r.CreatedAt,
	}
}
