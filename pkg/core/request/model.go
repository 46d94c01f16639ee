package request

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// 申请单生命周期：创建、审批、驳回、撤销
// FULFILLED 只能经事务引擎产生，这里不提供
type Service interface {
	Create(ctx context.Context, req *CreateReq) (*RequestItem, error)
	Get(ctx context.Context, id uuid.UUID) (*RequestItem, error)
	List(ctx context.Context, req *ListReq) (*common.PageResp[[]*RequestItem], error)
	Approve(ctx context.Context, id uuid.UUID) (*RequestItem, error)
	Reject(ctx context.Context, req *RejectReq) (*RequestItem, error)
	Cancel(ctx context.Context, id uuid.UUID) (*RequestItem, error)
}

type CreateReq struct {
	RequesterUUID uuid.UUID         `json:"requester_uuid" binding:"required"`
	HospitalUUID  *uuid.UUID        `json:"hospital_uuid"`
	BloodGroup    common.BloodGroup `json:"blood_group" binding:"required"`
	Quantity      int               `json:"quantity" binding:"required,gt=0"`
	Urgency       model.Urgency     `json:"urgency"`
	Reason        string            `json:"reason"`
}

type ListReq struct {
	common.PageReq
	RequesterUUID *uuid.UUID            `form:"requester_uuid"`
	BloodGroup    *common.BloodGroup    `form:"blood_group"`
	Status        []model.RequestStatus `form:"status"`
	Urgency       *model.Urgency        `form:"urgency"`
}

type RejectReq struct {
	RequestUUID uuid.UUID `json:"-"`
	Note        string    `json:"note" binding:"required"`
}

type RequestItem struct {
	UUID          uuid.UUID           `json:"uuid"`
	BloodGroup    common.BloodGroup   `json:"blood_group"`
	Quantity      int                 `json:"quantity"`
	Status        model.RequestStatus `json:"status"`
	Urgency       model.Urgency       `json:"urgency"`
	Reason        string              `json:"reason"`
	FulfilledAt   *time.Time          `json:"fulfilled_at"`
	RejectionNote *string             `json:"rejection_note"`
	CreatedAt     time.Time           `json:"created_at"`
}
