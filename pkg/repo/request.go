package repo

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// RequestQuery 申请单列表过滤
type RequestQuery struct {
	RequesterID *int64
	BloodGroup  *common.BloodGroup
	Status      []model.RequestStatus
	Urgency     *model.Urgency
	OrderBy     string // 默认 id desc
	Offset      int
	Limit       int
}

// StatusTransition 状态落库的目标值，只允许引擎与 core/request 构造
type StatusTransition struct {
	Status        model.RequestStatus
	BloodBankID   *int64
	FulfilledAt   *time.Time
	RejectionNote *string
}

type RequestRepo interface {
	BaseDB

	CreateRequest(ctx context.Context, data *model.RequestRecord) error
	GetRequestByUUID(ctx context.Context, id uuid.UUID) (*model.RequestRecord, error)
	// UpdateRequestStatus 带前置状态的条件更新，前置状态不匹配时返回 false
	UpdateRequestStatus(ctx context.Context, id int64, from model.RequestStatus, to StatusTransition) (bool, error)
	ListRequests(ctx context.Context, q RequestQuery) ([]*model.RequestRecord, int64, error)
	CountRequestsByStatus(ctx context.Context) (map[model.RequestStatus]int64, error)
}
