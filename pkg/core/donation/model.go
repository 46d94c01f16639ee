package donation

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// 献血预约生命周期：预约、取消、爽约
// COMPLETED 只能经事务引擎产生，这里不提供
type Service interface {
	Schedule(ctx context.Context, req *ScheduleReq) (*DonationItem, error)
	Get(ctx context.Context, id uuid.UUID) (*DonationItem, error)
	List(ctx context.Context, req *ListReq) (*common.PageResp[[]*DonationItem], error)
	Cancel(ctx context.Context, id uuid.UUID) (*DonationItem, error)
	NoShow(ctx context.Context, id uuid.UUID) (*DonationItem, error)
}

type ScheduleReq struct {
	DonorUUID     uuid.UUID          `json:"donor_uuid" binding:"required"`
	BloodBankUUID uuid.UUID          `json:"blood_bank_uuid" binding:"required"`
	BloodGroup    *common.BloodGroup `json:"blood_group"`
	Quantity      int                `json:"quantity" binding:"omitempty,gt=0"`
	ScheduledAt   *time.Time         `json:"scheduled_at"`
}

type ListReq struct {
	common.PageReq
	DonorUUID     *uuid.UUID             `form:"donor_uuid"`
	BloodBankUUID *uuid.UUID             `form:"blood_bank_uuid"`
	BloodGroup    *common.BloodGroup     `form:"blood_group"`
	Status        []model.DonationStatus `form:"status"`
}

type DonationItem struct {
	UUID         uuid.UUID            `json:"uuid"`
	BloodGroup   common.BloodGroup    `json:"blood_group"`
	Quantity     int                  `json:"quantity"`
	Status       model.DonationStatus `json:"status"`
	ScheduledAt  time.Time            `json:"scheduled_at"`
	DonationDate *time.Time           `json:"donation_date"`
	UnitSerial   *string              `json:"unit_serial"`
	CreatedAt    time.Time            `json:"created_at"`
}

// EligibilityDetail DonorNotEligible 错误附带的明细
type EligibilityDetail struct {
	LastDonation   time.Time `json:"last_donation"`
	NextEligibleAt time.Time `json:"next_eligible_at"`
}
