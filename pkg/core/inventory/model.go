package inventory

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// 库存事务引擎：两个复合操作要么全部生效要么全部回滚
// StockLine 的一切写入都走这里，查询层绝不改库存
type Service interface {
	ApproveAndFulfillRequest(ctx context.Context, req *ApproveReq) (*RequestResp, error)
	CompleteDonation(ctx context.Context, req *CompleteReq) (*DonationResp, error)
}

// LowStockThreshold 低于该余量触发告警 webhook
const LowStockThreshold = 10

type ApproveReq struct {
	RequestUUID   uuid.UUID `json:"request_uuid" binding:"required"`
	BloodBankUUID uuid.UUID `json:"blood_bank_uuid" binding:"required"`
}

type RequestResp struct {
	UUID        uuid.UUID           `json:"uuid"`
	Status      model.RequestStatus `json:"status"`
	BloodGroup  common.BloodGroup   `json:"blood_group"`
	Quantity    int                 `json:"quantity"`
	FulfilledAt *time.Time          `json:"fulfilled_at"`
	Remaining   int                 `json:"remaining"`
}

// HealthCheckInput 体检结果，字段在完成时一次性落库
// DonationDate 缺省取当前时间
type HealthCheckInput struct {
	Eligible        bool       `json:"eligible"`
	Hemoglobin      *float64   `json:"hemoglobin" binding:"omitempty,gt=0"`
	BloodPressure   *string    `json:"blood_pressure"`
	Weight          *float64   `json:"weight" binding:"omitempty,gt=0"`
	Temperature     *float64   `json:"temperature" binding:"omitempty,gt=0"`
	RejectionReason *string    `json:"rejection_reason"`
	DonationDate    *time.Time `json:"donation_date"`
}

type CompleteReq struct {
	DonationUUID uuid.UUID        `json:"donation_uuid" binding:"required"`
	HealthCheck  HealthCheckInput `json:"health_check" binding:"required"`
}

type DonationResp struct {
	UUID         uuid.UUID            `json:"uuid"`
	Status       model.DonationStatus `json:"status"`
	BloodGroup   common.BloodGroup    `json:"blood_group"`
	Quantity     int                  `json:"quantity"`
	UnitSerial   *string              `json:"unit_serial"`
	DonationDate *time.Time           `json:"donation_date"`
	Eligible     bool                 `json:"eligible"`
}

// InsufficientDetail InsufficientInventory 错误附带的明细
type InsufficientDetail struct {
	Available int `json:"available"`
	Requested int `json:"requested"`
}
