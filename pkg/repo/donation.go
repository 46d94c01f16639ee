package repo

import (
	// 外部依赖
	"context"
	"time"

	datatypes "gorm.io/datatypes"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// DonationQuery 献血记录列表过滤
type DonationQuery struct {
	DonorID     *int64
	BloodBankID *int64
	BloodGroup  *common.BloodGroup
	Status      []model.DonationStatus
	Offset      int
	Limit       int
}

// CompletionData 完成献血时一次性落库的全部字段
type CompletionData struct {
	DonationDate    time.Time
	UnitSerial      *string // 仅合格献血分配
	Hemoglobin      *float64
	BloodPressure   *string
	Weight          *float64
	Temperature     *float64
	Eligible        bool
	RejectionReason *string
	HealthReport    datatypes.JSON
}

type DonationRepo interface {
	BaseDB

	CreateDonation(ctx context.Context, data *model.DonationRecord) error
	GetDonationByUUID(ctx context.Context, id uuid.UUID) (*model.DonationRecord, error)
	// MarkCompleted 带前置状态 SCHEDULED 的条件更新；unit_serial 撞唯一索引时
	// 返回 IsDuplicateKey 可识别的错误
	MarkCompleted(ctx context.Context, id int64, data *CompletionData) (bool, error)
	// UpdateDonationStatus 取消 / 未到场等简单流转
	UpdateDonationStatus(ctx context.Context, id int64, from model.DonationStatus, to model.DonationStatus) (bool, error)
	ListDonations(ctx context.Context, q DonationQuery) ([]*model.DonationRecord, int64, error)
	CountDonationsByStatus(ctx context.Context) (map[model.DonationStatus]int64, error)
}
