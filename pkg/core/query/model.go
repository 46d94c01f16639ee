package query

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
)

// 只读查询层：检索与统计，从不写库存
type Service interface {
	SearchAvailability(ctx context.Context, req *AvailabilityReq) (*common.PageResp[[]*repo.StockLineView], error)
	SearchEligibleDonors(ctx context.Context, req *DonorSearchReq) (*common.PageResp[[]*DonorView], error)
	GetAggregateStats(ctx context.Context) (*StatsResp, error)
}

// EligibilityWindow 两次献血之间的最短间隔
const EligibilityWindow = 90 * 24 * time.Hour

type AvailabilityReq struct {
	common.PageReq
	BloodGroup  *common.BloodGroup `form:"blood_group"`
	City        *string            `form:"city"`
	State       *string            `form:"state"`
	MinQuantity *int               `form:"min_quantity" binding:"omitempty,gt=0"`
}

type DonorSearchReq struct {
	common.PageReq
	BloodGroup *common.BloodGroup `form:"blood_group"`
	City       *string            `form:"city"`
	State      *string            `form:"state"`
}

// DonorView 可献血 donor 的对外视图，NextEligibleAt 由 last_donation 推算
type DonorView struct {
	UUID           string            `json:"uuid"`
	Name           string            `json:"name"`
	BloodGroup     common.BloodGroup `json:"blood_group"`
	City           string            `json:"city"`
	State          string            `json:"state"`
	Phone          string            `json:"phone"`
	LastDonation   *time.Time        `json:"last_donation"`
	NextEligibleAt *time.Time        `json:"next_eligible_at"`
}

// StatsResp 平台聚合统计，可缓存快照
type StatsResp struct {
	TotalDonors     int64                          `json:"total_donors"`
	TotalBloodBanks int64                          `json:"total_blood_banks"`
	Inventory       []*repo.GroupStat              `json:"inventory"`
	Requests        map[model.RequestStatus]int64  `json:"requests"`
	Donations       map[model.DonationStatus]int64 `json:"donations"`
	GeneratedAt     time.Time                      `json:"generated_at"`
}
