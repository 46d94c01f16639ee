package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// AvailabilityQuery 库存可用性检索条件
type AvailabilityQuery struct {
	BloodGroup  *common.BloodGroup
	City        *string
	State       *string
	MinQuantity *int
	Offset      int
	Limit       int
}

// StockLineView 库存行 + 血库元数据的联查结果
type StockLineView struct {
	StockUUID     string            `gorm:"column:stock_uuid" json:"stock_uuid"`
	BloodGroup    common.BloodGroup `gorm:"column:blood_group" json:"blood_group"`
	Quantity      int               `gorm:"column:quantity" json:"quantity"`
	BloodBankUUID string            `gorm:"column:blood_bank_uuid" json:"blood_bank_uuid"`
	BloodBankName string            `gorm:"column:blood_bank_name" json:"blood_bank_name"`
	City          string            `gorm:"column:city" json:"city"`
	State         string            `gorm:"column:state" json:"state"`
	Phone         string            `gorm:"column:phone" json:"phone"`
}

// GroupStat 按血型聚合的库存量
type GroupStat struct {
	BloodGroup common.BloodGroup `gorm:"column:blood_group" json:"blood_group"`
	Total      int64             `gorm:"column:total" json:"total"`
	Average    float64           `gorm:"column:average" json:"average"`
}

type InventoryRepo interface {
	BaseDB

	// GetStockLine 读取 (血库, 血型) 唯一库存行，不存在返回 RecordNotFound
	GetStockLine(ctx context.Context, bloodBankID int64, group common.BloodGroup) (*model.StockLine, error)
	// DecrementStock 条件扣减：quantity >= qty 时原子减 qty，返回是否扣成功
	DecrementStock(ctx context.Context, bloodBankID int64, group common.BloodGroup, qty int) (bool, error)
	// AddStock upsert：行存在则加 qty，不存在则以 qty 建行
	AddStock(ctx context.Context, bloodBankID int64, group common.BloodGroup, qty int) error
	// ListAvailability 可用性检索，quantity > 0，按量降序
	ListAvailability(ctx context.Context, q AvailabilityQuery) ([]*StockLineView, int64, error)
	// GroupStats 按血型统计总量与均值
	GroupStats(ctx context.Context) ([]*GroupStat, error)
}
