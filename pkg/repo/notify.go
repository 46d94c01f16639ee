package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
)

// LowStockAlert 库存跌破阈值时推送给运营 webhook 的载荷
type LowStockAlert struct {
	BloodBankUUID string            `json:"blood_bank_uuid"`
	BloodBankName string            `json:"blood_bank_name"`
	BloodGroup    common.BloodGroup `json:"blood_group"`
	Remaining     int               `json:"remaining"`
	Threshold     int               `json:"threshold"`
}

type Notifier interface {
	NotifyLowStock(ctx context.Context, alert *LowStockAlert) error
}
