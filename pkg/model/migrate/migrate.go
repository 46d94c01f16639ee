package migrate

import (
	// 外部依赖
	"context"

	// 内部引用
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	model "github.com/hemolink/bloodlink/pkg/model"
	utils "github.com/hemolink/bloodlink/pkg/utils"
)

func Table(_ context.Context, ds *db.Datastore) error {
	return utils.IfErrReturn(func() error {
		return ds.DBIns().AutoMigrate(
			&model.Person{},         // 账号
			&model.BloodBank{},      // 血库
			&model.Hospital{},       // 医院
			&model.StockLine{},      // 库存行
			&model.RequestRecord{},  // 用血申请
			&model.DonationRecord{}, // 献血记录
		)
	}, func() error {
		// 等待中的申请高频按 (血型, 状态) 查询
		return ds.DBIns().Exec(`CREATE INDEX IF NOT EXISTS idx_request_group_status ON request_record (blood_group, status);`).Error
	})
}
