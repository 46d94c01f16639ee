package migrate

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// Seed 本地调试用演示数据，按唯一键幂等
func Seed(_ context.Context, ds *db.Datastore) error {
	gdb := ds.DBIns()

	bank := &model.BloodBank{
		Name:           "Central Blood Bank",
		RegistrationNo: "BB-0001",
		Email:          "central@bloodlink.local",
		Phone:          "+1-555-0100",
		Address:        "1 Central Ave",
		City:           "Springfield",
		State:          "IL",
		IsActive:       true,
		IsVerified:     true,
	}
	if err := gdb.Where(&model.BloodBank{RegistrationNo: bank.RegistrationNo}).
		FirstOrCreate(bank).Error; err != nil {
		return err
	}

	for _, group := range common.AllBloodGroups {
		line := &model.StockLine{
			BloodBankID: bank.ID,
			BloodGroup:  group,
			Quantity:    20,
		}
		if err := gdb.Where(&model.StockLine{BloodBankID: bank.ID, BloodGroup: group}).
			FirstOrCreate(line).Error; err != nil {
			return err
		}
	}

	groupO := common.OPositive
	age := 30
	donor := &model.Person{
		Name:       "Demo Donor",
		Email:      "donor@bloodlink.local",
		Phone:      "+1-555-0101",
		Role:       common.RoleDonor,
		BloodGroup: &groupO,
		Age:        &age,
		City:       "Springfield",
		State:      "IL",
		IsActive:   true,
		IsVerified: true,
	}
	return gdb.Where(&model.Person{Email: donor.Email}).FirstOrCreate(donor).Error
}
