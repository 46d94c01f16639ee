package model

import (
	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
)

// StockLine 一个血库一种血型的唯一库存行
// (blood_bank_id, blood_group) 组合唯一是核心不变式：
// 库存永远 update-in-place，不允许插新行再求和
// 写入只经过 core/inventory 的事务引擎
type StockLine struct {
	BaseModel
	BloodBankID int64             `gorm:"not null;uniqueIndex:idx_stock_bank_group" json:"blood_bank_id"`
	BloodGroup  common.BloodGroup `gorm:"type:varchar(16);not null;uniqueIndex:idx_stock_bank_group" json:"blood_group"`
	Quantity    int               `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	BloodBank   *BloodBank        `gorm:"foreignKey:BloodBankID;constraint:OnDelete:CASCADE" json:"-"`
}

func (*StockLine) TableName() string { return "stock_line" }
