package model

import (
	// 外部依赖
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
)

// Person 平台账号：献血者、医院/血库/公益组织人员、管理员
// 只有 DONOR 角色受 90 天献血间隔约束
type Person struct {
	BaseModel
	Name         string             `gorm:"type:varchar(120);not null" json:"name"`
	Email        string             `gorm:"type:varchar(255);not null;uniqueIndex:idx_person_email" json:"email"`
	Phone        string             `gorm:"type:varchar(32);not null;uniqueIndex:idx_person_phone" json:"phone"`
	Role         common.Role        `gorm:"type:varchar(20);not null;index:idx_person_role" json:"role"`
	BloodGroup   *common.BloodGroup `gorm:"type:varchar(16);index:idx_person_blood_group" json:"blood_group"`
	Age          *int               `gorm:"check:age >= 18 AND age <= 65" json:"age"`
	City         string             `gorm:"type:varchar(120);index:idx_person_city" json:"city"`
	State        string             `gorm:"type:varchar(120);index:idx_person_state" json:"state"`
	IsActive     bool               `gorm:"not null;default:true" json:"is_active"`
	IsVerified   bool               `gorm:"not null;default:false" json:"is_verified"`
	LastDonation *time.Time         `gorm:"index:idx_person_last_donation" json:"last_donation"`
}

func (*Person) TableName() string { return "person" }
