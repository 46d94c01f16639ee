package model

// BloodBank 血库，持有库存
// 删除血库时级联删除其 StockLine 与 DonationRecord，
// 被 RequestRecord 引用时只置空引用，申请单保留为历史
type BloodBank struct {
	BaseModel
	Name           string  `gorm:"type:varchar(255);not null;index:idx_blood_bank_name" json:"name"`
	RegistrationNo string  `gorm:"type:varchar(64);not null;uniqueIndex:idx_blood_bank_reg_no" json:"registration_no"`
	Email          string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_blood_bank_email" json:"email"`
	Phone          string  `gorm:"type:varchar(32);not null;uniqueIndex:idx_blood_bank_phone" json:"phone"`
	Address        string  `gorm:"type:text" json:"address"`
	City           string  `gorm:"type:varchar(120);index:idx_blood_bank_city" json:"city"`
	State          string  `gorm:"type:varchar(120);index:idx_blood_bank_state" json:"state"`
	IsActive       bool    `gorm:"not null;default:true" json:"is_active"`
	IsVerified     bool    `gorm:"not null;default:false" json:"is_verified"`
	ManagerID      *int64  `gorm:"uniqueIndex:idx_blood_bank_manager" json:"manager_id"`
	Manager        *Person `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL" json:"-"`
}

func (*BloodBank) TableName() string { return "blood_bank" }

// Hospital 医院，发起用血申请
type Hospital struct {
	BaseModel
	Name           string  `gorm:"type:varchar(255);not null;index:idx_hospital_name" json:"name"`
	RegistrationNo string  `gorm:"type:varchar(64);not null;uniqueIndex:idx_hospital_reg_no" json:"registration_no"`
	Email          string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_hospital_email" json:"email"`
	Phone          string  `gorm:"type:varchar(32);not null;uniqueIndex:idx_hospital_phone" json:"phone"`
	Address        string  `gorm:"type:text" json:"address"`
	City           string  `gorm:"type:varchar(120);index:idx_hospital_city" json:"city"`
	State          string  `gorm:"type:varchar(120);index:idx_hospital_state" json:"state"`
	IsActive       bool    `gorm:"not null;default:true" json:"is_active"`
	IsVerified     bool    `gorm:"not null;default:false" json:"is_verified"`
	ContactID      *int64  `gorm:"uniqueIndex:idx_hospital_contact" json:"contact_id"`
	Contact        *Person `gorm:"foreignKey:ContactID;constraint:OnDelete:SET NULL" json:"-"`
}

func (*Hospital) TableName() string { return "hospital" }
