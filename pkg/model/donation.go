package model

import (
	// 外部依赖
	"time"

	datatypes "gorm.io/datatypes"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
)

type DonationStatus string

const (
	DonationScheduled DonationStatus = "SCHEDULED"
	DonationCompleted DonationStatus = "COMPLETED"
	DonationCancelled DonationStatus = "CANCELLED"
	DonationNoShow    DonationStatus = "NO_SHOW"
)

// DonationRecord 预约/完成的献血记录
// unit_serial 在完成时分配，分配后全局唯一
// 健康检查字段在完成时写入，HealthReport 保留原始上报 JSON
type DonationRecord struct {
	BaseModel
	DonorID         int64             `gorm:"not null;index:idx_donation_donor" json:"donor_id"`
	BloodBankID     int64             `gorm:"not null;index:idx_donation_blood_bank" json:"blood_bank_id"`
	BloodGroup      common.BloodGroup `gorm:"type:varchar(16);not null;index:idx_donation_blood_group" json:"blood_group"`
	Quantity        int               `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	Status          DonationStatus    `gorm:"type:varchar(20);not null;default:'SCHEDULED';index:idx_donation_status" json:"status"`
	ScheduledAt     time.Time         `gorm:"not null" json:"scheduled_at"`
	DonationDate    *time.Time        `json:"donation_date"`
	UnitSerial      *string           `gorm:"type:varchar(64);uniqueIndex:idx_donation_unit_serial" json:"unit_serial"`
	Hemoglobin      *float64          `json:"hemoglobin"`
	BloodPressure   *string           `gorm:"type:varchar(16)" json:"blood_pressure"`
	Weight          *float64          `json:"weight"`
	Temperature     *float64          `json:"temperature"`
	Eligible        *bool             `json:"eligible"`
	RejectionReason *string           `gorm:"type:text" json:"rejection_reason"`
	HealthReport    datatypes.JSON    `json:"health_report"`

	Donor     *Person    `gorm:"foreignKey:DonorID;constraint:OnDelete:CASCADE" json:"-"`
	BloodBank *BloodBank `gorm:"foreignKey:BloodBankID;constraint:OnDelete:CASCADE" json:"-"`
}

func (*DonationRecord) TableName() string { return "donation_record" }
