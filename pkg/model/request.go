package model

import (
	// 外部依赖
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestFulfilled RequestStatus = "FULFILLED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCancelled RequestStatus = "CANCELLED"
)

type Urgency string

const (
	UrgencyNormal   Urgency = "NORMAL"
	UrgencyUrgent   Urgency = "URGENT"
	UrgencyCritical Urgency = "CRITICAL"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyCritical:
		return true
	}
	return false
}

// RequestRecord 用血申请
// 申请人删除时级联删除申请；血库/医院删除时只置空引用，申请保留
// 状态流转由事务引擎与 core/request 持有，见 core/transition
type RequestRecord struct {
	BaseModel
	RequesterID   int64             `gorm:"not null;index:idx_request_requester" json:"requester_id"`
	HospitalID    *int64            `gorm:"index:idx_request_hospital" json:"hospital_id"`
	BloodBankID   *int64            `gorm:"index:idx_request_blood_bank" json:"blood_bank_id"`
	BloodGroup    common.BloodGroup `gorm:"type:varchar(16);not null;index:idx_request_blood_group" json:"blood_group"`
	Quantity      int               `gorm:"not null;check:quantity > 0" json:"quantity"`
	Status        RequestStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_request_status" json:"status"`
	Urgency       Urgency           `gorm:"type:varchar(20);not null;default:'NORMAL'" json:"urgency"`
	Reason        string            `gorm:"type:text" json:"reason"`
	FulfilledAt   *time.Time        `json:"fulfilled_at"`
	RejectionNote *string           `gorm:"type:text" json:"rejection_note"`

	Requester *Person    `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"-"`
	Hospital  *Hospital  `gorm:"foreignKey:HospitalID;constraint:OnDelete:SET NULL" json:"-"`
	BloodBank *BloodBank `gorm:"foreignKey:BloodBankID;constraint:OnDelete:SET NULL" json:"-"`
}

func (*RequestRecord) TableName() string { return "request_record" }
