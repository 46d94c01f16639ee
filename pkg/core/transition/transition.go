package transition

import (
	// 内部引用
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

// 申请单与献血单的状态机，表外流转一律拒绝
// 引擎和 core 层改状态前都必须过这里

var requestTable = map[model.RequestStatus][]model.RequestStatus{
	model.RequestPending:  {model.RequestApproved, model.RequestRejected, model.RequestCancelled},
	model.RequestApproved: {model.RequestFulfilled, model.RequestCancelled},
	// FULFILLED / REJECTED / CANCELLED 终态
}

var donationTable = map[model.DonationStatus][]model.DonationStatus{
	model.DonationScheduled: {model.DonationCompleted, model.DonationCancelled, model.DonationNoShow},
	// COMPLETED / CANCELLED / NO_SHOW 终态
}

// Detail 非法流转的结构化明细，随错误码返回给调用方
type Detail struct {
	Entity    string `json:"entity"`
	ID        string `json:"id"`
	From      string `json:"from"`
	Attempted string `json:"attempted"`
}

func invalid(entity string, id uuid.UUID, from, to string) error {
	return code.InvalidStateTransition.
		WithMsgf("%s %s: %s -> %s not permitted", entity, id, from, to).
		WithData(&Detail{Entity: entity, ID: id.String(), From: from, Attempted: to})
}

func ValidateRequest(id uuid.UUID, from, to model.RequestStatus) error {
	for _, allowed := range requestTable[from] {
		if allowed == to {
			return nil
		}
	}
	return invalid("request", id, string(from), string(to))
}

func ValidateDonation(id uuid.UUID, from, to model.DonationStatus) error {
	for _, allowed := range donationTable[from] {
		if allowed == to {
			return nil
		}
	}
	return invalid("donation", id, string(from), string(to))
}

// RequestTerminal 终态判断，终态不再允许任何流转
func RequestTerminal(s model.RequestStatus) bool {
	return len(requestTable[s]) == 0
}

func DonationTerminal(s model.DonationStatus) bool {
	return len(donationTable[s]) == 0
}
