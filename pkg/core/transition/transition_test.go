package transition

import (
	// 外部依赖
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	// 内部引用
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	model "github.com/hemolink/bloodlink/pkg/model"
)

func TestValidateRequest(t *testing.T) {
	id := uuid.NewV4()

	allowed := []struct {
		from, to model.RequestStatus
	}{
		{model.RequestPending, model.RequestApproved},
		{model.RequestPending, model.RequestRejected},
		{model.RequestPending, model.RequestCancelled},
		{model.RequestApproved, model.RequestFulfilled},
		{model.RequestApproved, model.RequestCancelled},
	}
	for _, tc := range allowed {
		assert.NoError(t, ValidateRequest(id, tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct {
		from, to model.RequestStatus
	}{
		{model.RequestPending, model.RequestFulfilled},
		{model.RequestApproved, model.RequestRejected},
		{model.RequestFulfilled, model.RequestCancelled},
		{model.RequestRejected, model.RequestApproved},
		{model.RequestCancelled, model.RequestPending},
		{model.RequestFulfilled, model.RequestFulfilled},
	}
	for _, tc := range denied {
		err := ValidateRequest(id, tc.from, tc.to)
		require.ErrorIs(t, err, code.InvalidStateTransition, "%s -> %s", tc.from, tc.to)

		detail, ok := code.AsError(err).Data.(*Detail)
		require.True(t, ok)
		assert.Equal(t, "request", detail.Entity)
		assert.Equal(t, string(tc.from), detail.From)
		assert.Equal(t, string(tc.to), detail.Attempted)
	}
}

func TestValidateDonation(t *testing.T) {
	id := uuid.NewV4()

	for _, to := range []model.DonationStatus{
		model.DonationCompleted, model.DonationCancelled, model.DonationNoShow,
	} {
		assert.NoError(t, ValidateDonation(id, model.DonationScheduled, to))
	}

	for _, from := range []model.DonationStatus{
		model.DonationCompleted, model.DonationCancelled, model.DonationNoShow,
	} {
		err := ValidateDonation(id, from, model.DonationCompleted)
		assert.ErrorIs(t, err, code.InvalidStateTransition, "from %s", from)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, RequestTerminal(model.RequestPending))
	assert.False(t, RequestTerminal(model.RequestApproved))
	assert.True(t, RequestTerminal(model.RequestFulfilled))
	assert.True(t, RequestTerminal(model.RequestRejected))
	assert.True(t, RequestTerminal(model.RequestCancelled))

	assert.False(t, DonationTerminal(model.DonationScheduled))
	assert.True(t, DonationTerminal(model.DonationCompleted))
	assert.True(t, DonationTerminal(model.DonationCancelled))
	assert.True(t, DonationTerminal(model.DonationNoShow))
}
