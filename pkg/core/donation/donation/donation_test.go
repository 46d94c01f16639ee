package donation

import (
	// 外部依赖
	"context"
	"testing"
	"time"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	// 内部引用
	testenv "github.com/hemolink/bloodlink/internal/testenv"
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	core "github.com/hemolink/bloodlink/pkg/core/donation"
	query "github.com/hemolink/bloodlink/pkg/core/query"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	model "github.com/hemolink/bloodlink/pkg/model"
)

func newBank(t *testing.T, ds *db.Datastore, name string) *model.BloodBank {
	t.Helper()
	bank := &model.BloodBank{
		Name:           name,
		RegistrationNo: "REG-" + name,
		Email:          name + "@bank.test",
		Phone:          "+1-" + name,
		IsActive:       true,
	}
	require.NoError(t, ds.DBIns().Create(bank).Error)
	return bank
}

func newPerson(t *testing.T, ds *db.Datastore, name string, role common.Role, group *common.BloodGroup, lastDonation *time.Time) *model.Person {
	t.Helper()
	person := &model.Person{
		Name:         name,
		Email:        name + "@person.test",
		Phone:        "+2-" + name,
		Role:         role,
		BloodGroup:   group,
		IsActive:     true,
		IsVerified:   true,
		LastDonation: lastDonation,
	}
	require.NoError(t, ds.DBIns().Create(person).Error)
	return person
}

func TestSchedule(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := common.OPositive

	t.Run("fresh donor books a slot", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newPerson(t, ds, "d1", common.RoleDonor, &group, nil)

		svc := New(ds, WithClock(func() time.Time { return now }))
		item, err := svc.Schedule(ctx, &core.ScheduleReq{
			DonorUUID:     donor.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.NoError(t, err)

		assert.Equal(t, model.DonationScheduled, item.Status)
		assert.Equal(t, group, item.BloodGroup) // 缺省取 donor 档案血型
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("donor inside the waiting window is refused", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		recent := now.Add(-30 * 24 * time.Hour)
		donor := newPerson(t, ds, "d1", common.RoleDonor, &group, &recent)

		svc := New(ds, WithClock(func() time.Time { return now }))
		_, err := svc.Schedule(ctx, &core.ScheduleReq{
			DonorUUID:     donor.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.ErrorIs(t, err, code.DonorNotEligible)

		detail, ok := code.AsError(err).Data.(*core.EligibilityDetail)
		require.True(t, ok)
		assert.WithinDuration(t, recent.Add(query.EligibilityWindow), detail.NextEligibleAt, time.Second)
	})

	t.Run("donor exactly at the window boundary may book", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		boundary := now.Add(-query.EligibilityWindow)
		donor := newPerson(t, ds, "d1", common.RoleDonor, &group, &boundary)

		svc := New(ds, WithClock(func() time.Time { return now }))
		_, err := svc.Schedule(ctx, &core.ScheduleReq{
			DonorUUID:     donor.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.NoError(t, err)
	})

	t.Run("non donor roles cannot book", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		person := newPerson(t, ds, "h1", common.RoleHospital, nil, nil)

		_, err := New(ds).Schedule(ctx, &core.ScheduleReq{
			DonorUUID:     person.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.ErrorIs(t, err, code.ParamErr)
	})

	t.Run("blood group required when profile has none", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newPerson(t, ds, "d1", common.RoleDonor, nil, nil)

		_, err := New(ds).Schedule(ctx, &core.ScheduleReq{
			DonorUUID:     donor.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.ErrorIs(t, err, code.ParamErr)

		override := common.ABNegative
		item, err := New(ds).Schedule(ctx, &core.ScheduleReq{
			DonorUUID:     donor.UUID,
			BloodBankUUID: bank.UUID,
			BloodGroup:    &override,
		})
		require.NoError(t, err)
		assert.Equal(t, common.ABNegative, item.BloodGroup)
	})
}

func TestDonationLifecycle(t *testing.T) {
	ctx := context.Background()
	group := common.APositive

	ds := testenv.NewDatastore(t)
	bank := newBank(t, ds, "b1")
	donor := newPerson(t, ds, "d1", common.RoleDonor, &group, nil)
	svc := New(ds)

	book := func(t *testing.T) *core.DonationItem {
		t.Helper()
		item, err := svc.Schedule(ctx, &core.ScheduleReq{
			DonorUUID:     donor.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.NoError(t, err)
		return item
	}

	t.Run("cancel a scheduled donation", func(t *testing.T) {
		item := book(t)
		cancelled, err := svc.Cancel(ctx, item.UUID)
		require.NoError(t, err)
		assert.Equal(t, model.DonationCancelled, cancelled.Status)

		_, err = svc.NoShow(ctx, item.UUID)
		require.ErrorIs(t, err, code.InvalidStateTransition)
	})

	t.Run("mark a no show", func(t *testing.T) {
		item := book(t)
		missed, err := svc.NoShow(ctx, item.UUID)
		require.NoError(t, err)
		assert.Equal(t, model.DonationNoShow, missed.Status)
	})

	t.Run("list filters by donor and status", func(t *testing.T) {
		resp, err := svc.List(ctx, &core.ListReq{
			DonorUUID: &donor.UUID,
			Status:    []model.DonationStatus{model.DonationCancelled},
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Data)
		for _, item := range resp.Data {
			assert.Equal(t, model.DonationCancelled, item.Status)
		}
	})
}
