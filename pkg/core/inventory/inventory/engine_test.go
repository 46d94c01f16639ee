package inventory

import (
	// 外部依赖
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	// 内部引用
	testenv "github.com/hemolink/bloodlink/internal/testenv"
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	core "github.com/hemolink/bloodlink/pkg/core/inventory"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
)

func newBank(t *testing.T, ds *db.Datastore, name string) *model.BloodBank {
	t.Helper()
	bank := &model.BloodBank{
		Name:           name,
		RegistrationNo: "REG-" + name,
		Email:          name + "@bank.test",
		Phone:          "+1-" + name,
		City:           "Springfield",
		State:          "IL",
		IsActive:       true,
		IsVerified:     true,
	}
	require.NoError(t, ds.DBIns().Create(bank).Error)
	return bank
}

func newDonor(t *testing.T, ds *db.Datastore, name string, group common.BloodGroup, lastDonation *time.Time) *model.Person {
	t.Helper()
	donor := &model.Person{
		Name:         name,
		Email:        name + "@donor.test",
		Phone:        "+2-" + name,
		Role:         common.RoleDonor,
		BloodGroup:   &group,
		City:         "Springfield",
		State:        "IL",
		IsActive:     true,
		IsVerified:   true,
		LastDonation: lastDonation,
	}
	require.NoError(t, ds.DBIns().Create(donor).Error)
	return donor
}

func newRequester(t *testing.T, ds *db.Datastore, name string) *model.Person {
	t.Helper()
	person := &model.Person{
		Name:     name,
		Email:    name + "@hospital.test",
		Phone:    "+3-" + name,
		Role:     common.RoleHospital,
		IsActive: true,
	}
	require.NoError(t, ds.DBIns().Create(person).Error)
	return person
}

func newStock(t *testing.T, ds *db.Datastore, bankID int64, group common.BloodGroup, qty int) *model.StockLine {
	t.Helper()
	line := &model.StockLine{BloodBankID: bankID, BloodGroup: group, Quantity: qty}
	require.NoError(t, ds.DBIns().Create(line).Error)
	return line
}

func newRequest(t *testing.T, ds *db.Datastore, requesterID int64, group common.BloodGroup, qty int, status model.RequestStatus) *model.RequestRecord {
	t.Helper()
	record := &model.RequestRecord{
		RequesterID: requesterID,
		BloodGroup:  group,
		Quantity:    qty,
		Status:      status,
		Urgency:     model.UrgencyNormal,
	}
	require.NoError(t, ds.DBIns().Create(record).Error)
	return record
}

func newDonation(t *testing.T, ds *db.Datastore, donorID, bankID int64, group common.BloodGroup, status model.DonationStatus) *model.DonationRecord {
	t.Helper()
	record := &model.DonationRecord{
		DonorID:     donorID,
		BloodBankID: bankID,
		BloodGroup:  group,
		Quantity:    1,
		Status:      status,
		ScheduledAt: time.Now(),
	}
	require.NoError(t, ds.DBIns().Create(record).Error)
	return record
}

func stockQty(t *testing.T, ds *db.Datastore, bankID int64, group common.BloodGroup) int {
	t.Helper()
	line := &model.StockLine{}
	err := ds.DBIns().
		Where("blood_bank_id = ? AND blood_group = ?", bankID, group).
		Take(line).Error
	if err != nil {
		return -1
	}
	return line.Quantity
}

func TestApproveAndFulfillRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("pending request is fulfilled and stock decremented", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		newStock(t, ds, bank.ID, common.APositive, 10)
		record := newRequest(t, ds, requester.ID, common.APositive, 4, model.RequestPending)

		svc := New(ds)
		resp, err := svc.ApproveAndFulfillRequest(ctx, &core.ApproveReq{
			RequestUUID:   record.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.NoError(t, err)

		assert.Equal(t, model.RequestFulfilled, resp.Status)
		assert.Equal(t, 6, resp.Remaining)
		assert.NotNil(t, resp.FulfilledAt)
		assert.Equal(t, 6, stockQty(t, ds, bank.ID, common.APositive))

		stored := &model.RequestRecord{}
		require.NoError(t, ds.DBIns().Where("id = ?", record.ID).Take(stored).Error)
		assert.Equal(t, model.RequestFulfilled, stored.Status)
		require.NotNil(t, stored.BloodBankID)
		assert.Equal(t, bank.ID, *stored.BloodBankID)
		assert.NotNil(t, stored.FulfilledAt)
	})

	t.Run("approved request can still be fulfilled", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		newStock(t, ds, bank.ID, common.ONegative, 3)
		record := newRequest(t, ds, requester.ID, common.ONegative, 3, model.RequestApproved)

		resp, err := New(ds).ApproveAndFulfillRequest(ctx, &core.ApproveReq{
			RequestUUID:   record.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.NoError(t, err)
		assert.Equal(t, model.RequestFulfilled, resp.Status)
		assert.Equal(t, 0, resp.Remaining)
	})

	t.Run("insufficient stock rolls everything back", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		newStock(t, ds, bank.ID, common.BPositive, 3)
		record := newRequest(t, ds, requester.ID, common.BPositive, 5, model.RequestPending)

		_, err := New(ds).ApproveAndFulfillRequest(ctx, &core.ApproveReq{
			RequestUUID:   record.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.ErrorIs(t, err, code.InsufficientInventory)

		detail, ok := code.AsError(err).Data.(*core.InsufficientDetail)
		require.True(t, ok)
		assert.Equal(t, 3, detail.Available)
		assert.Equal(t, 5, detail.Requested)

		// 库存与状态都保持原样
		assert.Equal(t, 3, stockQty(t, ds, bank.ID, common.BPositive))
		stored := &model.RequestRecord{}
		require.NoError(t, ds.DBIns().Where("id = ?", record.ID).Take(stored).Error)
		assert.Equal(t, model.RequestPending, stored.Status)
		assert.Nil(t, stored.FulfilledAt)
	})

	t.Run("missing stock line counts as zero available", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		record := newRequest(t, ds, requester.ID, common.ABNegative, 1, model.RequestPending)

		_, err := New(ds).ApproveAndFulfillRequest(ctx, &core.ApproveReq{
			RequestUUID:   record.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.ErrorIs(t, err, code.InsufficientInventory)

		detail, ok := code.AsError(err).Data.(*core.InsufficientDetail)
		require.True(t, ok)
		assert.Equal(t, 0, detail.Available)
	})

	t.Run("terminal request is rejected by the state machine", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		newStock(t, ds, bank.ID, common.APositive, 10)
		record := newRequest(t, ds, requester.ID, common.APositive, 1, model.RequestRejected)

		_, err := New(ds).ApproveAndFulfillRequest(ctx, &core.ApproveReq{
			RequestUUID:   record.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.ErrorIs(t, err, code.InvalidStateTransition)
		assert.Equal(t, 10, stockQty(t, ds, bank.ID, common.APositive))
	})

	t.Run("fulfilling twice fails on the second pass", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		newStock(t, ds, bank.ID, common.APositive, 10)
		record := newRequest(t, ds, requester.ID, common.APositive, 2, model.RequestPending)

		svc := New(ds)
		in := &core.ApproveReq{RequestUUID: record.UUID, BloodBankUUID: bank.UUID}

		_, err := svc.ApproveAndFulfillRequest(ctx, in)
		require.NoError(t, err)

		_, err = svc.ApproveAndFulfillRequest(ctx, in)
		require.ErrorIs(t, err, code.InvalidStateTransition)
		assert.Equal(t, 8, stockQty(t, ds, bank.ID, common.APositive))
	})

	t.Run("unknown request uuid", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")

		_, err := New(ds).ApproveAndFulfillRequest(ctx, &core.ApproveReq{
			RequestUUID:   uuid.NewV4(),
			BloodBankUUID: bank.UUID,
		})
		require.ErrorIs(t, err, code.RecordNotFound)
	})

	t.Run("sequential drain never goes negative", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		newStock(t, ds, bank.ID, common.OPositive, 5)

		svc := New(ds)
		first := newRequest(t, ds, requester.ID, common.OPositive, 3, model.RequestPending)
		second := newRequest(t, ds, requester.ID, common.OPositive, 3, model.RequestPending)

		_, err := svc.ApproveAndFulfillRequest(ctx, &core.ApproveReq{RequestUUID: first.UUID, BloodBankUUID: bank.UUID})
		require.NoError(t, err)

		_, err = svc.ApproveAndFulfillRequest(ctx, &core.ApproveReq{RequestUUID: second.UUID, BloodBankUUID: bank.UUID})
		require.ErrorIs(t, err, code.InsufficientInventory)

		assert.Equal(t, 2, stockQty(t, ds, bank.ID, common.OPositive))
	})

	t.Run("concurrent approvals admit at most the stock quotient", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		newStock(t, ds, bank.ID, common.APositive, 5)

		svc := New(ds)
		records := make([]*model.RequestRecord, 4)
		for i := range records {
			records[i] = newRequest(t, ds, requester.ID, common.APositive, 3, model.RequestPending)
		}

		errs := make([]error, len(records))
		var wg sync.WaitGroup
		for i, record := range records {
			wg.Add(1)
			go func(i int, id uuid.UUID) {
				defer wg.Done()
				_, errs[i] = svc.ApproveAndFulfillRequest(ctx, &core.ApproveReq{
					RequestUUID:   id,
					BloodBankUUID: bank.UUID,
				})
			}(i, record.UUID)
		}
		wg.Wait()

		success, insufficient := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				success++
			case errors.Is(err, code.InsufficientInventory):
				insufficient++
			default:
				t.Fatalf("unexpected err: %v", err)
			}
		}

		// 5 个库存对 4 笔各 3 的申请只放得下一笔
		assert.Equal(t, 1, success)
		assert.Equal(t, 3, insufficient)
		assert.Equal(t, 2, stockQty(t, ds, bank.ID, common.APositive))
	})

	t.Run("failure after the decrement leaves no partial write", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		requester := newRequester(t, ds, "r1")
		newStock(t, ds, bank.ID, common.OPositive, 5)
		record := newRequest(t, ds, requester.ID, common.OPositive, 3, model.RequestPending)

		attempts := 0
		eng := New(ds).(*engineImpl)
		eng.fulfillHook = func(context.Context) error {
			attempts++
			return errStatusRaced
		}

		_, err := eng.ApproveAndFulfillRequest(ctx, &core.ApproveReq{
			RequestUUID:   record.UUID,
			BloodBankUUID: bank.UUID,
		})
		require.ErrorIs(t, err, code.ConcurrentModification)
		assert.Equal(t, maxConflictRetries, attempts)

		// 每次尝试的扣减都随事务一起回滚
		assert.Equal(t, 5, stockQty(t, ds, bank.ID, common.OPositive))
		stored := &model.RequestRecord{}
		require.NoError(t, ds.DBIns().Where("id = ?", record.ID).Take(stored).Error)
		assert.Equal(t, model.RequestPending, stored.Status)
		assert.Nil(t, stored.FulfilledAt)
	})
}

type notifierSpy struct {
	alerts chan *repo.LowStockAlert
}

func (s *notifierSpy) NotifyLowStock(_ context.Context, alert *repo.LowStockAlert) error {
	s.alerts <- alert
	return nil
}

func TestLowStockAlerts(t *testing.T) {
	ctx := context.Background()

	t.Run("completion below the threshold alerts with bank identity", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newDonor(t, ds, "d1", common.OPositive, nil)
		newStock(t, ds, bank.ID, common.OPositive, 2)
		record := newDonation(t, ds, donor.ID, bank.ID, common.OPositive, model.DonationScheduled)

		spy := &notifierSpy{alerts: make(chan *repo.LowStockAlert, 1)}
		_, err := New(ds, WithNotifier(spy)).CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: record.UUID,
			HealthCheck:  core.HealthCheckInput{Eligible: true},
		})
		require.NoError(t, err)

		select {
		case alert := <-spy.alerts:
			assert.Equal(t, bank.UUID.String(), alert.BloodBankUUID)
			assert.Equal(t, bank.Name, alert.BloodBankName)
			assert.Equal(t, common.OPositive, alert.BloodGroup)
			assert.Equal(t, 3, alert.Remaining)
		case <-time.After(2 * time.Second):
			t.Fatal("low stock alert not sent")
		}
	})

	t.Run("no alert when the bank association is not loaded", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newDonor(t, ds, "d1", common.OPositive, nil)
		newStock(t, ds, bank.ID, common.OPositive, 2)
		record := newDonation(t, ds, donor.ID, bank.ID, common.OPositive, model.DonationCompleted)

		// record.BloodBank 未加载，宁可漏报也不发空标识
		spy := &notifierSpy{alerts: make(chan *repo.LowStockAlert, 1)}
		eng := New(ds, WithNotifier(spy)).(*engineImpl)
		eng.lowStockCheck(ctx, record)

		select {
		case alert := <-spy.alerts:
			t.Fatalf("unexpected alert for bank %q", alert.BloodBankUUID)
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestCompleteDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("eligible donation adds stock and stamps the donor", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newDonor(t, ds, "d1", common.OPositive, nil)
		record := newDonation(t, ds, donor.ID, bank.ID, common.OPositive, model.DonationScheduled)

		hb := 14.2
		resp, err := New(ds).CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: record.UUID,
			HealthCheck:  core.HealthCheckInput{Eligible: true, Hemoglobin: &hb},
		})
		require.NoError(t, err)

		assert.Equal(t, model.DonationCompleted, resp.Status)
		assert.True(t, resp.Eligible)
		require.NotNil(t, resp.UnitSerial)
		assert.Contains(t, *resp.UnitSerial, "BU-")
		require.NotNil(t, resp.DonationDate)

		// 库存行不存在时 upsert 建行
		assert.Equal(t, 1, stockQty(t, ds, bank.ID, common.OPositive))

		stored := &model.Person{}
		require.NoError(t, ds.DBIns().Where("id = ?", donor.ID).Take(stored).Error)
		require.NotNil(t, stored.LastDonation)
		assert.WithinDuration(t, *resp.DonationDate, *stored.LastDonation, time.Second)
	})

	t.Run("eligible donation increments an existing stock line", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newDonor(t, ds, "d1", common.ANegative, nil)
		newStock(t, ds, bank.ID, common.ANegative, 7)
		record := newDonation(t, ds, donor.ID, bank.ID, common.ANegative, model.DonationScheduled)

		_, err := New(ds).CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: record.UUID,
			HealthCheck:  core.HealthCheckInput{Eligible: true},
		})
		require.NoError(t, err)
		assert.Equal(t, 8, stockQty(t, ds, bank.ID, common.ANegative))
	})

	t.Run("ineligible donation records the outcome only", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newDonor(t, ds, "d1", common.BNegative, nil)
		record := newDonation(t, ds, donor.ID, bank.ID, common.BNegative, model.DonationScheduled)

		reason := "low hemoglobin"
		resp, err := New(ds).CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: record.UUID,
			HealthCheck:  core.HealthCheckInput{Eligible: false, RejectionReason: &reason},
		})
		require.NoError(t, err)

		assert.Equal(t, model.DonationCompleted, resp.Status)
		assert.False(t, resp.Eligible)
		assert.Nil(t, resp.UnitSerial)

		// 不入库存，不动 donor 时间戳
		assert.Equal(t, -1, stockQty(t, ds, bank.ID, common.BNegative))
		stored := &model.Person{}
		require.NoError(t, ds.DBIns().Where("id = ?", donor.ID).Take(stored).Error)
		assert.Nil(t, stored.LastDonation)
	})

	t.Run("duplicate unit serial rolls the whole completion back", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newDonor(t, ds, "d1", common.OPositive, nil)
		other := newDonor(t, ds, "d2", common.OPositive, nil)

		// 既有记录占住序列号
		taken := "BU-O_POSITIVE-TAKEN"
		done := newDonation(t, ds, other.ID, bank.ID, common.OPositive, model.DonationScheduled)
		now := time.Now()
		eligible := true
		require.NoError(t, ds.DBIns().Model(done).Updates(map[string]any{
			"status":        model.DonationCompleted,
			"donation_date": now,
			"unit_serial":   taken,
			"eligible":      eligible,
		}).Error)

		record := newDonation(t, ds, donor.ID, bank.ID, common.OPositive, model.DonationScheduled)
		newStock(t, ds, bank.ID, common.OPositive, 5)

		svc := New(ds, WithSerialFunc(func(common.BloodGroup) string { return taken }))
		_, err := svc.CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: record.UUID,
			HealthCheck:  core.HealthCheckInput{Eligible: true},
		})
		require.ErrorIs(t, err, code.DuplicateUnitSerial)

		// 全量回滚：状态、库存、donor 时间戳都不变
		stored := &model.DonationRecord{}
		require.NoError(t, ds.DBIns().Where("id = ?", record.ID).Take(stored).Error)
		assert.Equal(t, model.DonationScheduled, stored.Status)
		assert.Nil(t, stored.UnitSerial)

		assert.Equal(t, 5, stockQty(t, ds, bank.ID, common.OPositive))
		donorRow := &model.Person{}
		require.NoError(t, ds.DBIns().Where("id = ?", donor.ID).Take(donorRow).Error)
		assert.Nil(t, donorRow.LastDonation)
	})

	t.Run("serial collision resolves with a fresh serial", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newDonor(t, ds, "d1", common.OPositive, nil)
		other := newDonor(t, ds, "d2", common.OPositive, nil)

		taken := "BU-O_POSITIVE-TAKEN"
		done := newDonation(t, ds, other.ID, bank.ID, common.OPositive, model.DonationScheduled)
		require.NoError(t, ds.DBIns().Model(done).Updates(map[string]any{
			"status":      model.DonationCompleted,
			"unit_serial": taken,
		}).Error)

		record := newDonation(t, ds, donor.ID, bank.ID, common.OPositive, model.DonationScheduled)

		// 首次撞号，换号后成功
		calls := 0
		svc := New(ds, WithSerialFunc(func(common.BloodGroup) string {
			calls++
			if calls == 1 {
				return taken
			}
			return "BU-O_POSITIVE-FRESH"
		}))

		resp, err := svc.CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: record.UUID,
			HealthCheck:  core.HealthCheckInput{Eligible: true},
		})
		require.NoError(t, err)
		require.NotNil(t, resp.UnitSerial)
		assert.Equal(t, "BU-O_POSITIVE-FRESH", *resp.UnitSerial)
		assert.Equal(t, 1, stockQty(t, ds, bank.ID, common.OPositive))
	})

	t.Run("last donation timestamp never moves backwards", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		newer := time.Now().Add(24 * time.Hour).UTC()
		donor := newDonor(t, ds, "d1", common.APositive, &newer)
		record := newDonation(t, ds, donor.ID, bank.ID, common.APositive, model.DonationScheduled)

		older := time.Now().Add(-48 * time.Hour).UTC()
		_, err := New(ds).CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: record.UUID,
			HealthCheck:  core.HealthCheckInput{Eligible: true, DonationDate: &older},
		})
		require.NoError(t, err)

		stored := &model.Person{}
		require.NoError(t, ds.DBIns().Where("id = ?", donor.ID).Take(stored).Error)
		require.NotNil(t, stored.LastDonation)
		assert.WithinDuration(t, newer, *stored.LastDonation, time.Second)
	})

	t.Run("terminal donation is rejected by the state machine", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		bank := newBank(t, ds, "b1")
		donor := newDonor(t, ds, "d1", common.OPositive, nil)
		record := newDonation(t, ds, donor.ID, bank.ID, common.OPositive, model.DonationCancelled)

		_, err := New(ds).CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: record.UUID,
			HealthCheck:  core.HealthCheckInput{Eligible: true},
		})
		require.ErrorIs(t, err, code.InvalidStateTransition)
	})

	t.Run("unknown donation uuid", func(t *testing.T) {
		ds := testenv.NewDatastore(t)
		_, err := New(ds).CompleteDonation(ctx, &core.CompleteReq{
			DonationUUID: uuid.NewV4(),
			HealthCheck:  core.HealthCheckInput{Eligible: true},
		})
		require.ErrorIs(t, err, code.RecordNotFound)
	})
}
