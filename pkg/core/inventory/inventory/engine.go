package inventory

import (
	// 外部依赖
	"context"
	"errors"
	"strings"
	"time"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	core "github.com/hemolink/bloodlink/pkg/core/inventory"
	transition "github.com/hemolink/bloodlink/pkg/core/transition"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
	model "github.com/hemolink/bloodlink/pkg/model"
	repo "github.com/hemolink/bloodlink/pkg/repo"
	repoDonation "github.com/hemolink/bloodlink/pkg/repo/donation"
	repoFacility "github.com/hemolink/bloodlink/pkg/repo/facility"
	repoInventory "github.com/hemolink/bloodlink/pkg/repo/inventory"
	repoPerson "github.com/hemolink/bloodlink/pkg/repo/person"
	repoRequest "github.com/hemolink/bloodlink/pkg/repo/request"
	utils "github.com/hemolink/bloodlink/pkg/utils"
)

// errStatusRaced 条件更新的前置状态被并发改掉，按冲突重试，
// 重试后重读若已是终态会自然落到 InvalidStateTransition
var errStatusRaced = errors.New("status precondition raced")

const (
	// 存储层写写冲突的内部重试上限，业务错误不重试
	maxConflictRetries = 3
	// unit_serial 撞号换号重试上限
	maxSerialAttempts = 3
)

type engineImpl struct {
	requestStore  repo.RequestRepo
	donationStore repo.DonationRepo
	stockStore    repo.InventoryRepo
	personStore   repo.PersonRepo
	facilityStore repo.FacilityRepo

	notifier repo.Notifier
	serialFn func(group common.BloodGroup) string

	// 扣减之后、状态更新之前的故障注入点，仅测试赋值
	fulfillHook func(ctx context.Context) error
}

type Option func(*engineImpl)

// WithNotifier 低库存告警，nil 时不发送
func WithNotifier(n repo.Notifier) Option {
	return func(e *engineImpl) { e.notifier = n }
}

// WithSerialFunc 覆盖 unit_serial 生成逻辑，测试注入撞号用
func WithSerialFunc(fn func(group common.BloodGroup) string) Option {
	return func(e *engineImpl) { e.serialFn = fn }
}

func New(ds *db.Datastore, opts ...Option) core.Service {
	e := &engineImpl{
		requestStore:  repoRequest.New(ds),
		donationStore: repoDonation.New(ds),
		stockStore:    repoInventory.New(ds),
		personStore:   repoPerson.New(ds),
		facilityStore: repoFacility.New(ds),
		serialFn:      newUnitSerial,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newUnitSerial(group common.BloodGroup) string {
	raw := strings.ReplaceAll(uuid.NewV4().String(), "-", "")
	return "BU-" + string(group) + "-" + strings.ToUpper(raw[:12])
}

func retryable(err error) bool {
	return errors.Is(err, errStatusRaced) || repo.IsRetryableConflict(err)
}

// finalize 统一错误出口：超时归 Timeout，冲突耗尽归 ConcurrentModification
func finalize(err error) error {
	if err == nil {
		return nil
	}
	if repo.IsTimeout(err) {
		return code.Timeout.WithErr(err)
	}
	if retryable(err) {
		return code.ConcurrentModification.WithErr(err)
	}
	return err
}

// ApproveAndFulfillRequest 扣库存 + 申请单置 FULFILLED，单事务
// 库存不足、非法流转等业务错误直接上抛不重试；
// 存储层写写冲突在引擎内带新读重试，最多 maxConflictRetries 次
func (e *engineImpl) ApproveAndFulfillRequest(ctx context.Context, req *core.ApproveReq) (*core.RequestResp, error) {
	var (
		resp *core.RequestResp
		err  error
	)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		resp, err = e.approveOnce(ctx, req)
		if !retryable(err) {
			break
		}
		logger.Warnf(ctx, "ApproveAndFulfillRequest conflict, attempt %d: %v", attempt+1, err)
	}
	return resp, finalize(err)
}

func (e *engineImpl) approveOnce(ctx context.Context, req *core.ApproveReq) (*core.RequestResp, error) {
	var (
		record    *model.RequestRecord
		bank      *model.BloodBank
		remaining int
	)

	err := e.requestStore.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		record, err = e.requestStore.GetRequestByUUID(txCtx, req.RequestUUID)
		if err != nil {
			return notFound(err, "request", req.RequestUUID)
		}
		bank, err = e.facilityStore.GetBloodBankByUUID(txCtx, req.BloodBankUUID)
		if err != nil {
			return notFound(err, "blood_bank", req.BloodBankUUID)
		}

		// PENDING 经 APPROVED 过渡到 FULFILLED，两跳都过状态机
		if record.Status == model.RequestPending {
			if err := transition.ValidateRequest(record.UUID, record.Status, model.RequestApproved); err != nil {
				return err
			}
			if err := transition.ValidateRequest(record.UUID, model.RequestApproved, model.RequestFulfilled); err != nil {
				return err
			}
		} else if err := transition.ValidateRequest(record.UUID, record.Status, model.RequestFulfilled); err != nil {
			return err
		}

		ok, err := e.stockStore.DecrementStock(txCtx, bank.ID, record.BloodGroup, record.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			available := 0
			if line, lineErr := e.stockStore.GetStockLine(txCtx, bank.ID, record.BloodGroup); lineErr == nil {
				available = line.Quantity
			}
			return code.InsufficientInventory.
				WithMsgf("blood bank %s has %d unit(s) of %s, requested %d",
					bank.Name, available, record.BloodGroup, record.Quantity).
				WithData(&core.InsufficientDetail{Available: available, Requested: record.Quantity})
		}

		if e.fulfillHook != nil {
			if err := e.fulfillHook(txCtx); err != nil {
				return err
			}
		}

		now := time.Now()
		updated, err := e.requestStore.UpdateRequestStatus(txCtx, record.ID, record.Status, repo.StatusTransition{
			Status:      model.RequestFulfilled,
			BloodBankID: &bank.ID,
			FulfilledAt: &now,
		})
		if err != nil {
			return err
		}
		if !updated {
			// 状态被并发改掉，整个事务回滚，外层带新读重试
			return errStatusRaced
		}

		record.Status = model.RequestFulfilled
		record.BloodBankID = &bank.ID
		record.FulfilledAt = &now

		line, err := e.stockStore.GetStockLine(txCtx, bank.ID, record.BloodGroup)
		if err != nil {
			return err
		}
		remaining = line.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.alertIfLow(bank, record.BloodGroup, remaining)

	return &core.RequestResp{
		UUID:        record.UUID,
		Status:      record.Status,
		BloodGroup:  record.BloodGroup,
		Quantity:    record.Quantity,
		FulfilledAt: record.FulfilledAt,
		Remaining:   remaining,
	}, nil
}

// CompleteDonation 献血完成：状态 + 库存 upsert + 献血者时间戳，单事务
// 不合格时只记录结果，不动库存与时间戳
func (e *engineImpl) CompleteDonation(ctx context.Context, req *core.CompleteReq) (*core.DonationResp, error) {
	var (
		resp *core.DonationResp
		err  error
	)
	for attempt := 0; attempt < maxSerialAttempts; attempt++ {
		resp, err = e.completeOnce(ctx, req)
		if !retryable(err) && !repo.IsDuplicateKey(err) {
			break
		}
		logger.Warnf(ctx, "CompleteDonation retry, attempt %d: %v", attempt+1, err)
	}
	if repo.IsDuplicateKey(err) {
		return nil, code.DuplicateUnitSerial.WithErr(err)
	}
	return resp, finalize(err)
}

func (e *engineImpl) completeOnce(ctx context.Context, req *core.CompleteReq) (*core.DonationResp, error) {
	hc := &req.HealthCheck

	var (
		record *model.DonationRecord
		serial *string
	)

	err := e.donationStore.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		record, err = e.donationStore.GetDonationByUUID(txCtx, req.DonationUUID)
		if err != nil {
			return notFound(err, "donation", req.DonationUUID)
		}

		if err := transition.ValidateDonation(record.UUID, record.Status, model.DonationCompleted); err != nil {
			return err
		}

		donatedAt := time.Now()
		if hc.DonationDate != nil {
			donatedAt = *hc.DonationDate
		}

		data := &repo.CompletionData{
			DonationDate:    donatedAt,
			Hemoglobin:      hc.Hemoglobin,
			BloodPressure:   hc.BloodPressure,
			Weight:          hc.Weight,
			Temperature:     hc.Temperature,
			Eligible:        hc.Eligible,
			RejectionReason: hc.RejectionReason,
		}

		if hc.Eligible {
			// 每次事务尝试用全新序列号，撞唯一索引由外层换号重试
			s := e.serialFn(record.BloodGroup)
			serial = &s
			data.UnitSerial = serial
		}

		updated, err := e.donationStore.MarkCompleted(txCtx, record.ID, data)
		if err != nil {
			return err
		}
		if !updated {
			return errStatusRaced
		}

		record.Status = model.DonationCompleted
		record.DonationDate = &donatedAt
		record.UnitSerial = data.UnitSerial
		eligible := hc.Eligible
		record.Eligible = &eligible

		if !hc.Eligible {
			return nil
		}

		// 合格：库存 upsert 与献血者时间戳和状态更新同生共死
		if err := e.stockStore.AddStock(txCtx, record.BloodBankID, record.BloodGroup, record.Quantity); err != nil {
			return err
		}
		return e.personStore.TouchLastDonation(txCtx, record.DonorID, donatedAt)
	})
	if err != nil {
		return nil, err
	}

	if hc.Eligible {
		e.lowStockCheck(ctx, record)
	}

	return &core.DonationResp{
		UUID:         record.UUID,
		Status:       record.Status,
		BloodGroup:   record.BloodGroup,
		Quantity:     record.Quantity,
		UnitSerial:   record.UnitSerial,
		DonationDate: record.DonationDate,
		Eligible:     hc.Eligible,
	}, nil
}

func notFound(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, code.RecordNotFound) {
		return code.RecordNotFound.
			WithMsgf("%s %s not found", entity, id).
			WithData(map[string]string{"entity": entity, "id": id.String()})
	}
	return err
}

// alertIfLow 提交后异步告警，发送失败只记日志，不影响已提交的事务
func (e *engineImpl) alertIfLow(bank *model.BloodBank, group common.BloodGroup, remaining int) {
	if e.notifier == nil || remaining >= core.LowStockThreshold {
		return
	}

	alert := &repo.LowStockAlert{
		BloodBankUUID: bank.UUID.String(),
		BloodBankName: bank.Name,
		BloodGroup:    group,
		Remaining:     remaining,
		Threshold:     core.LowStockThreshold,
	}
	utils.SafelyGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.notifier.NotifyLowStock(ctx, alert); err != nil {
			logger.Warnf(ctx, "low stock alert err: %v", err)
		}
	}, func(err error) {
		logger.Errorf(context.Background(), "low stock alert panic: %v", err)
	})
}

func (e *engineImpl) lowStockCheck(ctx context.Context, record *model.DonationRecord) {
	if e.notifier == nil {
		return
	}
	// 关联未加载时宁可不发，也不发空标识的告警
	if record.BloodBank == nil {
		return
	}
	line, err := e.stockStore.GetStockLine(ctx, record.BloodBankID, record.BloodGroup)
	if err != nil || line.Quantity >= core.LowStockThreshold {
		return
	}
	e.alertIfLow(record.BloodBank, record.BloodGroup, line.Quantity)
}
