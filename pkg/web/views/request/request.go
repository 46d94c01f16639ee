package request

import (
	// 外部依赖
	gin "github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	coreInventory "github.com/hemolink/bloodlink/pkg/core/inventory"
	engineImpl "github.com/hemolink/bloodlink/pkg/core/inventory/inventory"
	coreRequest "github.com/hemolink/bloodlink/pkg/core/request"
	requestImpl "github.com/hemolink/bloodlink/pkg/core/request/request"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	repoNotify "github.com/hemolink/bloodlink/pkg/repo/notify"
)

type Handle struct {
	svc    coreRequest.Service
	engine coreInventory.Service
}

func NewHandle(ds *db.Datastore) *Handle {
	return &Handle{
		svc:    requestImpl.New(ds),
		engine: engineImpl.New(ds, engineImpl.WithNotifier(repoNotify.New())),
	}
}

func (h *Handle) Create(ctx *gin.Context) {
	in := &coreRequest.CreateReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Create(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.Get(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) List(ctx *gin.Context) {
	in := &coreRequest.ListReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.List(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Approve(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.Approve(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Reject(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}

	in := &coreRequest.RejectReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	in.RequestUUID = id

	resp, err := h.svc.Reject(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Cancel(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.Cancel(ctx, id)
	common.Reply(ctx, err, resp)
}

type fulfillBody struct {
	BloodBankUUID uuid.UUID `json:"blood_bank_uuid" binding:"required"`
}

// Fulfill 审批并出库，扣减与状态流转在同一事务内
func (h *Handle) Fulfill(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}

	body := &fulfillBody{}
	if err := ctx.ShouldBindJSON(body); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.engine.ApproveAndFulfillRequest(ctx, &coreInventory.ApproveReq{
		RequestUUID:   id,
		BloodBankUUID: body.BloodBankUUID,
	})
	common.Reply(ctx, err, resp)
}

func pathUUID(ctx *gin.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		return uuid.Nil, code.ParamErr.WithMsg("invalid uuid")
	}
	return id, nil
}
