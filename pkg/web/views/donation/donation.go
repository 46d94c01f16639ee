package donation

import (
	// 外部依赖
	gin "github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	coreDonation "github.com/hemolink/bloodlink/pkg/core/donation"
	donationImpl "github.com/hemolink/bloodlink/pkg/core/donation/donation"
	coreInventory "github.com/hemolink/bloodlink/pkg/core/inventory"
	engineImpl "github.com/hemolink/bloodlink/pkg/core/inventory/inventory"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	repoNotify "github.com/hemolink/bloodlink/pkg/repo/notify"
)

type Handle struct {
	svc    coreDonation.Service
	engine coreInventory.Service
}

func NewHandle(ds *db.Datastore) *Handle {
	return &Handle{
		svc:    donationImpl.New(ds),
		engine: engineImpl.New(ds, engineImpl.WithNotifier(repoNotify.New())),
	}
}

func (h *Handle) Schedule(ctx *gin.Context) {
	in := &coreDonation.ScheduleReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Schedule(ctx, in)
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
	in := &coreDonation.ListReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.List(ctx, in)
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

func (h *Handle) NoShow(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.NoShow(ctx, id)
	common.Reply(ctx, err, resp)
}

// Complete 完成献血：体检结果落库，合格则入库存并刷新 donor 时间戳
func (h *Handle) Complete(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}

	in := &coreInventory.HealthCheckInput{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.engine.CompleteDonation(ctx, &coreInventory.CompleteReq{
		DonationUUID: id,
		HealthCheck:  *in,
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
