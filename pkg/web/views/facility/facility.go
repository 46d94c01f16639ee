package facility

import (
	// 外部依赖
	gin "github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	uuid "github.com/hemolink/bloodlink/pkg/common/uuid"
	coreRegistry "github.com/hemolink/bloodlink/pkg/core/registry"
	registryImpl "github.com/hemolink/bloodlink/pkg/core/registry/registry"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
)

type Handle struct{ svc coreRegistry.Service }

func NewHandle(ds *db.Datastore) *Handle {
	return &Handle{svc: registryImpl.New(ds)}
}

func (h *Handle) CreateBloodBank(ctx *gin.Context) {
	in := &coreRegistry.CreateBloodBankReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateBloodBank(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) GetBloodBank(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.GetBloodBank(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) ListBloodBanks(ctx *gin.Context) {
	in := &coreRegistry.ListFacilitiesReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ListBloodBanks(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) CreateHospital(ctx *gin.Context) {
	in := &coreRegistry.CreateHospitalReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateHospital(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) GetHospital(ctx *gin.Context) {
	id, err := pathUUID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.GetHospital(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) ListHospitals(ctx *gin.Context) {
	in := &coreRegistry.ListFacilitiesReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ListHospitals(ctx, in)
	common.Reply(ctx, err, resp)
}

func pathUUID(ctx *gin.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		return uuid.Nil, code.ParamErr.WithMsg("invalid uuid")
	}
	return id, nil
}
