package person

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

func (h *Handle) Register(ctx *gin.Context) {
	in := &coreRegistry.RegisterPersonReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.RegisterPerson(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg("invalid uuid"))
		return
	}
	resp, err := h.svc.GetPerson(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) List(ctx *gin.Context) {
	in := &coreRegistry.ListPersonsReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.ListPersons(ctx, in)
	common.Reply(ctx, err, resp)
}
