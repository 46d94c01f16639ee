package inventory

import (
	// 外部依赖
	gin "github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/hemolink/bloodlink/pkg/common"
	code "github.com/hemolink/bloodlink/pkg/common/code"
	coreQuery "github.com/hemolink/bloodlink/pkg/core/query"
	queryImpl "github.com/hemolink/bloodlink/pkg/core/query/query"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
)

type Handle struct{ svc coreQuery.Service }

func NewHandle(ds *db.Datastore) *Handle {
	return &Handle{svc: queryImpl.New(ds)}
}

// Availability 库存可用性检索
// @Router /api/v1/inventory/availability [get]
func (h *Handle) Availability(ctx *gin.Context) {
	in := &coreQuery.AvailabilityReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	if in.BloodGroup != nil && !in.BloodGroup.Valid() {
		common.ReplyErr(ctx, code.ParamErr.WithMsgf("unknown blood group %q", *in.BloodGroup))
		return
	}

	resp, err := h.svc.SearchAvailability(ctx, in)
	common.Reply(ctx, err, resp)
}

// Stats 平台聚合统计
// @Router /api/v1/inventory/stats [get]
func (h *Handle) Stats(ctx *gin.Context) {
	resp, err := h.svc.GetAggregateStats(ctx)
	common.Reply(ctx, err, resp)
}
