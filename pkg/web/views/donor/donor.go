package donor

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

// Eligible 检索当前可献血的 donor，按最久未献血优先排序
func (h *Handle) Eligible(ctx *gin.Context) {
	in := &coreQuery.DonorSearchReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	if in.BloodGroup != nil && !in.BloodGroup.Valid() {
		common.ReplyErr(ctx, code.ParamErr.WithMsgf("unknown blood group %q", *in.BloodGroup))
		return
	}

	resp, err := h.svc.SearchEligibleDonors(ctx, in)
	common.Reply(ctx, err, resp)
}
