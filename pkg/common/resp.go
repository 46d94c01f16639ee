package common

import (
	// 外部依赖
	"net/http"

	gin "github.com/gin-gonic/gin"

	// 内部引用
	code "github.com/hemolink/bloodlink/pkg/common/code"
)

// Resp 统一响应结构 {code, msg, data}
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// Reply data 可省略；err 非空时回错误码，否则回 0
func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}

	resp := &Resp{Code: 0, Msg: "success"}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}

func ReplyErr(ctx *gin.Context, err error) {
	e := code.AsError(err)
	if e == nil {
		e = code.UnDefineErr
	}

	httpCode := e.HTTPCode
	if httpCode == 0 {
		httpCode = http.StatusInternalServerError
	}
	ctx.JSON(httpCode, &Resp{Code: e.Code, Msg: e.Msg, Data: e.Data})
}
