package code

import (
	// 外部依赖
	"errors"
	"fmt"
	"net/http"
)

// Error 业务错误码，作为 error 在各层之间传递
// Code 对外稳定，调用方依赖 Code 而不是 Msg 文案
type Error struct {
	HTTPCode int    `json:"-"`
	Code     int    `json:"code"`
	Msg      string `json:"msg"`
	Data     any    `json:"data,omitempty"`

	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("code: %d, msg: %s, err: %v", e.Code, e.Msg, e.err)
	}
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.err }

// Is 按 Code 匹配，WithXxx 派生出的副本与原始错误码视为同一错误
func (e *Error) Is(target error) bool {
	t := &Error{}
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) clone() *Error {
	n := *e
	return &n
}

func (e *Error) WithErr(err error) *Error {
	n := e.clone()
	n.err = err
	return n
}

func (e *Error) WithMsg(msg string) *Error {
	n := e.clone()
	n.Msg = msg
	return n
}

func (e *Error) WithMsgf(format string, args ...any) *Error {
	n := e.clone()
	n.Msg = fmt.Sprintf(format, args...)
	return n
}

// WithData 附加结构化明细（如 available/requested），随响应一起返回
func (e *Error) WithData(data any) *Error {
	n := e.clone()
	n.Data = data
	return n
}

func New(httpCode int, code int, msg string) *Error {
	return &Error{HTTPCode: httpCode, Code: code, Msg: msg}
}

// AsError 将任意 error 归一化为 *Error，未知错误归入 UnDefineErr
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	e := &Error{}
	if errors.As(err, &e) {
		return e
	}
	return UnDefineErr.WithErr(err)
}

// 通用
var (
	UnDefineErr      = New(http.StatusInternalServerError, 10000, "internal error")
	ParamErr         = New(http.StatusBadRequest, 10001, "param error")
	UnLogin          = New(http.StatusUnauthorized, 10002, "unauthorized")
	InvalidToken     = New(http.StatusUnauthorized, 10003, "invalid token")
	PermissionDenied = New(http.StatusForbidden, 10004, "permission denied")

	CreateDataErr   = New(http.StatusInternalServerError, 10100, "create record error")
	UpdateDataErr   = New(http.StatusInternalServerError, 10101, "update record error")
	DeleteDataErr   = New(http.StatusInternalServerError, 10102, "delete record error")
	QueryRecordErr  = New(http.StatusInternalServerError, 10103, "query record error")
	RecordNotFound  = New(http.StatusNotFound, 10104, "record not found")
	DuplicateRecord = New(http.StatusConflict, 10105, "record already exists")

	StorageUnavailable = New(http.StatusServiceUnavailable, 10200, "storage unavailable")
	Timeout            = New(http.StatusGatewayTimeout, 10201, "operation timed out")

	RPCHttpErr     = New(http.StatusBadGateway, 10300, "rpc http error")
	RPCHttpCodeErr = New(http.StatusBadGateway, 10301, "rpc http status error")
)

// 库存事务
var (
	InsufficientInventory  = New(http.StatusConflict, 20001, "insufficient inventory")
	InvalidStateTransition = New(http.StatusConflict, 20002, "invalid state transition")
	DuplicateUnitSerial    = New(http.StatusConflict, 20003, "duplicate unit serial")
	ConcurrentModification = New(http.StatusConflict, 20004, "concurrent modification, retries exhausted")
	DonorNotEligible       = New(http.StatusConflict, 20005, "donor not eligible")
)
