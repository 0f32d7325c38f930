// Package errors renders service errors as the unified JSON envelope.
package errors

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haierkeys/fast-drive-service/internal/middleware"
	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
)

// AppError 统一应用错误结构体
type AppError struct {
	Code    int      `json:"code"`
	Status  bool     `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`

	httpStatus int
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap 支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.Msg(),
		Details:    c.Details(),
		Cause:      cause,
		Timestamp:  time.Now(),
		httpStatus: c.StatusCode(),
	}
}

// ErrorResponse writes err with the request trace id. *AppError and
// *code.Code keep their code; anything else becomes an internal error.
func ErrorResponse(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = middleware.GetTraceIDFromGin(c)
		c.Set(app.ContextKeyStatusCode, appErr.status())
		c.JSON(appErr.status(), appErr)
		return
	}

	var codeErr *code.Code
	if !errors.As(err, &codeErr) {
		codeErr = code.ErrorServerInternal
	}
	ErrorResponseWithCode(c, codeErr, err)
}

// ErrorResponseWithCode 使用指定的 Code 对象返回错误响应
func ErrorResponseWithCode(c *gin.Context, codeErr *code.Code, cause error) {
	resp := &AppError{
		Code:       codeErr.Code(),
		Status:     codeErr.Status(),
		Message:    codeErr.MsgIn(app.GetLang(c)),
		Details:    codeErr.Details(),
		TraceID:    middleware.GetTraceIDFromGin(c),
		Cause:      cause,
		Timestamp:  time.Now(),
		httpStatus: codeErr.StatusCode(),
	}
	c.Set(app.ContextKeyStatusCode, resp.status())
	c.JSON(resp.status(), resp)
}

func (e *AppError) status() int {
	if e.httpStatus == 0 {
		return 200
	}
	return e.httpStatus
}

// GetAppError 从错误链中获取 AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
