// Package app holds the HTTP plumbing shared by every handler: the response
// envelope, request binding, auth tokens and the websocket feed server.
package app

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/haierkeys/fast-drive-service/pkg/code"
)

// Context keys set by middleware.
const (
	ContextKeyUser       = "user_token"
	ContextKeyLang       = "lang"
	ContextKeyTrans      = "trans"
	ContextKeyStatusCode = "status_code"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

// Res is the unified response structure: Code/Status/Message/Data
// Res 是统一的响应结构
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetLang returns the request language set by the lang middleware.
func GetLang(c *gin.Context) string {
	if c == nil {
		return code.GetGlobalDefaultLang()
	}
	if v, ok := c.Get(ContextKeyLang); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return code.GetGlobalDefaultLang()
}

// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// ToResponse writes the envelope for codeObj in the request language.
// ToResponse 输出到浏览器
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set(ContextKeyStatusCode, codeObj.StatusCode())

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.MsgIn(GetLang(r.Ctx)),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	r.Ctx.JSON(codeObj.StatusCode(), content)
}
