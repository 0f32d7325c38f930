// Package code holds the response codes of the service. Every code carries a
// bilingual message and is registered once at init time.
package code

import (
	"fmt"
	"net/http"
)

type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 错误消息
	Lang lang
	// HTTP status to answer with, 0 means 200
	httpStatus int
	// 数据
	data     interface{}
	haveData bool
	// 错误详细信息
	details     []string
	haveDetails bool
}

var (
	codes     = map[int]string{}
	sussCodes = map[int]string{}
)

// NewError registers a failure code. Registering the same number twice panics.
func NewError(code int, l lang, httpStatus ...int) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()

	c := &Code{code: code, status: false, Lang: l}
	if len(httpStatus) > 0 {
		c.httpStatus = httpStatus[0]
	}
	return c
}

// NewSuss registers a success code.
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Clone 创建一个新的 Code 副本
// The registered codes are package level values; handlers attach data and
// details to a clone, never to the shared value.
func (e *Code) Clone() *Code {
	return &Code{
		code:       e.code,
		status:     e.status,
		Lang:       e.Lang,
		httpStatus: e.httpStatus,
		details:    []string{},
	}
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Msgf(args ...interface{}) string {
	return fmt.Sprintf(e.Msg(), args...)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	c.haveDetails = e.haveDetails
	c.details = e.details
	return c
}

func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append(c.details, details...)
	c.haveData = e.haveData
	c.data = e.data
	return c
}

// StatusCode is the HTTP status the response writer uses.
func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}

// MsgIn returns the message in language.
func (e *Code) MsgIn(language string) string {
	return e.Lang.In(language)
}
