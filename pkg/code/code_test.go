package code

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_WithDataDoesNotTouchRegistered(t *testing.T) {
	c := Success.WithData(map[string]int{"n": 1}).WithDetails("a", "b")

	assert.True(t, c.HaveData())
	assert.Equal(t, []string{"a", "b"}, c.Details())
	assert.False(t, Success.HaveData())
	assert.False(t, Success.HaveDetails())
}

func TestCode_StatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, ErrorInvalidParams.StatusCode())
	assert.Equal(t, http.StatusUnauthorized, ErrorInvalidUserAuthToken.StatusCode())
	assert.Equal(t, http.StatusTooManyRequests, ErrorTooManyRequests.WithDetails("x").StatusCode())
}

func TestLang(t *testing.T) {
	assert.Equal(t, "参数错误", ErrorInvalidParams.MsgIn("zh-CN"))
	assert.Equal(t, "Invalid parameters", ErrorInvalidParams.MsgIn("fr"))
	assert.Equal(t, LangZhCN, NormalizeLang("ZH"))
	assert.Equal(t, "", NormalizeLang("de_DE"))

	assert.Error(t, SetGlobalDefaultLang("klingon"))
	assert.Equal(t, LangEn, GetGlobalDefaultLang())
}

func TestNewError_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() { NewError(301, lang{en: "dup"}) })
}
