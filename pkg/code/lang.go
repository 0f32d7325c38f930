package code

import (
	"errors"
	"strings"
	"sync/atomic"
)

// lang holds the English and Chinese text of a message
// lang 存储中英文消息
type lang struct {
	en    string // English
	zh_cn string // 简体中文
}

const (
	LangEn   = "en"
	LangZhCN = "zh_cn"

	FALLBACK_LNG = LangEn
)

var defaultLang atomic.Value

func init() {
	defaultLang.Store(FALLBACK_LNG)
}

// NormalizeLang maps "zh-CN", "ZH_cn" and the like to a supported key, and
// returns "" when the language is not supported.
func NormalizeLang(language string) string {
	l := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(language), "-", "_"))
	switch {
	case l == LangEn || strings.HasPrefix(l, "en_"):
		return LangEn
	case l == "zh" || strings.HasPrefix(l, "zh_"):
		return LangZhCN
	}
	return ""
}

// In returns the message in language, falling back to English when the
// language is unknown or has no text.
// In 根据传入的语言返回相应的消息
func (l lang) In(language string) string {
	if NormalizeLang(language) == LangZhCN && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetMessage returns the message in the process default language.
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// GetSupportedLanguages 返回支持的语言列表
func GetSupportedLanguages() []string {
	return []string{LangEn, LangZhCN}
}

// SetGlobalDefaultLang sets the process default language. An unsupported
// language resets it to English and returns an error.
// 设置全局默认语言
func SetGlobalDefaultLang(language string) error {
	l := NormalizeLang(language)
	if l == "" {
		defaultLang.Store(FALLBACK_LNG)
		return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
	}
	defaultLang.Store(l)
	return nil
}

// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	return defaultLang.Load().(string)
}
