package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"

	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
)

// LangWithTranslator 创建带翻译器的语言中间件
// The language comes from ?lang=, then the lang header, then Accept-Language.
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) != 0 {
			lang, _, _ = strings.Cut(s, ",")
		}
		lang = code.NormalizeLang(lang)

		// validator translators are registered as "en" and "zh"
		transKey := "en"
		if lang == code.LangZhCN {
			transKey = "zh"
		}
		trans, _ := uni.GetTranslator(transKey)

		c.Set(app.ContextKeyLang, lang)
		c.Set(app.ContextKeyTrans, trans)
		c.Next()
	}
}
