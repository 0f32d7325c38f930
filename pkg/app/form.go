package app

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 合并所有错误消息
func (v ValidErrors) ErrorsToString() string {
	return v.Error()
}

// MapsToString returns field to message, used as response data.
func (v ValidErrors) MapsToString() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		out[err.Key] = err.Message
	}
	return out
}

// BindAndValid binds the request into obj with gin's binding and translates
// validation failures with the request translator.
// 参数绑定和验证
func BindAndValid(c *gin.Context, obj any) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(obj)
	if err == nil {
		return true, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	trans, _ := c.Value(ContextKeyTrans).(ut.Translator)
	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}
	return false, errs
}
