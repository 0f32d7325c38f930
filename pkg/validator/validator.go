// Package validator plugs go-playground/validator into gin binding with
// json field names, en/zh translations and the drive specific tags.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/haierkeys/fast-drive-service/internal/drive"
)

// CustomValidator implements binding.StructValidator.
type CustomValidator struct {
	once     sync.Once
	validate *validatorV10.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct validates structs, pointers to structs and slices of them.
func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyinit()
		return v.validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validatorV10.New()
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.validate.RegisterValidation("trimmed", trimmed)
		_ = v.validate.RegisterValidation("palette", palette)
		_ = v.validate.RegisterValidation("access", access)
	})
}

// trimmed 去除首尾空白后不能为空
func trimmed(fl validatorV10.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// palette accepts the default (empty) color and the palette colors.
func palette(fl validatorV10.FieldLevel) bool {
	return drive.Color(fl.Field().String()).Valid()
}

func access(fl validatorV10.FieldLevel) bool {
	return drive.Access(fl.Field().String()).Valid()
}

var customMessages = map[string]map[string]string{
	"en": {
		"trimmed": "{0} must not be blank",
		"palette": "{0} must be a palette color",
		"access":  "{0} must be view or edit",
	},
	"zh": {
		"trimmed": "{0}不能为空白",
		"palette": "{0}必须是调色板中的颜色",
		"access":  "{0}必须是 view 或 edit",
	},
}

// Init installs the validator as gin's binding validator and returns the
// translator set used by the lang middleware.
// Init 初始化验证器，返回 UniversalTranslator
func Init() (*ut.UniversalTranslator, error) {
	cv := NewCustomValidator()
	binding.Validator = cv
	validate := cv.Engine().(*validatorV10.Validate)

	uni := ut.New(en.New(), en.New(), zh.New())
	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")

	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}

	for locale, trans := range map[string]ut.Translator{"en": enTran, "zh": zhTran} {
		for tag, text := range customMessages[locale] {
			if err := registerTranslation(validate, trans, tag, text); err != nil {
				return nil, err
			}
		}
	}
	return uni, nil
}

func registerTranslation(validate *validatorV10.Validate, trans ut.Translator, tag, text string) error {
	return validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validatorV10.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}
