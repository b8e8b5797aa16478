package validator

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// ErrNilTarget 校验目标为空
var ErrNilTarget = errors.New("validator: validation target cannot be nil")

// Validate 全局校验器实例，配置加载与请求绑定共用
var Validate = New()

// Validator 封装 go-playground/validator 并附带翻译
type Validator struct {
	validate    *validator.Validate
	translators map[string]ut.Translator
	lang        string
}

// Option 校验器选项
type Option func(*Validator)

// WithLanguage 设置错误消息的默认语言，支持 en 与 zh
func WithLanguage(lang string) Option {
	return func(v *Validator) {
		v.lang = lang
	}
}

// New 创建校验器，字段名优先取 json 标签
func New(opts ...Option) *Validator {
	v := &Validator{
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		translators: make(map[string]ut.Translator, 2),
		lang:        "en",
	}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())
	if trans, ok := uni.GetTranslator("en"); ok {
		_ = en_translations.RegisterDefaultTranslations(v.validate, trans)
		v.translators["en"] = trans
	}
	if trans, ok := uni.GetTranslator("zh"); ok {
		_ = zh_translations.RegisterDefaultTranslations(v.validate, trans)
		v.translators["zh"] = trans
	}
	return v
}

// Struct 校验结构体
func (v *Validator) Struct(s any) error {
	return v.StructCtx(context.Background(), s)
}

// StructCtx 带上下文校验结构体
func (v *Validator) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return ErrNilTarget
	}
	err := v.validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	return v.translate(ves)
}

// Engine 返回底层实例，用于注册自定义规则
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

func (v *Validator) translate(ves validator.ValidationErrors) *ValidationErrors {
	trans := v.translators[v.lang]
	if trans == nil {
		trans = v.translators["en"]
	}
	out := &ValidationErrors{Fields: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fe.Translate(trans),
		})
	}
	return out
}

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors 一次校验的全部失败字段
type ValidationErrors struct {
	Fields []FieldError
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Has 是否包含指定字段的错误
func (e *ValidationErrors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// IsValidationError 检查是否为校验错误
func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}
