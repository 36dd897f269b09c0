package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"aether-lms/backend/internal/model"
)

// 自定义校验标签
const (
	RoleTag             = "lms_role"
	EnrollmentStatusTag = "enrollment_status"
)

// Register 在 gin 的校验引擎上注册自定义规则（启动时调用一次）
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}
	return RegisterOn(v)
}

// RegisterOn 在指定校验器上注册自定义规则
func RegisterOn(v *validator.Validate) error {
	// 错误信息中使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(RoleTag, roleValidation); err != nil {
		return err
	}
	return v.RegisterValidation(EnrollmentStatusTag, enrollmentStatusValidation)
}

func roleValidation(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl)
	if !ok {
		return false
	}
	_, err := model.ParseRole(s)
	return err == nil
}

func enrollmentStatusValidation(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl)
	if !ok {
		return false
	}
	_, err := model.ParseEnrollmentStatus(s)
	return err == nil
}

// stringValue 兼容 string 与 *string（validator 已解引用非 nil 指针）
func stringValue(fl validator.FieldLevel) (string, bool) {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return "", false
	}
	return f.String(), true
}

// FieldErrors 将校验错误转换为 "字段: 规则" 列表，非校验错误返回 nil
func FieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field()+": "+fe.Tag())
	}
	return out
}
