package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type roleForm struct {
	Role string `json:"role" validate:"required,lms_role"`
}

type statusForm struct {
	Status *string `json:"status" validate:"omitempty,enrollment_status"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("注册自定义校验失败: %v", err)
	}
	return v
}

func TestRoleValidation(t *testing.T) {
	v := newValidator(t)

	for _, role := range []string{"STUDENT", "TEACHER", "ADMIN"} {
		if err := v.Struct(roleForm{Role: role}); err != nil {
			t.Errorf("角色 %s 应通过校验，实际: %v", role, err)
		}
	}
	for _, role := range []string{"admin", "GUEST", " ADMIN"} {
		if err := v.Struct(roleForm{Role: role}); err == nil {
			t.Errorf("角色 %q 应校验失败", role)
		}
	}
}

func TestEnrollmentStatusValidation(t *testing.T) {
	v := newValidator(t)
	pending, bogus := "PENDING", "PAUSED"

	if err := v.Struct(statusForm{}); err != nil {
		t.Errorf("未提供状态应通过校验，实际: %v", err)
	}
	if err := v.Struct(statusForm{Status: &pending}); err != nil {
		t.Errorf("PENDING 应通过校验，实际: %v", err)
	}
	if err := v.Struct(statusForm{Status: &bogus}); err == nil {
		t.Error("未知状态应校验失败")
	}
}

func TestFieldErrors(t *testing.T) {
	v := newValidator(t)

	errs := FieldErrors(v.Struct(roleForm{Role: "ROOT"}))
	if len(errs) != 1 || errs[0] != "role: lms_role" {
		t.Errorf("期望 [role: lms_role]，实际=%v", errs)
	}
	if FieldErrors(nil) != nil {
		t.Error("nil 错误应返回 nil")
	}
}
