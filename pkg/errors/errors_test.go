package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_Wrapped(t *testing.T) {
	sentinel := New(KindConflict, 42001, "已存在")
	wrapped := fmt.Errorf("创建失败: %w", sentinel)

	if KindOf(wrapped) != KindConflict {
		t.Errorf("期望 KindConflict，实际=%s", KindOf(wrapped))
	}
	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is 应能识别包装后的哨兵错误")
	}
	e, ok := As(wrapped)
	if !ok || e.Code != 42001 {
		t.Errorf("期望提取到 Code=42001，实际=%v", e)
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("普通错误应归类为 KindInternal")
	}
	if _, ok := As(errors.New("boom")); ok {
		t.Error("普通错误不应提取出业务错误")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	a := New(KindNotFound, 1, "x")
	b := New(KindNotFound, 1, "x")
	if errors.Is(a, b) {
		t.Error("不同哨兵即使字段相同也不应相等")
	}
}
