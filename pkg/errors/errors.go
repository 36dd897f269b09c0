package errors

import "errors"

// Kind 业务错误分类，决定 HTTP 边界的状态码
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidInput
	KindInvalidState
)

// String 返回错误分类名称（用于日志）
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// Error 带分类与业务码的错误。
// 各模块以包级变量声明哨兵错误，调用方通过 errors.Is 比较指针。
type Error struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New 声明一个业务哨兵错误
func New(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// KindOf 提取错误分类，非业务错误一律视为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As 提取链路上的业务错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = New(KindConflict, 10009, "数据已被其他操作修改，请刷新后重试")
