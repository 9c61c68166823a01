package storage

import (
	"errors"
	"fmt"
)

// Kind 是错误类别的封闭集合。
// 调用方用它来分支 (例如 NotFound 不致命，NotConfigured 需要人工介入)，
// 而不是去解析错误字符串。
type Kind int

const (
	KindUnknown Kind = iota

	// KindClientUnavailable: SDK 客户端初始化失败或尚不可用
	KindClientUnavailable

	// KindNotConfigured: 缺少必要配置 (比如没设置 bucket)
	KindNotConfigured

	// KindWriteFailed: 远端或本地 I/O 操作失败 (上传、删除、检查)
	KindWriteFailed

	// KindNotFound: 目标对象不存在。对 delete/exists 来说是非致命的，
	// 后端内部会把它映射成 nil / false，正常情况下不应该泄漏给调用方。
	KindNotFound

	// KindVerificationFailed: 本地写入后的完整性校验失败 (文件大小为 0)
	KindVerificationFailed
)

func (k Kind) String() string {
	switch k {
	case KindClientUnavailable:
		return "client_unavailable"
	case KindNotConfigured:
		return "not_configured"
	case KindWriteFailed:
		return "write_failed"
	case KindNotFound:
		return "not_found"
	case KindVerificationFailed:
		return "verification_failed"
	default:
		return "unknown"
	}
}

// Error 是后端方法边界返回的统一错误类型。
// Op 标识出错的操作 (例如 "s3.save")，Err 保留底层原因供 errors.Is/As 使用。
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E 构造一个带类别的存储错误
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Ef 是 E 的格式化版本
func Ef(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf 提取错误的类别。非 *Error 的错误返回 KindUnknown。
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// IsNotFound 判断错误是否为"对象不存在"
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
