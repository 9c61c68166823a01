// pkg/types/common.go
package types

import "strings"

// Key 是存储对象的相对标识符 (文件名或路径片段)
// 注意：Key 本身不是全局唯一的，只有和 Scope 组合起来才唯一。
type Key string

func (k Key) String() string { return string(k) }
func (k Key) IsZero() bool   { return k == "" }

// Scope 是按用户划分的命名空间前缀 (通常是 user id)
// 空值表示不加任何前缀 (系统级对象)。
type Scope string

func (s Scope) String() string { return string(s) }
func (s Scope) IsZero() bool   { return s == "" }

// Locator 是 save 成功后返回的定位符。
// 统一约定为 URI：本地后端返回 file://...，对象存储后端返回 https://...
// 调用方应当把它当作不透明的值，不要解析其内部结构。
type Locator string

func (l Locator) String() string { return string(l) }
func (l Locator) IsZero() bool   { return l == "" }

// Provider 标识外部存储提供商
type Provider string

const (
	ProviderS3  Provider = "s3"
	ProviderGCS Provider = "gcs"
)

// ParseProvider 把配置里的字符串规范化为 Provider。
// 未知值回落到 S3 (和原始系统的默认行为保持一致)。
func ParseProvider(s string) Provider {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gcs":
		return ProviderGCS
	default:
		return ProviderS3
	}
}
