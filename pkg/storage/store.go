package storage

import (
	"context"
	"io"

	"photovault/pkg/types"
)

// DefaultContentType 是上传流未声明类型时的回落值
const DefaultContentType = "application/octet-stream"

// Upload 描述一次待保存的内容。
// Body 必须是可 Seek 的：后端在读取前会 rewind 到流的起点
// (S3 上传前还要探测内容长度)，一次性的 Reader 不满足这个前置条件。
type Upload struct {
	Body        io.ReadSeeker
	ContentType string
}

// ContentTypeOrDefault 返回声明的类型，缺省时回落到二进制类型
func (u Upload) ContentTypeOrDefault() string {
	if u.ContentType == "" {
		return DefaultContentType
	}
	return u.ContentType
}

// Backend 定义统一的存储后端契约。
// 实现可以是本地磁盘、S3 兼容对象存储或 GCS。
type Backend interface {
	// Save 把内容持久化到 {scope}/{key} 对应的位置，
	// 成功时返回定位符 (URI)。scope 为空表示不做用户隔离。
	Save(ctx context.Context, up Upload, key types.Key, scope types.Scope) (types.Locator, error)

	// Delete 删除对象。目标不存在时返回 nil (非致命)，
	// 这是三个后端共同遵守的约定。
	Delete(ctx context.Context, key types.Key, scope types.Scope) error

	// Exists 检查对象是否存在。后端自身的 not-found 信号
	// 必须映射为 (false, nil)，绝不能当成错误抛出。
	Exists(ctx context.Context, key types.Key, scope types.Scope) (bool, error)
}
