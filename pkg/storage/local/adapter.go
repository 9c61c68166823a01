package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"photovault/pkg/storage"
	"photovault/pkg/types"

	"github.com/rs/zerolog"
)

// Adapter 实现了 storage.Backend，把对象写到本地文件系统
type Adapter struct {
	root string // 上传根目录，比如: /var/photovault/uploads
	log  zerolog.Logger
}

// NewAdapter 创建本地文件系统后端
func NewAdapter(root string, log zerolog.Logger) (*Adapter, error) {
	// 确保根目录存在
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload root dir: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload root: %w", err)
	}
	return &Adapter{
		root: abs,
		log:  log.With().Str("backend", "local").Logger(),
	}, nil
}

// layout 返回 key 对应的物理路径
// 带 scope: {root}/{scope}/{key}，不带: {root}/{key}
func (a *Adapter) layout(key types.Key, scope types.Scope) string {
	if scope.IsZero() {
		return filepath.Join(a.root, key.String())
	}
	return filepath.Join(a.root, scope.String(), key.String())
}

// locator 把物理路径规范化为 file:// URI
// 统一的定位符表示：调用方拿到的永远是 URI，不再是裸路径。
func locator(path string) types.Locator {
	return types.Locator("file://" + filepath.ToSlash(path))
}

func (a *Adapter) Save(ctx context.Context, up storage.Upload, key types.Key, scope types.Scope) (types.Locator, error) {
	const op = "local.save"

	target := a.layout(key, scope)

	// 1. 准备用户目录 (幂等)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	// 2. rewind 到流的起点 (前置条件：Body 可 Seek)
	if _, err := up.Body.Seek(0, io.SeekStart); err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	// 3. 原子写入：先写临时文件再 Rename。
	// 这样目标位置要么没有文件，要么是完整的文件，不会出现写了一半的残骸。
	tmp, err := os.CreateTemp(dir, ".pv-*")
	if err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, up.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	// 4. 写入完整性校验：0 字节视为失败。
	// 即使写调用本身没报错，空文件也说明上游流有问题 (静默截断)。
	if n == 0 {
		return "", storage.Ef(storage.KindVerificationFailed, op, "wrote 0 bytes for key %s", key)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	// 5. 落盘后再 Stat 一次确认 (对应原系统的 re-open 校验)
	info, err := os.Stat(target)
	if err != nil || info.Size() == 0 {
		os.Remove(target)
		return "", storage.Ef(storage.KindVerificationFailed, op, "post-write size check failed for key %s", key)
	}

	a.log.Info().Str("key", key.String()).Int64("bytes", n).Msg("file saved locally")
	return locator(target), nil
}

func (a *Adapter) Delete(ctx context.Context, key types.Key, scope types.Scope) error {
	const op = "local.delete"

	target := a.layout(key, scope)
	err := os.Remove(target)
	if os.IsNotExist(err) {
		// 目标本来就不在，当作删除成功 (非致命约定)
		a.log.Debug().Str("key", key.String()).Msg("delete target not found")
		return nil
	}
	if err != nil {
		return storage.E(storage.KindWriteFailed, op, err)
	}
	return nil
}

func (a *Adapter) Exists(ctx context.Context, key types.Key, scope types.Scope) (bool, error) {
	_, err := os.Stat(a.layout(key, scope))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, storage.E(storage.KindWriteFailed, "local.exists", err)
}
