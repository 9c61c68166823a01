package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"photovault/pkg/storage"
	"photovault/pkg/types"

	gstorage "cloud.google.com/go/storage"
	"github.com/rs/zerolog"
)

// 一年的浏览器缓存。照片原图是不可变内容，放心长缓存。
const cacheControl = "public, max-age=31536000"

// Config 用于初始化 Adapter。
// 注意没有凭证字段：GCS 走 Application Default Credentials，
// 由宿主平台 (Replit / GCP) 注入环境。这和 S3 的显式密钥是刻意不对称的。
type Config struct {
	Bucket string
}

// Adapter 实现了 storage.Backend，对接 Google Cloud Storage。
// 和 S3 一样客户端懒加载，初始化失败下次调用重试。
type Adapter struct {
	cfg Config
	log zerolog.Logger

	mu     sync.Mutex
	client *gstorage.Client
}

var _ storage.Backend = (*Adapter)(nil)

func NewAdapter(cfg Config, log zerolog.Logger) *Adapter {
	return &Adapter{
		cfg: cfg,
		log: log.With().Str("backend", "gcs").Logger(),
	}
}

func (a *Adapter) ensureClient(ctx context.Context) (*gstorage.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	// ADC: 不传任何 option，凭证从环境里来
	client, err := gstorage.NewClient(ctx)
	if err != nil {
		return nil, storage.E(storage.KindClientUnavailable, "gcs.init",
			fmt.Errorf("unable to create GCS client: %w", err))
	}

	a.client = client
	a.log.Info().Msg("GCS client initialized for external storage")
	return client, nil
}

// objectName 计算 blob 路径。
// 带 scope: users/{scope}/originals/{key}，不带: originals/{key}。
// 这和 S3 的扁平键方案不一致——沿用线上已有数据的布局 (见 DESIGN.md)。
func objectName(key types.Key, scope types.Scope) string {
	if scope.IsZero() {
		return "originals/" + key.String()
	}
	return "users/" + scope.String() + "/originals/" + key.String()
}

// publicURL 生成 blob 的原生公开 URL (不做签名 URL)
func (a *Adapter) publicURL(name string) types.Locator {
	return types.Locator(fmt.Sprintf("https://storage.googleapis.com/%s/%s", a.cfg.Bucket, name))
}

func (a *Adapter) Save(ctx context.Context, up storage.Upload, key types.Key, scope types.Scope) (types.Locator, error) {
	const op = "gcs.save"

	if a.cfg.Bucket == "" {
		return "", storage.Ef(storage.KindNotConfigured, op, "storage bucket not configured")
	}

	client, err := a.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	name := objectName(key, scope)
	obj := client.Bucket(a.cfg.Bucket).Object(name)

	// rewind 到流起点 (前置条件：Body 可 Seek)
	if _, err := up.Body.Seek(0, io.SeekStart); err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	w := obj.NewWriter(ctx)
	w.ContentType = up.ContentTypeOrDefault()
	if _, err := io.Copy(w, up.Body); err != nil {
		w.Close()
		return "", storage.E(storage.KindWriteFailed, op, err)
	}
	// GCS 的上传错误大多在 Close 时才暴露
	if err := w.Close(); err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	// 上传后追加 Cache-Control 元数据 (第二次网络往返)
	if _, err := obj.Update(ctx, gstorage.ObjectAttrsToUpdate{CacheControl: cacheControl}); err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	a.log.Info().Str("blob", name).Msg("file uploaded to GCS")
	return a.publicURL(name), nil
}

func (a *Adapter) Delete(ctx context.Context, key types.Key, scope types.Scope) error {
	const op = "gcs.delete"

	if a.cfg.Bucket == "" {
		return storage.Ef(storage.KindNotConfigured, op, "storage bucket not configured")
	}

	client, err := a.ensureClient(ctx)
	if err != nil {
		return err
	}

	name := objectName(key, scope)
	err = client.Bucket(a.cfg.Bucket).Object(name).Delete(ctx)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		// 不存在当作删除成功 (非致命约定)
		a.log.Debug().Str("blob", name).Msg("delete target not found")
		return nil
	}
	if err != nil {
		return storage.E(storage.KindWriteFailed, op, err)
	}

	a.log.Info().Str("blob", name).Msg("file deleted from GCS")
	return nil
}

func (a *Adapter) Exists(ctx context.Context, key types.Key, scope types.Scope) (bool, error) {
	const op = "gcs.exists"

	if a.cfg.Bucket == "" {
		return false, storage.Ef(storage.KindNotConfigured, op, "storage bucket not configured")
	}

	client, err := a.ensureClient(ctx)
	if err != nil {
		return false, err
	}

	name := objectName(key, scope)
	_, err = client.Bucket(a.cfg.Bucket).Object(name).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		return false, nil
	}
	return false, storage.E(storage.KindWriteFailed, op, err)
}
