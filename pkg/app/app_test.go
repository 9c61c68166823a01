package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"photovault/pkg/storage"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_LocalOnly(t *testing.T) {
	// 1. Mock 配置
	viper.Reset()
	viper.Set("storage.use_external", false)
	viper.Set("storage.upload_root", filepath.Join(t.TempDir(), "uploads"))
	viper.Set("log.level", "error")

	// 2. 组装
	pv, err := NewApp(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pv.Store)
	assert.Nil(t, pv.Catalog, "catalog should be off by default")

	// 3. 端到端：存 -> 在 -> 删 -> 不在
	ctx := context.Background()
	up := storage.Upload{Body: bytes.NewReader([]byte("pixels")), ContentType: "image/png"}

	loc, err := pv.Store.Save(ctx, up, "e2e.png", "42")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc.String(), "file://"))

	exists, err := pv.Store.Exists(ctx, "e2e.png", "42")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, pv.Store.Delete(ctx, "e2e.png", "42"))

	exists, err = pv.Store.Exists(ctx, "e2e.png", "42")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewApp_ExternalFlagOffIgnoresProvider(t *testing.T) {
	viper.Reset()
	viper.Set("storage.use_external", false)
	viper.Set("storage.provider", "gcs") // 设了也没用，external 关着
	viper.Set("storage.upload_root", filepath.Join(t.TempDir(), "uploads"))
	viper.Set("log.level", "error")

	pv, err := NewApp(context.Background())
	require.NoError(t, err)

	// GCS 没配 bucket 也没凭证：如果路由错了，这里会报 NotConfigured
	loc, err := pv.Store.Save(context.Background(),
		storage.Upload{Body: bytes.NewReader([]byte("x"))}, "routed.jpg", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc.String(), "file://"))
}

func TestNewApp_ExternalWithoutBucketFailsAtCallTime(t *testing.T) {
	viper.Reset()
	viper.Set("storage.use_external", true)
	viper.Set("storage.provider", "s3")
	// 故意不设置 bucket
	viper.Set("storage.upload_root", filepath.Join(t.TempDir(), "uploads"))
	viper.Set("log.level", "error")

	// 构造不报错 (客户端是懒加载的)……
	pv, err := NewApp(context.Background())
	require.NoError(t, err)

	// ……调用时才报 NotConfigured
	_, err = pv.Store.Save(context.Background(),
		storage.Upload{Body: bytes.NewReader([]byte("x"))}, "nobucket.jpg", "42")
	require.Error(t, err)
	assert.Equal(t, storage.KindNotConfigured, storage.KindOf(err))
}
