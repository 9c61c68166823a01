package local

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photovault/pkg/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*Adapter, string) {
	t.Helper()
	tmpDir := t.TempDir()
	a, err := NewAdapter(tmpDir, zerolog.Nop())
	require.NoError(t, err)
	return a, tmpDir
}

func TestLocalAdapter_SaveLifecycle(t *testing.T) {
	a, tmpDir := newTestAdapter(t)
	ctx := context.Background()

	up := storage.Upload{Body: bytes.NewReader([]byte("jpeg bytes")), ContentType: "image/jpeg"}

	// 1. Save
	loc, err := a.Save(ctx, up, "cat.jpg", "42")
	require.NoError(t, err)

	// 定位符必须是 file:// URI，不是裸路径
	assert.True(t, strings.HasPrefix(loc.String(), "file://"), "locator should be a file URI, got %s", loc)

	// 物理路径应该是 {root}/{scope}/{key}
	expectedPath := filepath.Join(tmpDir, "42", "cat.jpg")
	data, err := os.ReadFile(expectedPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)

	// 2. save 之后 exists 为 true
	exists, err := a.Exists(ctx, "cat.jpg", "42")
	require.NoError(t, err)
	assert.True(t, exists)

	// 3. delete 之后 exists 为 false
	require.NoError(t, a.Delete(ctx, "cat.jpg", "42"))
	exists, err = a.Exists(ctx, "cat.jpg", "42")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalAdapter_SaveWithoutScope(t *testing.T) {
	a, tmpDir := newTestAdapter(t)

	_, err := a.Save(context.Background(), storage.Upload{Body: bytes.NewReader([]byte("x"))}, "flat.jpg", "")
	require.NoError(t, err)

	// 无 scope 时直接落在根目录下
	_, err = os.Stat(filepath.Join(tmpDir, "flat.jpg"))
	assert.NoError(t, err)
}

func TestLocalAdapter_EmptyStreamFailsVerification(t *testing.T) {
	a, tmpDir := newTestAdapter(t)

	// 0 字节的流必须被完整性校验拦下来
	_, err := a.Save(context.Background(), storage.Upload{Body: bytes.NewReader(nil)}, "empty.jpg", "42")
	require.Error(t, err)
	assert.Equal(t, storage.KindVerificationFailed, storage.KindOf(err))

	// 失败之后不应该留下目标文件
	_, statErr := os.Stat(filepath.Join(tmpDir, "42", "empty.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalAdapter_DeleteMissingIsNotAnError(t *testing.T) {
	a, _ := newTestAdapter(t)

	err := a.Delete(context.Background(), "never-uploaded.jpg", "42")
	assert.NoError(t, err)
}

func TestLocalAdapter_SaveRewindsBody(t *testing.T) {
	a, _ := newTestAdapter(t)

	// 模拟已经被读过一遍的流：Save 内部必须 rewind
	body := bytes.NewReader([]byte("full content"))
	_, _ = body.Seek(0, io.SeekEnd) // 挪到末尾

	loc, err := a.Save(context.Background(), storage.Upload{Body: body}, "rewound.jpg", "")
	require.NoError(t, err)

	data, err := os.ReadFile(strings.TrimPrefix(loc.String(), "file://"))
	require.NoError(t, err)
	assert.Equal(t, []byte("full content"), data)
}
