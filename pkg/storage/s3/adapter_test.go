package s3

import (
	"bytes"
	"context"
	"testing"

	"photovault/pkg/storage"
	"photovault/pkg/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name  string
		key   types.Key
		scope types.Scope
		want  string
	}{
		{"Scoped", "cat.jpg", "42", "42/cat.jpg"},
		{"Unscoped", "cat.jpg", "", "cat.jpg"},
		{"Nested key", "2024/cat.jpg", "42", "42/2024/cat.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, objectKey(tt.key, tt.scope))
		})
	}
}

func TestPublicURL_CustomEndpoint(t *testing.T) {
	// 末尾斜杠必须被去掉，不能出现双斜杠
	a := NewAdapter(Config{
		Endpoint: "https://minio.example.com/",
		Bucket:   "photos",
		Region:   "us-east-1",
	}, zerolog.Nop())

	url := a.publicURL("42/cat.jpg")
	assert.Equal(t, types.Locator("https://minio.example.com/photos/42/cat.jpg"), url)
}

func TestPublicURL_CustomEndpointNoTrailingSlash(t *testing.T) {
	a := NewAdapter(Config{
		Endpoint: "https://minio.example.com",
		Bucket:   "photos",
	}, zerolog.Nop())

	url := a.publicURL("42/cat.jpg")
	assert.Equal(t, types.Locator("https://minio.example.com/photos/42/cat.jpg"), url)
}

func TestSave_MissingBucket(t *testing.T) {
	// bucket 没配置时必须在发起任何网络请求之前就失败
	a := NewAdapter(Config{Region: "us-east-1"}, zerolog.Nop())

	_, err := a.Save(context.Background(), storage.Upload{Body: bytes.NewReader([]byte("x"))}, "cat.jpg", "42")
	require.Error(t, err)
	assert.Equal(t, storage.KindNotConfigured, storage.KindOf(err))
}

func TestPublicURL_VirtualHosted(t *testing.T) {
	// 没有自定义 Endpoint 时走标准 AWS virtual-hosted 形式
	a := NewAdapter(Config{
		Bucket: "photos",
		Region: "us-east-1",
	}, zerolog.Nop())

	url := a.publicURL("42/cat.jpg")
	assert.Equal(t, types.Locator("https://photos.s3.us-east-1.amazonaws.com/42/cat.jpg"), url)
}
