package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"photovault/pkg/storage"
	"photovault/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// Config 用于初始化 Adapter。
// Endpoint 留空时走标准 AWS；设置后兼容 MinIO / DigitalOcean Spaces 等。
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// Adapter 实现了 storage.Backend (适配 AWS SDK v2)。
// 客户端懒加载：构造时不发任何网络请求，第一次调用时才建连。
// 初始化失败不是终态——下一次调用会重试 (serverless 下凭证可能晚到)。
type Adapter struct {
	cfg Config
	log zerolog.Logger

	// mu 保护 client 的懒初始化，防止多请求并发首用时重复建客户端
	mu     sync.Mutex
	client *s3.Client
}

var _ storage.Backend = (*Adapter)(nil)

// NewAdapter 只记录配置，不做网络调用
func NewAdapter(cfg Config, log zerolog.Logger) *Adapter {
	return &Adapter{
		cfg: cfg,
		log: log.With().Str("backend", "s3").Logger(),
	}
}

// ensureClient 懒初始化 S3 客户端
func (a *Adapter) ensureClient(ctx context.Context) (*s3.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	// 1. 加载基础配置 (仅 Region 和静态凭证)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(a.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.cfg.AccessKeyID, a.cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, storage.E(storage.KindClientUnavailable, "s3.init",
			fmt.Errorf("unable to load SDK config: %w", err))
	}

	// 2. 创建客户端时注入 S3 特有配置
	// 新版 SDK 的做法：用 BaseEndpoint 而不是全局 Resolver
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if a.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(a.cfg.Endpoint)
			// 【关键】MinIO 等自建服务必须用 Path Style:
			// http://host:9000/bucket/key 而不是 http://bucket.host:9000/key
			o.UsePathStyle = true
		}
	})

	a.client = client
	a.log.Info().Msg("S3 client initialized for external storage")
	return client, nil
}

// objectKey 计算对象键。带 scope: {scope}/{key}，不带: {key}。
// 注意是扁平命名，没有 "originals" 子目录 (和 GCS 的键方案不同，
// 这是沿用线上已有数据的布局，不能单方面改)。
func objectKey(key types.Key, scope types.Scope) string {
	if scope.IsZero() {
		return key.String()
	}
	return scope.String() + "/" + key.String()
}

// publicURL 生成对象的公开访问 URL。
// 有自定义 Endpoint 时: {endpoint}/{bucket}/{key} (去掉末尾斜杠，避免双斜杠)
// 否则用标准的 virtual-hosted 形式。
// 这里不生成 presigned URL——默认 bucket 是公开可读的。
func (a *Adapter) publicURL(key string) types.Locator {
	if a.cfg.Endpoint != "" {
		endpoint := strings.TrimRight(a.cfg.Endpoint, "/")
		return types.Locator(fmt.Sprintf("%s/%s/%s", endpoint, a.cfg.Bucket, key))
	}
	return types.Locator(fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.cfg.Bucket, a.cfg.Region, key))
}

func (a *Adapter) Save(ctx context.Context, up storage.Upload, key types.Key, scope types.Scope) (types.Locator, error) {
	const op = "s3.save"

	if a.cfg.Bucket == "" {
		return "", storage.Ef(storage.KindNotConfigured, op, "storage bucket not configured")
	}

	client, err := a.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	k := objectKey(key, scope)

	// rewind 到流起点 (前置条件：Body 可 Seek)
	if _, err := up.Body.Seek(0, io.SeekStart); err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(k),
		Body:        up.Body,
		ContentType: aws.String(up.ContentTypeOrDefault()),
		// 无条件开启服务端加密
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", storage.E(storage.KindWriteFailed, op, err)
	}

	a.log.Info().Str("key", k).Msg("file uploaded to S3")
	return a.publicURL(k), nil
}

func (a *Adapter) Delete(ctx context.Context, key types.Key, scope types.Scope) error {
	const op = "s3.delete"

	if a.cfg.Bucket == "" {
		return storage.Ef(storage.KindNotConfigured, op, "storage bucket not configured")
	}

	client, err := a.ensureClient(ctx)
	if err != nil {
		return err
	}

	k := objectKey(key, scope)
	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(k),
	})
	if err != nil {
		// S3 对不存在的 key 通常直接返回成功，这个分支是兼容
		// 某些 S3 实现会报 NoSuchKey 的情况 (非致命约定)
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil
		}
		return storage.E(storage.KindWriteFailed, op, err)
	}

	a.log.Info().Str("key", k).Msg("file deleted from S3")
	return nil
}

func (a *Adapter) Exists(ctx context.Context, key types.Key, scope types.Scope) (bool, error) {
	const op = "s3.exists"

	if a.cfg.Bucket == "" {
		return false, storage.Ef(storage.KindNotConfigured, op, "storage bucket not configured")
	}

	client, err := a.ensureClient(ctx)
	if err != nil {
		return false, err
	}

	k := objectKey(key, scope)
	_, err = client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(k),
	})
	if err == nil {
		return true, nil
	}

	// 把 AWS 的 not-found 信号映射为 false，绝不往上抛
	var notFound *s3types.NotFound
	var noKey *s3types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return false, nil
	}
	// 兼容性：某些 S3 实现只返回 generic 404 error string
	if strings.Contains(err.Error(), "404") {
		return false, nil
	}

	return false, storage.E(storage.KindWriteFailed, op, err)
}
