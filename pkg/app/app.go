// pkg/app/app.go
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"photovault/pkg/config"
	"photovault/pkg/meta"
	"photovault/pkg/storage"
	"photovault/pkg/storage/cache"
	"photovault/pkg/storage/gcs"
	"photovault/pkg/storage/local"
	"photovault/pkg/storage/s3"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// App 是整个应用程序的依赖容器 (Dependency Container)。
// 存储后端是显式构造、显式注入的实例——没有包级单例。
type App struct {
	// Store 是调度器 (可能被 Redis 缓存装饰过)
	Store storage.Backend

	// Catalog 是照片目录；database.enabled=false 时为 nil
	Catalog *meta.Repository

	Log zerolog.Logger
}

// NewApp 是工厂函数，按 viper 配置组装整台机器
func NewApp(ctx context.Context) (*App, error) {
	log := newLogger()

	// 1. 三个后端都构造出来 (S3/GCS 是懒客户端，构造不花钱)，
	// 由调度器在每次调用时按配置挑一个。
	localBackend, err := local.NewAdapter(viper.GetString("storage.upload_root"), log)
	if err != nil {
		return nil, fmt.Errorf("failed to init local storage: %w", err)
	}

	s3Backend := s3.NewAdapter(s3.Config{
		Endpoint:        viper.GetString("storage.endpoint"),
		Region:          viper.GetString("storage.region"),
		Bucket:          viper.GetString("storage.bucket"),
		AccessKeyID:     viper.GetString("storage.access_key"),
		SecretAccessKey: viper.GetString("storage.secret_key"),
	}, log)

	gcsBackend := gcs.NewAdapter(gcs.Config{
		Bucket: viper.GetString("storage.bucket"),
	}, log)

	var store storage.Backend = storage.NewService(
		config.ViperRouter{}, localBackend, s3Backend, gcsBackend, log,
	)

	// 2. 可选的 Redis 存在性缓存
	if redisURL := viper.GetString("cache.redis_url"); redisURL != "" {
		cached, err := cache.NewCachedBackend(store, cache.Config{
			RedisURL: redisURL,
			TTL:      viper.GetDuration("cache.ttl"),
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init cache: %w", err)
		}
		store = cached
	}

	// 3. 可选的照片目录
	var catalog *meta.Repository
	if viper.GetBool("database.enabled") {
		db, err := meta.NewDB(ctx, meta.Config{
			Driver:   viper.GetString("database.driver"),
			Path:     viper.GetString("database.path"),
			Host:     viper.GetString("database.host"),
			Port:     viper.GetInt("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			DBName:   viper.GetString("database.name"),
			SSLMode:  viper.GetString("database.sslmode"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init catalog database: %w", err)
		}
		catalog = meta.NewRepository(db)
	}

	return &App{
		Store:   store,
		Catalog: catalog,
		Log:     log,
	}, nil
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}
