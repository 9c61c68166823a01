package storage

import (
	"context"

	"photovault/pkg/types"

	"github.com/rs/zerolog"
)

// Router 提供每次调用时的路由决策。
// 【关键】Service 在每一次 Save/Delete/Exists 上都重新询问 Router，
// 而不是在构造时缓存结果。这是故意的：serverless 环境下同一个进程
// 可能在不同配置 (不同租户) 下处理请求，改配置就能改路由。
type Router interface {
	// UseExternalStorage 为 false 时一律走本地后端，无视 Provider
	UseExternalStorage() bool
	// Provider 选择外部后端 ("s3" 或 "gcs")
	Provider() types.Provider
}

// Service 是存储调度器：持有三个显式注入的后端实例，
// 按 Router 的决策把调用转发给其中一个。
// 后端作为依赖注入进来，不用包级单例 (方便测试，也避免全局可变状态)。
type Service struct {
	router Router
	local  Backend
	s3     Backend
	gcs    Backend
	log    zerolog.Logger
}

var _ Backend = (*Service)(nil)

func NewService(router Router, local, s3, gcs Backend, log zerolog.Logger) *Service {
	return &Service{
		router: router,
		local:  local,
		s3:     s3,
		gcs:    gcs,
		log:    log.With().Str("component", "storage").Logger(),
	}
}

// pick 做一次路由决策 (每次调用都会执行)
func (s *Service) pick() (Backend, string) {
	if !s.router.UseExternalStorage() {
		return s.local, "local"
	}
	if s.router.Provider() == types.ProviderGCS {
		return s.gcs, "gcs"
	}
	return s.s3, "s3"
}

func (s *Service) Save(ctx context.Context, up Upload, key types.Key, scope types.Scope) (types.Locator, error) {
	backend, name := s.pick()
	loc, err := backend.Save(ctx, up, key, scope)
	if err != nil {
		s.log.Error().Err(err).Str("backend", name).Str("key", key.String()).Msg("save failed")
		return "", err
	}
	s.log.Info().Str("backend", name).Str("key", key.String()).Str("locator", loc.String()).Msg("saved")
	return loc, nil
}

func (s *Service) Delete(ctx context.Context, key types.Key, scope types.Scope) error {
	backend, name := s.pick()
	if err := backend.Delete(ctx, key, scope); err != nil {
		s.log.Error().Err(err).Str("backend", name).Str("key", key.String()).Msg("delete failed")
		return err
	}
	s.log.Info().Str("backend", name).Str("key", key.String()).Msg("deleted")
	return nil
}

func (s *Service) Exists(ctx context.Context, key types.Key, scope types.Scope) (bool, error) {
	backend, _ := s.pick()
	return backend.Exists(ctx, key, scope)
}
