// Package server assembles the application: persistence, cache, services,
// background jobs and the HTTP router.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/api"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/api/handler"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/cache"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/service"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/db"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/db/redis"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/infrastructure/scheduler"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/pkg/config"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/security"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/pkg/logger"
)

const cleanupJobName = "retention-cleanup"

// Services holds the wired use-case layer.
type Services struct {
	Tokens    *security.TokenManager
	Authz     *security.Authorizer
	Cache     *cache.Layer
	Auth      *service.AuthService
	Users     *service.UserService
	Posts     *service.PostService
	Comments  *service.CommentService
	Retention *service.RetentionService
}

// NewServices wires the services on top of repos. A nil backend disables
// caching.
func NewServices(cfg *config.Config, repos *db.Repositories, backend cache.Cache, log zerolog.Logger) *Services {
	layer := cache.NewLayer(backend, cache.TTLs{
		Posts:    cfg.Cache.TTLPosts,
		Users:    cfg.Cache.TTLUsers,
		Comments: cfg.Cache.TTLComments,
		Search:   cfg.Cache.TTLSearch,
		Default:  cfg.Cache.TTLDefault,
	}, logger.Component(log, "cache"))

	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Lifetime)
	authz := security.NewAuthorizer(repos.Posts, repos.Comments,
		logger.Component(log, "authz"),
		security.WithConcealMissing(cfg.Authz.ConcealMissing))

	return &Services{
		Tokens:    tokens,
		Authz:     authz,
		Cache:     layer,
		Auth:      service.NewAuthService(repos.Users, tokens, log),
		Users:     service.NewUserService(repos.Users, layer, authz, log),
		Posts:     service.NewPostService(repos.Posts, repos.Users, layer, authz, log),
		Comments:  service.NewCommentService(repos.Comments, repos.Posts, repos.Users, layer, authz, log),
		Retention: service.NewRetentionService(repos.Retention, cfg.Cleanup.RetentionDays, layer, logger.Component(log, "retention")),
	}
}

// CacheBackend is an opened cache backend plus its lifecycle hooks.
type CacheBackend struct {
	Cache cache.Cache
	Ping  func(ctx context.Context) error
	Close func() error
}

// OpenCache opens the backend selected by cfg. A Redis that is unreachable at
// startup is logged and kept: the client reconnects on its own and cache.Safe
// turns the failures into misses until then.
func OpenCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) CacheBackend {
	if !cfg.Cache.Enabled {
		log.Info().Msg("cache disabled")
		return CacheBackend{}
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		log.Info().Msg("using in-process cache")
		return CacheBackend{Cache: cache.NewMemory(0)}
	default:
		client := redis.NewClient(redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err := redis.Ping(ctx, client); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, serving from the store until it recovers")
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		}
		return CacheBackend{
			Cache: redis.NewCache(client, ""),
			Ping:  func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close: client.Close,
		}
	}
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	repos      *db.Repositories
	cache      CacheBackend
	scheduler  *scheduler.Scheduler
	log        zerolog.Logger
}

// New opens every dependency and builds the router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	if err := cfg.RequireJWTSecret(); err != nil {
		return nil, err
	}

	repos, err := db.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	backend := OpenCache(ctx, cfg, log)
	svc := NewServices(cfg, repos, backend.Cache, log)

	if cfg.Bootstrap.AdminUser != "" {
		created, err := svc.Users.EnsureAdmin(ctx, cfg.Bootstrap.AdminUser, cfg.Bootstrap.AdminPassword)
		if err != nil {
			_ = repos.Close(ctx)
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Info().Str("username", cfg.Bootstrap.AdminUser).Msg("admin account created")
		}
	}

	sched := scheduler.New(logger.Component(log, "scheduler"))
	if cfg.Cleanup.Enabled {
		err := sched.Add(cleanupJobName, cfg.Cleanup.Schedule, func(ctx context.Context) error {
			_, err := svc.Retention.Run(ctx)
			return err
		})
		if err != nil {
			_ = repos.Close(ctx)
			return nil, err
		}
		log.Info().
			Str("schedule", cfg.Cleanup.Schedule).
			Int("retention_days", svc.Retention.RetentionDays()).
			Msg("retention cleanup scheduled")
	}

	checks := []handler.Check{{Name: repos.Driver, Ping: repos.Ping, Critical: true}}
	if backend.Ping != nil {
		checks = append(checks, handler.Check{Name: "redis", Ping: backend.Ping})
	}

	router := api.NewRouter(api.Dependencies{
		Auth:         svc.Auth,
		Users:        svc.Users,
		Posts:        svc.Posts,
		Comments:     svc.Comments,
		Retention:    svc.Retention,
		Tokens:       svc.Tokens,
		Identities:   svc.Users,
		HealthChecks: checks,
		Log:          logger.Component(log, "http"),
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		repos:     repos,
		cache:     backend,
		scheduler: sched,
		log:       log,
	}, nil
}

// Start runs background jobs and serves HTTP until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.scheduler.Start(ctx)
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and jobs, then releases connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.scheduler.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.cache.Close != nil {
		if err := s.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if err := s.repos.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
