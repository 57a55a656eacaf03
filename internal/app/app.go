package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	redisclient "github.com/yungbote/payments-example/internal/clients/redis"
	"github.com/yungbote/payments-example/internal/data/db"
	"github.com/yungbote/payments-example/internal/http"
	"github.com/yungbote/payments-example/internal/observability"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type Clients struct {
	Redis       *goredis.Client
	Idempotency *redisclient.IdempotencyStore
}

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Metrics  *observability.Metrics
	Repos    Repos
	Services Services
	Clients  Clients
	Server   *http.Server

	shutdownOtel func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	boot, err := logger.New("development")
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	boot.Info("Loading configuration...")
	cfg, err := LoadConfig(boot)
	if err != nil {
		boot.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := boot
	if cfg.App.LogMode != "development" {
		if log, err = logger.New(cfg.App.LogMode); err != nil {
			boot.Sync()
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	gin.SetMode(ginMode(cfg.App.Env))

	a := &App{Log: log, Cfg: cfg}
	a.shutdownOtel = observability.InitOTel(ctx, log, cfg.Tracing(Version))
	a.Metrics = observability.NewMetrics("payments")

	a.DB, err = db.Open(cfg.DB(), log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := a.DB.AutoMigrateAll(); err != nil {
		a.Close()
		return nil, err
	}

	a.Clients, err = wireClients(ctx, log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Repos = wireRepos(a.DB.DB(), log, a.Metrics)
	a.Services, err = wireServices(log, cfg, a.Repos, a.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	handlers := wireHandlers(log, a.Services, a.DB)
	a.Server = http.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), routerConfig(log, cfg, handlers, a.Clients, a.Metrics))
	return a, nil
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set; idempotency keys disabled")
		return Clients{}, nil
	}
	rdb, err := redisclient.NewClient(ctx, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	return Clients{
		Redis:       rdb,
		Idempotency: redisclient.NewIdempotencyStore(rdb, log, cfg.Redis.IdempotencyTTL),
	}, nil
}

// Run serves HTTP until ctx is cancelled and the server has drained.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "port", a.Cfg.Server.Port)
		return a.Server.Run(gctx, a.Cfg.Server.ShutdownTimeout)
	})
	return g.Wait()
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.shutdownOtel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.Server.ShutdownTimeout)
		errs = append(errs, a.shutdownOtel(ctx))
		cancel()
	}
	if a.Clients.Redis != nil {
		errs = append(errs, a.Clients.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
