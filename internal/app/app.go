package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkdeck/internal/config"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkdeck/internal/index"
	"github.com/MrSnakeDoc/linkdeck/internal/logger"
	"github.com/MrSnakeDoc/linkdeck/internal/redis"
	"github.com/MrSnakeDoc/linkdeck/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/linkdeck/internal/store/redis"
	"github.com/MrSnakeDoc/linkdeck/internal/utils"
	"github.com/MrSnakeDoc/linkdeck/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.LinksReloader
	gc          *scheduler.GarbageCollector
}

// New wires every component. Redis is optional: without an address the
// service runs from memory only and clicks do not survive a restart.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	log.Debug("configuration loaded", logger.Any("config", cfg.Redacted()))

	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	redisClient, err := redis.Connect(ctx, redis.Options{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, log)
	switch {
	case errors.Is(err, redis.ErrDisabled):
		log.Info("redis not configured, running from memory only")
	case err != nil:
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	default:
		log.Info("Redis initialized successfully", logger.String("addr", cfg.RedisAddr))
		store = redisstore.NewStore(redisClient)
	}

	memIndex := index.NewMemoryIndex()

	// Warm clicks and disable times from the previous run
	if store != nil {
		syncer := scheduler.NewRedisSyncer(store, memIndex, log)
		if err := syncer.Sync(ctx); err != nil {
			log.Warn("failed to sync from redis on startup, will load from the links directory",
				logger.Error(err))
		}
	}

	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewLinksReloader(
		cfg.LinksDir,
		store,
		memIndex,
		log,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	gc := scheduler.NewGarbageCollector(
		store,
		memIndex,
		log,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	d := deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		LinksDir:        cfg.LinksDir,
		Store:           store,
		MemoryIndex:     memIndex,
		FallbackURL:     cfg.FallbackURL,
		ProbeTimeout:    cfg.ProbeTimeout,
		SkipProbe:       cfg.SkipProbe,
		MaxCandidates:   cfg.MaxCandidates,
		ReloadTrigger:   reloadTrigger,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitRefill: cfg.RateLimitRefill,
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      httpserver.New(cfg.ListenPort, d),
		redisClient: redisClient,
		reloader:    reloader,
		gc:          gc,
	}, nil
}

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting linkdeck %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	defer a.closeRedis()

	// Loads the directory once, then keeps it fresh
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start links reloader: %w", err)
	}
	a.logger.Info("links reloader started",
		logger.String("dir", a.cfg.LinksDir),
		logger.Duration("interval", a.cfg.ReloadInterval))

	a.gc.Start(ctx)
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("threshold", a.cfg.GCThreshold))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.reloader.Stop()
		a.gc.Stop()
		return err
	}

	a.reloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ linkdeck stopped cleanly")
	return nil
}

func (a *App) closeRedis() {
	if a.redisClient == nil {
		return
	}
	utils.CloseLogged(a.redisClient, "redis", a.logger)
}
