package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"qrmenu-backend/config"
	"qrmenu-backend/routes"
	"qrmenu-backend/services"
	"qrmenu-backend/store"
)

// app holds every long-lived dependency. It is built once per process.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    store.Store
	registry *prometheus.Registry
	redis    *redis.Client
	events   *store.KafkaPublisher

	auth         *services.AuthService
	tenants      *services.TenantService
	menu         *services.MenuService
	tables       *services.TableService
	orders       *services.OrderService
	signals      *services.SignalService
	stats        *services.StatsService
	subscription *services.SubscriptionService
}

// openStore connects the configured backend and blocks until it answers a ping.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if cfg.Driver == "mongo" {
		client, err := config.ConnectMongo(cfg)
		if err != nil {
			return nil, err
		}
		ms := store.NewMongoStore(client, cfg.MongoDatabase)
		if err := ms.Ping(pingCtx); err != nil {
			_ = ms.Close(ctx)
			return nil, fmt.Errorf("mongo ping failed: %w", err)
		}
		if err := ms.EnsureIndexes(pingCtx); err != nil {
			_ = ms.Close(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return ms, nil
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	gs := store.NewGormStore(db)
	if err := gs.Ping(pingCtx); err != nil {
		_ = gs.Close(ctx)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := gs.Migrate(); err != nil {
		_ = gs.Close(ctx)
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return gs, nil
}

func newApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Error("store unavailable", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		return nil, err
	}
	logger.Info("store connected", zap.String("driver", cfg.Database.Driver))

	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		registry: config.NewRegistry(),
	}
	services.MustRegisterMetrics(a.registry)

	var cache services.MenuCache
	if a.redis = config.NewRedisClient(cfg.Redis); a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, menu cache disabled", zap.Error(err))
			_ = a.redis.Close()
			a.redis = nil
		} else {
			cache = store.NewRedisMenuCache(a.redis, cfg.Redis.MenuTTL)
		}
	}

	var publisher services.EventPublisher
	if writer := config.NewKafkaWriter(cfg.Kafka); writer != nil {
		a.events = store.NewKafkaPublisher(writer)
		publisher = a.events
	}

	a.auth = services.NewAuthService(st, st, services.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger)
	a.tenants = services.NewTenantService(st, a.auth, services.ProvisioningConfig{
		StaffPassword:    cfg.Provisioning.StaffPassword,
		SubscriptionDays: cfg.Provisioning.SubscriptionDays,
	}, cache, logger)
	a.menu = services.NewMenuService(st, cache, logger)
	a.tables = services.NewTableService(st, services.DefaultQRGenerator{BaseURL: cfg.Server.BaseURL})
	a.orders = services.NewOrderService(st, services.OrderConfig{VerifyCatalog: cfg.Orders.VerifyCatalog}, publisher, logger)
	a.signals = services.NewSignalService(st, publisher, logger)
	a.stats = services.NewStatsService(st)
	a.subscription = services.NewSubscriptionService(a.tenants, cfg.Scheduler.SubscriptionSweep, logger)
	return a, nil
}

func (a *app) routerDeps() routes.Deps {
	return routes.Deps{
		Server:   a.cfg.Server,
		Logger:   a.logger,
		Registry: a.registry,
		Store:    a.store,
		Auth:     a.auth,
		Tenants:  a.tenants,
		Menu:     a.menu,
		Tables:   a.tables,
		Orders:   a.orders,
		Signals:  a.signals,
		Stats:    a.stats,
	}
}

func (a *app) close(ctx context.Context) {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("kafka writer close failed", zap.Error(err))
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := a.store.Close(ctx); err != nil {
		a.logger.Warn("store close failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}
