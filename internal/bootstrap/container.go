package bootstrap

import (
	"context"
	"time"

	"github.com/gigmarket/gigmarket/internal/config"
	"github.com/gigmarket/gigmarket/internal/infra/blob"
	"github.com/gigmarket/gigmarket/internal/infra/cache"
	"github.com/gigmarket/gigmarket/internal/infra/db"
	"github.com/gigmarket/gigmarket/internal/infra/httpclient"
	"github.com/gigmarket/gigmarket/internal/infra/identity"
	"github.com/gigmarket/gigmarket/internal/infra/logger"
	mq "github.com/gigmarket/gigmarket/internal/infra/queue"
	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/handler"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/gigmarket/gigmarket/internal/modules/service"
	"github.com/gigmarket/gigmarket/internal/router"
	"github.com/gigmarket/gigmarket/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildContainer registers every component lazily. Optional infrastructure
// (Redis, RabbitMQ) resolves to a nil client when disabled in cfg.
func BuildContainer(cfg *config.Config) *do.Injector {
	inj := do.New()

	// config
	do.ProvideValue(inj, cfg)

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if telemetry.Enabled(cfg) {
			if err := db.RegisterOpenTelemetryPlugin(d); err != nil {
				log.Warn("gorm tracing disabled", zap.Error(err))
			}
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
			if err := EnsureDefaultCatalog(context.Background(), repo.NewCategoryRepo(d), cfg.Catalog.SeedFile, log); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.Redis.Enabled {
			return nil, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rdb, err := cache.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if telemetry.Enabled(cfg) {
			if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
				do.MustInvoke[*zap.Logger](i).Warn("redis tracing disabled", zap.Error(err))
			}
		}
		return rdb, nil
	})

	// RabbitMQ
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.RabbitMQ.Enabled {
			return nil, nil
		}
		return mq.Dial(cfg)
	})
	do.Provide(inj, func(i *do.Injector) (service.EventPublisher, error) {
		conn := do.MustInvoke[*amqp.Connection](i)
		if conn == nil {
			return nil, nil
		}
		return mq.NewPublisher(conn, do.MustInvoke[*zap.Logger](i), do.MustInvoke[*config.Config](i))
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// Price HTTP Client
	do.Provide(inj, func(i *do.Injector) (*httpclient.PriceClient, error) {
		return httpclient.NewPriceClient(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i)), nil
	})

	// Identity
	do.Provide(inj, func(i *do.Injector) (identity.Verifier, error) {
		return identity.New(do.MustInvoke[*config.Config](i))
	})

	// Metrics registry
	do.Provide(inj, func(i *do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return reg, nil
	})

	// Live queries
	do.Provide(inj, func(i *do.Injector) (*live.Hub, error) {
		cfg := do.MustInvoke[*config.Config](i)
		metrics := live.NewMetrics(do.MustInvoke[*prometheus.Registry](i))
		timeout := time.Duration(cfg.Live.RunTimeoutSec) * time.Second
		return live.NewHub(do.MustInvoke[*zap.Logger](i), metrics, timeout), nil
	})
	do.Provide(inj, func(i *do.Injector) (live.Notifier, error) {
		if rdb := do.MustInvoke[*redis.Client](i); rdb != nil {
			cfg := do.MustInvoke[*config.Config](i)
			return live.NewRedisNotifier(rdb, cfg.Live.Channel, do.MustInvoke[*zap.Logger](i)), nil
		}
		return live.NewLocalNotifier(do.MustInvoke[*live.Hub](i)), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.OfferRepo, error) {
		return repo.NewOfferRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.MediaRepo, error) {
		return repo.NewMediaRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ReviewRepo, error) {
		return repo.NewReviewRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.FavoriteRepo, error) {
		return repo.NewFavoriteRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CategoryRepo, error) {
		return repo.NewCategoryRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.OrderRepo, error) {
		return repo.NewOrderRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(service.ProjectServiceDeps{
			Projects:   do.MustInvoke[repo.ProjectRepo](i),
			Offers:     do.MustInvoke[repo.OfferRepo](i),
			Media:      do.MustInvoke[repo.MediaRepo](i),
			Users:      do.MustInvoke[repo.UserRepo](i),
			Reviews:    do.MustInvoke[repo.ReviewRepo](i),
			Favorites:  do.MustInvoke[repo.FavoriteRepo](i),
			Categories: do.MustInvoke[repo.CategoryRepo](i),
			Orders:     do.MustInvoke[repo.OrderRepo](i),
			Store:      do.MustInvoke[*blob.S3Deps](i),
			Events:     do.MustInvoke[service.EventPublisher](i),
			Notifier:   do.MustInvoke[live.Notifier](i),
			Config:     do.MustInvoke[*config.Config](i),
			Log:        do.MustInvoke[*zap.Logger](i),
		}), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.OfferService, error) {
		return service.NewOfferService(
			do.MustInvoke[repo.OfferRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[*httpclient.PriceClient](i),
			do.MustInvoke[live.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FavoriteService, error) {
		return service.NewFavoriteService(
			do.MustInvoke[repo.FavoriteRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[live.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.MediaService, error) {
		return service.NewMediaService(
			do.MustInvoke[repo.MediaRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[live.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ReviewService, error) {
		return service.NewReviewService(
			do.MustInvoke[repo.ReviewRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[repo.OfferRepo](i),
			do.MustInvoke[repo.MediaRepo](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[live.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.OrderService, error) {
		return service.NewOrderService(
			do.MustInvoke[repo.OrderRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.OfferRepo](i),
			do.MustInvoke[live.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.UserService, error) {
		return service.NewUserService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[live.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CategoryService, error) {
		return service.NewCategoryService(do.MustInvoke[repo.CategoryRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.LiveRegistry, error) {
		return service.NewLiveRegistry(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[service.OfferService](i),
			do.MustInvoke[service.ReviewService](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.OfferHandler, error) {
		return handler.NewOfferHandler(do.MustInvoke[service.OfferService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.FavoriteHandler, error) {
		return handler.NewFavoriteHandler(do.MustInvoke[service.FavoriteService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.MediaHandler, error) {
		return handler.NewMediaHandler(do.MustInvoke[service.MediaService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ReviewHandler, error) {
		return handler.NewReviewHandler(do.MustInvoke[service.ReviewService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.OrderHandler, error) {
		return handler.NewOrderHandler(do.MustInvoke[service.OrderService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.UserHandler, error) {
		return handler.NewUserHandler(do.MustInvoke[service.UserService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CategoryHandler, error) {
		return handler.NewCategoryHandler(do.MustInvoke[service.CategoryService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.LiveHandler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return handler.NewLiveHandler(
			do.MustInvoke[*service.LiveRegistry](i),
			do.MustInvoke[*live.Hub](i),
			time.Duration(cfg.Live.HeartbeatInterval)*time.Second,
		), nil
	})

	// Router
	do.Provide(inj, func(i *do.Injector) (router.RouterDeps, error) {
		return router.RouterDeps{
			Config:          do.MustInvoke[*config.Config](i),
			Log:             do.MustInvoke[*zap.Logger](i),
			Verifier:        do.MustInvoke[identity.Verifier](i),
			Users:           do.MustInvoke[repo.UserRepo](i),
			Gatherer:        do.MustInvoke[*prometheus.Registry](i),
			ProjectHandler:  do.MustInvoke[*handler.ProjectHandler](i),
			OfferHandler:    do.MustInvoke[*handler.OfferHandler](i),
			FavoriteHandler: do.MustInvoke[*handler.FavoriteHandler](i),
			MediaHandler:    do.MustInvoke[*handler.MediaHandler](i),
			ReviewHandler:   do.MustInvoke[*handler.ReviewHandler](i),
			OrderHandler:    do.MustInvoke[*handler.OrderHandler](i),
			UserHandler:     do.MustInvoke[*handler.UserHandler](i),
			CategoryHandler: do.MustInvoke[*handler.CategoryHandler](i),
			LiveHandler:     do.MustInvoke[*handler.LiveHandler](i),
		}, nil
	})
	return inj
}
