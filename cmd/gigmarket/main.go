// Package main is the gigmarket API entry point.
//
//	@title						Gigmarket API
//	@version					1.0
//	@description				Freelance marketplace backend: projects, offers, media, reviews and live queries.
//	@host						localhost:8029
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gigmarket/gigmarket/internal/bootstrap"
	"github.com/gigmarket/gigmarket/internal/config"
	"github.com/gigmarket/gigmarket/internal/infra/cache"
	"github.com/gigmarket/gigmarket/internal/infra/db"
	"github.com/gigmarket/gigmarket/internal/infra/logger"
	mq "github.com/gigmarket/gigmarket/internal/infra/queue"
	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/gigmarket/gigmarket/internal/modules/service"
	"github.com/gigmarket/gigmarket/internal/router"
	"github.com/gigmarket/gigmarket/internal/telemetry"
	"github.com/gigmarket/gigmarket/internal/worker"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	Version = "0.1.0"
	appName = "gigmarket"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Freelance marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML); defaults to ./config.yaml")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the click worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPathOrEnv(configPath))
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(configPath, func(d *gorm.DB, cfg *config.Config, log *zap.Logger) error {
				if err := db.Migrate(d); err != nil {
					return err
				}
				log.Info("migrations applied")
				return nil
			})
		},
	})

	var seedFile string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Seed the category catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(configPath, func(d *gorm.DB, cfg *config.Config, log *zap.Logger) error {
				path := cfg.Catalog.SeedFile
				if seedFile != "" {
					path = seedFile
				}
				return bootstrap.EnsureDefaultCatalog(cmd.Context(), repo.NewCategoryRepo(d), path, log)
			})
		},
	}
	seed.Flags().StringVar(&seedFile, "file", "", "Catalog YAML file; the built-in catalog is used when empty")
	cmd.AddCommand(seed)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func configPathOrEnv(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("GIGMARKET_CONFIG")
}

func withDB(configPath string, fn func(*gorm.DB, *config.Config, *zap.Logger) error) error {
	cfg, err := config.LoadFile(configPathOrEnv(configPath))
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	d, err := db.New(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := d.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(d, cfg, log)
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelProviders, err := telemetry.Setup(ctx, cfg, Version)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	inj := bootstrap.BuildContainer(cfg)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	// resolve the DB first so migrations and seeding run before traffic
	do.MustInvoke[*gorm.DB](inj)

	hub := do.MustInvoke[*live.Hub](inj)
	if rn, ok := do.MustInvoke[live.Notifier](inj).(*live.RedisNotifier); ok {
		if err := rn.Start(ctx, hub); err != nil {
			return fmt.Errorf("subscribe live invalidations: %w", err)
		}
	}

	if conn := do.MustInvoke[*amqp.Connection](inj); conn != nil {
		consumer, err := mq.NewConsumer(conn,
			cfg.RabbitMQ.ExchangeName.Marketplace,
			cfg.RabbitMQ.RoutingKey.ProjectClick,
			cfg.RabbitMQ.Queue.ProjectClick,
			cfg.RabbitMQ.Prefetch,
			log, cfg)
		if err != nil {
			return fmt.Errorf("declare click queue: %w", err)
		}
		defer conn.Close()
		defer consumer.Close()
		w := worker.NewClickWorker(do.MustInvoke[service.ProjectService](inj), log)
		go func() {
			if err := w.Run(ctx, consumer); err != nil {
				log.Error("click worker stopped", zap.Error(err))
			}
		}()
	}
	if rdb := do.MustInvoke[*redis.Client](inj); rdb != nil {
		defer cache.Close(rdb)
	}

	engine := router.NewRouter(do.MustInvoke[router.RouterDeps](inj))
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", srv.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := otelProviders.Shutdown(shutdownCtx); err != nil {
		log.Warn("telemetry shutdown", zap.Error(err))
	}
	return nil
}
