package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/components/insights/gorouter"
	"github.com/goliatone/go-insights/components/insights/httpapi"
	"github.com/goliatone/go-insights/pkg/activity"
	"github.com/goliatone/go-insights/pkg/activity/usersink"
	"github.com/goliatone/go-insights/pkg/config"
	"github.com/goliatone/go-insights/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

type serveCmd struct {
	Address string `help:"Listen address; overrides server.address."`
	Fixture string `type:"path" help:"Fixture document; overrides fixture.path."`
	Watch   bool   `help:"Reload the fixture when it changes on disk."`
}

func (cmd *serveCmd) Run(ctx context.Context, a *app) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	if cmd.Address != "" {
		cfg.Server.Address = cmd.Address
	}
	if cmd.Fixture != "" {
		cfg.Fixture.Path = cmd.Fixture
	}
	if cmd.Watch {
		cfg.Fixture.Watch = true
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	registry := prometheus.NewRegistry()
	recorders := telemetry.Multi{telemetry.NewLogger(logger)}
	if cfg.Metrics.Enabled {
		recorders = append(recorders, telemetry.NewMetrics(registry))
	}

	store, err := a.store(cfg)
	if err != nil {
		return err
	}

	broadcast := insights.NewBroadcastHook()
	audit := activity.NewEmitter(activity.Hooks{
		usersink.Hook{Sink: usersink.SinkFunc(func(_ context.Context, record types.ActivityRecord) error {
			logger.Debug("activity",
				zap.String("channel", record.Channel),
				zap.String("verb", record.Verb),
				zap.String("actor_id", record.ActorID.String()),
				zap.String("session_id", record.ObjectID),
				zap.Any("data", record.Data),
			)
			return nil
		})},
	}, activity.Config{Enabled: true})

	cache := insights.NewChartCache(cfg.Chart.CacheSize, cfg.Chart.CacheTTL)
	charts := insights.NewEChartsRenderer(
		insights.WithChartCache(cache),
		insights.WithChartTheme(cfg.Chart.Theme),
		insights.WithChartAssetsHost(cfg.Chart.AssetsHost),
	)
	service := insights.NewService(insights.Options{
		Store:                store,
		ChartHTML:            charts,
		EventHook:            insights.EventHooks{broadcast, audit},
		Telemetry:            recorders,
		TooltipYear:          cfg.Chart.TooltipYear,
		DisableTourAutoStart: !cfg.Tour.AutoStart,
	})

	codec, err := insights.NewSessionCodec([]byte(cfg.Session.HashKey))
	if err != nil {
		return err
	}
	renderer, err := insights.NewTemplateRenderer()
	if err != nil {
		return err
	}
	controller := insights.NewController(service, insights.ControllerOptions{
		Renderer: renderer,
		BasePath: cfg.Server.BasePath,
		Codec:    codec,
	})

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        httpapi.NewCommandExecutor(service, recorders),
		Broadcast:  broadcast,
		Codec:      codec,
		BasePath:   cfg.Server.BasePath,
	}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("serving dashboard",
			zap.String("address", cfg.Server.Address),
			zap.String("base_path", cfg.Server.BasePath),
		)
		return server.Serve(cfg.Server.Address)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Metrics.Enabled {
		metricsServer := &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", zap.String("address", cfg.Metrics.Address))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	if cfg.Fixture.Watch && cfg.Fixture.Path != "" {
		watcher := insights.NewFixtureWatcher(cfg.Fixture.Path,
			func(store *insights.StaticMetricsStore) {
				if err := service.ReplaceStore(gctx, store); err != nil {
					logger.Warn("fixture reload rejected", zap.Error(err))
					return
				}
				cache.Purge()
				logger.Info("fixture reloaded", zap.String("path", cfg.Fixture.Path))
			},
			func(err error) {
				logger.Warn("fixture reload failed", zap.Error(err))
			},
		)
		g.Go(func() error { return watcher.Run(gctx) })
	}

	if cfg.Session.MaxIdle > 0 {
		g.Go(func() error {
			return pruneSessions(gctx, service, cfg.Session.MaxIdle, logger)
		})
	}

	return g.Wait()
}

// pruneSessions closes idle sessions every half maxIdle, at most once a
// second, until ctx ends.
func pruneSessions(ctx context.Context, service *insights.Service, maxIdle time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(max(maxIdle/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := service.PruneIdle(ctx, maxIdle); removed > 0 {
				logger.Debug("pruned idle sessions", zap.Int("removed", removed))
			}
		}
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}
