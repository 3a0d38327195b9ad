package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/zsiec/tint/internal/config"
	"github.com/zsiec/tint/internal/control"
	"github.com/zsiec/tint/internal/dispatch"
	"github.com/zsiec/tint/internal/health"
	"github.com/zsiec/tint/internal/logger"
	"github.com/zsiec/tint/internal/mode"
	"github.com/zsiec/tint/internal/overlay"
	"github.com/zsiec/tint/internal/pipeline"
	"github.com/zsiec/tint/internal/server"
	"github.com/zsiec/tint/pkg/version"
)

const (
	healthCheckInterval = 30 * time.Second
	redisStartupTimeout = 5 * time.Second
)

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "configs/default.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetInfo().String())
		os.Exit(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithField("version", version.GetInfo().Short()).Info("Starting Tint filter server")
	log.WithField("config_path", configPath).Debug("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("Server error")
	}
	log.Info("Server shutdown complete")
}

// run wires every component and blocks until ctx is cancelled or the media
// pipeline stops.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	register := mode.NewRegister()
	healthMgr := health.NewManager(log)

	var redisClient *redis.Client
	var opts []control.Option
	if cfg.Redis.Enabled {
		redisClient = control.NewRedisClient(&cfg.Redis)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.WithError(err).Error("Failed to close Redis connection")
			}
		}()

		pingCtx, pingCancel := context.WithTimeout(ctx, redisStartupTimeout)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, continuing without it until it recovers")
		} else {
			log.Info("Connected to Redis successfully")
		}
		pingCancel()

		opts = append(opts, control.WithAnnouncer(control.NewRedisAnnouncer(redisClient, &cfg.Redis)))
		healthMgr.Register(health.NewRedisChecker(redisClient))
	}

	controller := control.NewController(register, log, opts...)
	controller.Announce(ctx)

	serve := func(src control.Source) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := control.Serve(ctx, src, controller); err != nil {
				log.WithError(err).WithField("transport", src.Transport()).Error("Command source stopped")
			}
		}()
	}

	if cfg.Control.Enabled {
		src, err := control.Listen(&cfg.Control, log)
		if err != nil {
			// Frames keep flowing with the current mode.
			log.WithError(err).Error("Command link disabled")
			healthMgr.Register(health.NewListenerChecker("control_tcp", nil, cfg.Control.Address()))
		} else {
			log.WithField("addr", src.Addr().String()).Info("Command server listening")
			healthMgr.Register(health.NewListenerChecker("control_tcp", src, src.Addr().String()))
			serve(src)
		}
	}

	if redisClient != nil && cfg.Redis.CommandChannel != "" {
		src, err := control.SubscribeRedis(ctx, redisClient, cfg.Redis.CommandChannel, log)
		if err != nil {
			log.WithError(err).Warn("Redis command channel disabled")
		} else {
			serve(src)
		}
	}

	if cfg.Pipeline.Enabled {
		if err := startPipeline(ctx, cancel, &wg, cfg, register, healthMgr, log); err != nil {
			log.WithError(err).Error("Media pipeline disabled")
		}
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, &wg, cfg.Metrics, log)
	}

	if cfg.Server.Enabled {
		srv := server.New(&cfg.Server, log, controller, healthMgr)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(ctx); err != nil {
				log.WithError(err).Error("HTTP server stopped")
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		healthMgr.StartPeriodicChecks(ctx, healthCheckInterval)
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	wg.Wait()
	return nil
}

func startPipeline(ctx context.Context, cancel context.CancelFunc, wg *sync.WaitGroup, cfg *config.Config, register *mode.Register, healthMgr *health.Manager, log logger.Logger) error {
	order, err := pipeline.ParseChannelOrder(cfg.Pipeline.ChannelOrder)
	if err != nil {
		return err
	}

	var stamper *overlay.Stamper
	if cfg.Pipeline.Overlay {
		stamper, err = overlay.NewStamper(overlay.NewRenderer(register))
		if err != nil {
			return fmt.Errorf("failed to create overlay: %w", err)
		}
	}

	var ps pipeline.Stamper
	if stamper != nil {
		ps = stamper
	}
	processor := pipeline.NewProcessor(dispatch.New(register, dispatch.WithChannelOrder(order)), ps, order, log)

	host, err := pipeline.NewHost(&cfg.Pipeline, processor, log)
	if err != nil {
		if stamper != nil {
			_ = stamper.Close()
		}
		return err
	}

	healthMgr.Register(health.NewFuncChecker("pipeline", func(context.Context) error {
		if processor.Frames() == 0 {
			return health.Degraded(errors.New("no frames processed yet"))
		}
		return nil
	}))

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		if stamper != nil {
			defer stamper.Close()
		}
		if err := host.Run(ctx); err != nil {
			log.WithError(err).Error("Media pipeline stopped")
		}
	}()
	return nil
}

// startMetricsServer serves Prometheus metrics until ctx is done.
func startMetricsServer(ctx context.Context, wg *sync.WaitGroup, cfg config.MetricsConfig, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.WithField("addr", srv.Addr).Info("Starting metrics server")

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server error")
		}
	}()
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
