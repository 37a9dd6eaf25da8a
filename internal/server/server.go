// Package server assembles the full service: storage, snapshot store,
// simulation engine, tracker, tick driver, and HTTP surface.
package server

import (
	"context"
	"log/slog"
	"net/http"

	appgames "github.com/courtwire/nba-sim-service/internal/app/games"
	appplayers "github.com/courtwire/nba-sim-service/internal/app/players"
	appteams "github.com/courtwire/nba-sim-service/internal/app/teams"
	"github.com/courtwire/nba-sim-service/internal/config"
	"github.com/courtwire/nba-sim-service/internal/driver"
	httpserver "github.com/courtwire/nba-sim-service/internal/http"
	"github.com/courtwire/nba-sim-service/internal/http/handlers"
	"github.com/courtwire/nba-sim-service/internal/metrics"
	"github.com/courtwire/nba-sim-service/internal/schedule"
	"github.com/courtwire/nba-sim-service/internal/sim"
	"github.com/courtwire/nba-sim-service/internal/standings"
	"github.com/courtwire/nba-sim-service/internal/tracker"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	tracker       *tracker.Tracker
	driver        *driver.Driver
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	closers       []func()
}

// New wires every component from configuration. It fails fast when a
// configured backend is unreachable.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	store, closeStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	snaps, closeSnaps, err := buildSnapshots(cfg)
	if err != nil {
		closeStore()
		return nil, err
	}

	sampler := buildSampler(cfg)
	engine := sim.NewEngine(store, sampler, logger, recorder)
	updater := standings.NewUpdater(store, logger)
	trk := tracker.New(store, engine, snaps, updater, logger, recorder)
	drv := driver.New(trk, logger, recorder, cfg.TickInterval)
	scheduler := schedule.NewScheduler(store, sampler, logger)

	handler := handlers.NewHandler(
		appgames.NewService(store),
		appteams.NewService(store),
		appplayers.NewService(store),
		engine,
		trk,
		scheduler,
		logger,
		drv.Status,
	)
	router := httpserver.NewRouter(handler, logger, recorder, nil)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		tracker:       trk,
		driver:        drv,
		httpServer:    netHTTPServer{srv: srv},
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		closers:       []func(){closeSnaps, closeStore},
	}, nil
}

// Run starts the tick driver and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.driver.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.driver.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop tick driver", "error", err)
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	for _, closeFn := range s.closers {
		closeFn()
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Tracker exposes the tracker (useful for tests and the CLI).
func (s *Server) Tracker() *tracker.Tracker {
	return s.tracker
}
