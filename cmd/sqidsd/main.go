package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/netutil"

	"sqids/internal/cache"
	"sqids/internal/codec"
	"sqids/internal/config"
	"sqids/internal/handler"
	"sqids/internal/metrics"
	custommiddleware "sqids/internal/middleware"
	"sqids/internal/service"
	"sqids/internal/validation"
)

const healthPath = "/api/v1/health"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(ctx, logger); err != nil {
		logger.Error("application failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	encoder, err := codec.New(&cfg.Sqids)
	if err != nil {
		return err
	}
	logger.Info("sqids encoder ready",
		slog.Int("alphabet_size", encoder.AlphabetSize()),
		slog.Int("min_length", encoder.MinLength()),
		slog.Int("blocklist_size", encoder.BlocklistSize()))

	decodeCache, err := cache.New(cfg.Cache.MaxSizePow2)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	defer decodeCache.Close()

	var pool *pgxpool.Pool
	if cfg.Metrics.Enabled {
		pool, err = pgxpool.New(ctx, cfg.Metrics.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to metrics database: %w", err)
		}
		defer pool.Close()
	}

	recorder := metrics.NewRecorder(pool, &cfg.Metrics, logger)
	recorder.Start(ctx)
	defer recorder.Close()

	if cfg.Metrics.Enabled {
		go collectInfraMetrics(ctx, recorder, pool, decodeCache)
	}

	validator := validation.NewValidator(
		cfg.Validation.MaxNumbers,
		cfg.Validation.MaxBatchSize,
		cfg.Validation.MaxIDLength,
	)

	idService := service.NewIDService(encoder, decodeCache, recorder)
	h := handler.New(idService, validator, encoder, logger, recorder)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Validation.MaxRequestBodySize))
	e.Use(custommiddleware.Metrics(recorder, healthPath))
	e.Use(custommiddleware.RateLimit(&cfg.RateLimit, logger, healthPath))

	h.Register(e)

	if cfg.Pprof.Enabled {
		prefix := custommiddleware.MountPprof(e, cfg.Pprof.Secret)
		logger.Info("pprof endpoints enabled", slog.String("path", prefix+"/*"))
	}

	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting HTTP server",
		slog.String("addr", httpAddr),
		slog.Int("max_connections", cfg.Server.MaxConnections))

	httpListener, err := listen(httpAddr, cfg.Server.MaxConnections)
	if err != nil {
		return fmt.Errorf("failed to create HTTP listener: %w", err)
	}

	httpServer := newServer(e)
	go serve(httpServer, httpListener, logger, "http")

	var httpsServer *http.Server
	if cfg.TLS.Enabled {
		httpsAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.TLS.Port)
		logger.Info("starting HTTPS server",
			slog.String("addr", httpsAddr),
			slog.Int("max_connections", cfg.Server.MaxConnections))

		httpsListener, err := listen(httpsAddr, cfg.Server.MaxConnections)
		if err != nil {
			return fmt.Errorf("failed to create HTTPS listener: %w", err)
		}

		cert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("failed to load TLS certificate: %w", err)
		}

		tlsListener := tls.NewListener(httpsListener, &tls.Config{
			MinVersion:       tls.VersionTLS13,
			Certificates:     []tls.Certificate{cert},
			CurvePreferences: []tls.CurveID{tls.X25519},
		})

		httpsServer = newServer(e)
		go serve(httpsServer, tlsListener, logger, "https")
	}

	<-ctx.Done()
	logger.Info("shutting down servers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	if httpsServer != nil {
		if err := httpsServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("https server shutdown failed: %w", err)
		}
	}

	return nil
}

func listen(addr string, maxConnections int) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if maxConnections > 0 {
		l = netutil.LimitListener(l, maxConnections)
	}
	return l, nil
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:        h,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 14, // 16KB
	}
}

func serve(srv *http.Server, l net.Listener, logger *slog.Logger, name string) {
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(name+" server error", slog.String("error", err.Error()))
	}
}

func collectInfraMetrics(ctx context.Context, recorder *metrics.Recorder, pool *pgxpool.Pool, decodeCache *cache.DecodeCache) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poolStat := pool.Stat()
			cacheHits, cacheMisses, cacheRatio := decodeCache.Stats()

			var memStats runtime.MemStats
			runtime.ReadMemStats(&memStats)

			recorder.RecordInfra(metrics.InfraMetric{
				Time:          time.Now(),
				PoolAcquired:  int(poolStat.AcquiredConns()),
				PoolIdle:      int(poolStat.IdleConns()),
				PoolTotal:     int(poolStat.TotalConns()),
				PoolMax:       int(poolStat.MaxConns()),
				CacheHits:     int64(cacheHits),
				CacheMisses:   int64(cacheMisses),
				CacheHitRatio: cacheRatio,
				Goroutines:    runtime.NumGoroutine(),
				HeapAllocMB:   float64(memStats.HeapAlloc) / 1024 / 1024,
			})
		}
	}
}
