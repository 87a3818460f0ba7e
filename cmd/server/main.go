package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redisv9 "github.com/redis/go-redis/v9"

	"safari_backend/internal/app/di"
	"safari_backend/internal/app/router"
	attendancemetrics "safari_backend/internal/feature/attendance/metrics"
	attendancehandler "safari_backend/internal/feature/attendance/transport/handler"
	attendanceusecase "safari_backend/internal/feature/attendance/usecase"
	biometricmetrics "safari_backend/internal/feature/biometric/metrics"
	"safari_backend/internal/platform/config"
	platformdb "safari_backend/internal/platform/db"
	"safari_backend/internal/platform/http/handler"
	"safari_backend/internal/platform/logger"
	platformredis "safari_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	closer, err := logger.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	// db
	db, err := platformdb.OpenDB(platformdb.LoadConfigFromEnv())
	if err != nil {
		return err
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable. Running without enrollment cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Usecase
	bio := di.NewBiometricSystem(cfg.Tuning, biometricmetrics.New(reg))
	attendanceUC := di.NewAttendanceUsecase(bio, db, rdb, cfg.CacheTTL,
		attendanceusecase.WithScanObserver(attendancemetrics.New(reg)))

	// Handler
	attendanceH := attendancehandler.NewAttendanceHandler(attendanceUC)
	healthH := handler.NewHealthHandler(readinessChecks(db, rdb, bio)...)

	r := router.NewRouter(attendanceH, healthH, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), cfg.MaxBodyBytes)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.ServerAddr, "engine", cfg.Tuning.Engine)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
