// Command enroll registers every "<student_id>.<ext>" fingerprint image in a
// directory, either directly against the database or through the HTTP API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"safari_backend/internal/app/di"
	"safari_backend/internal/feature/attendance/batch"
	"safari_backend/internal/feature/attendance/transport/client"
	biometricmetrics "safari_backend/internal/feature/biometric/metrics"
	"safari_backend/internal/platform/config"
	platformdb "safari_backend/internal/platform/db"
	infrahttp "safari_backend/internal/platform/http"
	"safari_backend/internal/platform/logger"
	"safari_backend/internal/shared/ratelimiter"
)

func main() {
	dir := flag.String("dir", "", "directory of <student_id>.<ext> fingerprint images")
	api := flag.String("api", "", "base URL of the API server; enrolls locally against the database when empty")
	token := flag.String("token", os.Getenv("ENROLL_TOKEN"), "admin bearer token for -api")
	perMinute := flag.Int("rate", 30, "maximum enrollments per minute")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout for -api")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	closer, err := logger.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		slog.Error("failed to set up logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	if *dir == "" {
		slog.Error("-dir is required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var enroller batch.Enroller
	if *api != "" {
		c := client.New(*api, *token, infrahttp.NewHTTPClient(*timeout))
		enroller = batch.EnrollerFunc(func(ctx context.Context, id uint, image string) error {
			_, err := c.EnrollStudent(ctx, id, image)
			return err
		})
	} else {
		db, err := platformdb.OpenDB(platformdb.LoadConfigFromEnv())
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		bio := di.NewBiometricSystem(cfg.Tuning, biometricmetrics.New(prometheus.NewRegistry()))
		uc := di.NewAttendanceUsecase(bio, db, nil, 0)
		enroller = batch.EnrollerFunc(func(ctx context.Context, id uint, image string) error {
			_, err := uc.EnrollStudent(ctx, id, image)
			return err
		})
	}

	sum, err := batch.Run(ctx, *dir, enroller, ratelimiter.NewRateLimiter(*perMinute, time.Minute))
	slog.Info("batch enrollment finished", "enrolled", sum.Enrolled, "failed", sum.Failed, "skipped", sum.Skipped)
	if err != nil {
		slog.Error("batch enrollment aborted", "error", err)
		os.Exit(1)
	}
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
