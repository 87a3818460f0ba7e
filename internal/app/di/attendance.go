package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"safari_backend/internal/feature/attendance/adapters"
	"safari_backend/internal/feature/attendance/transport/handler"
	"safari_backend/internal/feature/attendance/usecase"
	"safari_backend/internal/platform/cache"
)

// NewEnrollmentRepository creates an EnrollmentRepository implementation.
// If Redis is available, the GORM repository is wrapped by the template cache.
// Otherwise, it reads the database directly.
func NewEnrollmentRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.EnrollmentRepository {
	repo := adapters.NewEnrollmentRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingEnrollmentRepository(rdb, ttl, repo, "enrollments")
}

// NewAttendanceUsecase wires the attendance usecase on top of db.
func NewAttendanceUsecase(
	bio usecase.Biometrics,
	db *gorm.DB,
	rdb *redis.Client,
	ttl time.Duration,
	opts ...usecase.Option,
) handler.AttendanceUsecase {
	return usecase.NewAttendanceUsecase(
		bio,
		NewEnrollmentRepository(db, rdb, ttl),
		adapters.NewAttendanceRepository(db),
		adapters.NewScanLogRepository(db),
		nil,
		opts...,
	)
}
