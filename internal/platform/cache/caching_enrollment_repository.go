// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"safari_backend/internal/feature/attendance/domain/entity"
	"safari_backend/internal/feature/attendance/usecase"
)

// encMode encodes cache entries deterministically so equal enrollments produce equal bytes.
var encMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// CachingEnrollmentRepository decorates an EnrollmentRepository with Redis caching.
// Lookups by student and the verified gallery used for 1:N identification are cached;
// any write invalidates both.
type CachingEnrollmentRepository struct {
	inner     usecase.EnrollmentRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.EnrollmentRepository = (*CachingEnrollmentRepository)(nil)

// NewCachingEnrollmentRepository decorates an EnrollmentRepository with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "enrollments".
func NewCachingEnrollmentRepository(rdb *redis.Client, ttl time.Duration, inner usecase.EnrollmentRepository, namespace string) *CachingEnrollmentRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "enrollments"
	}
	return &CachingEnrollmentRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Save stores the enrollment and invalidates related cache entries.
func (c *CachingEnrollmentRepository) Save(ctx context.Context, e *entity.Enrollment) error {
	if err := c.inner.Save(ctx, e); err != nil {
		return err
	}
	c.invalidate(ctx, e.StudentID)
	return nil
}

// IncrementAttempts records a failed attempt and invalidates the student's cache entry.
func (c *CachingEnrollmentRepository) IncrementAttempts(ctx context.Context, studentID uint) error {
	if err := c.inner.IncrementAttempts(ctx, studentID); err != nil {
		return err
	}
	c.invalidate(ctx, studentID)
	return nil
}

// FindByStudentID retrieves an enrollment, checking cache first then falling back to the database.
func (c *CachingEnrollmentRepository) FindByStudentID(ctx context.Context, studentID uint) (*entity.Enrollment, error) {
	if c.rdb == nil {
		return c.inner.FindByStudentID(ctx, studentID)
	}

	key := c.studentKey(studentID)
	var cached entity.Enrollment
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	e, err := c.inner.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, e)
	return e, nil
}

// ListVerified retrieves the verified gallery, checking cache first then falling back to the database.
func (c *CachingEnrollmentRepository) ListVerified(ctx context.Context) ([]entity.Enrollment, error) {
	if c.rdb == nil {
		return c.inner.ListVerified(ctx)
	}

	key := c.verifiedKey()
	var cached []entity.Enrollment
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.ListVerified(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// get reports whether key held a decodable entry. Corrupted entries are deleted.
func (c *CachingEnrollmentRepository) get(ctx context.Context, key string, v any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := cbor.Unmarshal(b, v); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v under key (best effort).
func (c *CachingEnrollmentRepository) set(ctx context.Context, key string, v any) {
	if b, err := encMode.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate drops the student's entry and the verified gallery (best effort).
func (c *CachingEnrollmentRepository) invalidate(ctx context.Context, studentID uint) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.studentKey(studentID), c.verifiedKey()).Err()
}

func (c *CachingEnrollmentRepository) studentKey(studentID uint) string {
	return fmt.Sprintf("%s:student:%d", safe(c.namespace), studentID)
}

func (c *CachingEnrollmentRepository) verifiedKey() string {
	return safe(c.namespace) + ":verified"
}
