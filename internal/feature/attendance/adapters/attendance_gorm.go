package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"safari_backend/internal/feature/attendance/domain/entity"
	"safari_backend/internal/feature/attendance/usecase"
)

type attendanceGorm struct {
	db *gorm.DB
}

var _ usecase.AttendanceRepository = (*attendanceGorm)(nil)

func NewAttendanceRepository(db *gorm.DB) *attendanceGorm {
	return &attendanceGorm{db: db}
}

func (r *attendanceGorm) Create(ctx context.Context, a *entity.Attendance) error {
	m := AttendanceModel{
		StudentID:           a.StudentID,
		BusID:               a.BusID,
		Status:              string(a.Status),
		Latitude:            a.Latitude,
		Longitude:           a.Longitude,
		BiometricVerified:   a.BiometricVerified,
		BiometricConfidence: a.BiometricConfidence,
		RecordedAt:          a.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	return nil
}

func (r *attendanceGorm) LatestSince(ctx context.Context, studentID uint, since time.Time) (*entity.Attendance, error) {
	var m AttendanceModel
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND recorded_at >= ?", studentID, since).
		Order("recorded_at DESC").
		Order("id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrAttendanceNotFound
	}
	if err != nil {
		return nil, err
	}
	a := toAttendance(m)
	return &a, nil
}

func (r *attendanceGorm) ListByStudent(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error) {
	var rows []AttendanceModel
	q := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("recorded_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Attendance, 0, len(rows))
	for _, m := range rows {
		out = append(out, toAttendance(m))
	}
	return out, nil
}

func toAttendance(m AttendanceModel) entity.Attendance {
	return entity.Attendance{
		ID:                  m.ID,
		StudentID:           m.StudentID,
		BusID:               m.BusID,
		Status:              entity.Status(m.Status),
		Latitude:            m.Latitude,
		Longitude:           m.Longitude,
		BiometricVerified:   m.BiometricVerified,
		BiometricConfidence: m.BiometricConfidence,
		Timestamp:           m.RecordedAt,
	}
}
