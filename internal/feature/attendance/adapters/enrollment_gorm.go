// Package adapters はattendanceフィーチャーのGORMリポジトリを提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"safari_backend/internal/feature/attendance/domain/entity"
	"safari_backend/internal/feature/attendance/usecase"
	bioentity "safari_backend/internal/feature/biometric/domain/entity"
)

type enrollmentGorm struct {
	db *gorm.DB
}

var _ usecase.EnrollmentRepository = (*enrollmentGorm)(nil)

func NewEnrollmentRepository(db *gorm.DB) *enrollmentGorm {
	return &enrollmentGorm{db: db}
}

func (r *enrollmentGorm) Save(ctx context.Context, e *entity.Enrollment) error {
	blob, err := e.Template.Encode()
	if err != nil {
		return err
	}
	enrolledAt := e.EnrolledAt
	m := EnrollmentModel{
		StudentID:   e.StudentID,
		Template:    blob,
		ImageDigest: e.Template.ImageDigest,
		Attempts:    e.Attempts,
		IsVerified:  e.IsVerified,
		EnrolledAt:  &enrolledAt,
	}

	// 再登録ではテンプレートを丸ごと置き換える
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"template", "image_digest", "is_verified", "enrolled_at", "updated_at"}),
	}).Create(&m).Error
}

func (r *enrollmentGorm) FindByStudentID(ctx context.Context, studentID uint) (*entity.Enrollment, error) {
	var m EnrollmentModel
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	e, err := toEnrollment(m)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentGorm) ListVerified(ctx context.Context) ([]entity.Enrollment, error) {
	var rows []EnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("is_verified = ?", true).
		Order("student_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Enrollment, 0, len(rows))
	for _, m := range rows {
		e, err := toEnrollment(m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *enrollmentGorm) IncrementAttempts(ctx context.Context, studentID uint) error {
	m := EnrollmentModel{StudentID: studentID, Attempts: 1}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"attempts":   gorm.Expr(EnrollmentModel{}.TableName() + ".attempts + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&m).Error
}

func toEnrollment(m EnrollmentModel) (entity.Enrollment, error) {
	e := entity.Enrollment{
		StudentID:  m.StudentID,
		Attempts:   m.Attempts,
		IsVerified: m.IsVerified,
	}
	if m.EnrolledAt != nil {
		e.EnrolledAt = *m.EnrolledAt
	}
	if len(m.Template) > 0 {
		tpl, err := bioentity.DecodeTemplate(m.Template)
		if err != nil {
			return entity.Enrollment{}, fmt.Errorf("student %d: %w", m.StudentID, err)
		}
		e.Template = tpl
	}
	return e, nil
}
