package adapters

import (
	"context"

	"gorm.io/gorm"

	"safari_backend/internal/feature/attendance/domain/entity"
	"safari_backend/internal/feature/attendance/usecase"
)

type scanLogGorm struct {
	db *gorm.DB
}

var _ usecase.ScanLogRepository = (*scanLogGorm)(nil)

func NewScanLogRepository(db *gorm.DB) *scanLogGorm {
	return &scanLogGorm{db: db}
}

func (r *scanLogGorm) Create(ctx context.Context, l *entity.ScanLog) error {
	return r.db.WithContext(ctx).Create(&ScanLogModel{
		ID:         l.ID,
		StudentID:  l.StudentID,
		BusID:      l.BusID,
		MatchScore: l.MatchScore,
		Status:     string(l.Status),
		ScanType:   string(l.Type),
		Location:   l.Location,
		ScannedAt:  l.ScannedAt,
	}).Error
}
