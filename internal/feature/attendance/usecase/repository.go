package usecase

import (
	"context"
	"time"

	"safari_backend/internal/feature/attendance/domain/entity"
	bioentity "safari_backend/internal/feature/biometric/domain/entity"
)

// Biometrics は指紋の登録・照合を行う窓口です。
// Goの慣例に従い、インターフェースはプロバイダー（biometric）ではなくコンシューマー（usecase）が定義します。
type Biometrics interface {
	Enroll(image, label string) bioentity.EnrollResult
	Verify(image string, stored bioentity.Template) (bool, float64)
	Identify(image string, gallery []bioentity.Template) (int, bioentity.MatchResult)
}

// EnrollmentRepository は指紋登録の永続化層を抽象化します。
type EnrollmentRepository interface {
	// Save はテンプレートを丸ごと置き換えて保存します。登録がなければ作成します。
	Save(ctx context.Context, e *entity.Enrollment) error

	// FindByStudentID は生徒の登録を取得します。存在しない場合は ErrEnrollmentNotFound を返します。
	FindByStudentID(ctx context.Context, studentID uint) (*entity.Enrollment, error)

	// ListVerified は照合に使用できる登録をすべて返します。
	ListVerified(ctx context.Context) ([]entity.Enrollment, error)

	// IncrementAttempts は失敗した登録の試行回数を1増やします。
	IncrementAttempts(ctx context.Context, studentID uint) error
}

// AttendanceRepository は乗降記録の永続化層を抽象化します。
type AttendanceRepository interface {
	Create(ctx context.Context, a *entity.Attendance) error

	// LatestSince はsince以降で最新の記録を返します。存在しない場合は ErrAttendanceNotFound を返します。
	LatestSince(ctx context.Context, studentID uint, since time.Time) (*entity.Attendance, error)

	// ListByStudent は新しい順に最大limit件を返します。
	ListByStudent(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error)
}

// ScanLogRepository はスキャン監査ログの永続化層を抽象化します。
type ScanLogRepository interface {
	Create(ctx context.Context, l *entity.ScanLog) error
}
