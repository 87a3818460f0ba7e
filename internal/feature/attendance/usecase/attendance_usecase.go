// Package usecase はattendanceフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"safari_backend/internal/feature/attendance/domain"
	"safari_backend/internal/feature/attendance/domain/entity"
	bioentity "safari_backend/internal/feature/biometric/domain/entity"
)

const (
	// defaultHistoryLimit は履歴取得件数の既定値です。
	defaultHistoryLimit = 50
	// maxHistoryLimit は履歴取得件数の上限です。
	maxHistoryLimit = 100
)

// ScanRequest はバス車内の指紋スキャナーからの乗降リクエストです。
type ScanRequest struct {
	// StudentID が指定された場合は1:1照合、nilの場合は登録済み全員との1:N識別を行います。
	StudentID *uint
	BusID     uint
	Image     string
	Latitude  *float64
	Longitude *float64
}

// EnrollOutput は登録成功時の結果です。
type EnrollOutput struct {
	Enrollment entity.Enrollment
	Confidence float64
}

// ScanObserver はスキャン結果の集計先です（メトリクス等）。
type ScanObserver interface {
	ObserveScan(scanType, status string)
}

type nopObserver struct{}

func (nopObserver) ObserveScan(string, string) {}

// Option はattendanceUsecaseの任意設定です。
type Option func(*attendanceUsecase)

// WithScanObserver はスキャン結果の集計先を設定します。
func WithScanObserver(o ScanObserver) Option {
	return func(u *attendanceUsecase) {
		if o != nil {
			u.observer = o
		}
	}
}

// attendanceUsecase は指紋登録と乗降記録のビジネスロジックを実装します。
type attendanceUsecase struct {
	bio         Biometrics
	enrollments EnrollmentRepository
	records     AttendanceRepository
	scans       ScanLogRepository
	now         func() time.Time
	observer    ScanObserver
}

// NewAttendanceUsecase はattendanceUsecaseの新しいインスタンスを生成します。
// nowがnilの場合はtime.Nowを使用します。「今日」の境界はnowが返す時刻のロケーションで決まります。
func NewAttendanceUsecase(
	bio Biometrics,
	enrollments EnrollmentRepository,
	records AttendanceRepository,
	scans ScanLogRepository,
	now func() time.Time,
	opts ...Option,
) *attendanceUsecase {
	if now == nil {
		now = time.Now
	}
	u := &attendanceUsecase{
		bio:         bio,
		enrollments: enrollments,
		records:     records,
		scans:       scans,
		now:         now,
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// EnrollStudent は指紋画像からテンプレートを抽出し、生徒の登録として保存します。
// 抽出に失敗した場合は試行回数を加算し、domain.ErrEnrollmentFailed と原因を返します。
func (u *attendanceUsecase) EnrollStudent(ctx context.Context, studentID uint, image string) (*EnrollOutput, error) {
	res := u.bio.Enroll(image, strconv.FormatUint(uint64(studentID), 10))
	if !res.Success {
		if err := u.enrollments.IncrementAttempts(ctx, studentID); err != nil {
			slog.Warn("failed to record enrollment attempt", "student_id", studentID, "error", err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEnrollmentFailed, res.Err)
	}

	e := &entity.Enrollment{
		StudentID:  studentID,
		Template:   res.Template,
		IsVerified: true,
		EnrolledAt: u.now(),
	}
	if err := u.enrollments.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save enrollment: %w", err)
	}

	slog.Info("fingerprint enrolled", "student_id", studentID, "minutiae", len(res.Template.Minutiae))
	return &EnrollOutput{Enrollment: *e, Confidence: res.Confidence}, nil
}

// CheckIn は指紋を照合し、乗車記録を作成します。
func (u *attendanceUsecase) CheckIn(ctx context.Context, req ScanRequest) (*entity.Attendance, error) {
	studentID, confidence, err := u.recognize(ctx, req, entity.ScanCheckIn)
	if err != nil {
		return nil, err
	}
	return u.record(ctx, req, studentID, confidence, entity.StatusBoarded)
}

// CheckOut は指紋を照合し、降車記録を作成します。
// 当日の最新記録が乗車でない場合は domain.ErrNotBoarded を返します。
func (u *attendanceUsecase) CheckOut(ctx context.Context, req ScanRequest) (*entity.Attendance, error) {
	studentID, confidence, err := u.recognize(ctx, req, entity.ScanCheckOut)
	if err != nil {
		return nil, err
	}

	latest, err := u.records.LatestSince(ctx, studentID, startOfDay(u.now()))
	if errors.Is(err, ErrAttendanceNotFound) {
		return nil, domain.ErrNotBoarded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if latest.Status != entity.StatusBoarded {
		return nil, domain.ErrNotBoarded
	}

	return u.record(ctx, req, studentID, confidence, entity.StatusAlighted)
}

// History は生徒の乗降記録を新しい順に返します。
func (u *attendanceUsecase) History(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return u.records.ListByStudent(ctx, studentID, limit)
}

// recognize はリクエストの指紋から生徒を特定し、スキャンログを残します。
func (u *attendanceUsecase) recognize(ctx context.Context, req ScanRequest, typ entity.ScanType) (uint, float64, error) {
	if req.StudentID != nil {
		return u.verifyOne(ctx, req, *req.StudentID, typ)
	}
	return u.identify(ctx, req, typ)
}

func (u *attendanceUsecase) verifyOne(ctx context.Context, req ScanRequest, studentID uint, typ entity.ScanType) (uint, float64, error) {
	enr, err := u.enrollments.FindByStudentID(ctx, studentID)
	if errors.Is(err, ErrEnrollmentNotFound) || (err == nil && !enr.IsVerified) {
		return 0, 0, domain.ErrNotEnrolled
	}
	if err != nil {
		u.logScan(ctx, req, &studentID, 0, entity.ScanError, typ)
		return 0, 0, fmt.Errorf("failed to load enrollment: %w", err)
	}

	ok, confidence := u.bio.Verify(req.Image, enr.Template)
	if !ok {
		u.logScan(ctx, req, &studentID, confidence, entity.ScanNoMatch, typ)
		return 0, 0, domain.ErrNotRecognized
	}
	u.logScan(ctx, req, &studentID, confidence, entity.ScanMatch, typ)
	return studentID, confidence, nil
}

func (u *attendanceUsecase) identify(ctx context.Context, req ScanRequest, typ entity.ScanType) (uint, float64, error) {
	enrollments, err := u.enrollments.ListVerified(ctx)
	if err != nil {
		u.logScan(ctx, req, nil, 0, entity.ScanError, typ)
		return 0, 0, fmt.Errorf("failed to load enrollments: %w", err)
	}

	gallery := make([]bioentity.Template, len(enrollments))
	for i, e := range enrollments {
		gallery[i] = e.Template
	}

	idx, res := u.bio.Identify(req.Image, gallery)
	if idx < 0 {
		u.logScan(ctx, req, nil, res.Confidence, entity.ScanNoMatch, typ)
		return 0, 0, domain.ErrNotRecognized
	}

	studentID := enrollments[idx].StudentID
	u.logScan(ctx, req, &studentID, res.Confidence, entity.ScanMatch, typ)
	return studentID, res.Confidence, nil
}

func (u *attendanceUsecase) record(ctx context.Context, req ScanRequest, studentID uint, confidence float64, status entity.Status) (*entity.Attendance, error) {
	a := &entity.Attendance{
		StudentID:           studentID,
		BusID:               req.BusID,
		Status:              status,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		BiometricVerified:   true,
		BiometricConfidence: confidence,
		Timestamp:           u.now(),
	}
	if err := u.records.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}
	slog.Info("attendance recorded", "student_id", studentID, "bus_id", req.BusID, "status", status, "confidence", confidence)
	return a, nil
}

// logScan はスキャンログを書き込みます。失敗しても乗降処理は止めません。
func (u *attendanceUsecase) logScan(ctx context.Context, req ScanRequest, studentID *uint, score float64, status entity.ScanStatus, typ entity.ScanType) {
	u.observer.ObserveScan(string(typ), string(status))

	l := &entity.ScanLog{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		BusID:      req.BusID,
		MatchScore: score,
		Status:     status,
		Type:       typ,
		Location:   fmt.Sprintf("Bus %d", req.BusID),
		ScannedAt:  u.now(),
	}
	if err := u.scans.Create(ctx, l); err != nil {
		slog.Warn("failed to write scan log", "bus_id", req.BusID, "status", status, "error", err)
	}
}

// startOfDay はtと同じロケーションでの当日0時を返します。
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
