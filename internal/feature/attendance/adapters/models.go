package adapters

import "time"

// EnrollmentModel は指紋登録テーブルの行です。Templateはエンコード済みのテンプレートです。
type EnrollmentModel struct {
	StudentID   uint `gorm:"primaryKey;autoIncrement:false"`
	Template    []byte
	ImageDigest string `gorm:"size:64"`
	Attempts    int    `gorm:"not null;default:0"`
	IsVerified  bool   `gorm:"not null;default:false;index"`
	EnrolledAt  *time.Time
	UpdatedAt   time.Time
}

func (EnrollmentModel) TableName() string {
	return "fingerprint_enrollments"
}

// AttendanceModel は乗降記録テーブルの行です。
type AttendanceModel struct {
	ID                  uint   `gorm:"primaryKey"`
	StudentID           uint   `gorm:"not null;index:attendance_student_time,priority:1"`
	BusID               uint   `gorm:"not null;index"`
	Status              string `gorm:"size:16;not null"`
	Latitude            *float64
	Longitude           *float64
	BiometricVerified   bool      `gorm:"not null;default:false"`
	BiometricConfidence float64   `gorm:"not null;default:0"`
	RecordedAt          time.Time `gorm:"not null;index:attendance_student_time,priority:2"`
}

func (AttendanceModel) TableName() string {
	return "student_attendances"
}

// ScanLogModel はスキャン監査ログテーブルの行です。
type ScanLogModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	StudentID  *uint  `gorm:"index"`
	BusID      uint   `gorm:"not null"`
	MatchScore float64
	Status     string    `gorm:"size:16;not null"`
	ScanType   string    `gorm:"size:16;not null"`
	Location   string    `gorm:"size:100"`
	ScannedAt  time.Time `gorm:"not null;index"`
}

func (ScanLogModel) TableName() string {
	return "biometric_scan_logs"
}

// Models はマイグレーション対象のモデル一覧を返します。
func Models() []any {
	return []any{&EnrollmentModel{}, &AttendanceModel{}, &ScanLogModel{}}
}
