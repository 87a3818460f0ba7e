// Package handler はattendanceフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"safari_backend/internal/api"
	"safari_backend/internal/feature/attendance/domain"
	"safari_backend/internal/feature/attendance/domain/entity"
	"safari_backend/internal/feature/attendance/usecase"
	biodomain "safari_backend/internal/feature/biometric/domain"
)

// AttendanceUsecase は指紋登録と乗降記録のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AttendanceUsecase interface {
	EnrollStudent(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error)
	CheckIn(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error)
	CheckOut(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error)
	History(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error)
}

// AttendanceHandler は指紋登録と乗降のHTTPリクエストを処理します。
// リクエスト・レスポンスの型は api/openapi.yaml から生成された internal/api のものです。
type AttendanceHandler struct {
	uc AttendanceUsecase
}

var _ api.ServerInterface = (*AttendanceHandler)(nil)

// NewAttendanceHandler はAttendanceHandlerの新しいインスタンスを生成します。
func NewAttendanceHandler(uc AttendanceUsecase) *AttendanceHandler {
	return &AttendanceHandler{uc: uc}
}

// WriteParamError は生成されたラッパーがパスやクエリのパラメータを解釈できなかった場合に呼ばれます。
func WriteParamError(c *gin.Context, err error, status int) {
	slog.Warn("parameter binding failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	c.JSON(status, api.ErrorResponse{Error: "invalid request"})
}

// EnrollStudent は生徒の指紋を登録します（管理者のみ）。
// - バリデーションエラー時は400、ボディが上限を超える場合は413
// - 画像処理が利用できない環境では503
// - 特徴点を抽出できない等の登録失敗は422（理由付き）
// - 成功時は201
func (h *AttendanceHandler) EnrollStudent(c *gin.Context) {
	var req api.EnrollStudentJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "enroll", err)
		return
	}
	studentID := uint(req.StudentId)

	out, err := h.uc.EnrollStudent(c.Request.Context(), studentID, req.Image)
	if err != nil {
		h.writeEnrollError(c, studentID, err)
		return
	}

	c.JSON(http.StatusCreated, api.EnrollResponse{
		StudentId:     int64(out.Enrollment.StudentID),
		Success:       true,
		MinutiaeCount: len(out.Enrollment.Template.Minutiae),
		Confidence:    out.Confidence,
		EnrolledAt:    out.Enrollment.EnrolledAt.UTC(),
	})
}

// CheckIn は乗車スキャンを処理します。
//
// エンドポイント例:
// POST /v1/attendance/checkin
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	h.scan(c, "checkin", h.uc.CheckIn)
}

// CheckOut は降車スキャンを処理します。当日乗車していない場合は409を返します。
//
// エンドポイント例:
// POST /v1/attendance/checkout
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	h.scan(c, "checkout", h.uc.CheckOut)
}

// GetStudentHistory は生徒の乗降履歴を返します。
// id と limit は生成されたラッパーが型変換済みです。limit省略時はusecaseの既定値に任せます。
//
// エンドポイント例:
// GET /v1/attendance/students/:id?limit=20
func (h *AttendanceHandler) GetStudentHistory(c *gin.Context, id int64, params api.GetStudentHistoryParams) {
	if id < 1 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid student id"})
		return
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	records, err := h.uc.History(c.Request.Context(), uint(id), limit)
	if err != nil {
		slog.Error("failed to load attendance history", "student_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]api.AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, toResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AttendanceHandler) scan(c *gin.Context, action string, fn func(context.Context, usecase.ScanRequest) (*entity.Attendance, error)) {
	var req api.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, action, err)
		return
	}

	in := usecase.ScanRequest{
		BusID:     uint(req.BusId),
		Image:     req.Image,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if req.StudentId != nil {
		id := uint(*req.StudentId)
		in.StudentID = &id
	}

	a, err := fn(c.Request.Context(), in)
	if err != nil {
		status, msg := scanErrorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error(action+" failed", "bus_id", req.BusId, "error", err)
		} else {
			slog.Info(action+" rejected", "bus_id", req.BusId, "reason", msg)
		}
		c.JSON(status, api.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusCreated, toResponse(*a))
}

// writeBindError はボディの上限超過を413、それ以外を400として返します。
func writeBindError(c *gin.Context, action string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		slog.Warn(action+" body too large", "limit", tooLarge.Limit, "remote_addr", c.ClientIP())
		c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "request body too large"})
		return
	}
	slog.Warn(action+" validation failed", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
}

func (h *AttendanceHandler) writeEnrollError(c *gin.Context, studentID uint, err error) {
	switch {
	case errors.Is(err, biodomain.ErrMissingDependency):
		slog.Error("enrollment unavailable", "student_id", studentID, "error", err)
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: biodomain.ErrMissingDependency.Error()})
	case errors.Is(err, domain.ErrEnrollmentFailed):
		reason := strings.TrimPrefix(err.Error(), domain.ErrEnrollmentFailed.Error()+": ")
		slog.Warn("enrollment failed", "student_id", studentID, "reason", reason)
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: domain.ErrEnrollmentFailed.Error(), Reason: &reason})
	default:
		slog.Error("enrollment error", "student_id", studentID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// scanErrorStatus はドメインエラーをHTTPステータスに変換します。内部エラーの詳細は返しません。
func scanErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotEnrolled):
		return http.StatusNotFound, domain.ErrNotEnrolled.Error()
	case errors.Is(err, domain.ErrNotRecognized):
		return http.StatusUnauthorized, domain.ErrNotRecognized.Error()
	case errors.Is(err, domain.ErrNotBoarded):
		return http.StatusConflict, domain.ErrNotBoarded.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func toResponse(a entity.Attendance) api.AttendanceResponse {
	return api.AttendanceResponse{
		Id:                  int64(a.ID),
		StudentId:           int64(a.StudentID),
		BusId:               int64(a.BusID),
		Status:              api.AttendanceResponseStatus(a.Status),
		Latitude:            a.Latitude,
		Longitude:           a.Longitude,
		BiometricVerified:   a.BiometricVerified,
		BiometricConfidence: a.BiometricConfidence,
		Timestamp:           a.Timestamp.UTC(),
	}
}
