package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"safari_backend/internal/api"
	"safari_backend/internal/feature/attendance/domain"
	"safari_backend/internal/feature/attendance/domain/entity"
	"safari_backend/internal/feature/attendance/transport/handler"
	"safari_backend/internal/feature/attendance/usecase"
	biodomain "safari_backend/internal/feature/biometric/domain"
	bioentity "safari_backend/internal/feature/biometric/domain/entity"
	"safari_backend/internal/platform/http/middleware"
)

// mockAttendanceUsecase はAttendanceUsecaseインターフェースのモック実装です。
type mockAttendanceUsecase struct {
	EnrollFunc   func(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error)
	CheckInFunc  func(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error)
	CheckOutFunc func(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error)
	HistoryFunc  func(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error)
}

func (m *mockAttendanceUsecase) EnrollStudent(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error) {
	return m.EnrollFunc(ctx, studentID, image)
}

func (m *mockAttendanceUsecase) CheckIn(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error) {
	return m.CheckInFunc(ctx, req)
}

func (m *mockAttendanceUsecase) CheckOut(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error) {
	return m.CheckOutFunc(ctx, req)
}

func (m *mockAttendanceUsecase) History(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error) {
	return m.HistoryFunc(ctx, studentID, limit)
}

var testTime = time.Date(2025, 3, 10, 7, 45, 0, 0, time.UTC)

func newRouter(uc handler.AttendanceUsecase, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	api.RegisterHandlersWithOptions(r, handler.NewAttendanceHandler(uc), api.GinServerOptions{
		ErrorHandler: handler.WriteParamError,
	})
	return r
}

func doRequest(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// TestAttendanceHandler_Enroll は登録エンドポイントのステータスコードとレスポンスを検証します。
func TestAttendanceHandler_Enroll(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		enroll         func(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{"student_id":7,"image":"aGVsbG8="}`,
			enroll: func(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error) {
				assert.Equal(t, uint(7), studentID)
				assert.Equal(t, "aGVsbG8=", image)
				return &usecase.EnrollOutput{
					Enrollment: entity.Enrollment{
						StudentID: 7,
						Template: bioentity.Template{Minutiae: []bioentity.Minutia{
							{X: 1, Y: 2, Kind: bioentity.KindEnding},
							{X: 3, Y: 4, Kind: bioentity.KindBifurcation},
						}},
						IsVerified: true,
						EnrolledAt: testTime,
					},
					Confidence: 95,
				}, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"student_id":7,"success":true,"minutiae_count":2,"confidence":95,"enrolled_at":"2025-03-10T07:45:00Z"}`,
		},
		{
			name:           "error: missing image",
			body:           `{"student_id":7}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "error: zero student id",
			body:           `{"student_id":0,"image":"aGVsbG8="}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "error: malformed json",
			body:           `{"student_id":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name: "error: processing unavailable",
			body: `{"student_id":7,"image":"aGVsbG8="}`,
			enroll: func(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error) {
				cause := fmt.Errorf("%w: engine %q is not registered", biodomain.ErrMissingDependency, "gpu")
				return nil, fmt.Errorf("%w: %w", domain.ErrEnrollmentFailed, cause)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"fingerprint processing unavailable in this environment"}`,
		},
		{
			name: "error: no minutiae",
			body: `{"student_id":7,"image":"aGVsbG8="}`,
			enroll: func(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error) {
				return nil, fmt.Errorf("%w: %w", domain.ErrEnrollmentFailed, biodomain.ErrNoMinutiae)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   fmt.Sprintf(`{"error":"fingerprint enrollment failed","reason":%q}`, biodomain.ErrNoMinutiae.Error()),
		},
		{
			name: "error: repository failure",
			body: `{"student_id":7,"image":"aGVsbG8="}`,
			enroll: func(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error) {
				return nil, errors.New("failed to save enrollment: connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockAttendanceUsecase{EnrollFunc: tt.enroll})

			w := doRequest(r, http.MethodPost, "/v1/biometric/enroll", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestAttendanceHandler_Scan は乗降エンドポイントのエラーマッピングを検証します。
func TestAttendanceHandler_Scan(t *testing.T) {
	lat, lng := 35.68, 139.76
	boarded := &entity.Attendance{
		ID: 1, StudentID: 7, BusID: 3, Status: entity.StatusBoarded,
		Latitude: &lat, Longitude: &lng,
		BiometricVerified: true, BiometricConfidence: 80, Timestamp: testTime,
	}

	tests := []struct {
		name           string
		url            string
		body           string
		result         *entity.Attendance
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "checkin success",
			url:            "/v1/attendance/checkin",
			body:           `{"student_id":7,"bus_id":3,"image":"aGVsbG8=","latitude":35.68,"longitude":139.76}`,
			result:         boarded,
			expectedStatus: http.StatusCreated,
			expectedBody: `{"id":1,"student_id":7,"bus_id":3,"status":"boarded","latitude":35.68,"longitude":139.76,
				"biometric_verified":true,"biometric_confidence":80,"timestamp":"2025-03-10T07:45:00Z"}`,
		},
		{
			name:           "checkin missing bus id",
			url:            "/v1/attendance/checkin",
			body:           `{"image":"aGVsbG8="}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "checkin not enrolled",
			url:            "/v1/attendance/checkin",
			body:           `{"student_id":7,"bus_id":3,"image":"aGVsbG8="}`,
			err:            domain.ErrNotEnrolled,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"student has no verified fingerprint enrollment"}`,
		},
		{
			name:           "checkin not recognized",
			url:            "/v1/attendance/checkin",
			body:           `{"bus_id":3,"image":"aGVsbG8="}`,
			err:            domain.ErrNotRecognized,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"fingerprint not recognized"}`,
		},
		{
			name:           "checkout not boarded",
			url:            "/v1/attendance/checkout",
			body:           `{"student_id":7,"bus_id":3,"image":"aGVsbG8="}`,
			err:            domain.ErrNotBoarded,
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"student has not boarded today"}`,
		},
		{
			name:           "checkout internal error is not leaked",
			url:            "/v1/attendance/checkout",
			body:           `{"student_id":7,"bus_id":3,"image":"aGVsbG8="}`,
			err:            errors.New("failed to record attendance: disk full"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := func(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error) {
				assert.Equal(t, uint(3), req.BusID)
				return tt.result, tt.err
			}
			r := newRouter(&mockAttendanceUsecase{CheckInFunc: fn, CheckOutFunc: fn})

			w := doRequest(r, http.MethodPost, tt.url, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestAttendanceHandler_ScanPassesOptionalFields は省略可能な項目がusecaseへ渡ることを検証します。
func TestAttendanceHandler_ScanPassesOptionalFields(t *testing.T) {
	var got usecase.ScanRequest
	uc := &mockAttendanceUsecase{CheckInFunc: func(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error) {
		got = req
		return &entity.Attendance{StudentID: 9, BusID: req.BusID, Status: entity.StatusBoarded, Timestamp: testTime}, nil
	}}

	w := doRequest(newRouter(uc), http.MethodPost, "/v1/attendance/checkin", `{"bus_id":4,"image":"abc"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, got.StudentID)
	assert.Nil(t, got.Latitude)
	assert.Equal(t, "abc", got.Image)
	assert.NotContains(t, w.Body.String(), "latitude")
}

// TestAttendanceHandler_History は履歴エンドポイントのパラメータ処理を検証します。
func TestAttendanceHandler_History(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		history        func(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success with limit",
			url:  "/v1/attendance/students/7?limit=5",
			history: func(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error) {
				assert.Equal(t, uint(7), studentID)
				assert.Equal(t, 5, limit)
				return []entity.Attendance{{ID: 2, StudentID: 7, BusID: 3, Status: entity.StatusAlighted, BiometricVerified: true, BiometricConfidence: 66, Timestamp: testTime}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"id":2,"student_id":7,"bus_id":3,"status":"alighted","biometric_verified":true,"biometric_confidence":66,"timestamp":"2025-03-10T07:45:00Z"}]`,
		},
		{
			name: "limit omitted leaves the default to the usecase",
			url:  "/v1/attendance/students/7",
			history: func(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error) {
				assert.Equal(t, 0, limit)
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "malformed limit",
			url:            "/v1/attendance/students/7?limit=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "malformed student id",
			url:            "/v1/attendance/students/abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "zero student id",
			url:            "/v1/attendance/students/0",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid student id"}`,
		},
		{
			name: "usecase error",
			url:  "/v1/attendance/students/7",
			history: func(ctx context.Context, studentID uint, limit int) ([]entity.Attendance, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockAttendanceUsecase{HistoryFunc: tt.history})

			w := doRequest(r, http.MethodGet, tt.url, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestAttendanceHandler_BodyTooLarge はボディ上限を超えたリクエストが413になることを検証します。
func TestAttendanceHandler_BodyTooLarge(t *testing.T) {
	uc := &mockAttendanceUsecase{
		EnrollFunc: func(ctx context.Context, studentID uint, image string) (*usecase.EnrollOutput, error) {
			t.Fatal("usecase should not be called")
			return nil, nil
		},
		CheckInFunc: func(ctx context.Context, req usecase.ScanRequest) (*entity.Attendance, error) {
			t.Fatal("usecase should not be called")
			return nil, nil
		},
	}
	r := newRouter(uc, middleware.MaxBodyBytes(128))
	image := strings.Repeat("A", 1024)

	tests := []struct {
		name string
		url  string
		body string
	}{
		{name: "enroll", url: "/v1/biometric/enroll", body: `{"student_id":7,"image":"` + image + `"}`},
		{name: "checkin", url: "/v1/attendance/checkin", body: `{"bus_id":3,"image":"` + image + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, tt.url, tt.body)

			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
			assert.JSONEq(t, `{"error":"request body too large"}`, w.Body.String())
		})
	}
}
