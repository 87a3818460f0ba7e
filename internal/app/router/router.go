// Package router はHTTPルーティングを定義します。
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"safari_backend/internal/api"
	attendancehandler "safari_backend/internal/feature/attendance/transport/handler"
	"safari_backend/internal/platform/http/handler"
	"safari_backend/internal/platform/http/middleware"
	jwtmw "safari_backend/internal/platform/jwt"
)

// NewRouter はルーティングを構築します。/v1 配下のリクエストボディは maxBodyBytes に制限されます。
func NewRouter(attendance *attendancehandler.AttendanceHandler, health *handler.HealthHandler, metrics http.Handler, maxBodyBytes int64) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Live)
	r.HEAD("/healthz", health.Live)
	// 依存先（DB・Redis・指紋エンジン）の確認
	r.GET("/readyz", health.Ready)
	// Prometheus
	r.GET("/metrics", gin.WrapH(metrics))

	// api/openapi.yaml から生成したラッパー。パラメータの型変換を行います。
	// ロールによる制限をルート単位でかけるため RegisterHandlers は使いません。
	w := api.ServerInterfaceWrapper{
		Handler:      attendance,
		ErrorHandler: attendancehandler.WriteParamError,
	}

	// 認証必須のルート
	v1 := r.Group("/v1")
	v1.Use(jwtmw.AuthRequired(), middleware.MaxBodyBytes(maxBodyBytes))
	{
		// 指紋登録は管理者のみ
		v1.POST("/biometric/enroll", jwtmw.RequireRole(jwtmw.RoleAdmin), w.EnrollStudent)

		// バス添乗員のスキャナー端末から
		v1.POST("/attendance/checkin", w.CheckIn)
		v1.POST("/attendance/checkout", w.CheckOut)
		v1.GET("/attendance/students/:id", w.GetStudentHistory)
	}

	return r
}
