// Package middleware はルーター共通のginミドルウェアを提供します。
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes はリクエストボディをnバイトに制限します。
// 超過分を読み込もうとすると *http.MaxBytesError が返り、ハンドラー側で413に変換されます。
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
