package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMaxBodyBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		body         string
		expectedCode int
	}{
		{name: "within limit", body: strings.Repeat("a", 16), expectedCode: http.StatusOK},
		{name: "over limit", body: strings.Repeat("a", 17), expectedCode: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/upload", MaxBodyBytes(16), func(c *gin.Context) {
				if _, err := io.ReadAll(c.Request.Body); err != nil {
					var tooLarge *http.MaxBytesError
					assert.True(t, errors.As(err, &tooLarge))
					c.Status(http.StatusRequestEntityTooLarge)
					return
				}
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(tt.body))
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
