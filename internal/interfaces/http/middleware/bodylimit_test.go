package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	payload := `{"employee_id":"00000000-0000-0000-0000-000000000001","month":"2024-03","salary":"1500"}`
	tests := []struct {
		name    string
		limit   int64
		body    string
		chunked bool
		want    int
	}{
		{"within limit", 1024, payload, false, http.StatusOK},
		{"declared length over limit", 32, payload, false, http.StatusRequestEntityTooLarge},
		{"chunked body over limit fails on read", 32, payload, true, http.StatusBadRequest},
		{"non-positive limit disables the check", 0, strings.Repeat("x", 4096), false, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(BodyLimit(tt.limit))
			router.POST("/payrolls", func(c *gin.Context) {
				var body map[string]any
				if err := c.ShouldBindJSON(&body); err != nil && tt.limit > 0 {
					c.Status(http.StatusBadRequest)
					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/payrolls", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusRequestEntityTooLarge {
				assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
			}
		})
	}
}
