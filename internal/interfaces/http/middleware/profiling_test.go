package middleware

import (
	"net/http"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/payrolls":                   "payrolls",
		"/api/v1/group-payrolls/:id/approval": "group-payrolls",
		"/api/V2/accounts/:id":               "accounts",
		"/api/v1/:id":                        "",
		"":                                   "",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}

func TestProfilingWithConfig_SetsLabels(t *testing.T) {
	r := gin.New()
	r.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	var got map[string]string
	r.GET("/api/v1/vouchers/:id", func(c *gin.Context) {
		got = map[string]string{}
		pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
			got[k] = v
			return true
		})
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) {
		_, ok := pprof.Label(c.Request.Context(), "route")
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/api/v1/vouchers/42", nil)
	assert.Equal(t, "GET", got["method"])
	assert.Equal(t, "/api/v1/vouchers/:id", got["route"])
	assert.Equal(t, "vouchers", got["controller"])

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", nil).Code)
}
