package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findRequestLog(t *testing.T, observed *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range observed.All() {
		if entry.Message == "HTTP Request" {
			return entry
		}
	}
	t.Fatal("no request log entry found")
	return observer.LoggedEntry{}
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{name: "2xx logged at info", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "4xx logged at warn", status: http.StatusBadRequest, wantLevel: zapcore.WarnLevel},
		{name: "5xx logged at error", status: http.StatusBadGateway, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zapcore.DebugLevel)

			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/probe", func(c *gin.Context) {
				c.JSON(tt.status, gin.H{})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
			router.ServeHTTP(w, req)

			entry := findRequestLog(t, observed)
			assert.Equal(t, tt.wantLevel, entry.Level)
		})
	}
}

func TestGinMiddlewareFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, observed := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-abc")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.POST("/batches", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/batches?page=2", nil)
	req.Header.Set("User-Agent", "imaps-test/1.0")
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, observed)
	fields := entry.ContextMap()

	assert.Equal(t, "req-abc", fields["request_id"])
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/batches", fields["path"])
	assert.Equal(t, "page=2", fields["query"])
	assert.Equal(t, "imaps-test/1.0", fields["user_agent"])
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, observed := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("allocation gone wrong")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := observed.All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "Panic recovered", entries[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns request-scoped logger", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)

		var retrieved *zap.Logger
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/probe", func(c *gin.Context) {
			retrieved = GetGinLogger(c)
			c.JSON(http.StatusOK, gin.H{})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		router.ServeHTTP(w, req)

		assert.NotNil(t, retrieved)
	})

	t.Run("falls back to nop without middleware", func(t *testing.T) {
		var retrieved *zap.Logger
		router := gin.New()
		router.GET("/probe", func(c *gin.Context) {
			retrieved = GetGinLogger(c)
			c.JSON(http.StatusOK, gin.H{})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		router.ServeHTTP(w, req)

		require.NotNil(t, retrieved)
		assert.NotPanics(t, func() { retrieved.Info("noop") })
	})
}
