package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(ErrorHandler(zap.New(core)))
	r.GET("/string", func(c *gin.Context) { panic("broken dataset") })
	r.GET("/error", func(c *gin.Context) { panic(errors.New("nil table")) })
	r.GET("/other", func(c *gin.Context) { panic(42) })

	cases := map[string]string{
		"/string": `{"error":{"code":"INTERNAL_ERROR","message":"broken dataset"}}`,
		"/error":  `{"error":{"code":"INTERNAL_ERROR","message":"nil table"}}`,
		"/other":  `{"error":{"code":"INTERNAL_ERROR","message":"An unexpected error occurred"}}`,
	}
	for path, want := range cases {
		w := get(r, path)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.JSONEq(t, want, w.Body.String(), path)
	}
	assert.Equal(t, 3, logs.Len())
}

func TestLoggerLevelsByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	get(r, "/ok")
	get(r, "/missing")
	get(r, "/fail")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "http", entries[0].LoggerName)
	assert.Equal(t, "/ok", entries[0].ContextMap()["route"])
	assert.EqualValues(t, 404, entries[1].ContextMap()["status"])
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
