package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(logger *logrus.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.POST("/cart/items/:title", func(c *gin.Context) { c.String(http.StatusOK, "added") })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return router
}

func TestRequestID_Generated(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	w := httptest.NewRecorder()
	newRouter(logger).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	reqID := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(reqID)
	assert.NoError(t, err)
}

func TestRequestID_Propagated(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	newRouter(logger).ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestLogger_Levels(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	router := newRouter(logger)

	tests := []struct {
		method string
		path   string
		want   logrus.Level
	}{
		{http.MethodGet, "/ok", logrus.DebugLevel},
		{http.MethodPost, "/cart/items/Book", logrus.InfoLevel},
		{http.MethodGet, "/missing", logrus.WarnLevel},
		{http.MethodGet, "/boom", logrus.ErrorLevel},
	}
	for _, tt := range tests {
		hook.Reset()
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))
		require.Len(t, hook.Entries, 1, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.want, hook.LastEntry().Level, "%s %s", tt.method, tt.path)
	}
}

func TestRequestLogger_Fields(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	req := httptest.NewRequest(http.MethodPost, "/cart/items/Book?src=page", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	newRouter(logger).ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "req-42", entry.Data["request_id"])
	assert.Equal(t, "/cart/items/:title", entry.Data["route"])
	assert.Equal(t, "/cart/items/Book", entry.Data["path"])
	assert.Equal(t, "src=page", entry.Data["query"])
	assert.Equal(t, http.StatusOK, entry.Data["status_code"])
	assert.Equal(t, len("added"), entry.Data["bytes"])
}

func TestRequestLogger_UnmatchedRoute(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	newRouter(logger).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "unmatched", entry.Data["route"])
}
