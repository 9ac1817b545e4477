package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/persistorai/listings/internal/middleware"
)

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	expected := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Cache-Control":           "no-store",
	}

	for header, want := range expected {
		got := w.Header().Get(header)
		if got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRequestID_IgnoresClientValue(t *testing.T) {
	var seen, client string

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) {
		seen = c.GetString(middleware.RequestIDKey)
		client = c.GetString(middleware.ClientRequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "client-abc")
	r.ServeHTTP(w, req)

	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("expected UUID request id, got %q", seen)
	}
	if w.Header().Get(middleware.RequestIDHeader) != seen {
		t.Errorf("response header %q does not match context id %q", w.Header().Get(middleware.RequestIDHeader), seen)
	}
	if client != "client-abc" {
		t.Errorf("expected client id to be kept, got %q", client)
	}
}

func TestMaxBodySize_RejectsDeclaredLength(t *testing.T) {
	r := gin.New()
	r.Use(middleware.MaxBodySize(8))
	r.POST("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"name":"too long"}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "payload_too_large") {
		t.Errorf("expected payload_too_large code, got %s", w.Body.String())
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path  string
		level logrus.Level
	}{
		{"/ok", logrus.InfoLevel},
		{"/missing", logrus.WarnLevel},
		{"/boom", logrus.ErrorLevel},
	}

	for _, tc := range tests {
		hook.Reset()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))

		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("%s: expected a log entry", tc.path)
		}
		if entry.Level != tc.level {
			t.Errorf("%s: level = %v, want %v", tc.path, entry.Level, tc.level)
		}
		if entry.Data["route"] != tc.path {
			t.Errorf("%s: route = %v", tc.path, entry.Data["route"])
		}
		if _, ok := entry.Data["request_id"]; !ok {
			t.Errorf("%s: missing request_id field", tc.path)
		}
	}
}
