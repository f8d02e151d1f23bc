package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockpulse/internal/logger"
)

// captureLogs routes the global logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Configure(logger.Options{Level: "debug", Out: &buf})
	t.Cleanup(func() { logger.Configure(logger.Options{Level: "info"}) })
	return &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("log line is not JSON: %q", sc.Text())
		}
		out = append(out, m)
	}
	return out
}

func findLog(lines []map[string]any, msg string) map[string]any {
	for _, l := range lines {
		if l["message"] == msg {
			return l
		}
	}
	return nil
}

func TestToString(t *testing.T) {
	if s := toString(nil); s != "" {
		t.Fatalf("nil -> %q, want empty", s)
	}
	if s := toString("abc"); s != "abc" {
		t.Fatalf("string -> %q, want 'abc'", s)
	}
	if s := toString(123); s != "" {
		t.Fatalf("non-string -> %q, want empty", s)
	}
}

func TestRequestLogger_LevelAndFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		path      string
		status    int
		level     string
		errSubstr string
	}{
		{name: "ok", path: "/api/v1/companies", status: http.StatusOK, level: "info"},
		{name: "not found", path: "/api/v1/summary/NOPE.NS", status: http.StatusNotFound, level: "warn", errSubstr: "symbol NOPE.NS not found"},
		{name: "server error", path: "/api/v1/top-gainers", status: http.StatusInternalServerError, level: "error", errSubstr: "internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLogs(t)
			r := gin.New()
			r.Use(RequestID(), RequestLogger())
			r.GET("/api/v1/companies", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })
			r.GET("/api/v1/summary/:symbol", func(c *gin.Context) {
				AbortWithError(c, http.StatusNotFound, "symbol NOPE.NS not found", nil)
			})
			r.GET("/api/v1/top-gainers", func(c *gin.Context) {
				AbortWithError(c, http.StatusInternalServerError, "internal error", nil)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.status {
				t.Fatalf("status %d, want %d", w.Code, tc.status)
			}

			entry := findLog(logLines(t, buf), "http_request")
			if entry == nil {
				t.Fatalf("no http_request log in %q", buf.String())
			}
			if entry["level"] != tc.level {
				t.Fatalf("level %v, want %s", entry["level"], tc.level)
			}
			if entry["request_id"] != w.Header().Get(RequestIDHeader) || entry["request_id"] == "" {
				t.Fatalf("request_id %v, header %q", entry["request_id"], w.Header().Get(RequestIDHeader))
			}
			if entry["path"] != tc.path || entry["status"] != float64(tc.status) {
				t.Fatalf("unexpected fields %v", entry)
			}
			if tc.errSubstr != "" {
				if s, _ := entry["errors"].(string); !strings.Contains(s, tc.errSubstr) {
					t.Fatalf("errors field %q should mention %q", s, tc.errSubstr)
				}
			}
		})
	}
}

func TestRecoveryMiddleware_LogsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RequestID(), RequestLogger(), RecoveryMiddleware())
	r.GET("/api/v1/sectors", func(c *gin.Context) { panic("nil sector map") })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sectors", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", w.Code)
	}
	lines := logLines(t, buf)
	panicked := findLog(lines, "panic recovered")
	if panicked == nil {
		t.Fatalf("no panic log in %q", buf.String())
	}
	if panicked["request_id"] != "req-42" || panicked["panic"] != "nil sector map" || panicked["level"] != "error" {
		t.Fatalf("unexpected panic log %v", panicked)
	}
	if access := findLog(lines, "http_request"); access == nil || access["status"] != float64(500) {
		t.Fatalf("access log should record the 500, got %v", access)
	}
}
