package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/domain/models"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockStockService{movers: []models.RankingEntry{{Symbol: "ITC.NS", ChangePercent: 1.2}}}
	r := NewRouter(NewHandler(svc, nil), config.ServerConfig{RequestTimeout: time.Second, RateLimitPerMinute: 600})

	cases := []struct {
		path string
		want int
	}{
		{path: "/", want: http.StatusOK},
		{path: "/api/v1/top-gainers", want: http.StatusOK},
		{path: "/api/v1/top-losers", want: http.StatusOK},
		{path: "/api/v1/compare", want: http.StatusBadRequest},
		{path: "/api/v1/unknown", want: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("Origin", "http://example.com")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Fatalf("expected X-Request-ID header to be set")
			}
			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("expected CORS header, got %q", w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
