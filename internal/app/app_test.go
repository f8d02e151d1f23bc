package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/ingestion"
	"github.com/guttosm/stockpulse/internal/provider"
	"github.com/guttosm/stockpulse/internal/storage"
)

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	cfg := config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329, // unlikely mapped
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}
	db, err := InitPostgres(cfg)
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329,
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func withMockDB(t *testing.T, cfg config.Config) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}

	oldCfg, oldOpener := config.AppConfig, postgresOpener
	config.AppConfig = cfg
	postgresOpener = func(config.Config) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() {
		config.AppConfig = oldCfg
		postgresOpener = oldOpener
		_ = db.Close()
	})
	return mock
}

func TestInitializeApp_HappyPath(t *testing.T) {
	mock := withMockDB(t, config.Config{
		Server: config.ServerConfig{RequestTimeout: time.Second},
		Cache:  config.CacheConfig{TTL: time.Minute, Size: 10},
	})
	mock.ExpectQuery(`SELECT symbol, name, sector, market_cap FROM companies ORDER BY symbol`).
		WillReturnRows(sqlmock.NewRows([]string{"symbol", "name", "sector", "market_cap"}).
			AddRow("TCS.NS", "Tata Consultancy Services", "IT", nil))

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	defer cleanup()

	for _, path := range []string{"/healthz", "/readyz", "/"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, w.Code)
		}
	}

	// served from the store, then from the cache
	for i, want := range []string{"MISS", "HIT"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil))
		if w.Code != http.StatusOK || w.Header().Get("X-Cache") != want {
			t.Fatalf("request %d: status=%d cache=%q body=%s", i, w.Code, w.Header().Get("X-Cache"), w.Body.String())
		}
		var out []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || len(out) != 1 || out[0]["symbol"] != "TCS.NS" {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeApp_InvalidSchedule(t *testing.T) {
	mock := withMockDB(t, config.Config{Refresh: config.RefreshConfig{Schedule: "every day"}})
	mock.ExpectClose()

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		t.Fatalf("expected schedule error, got %v", err)
	}
}

func TestInitializeApp_WithScheduler(t *testing.T) {
	withMockDB(t, config.Config{Refresh: config.RefreshConfig{Schedule: "0 30 18 * * 1-5", Days: 30}})

	r, cleanup, err := InitializeApp()
	if err != nil || r == nil {
		t.Fatalf("InitializeApp: %v", err)
	}
	cleanup() // stops the scheduler without blocking
}

func TestNewCache(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.CacheConfig
		enabled bool
	}{
		{"enabled", config.CacheConfig{TTL: time.Minute, Size: 5}, true},
		{"zero ttl", config.CacheConfig{Size: 5}, false},
		{"zero size", config.CacheConfig{TTL: time.Minute}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewCache(tc.cfg); (got != nil) != tc.enabled {
				t.Fatalf("enabled: want %v got %v", tc.enabled, got != nil)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	p := NewProvider(config.ProviderConfig{RatePerMinute: 30, MaxRetries: 1})
	if _, ok := p.(*provider.YahooProvider); !ok || p.Name() != "yahoo" {
		t.Fatalf("unexpected provider %T", p)
	}
}

func TestRefreshOptions(t *testing.T) {
	opts, err := RefreshOptions(config.RefreshConfig{Days: 200, Parallel: 3, Force: true})
	if err != nil {
		t.Fatalf("RefreshOptions: %v", err)
	}
	if opts.Days != 200 || opts.Parallel != 3 || !opts.Force || len(opts.Universe) != len(ingestion.DefaultUniverse()) {
		t.Fatalf("unexpected options %+v", opts)
	}

	p := filepath.Join(t.TempDir(), "universe.yaml")
	if err := os.WriteFile(p, []byte("companies:\n  - symbol: abc.ns\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	opts, err = RefreshOptions(config.RefreshConfig{UniverseFile: p})
	if err != nil || len(opts.Universe) != 1 || opts.Universe[0].Symbol != "ABC.NS" {
		t.Fatalf("universe file not loaded: %+v %v", opts.Universe, err)
	}

	if _, err := RefreshOptions(config.RefreshConfig{UniverseFile: p + ".missing"}); err == nil {
		t.Fatal("expected error for missing universe file")
	}
}

func TestRefreshJob_PropagatesStorageErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin().WillReturnError(errors.New("db down"))

	job := RefreshJob(storage.NewStockRepository(db), NewProvider(config.ProviderConfig{}), ingestion.Options{})
	if _, err := job(context.Background()); err == nil || !strings.Contains(err.Error(), "upsert companies") {
		t.Fatalf("expected upsert companies error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
