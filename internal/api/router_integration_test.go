//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/app"
)

func startPG(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "stockpulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=stockpulse sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", h, mp.Port(), "stockpulse")
	terminate = func() { _ = c.Terminate(context.Background()) }
	return dsn, terminate
}

func seedForE2E(t *testing.T, db *sql.DB, today time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO companies (symbol, name, sector) VALUES
		('TCS.NS', 'Tata Consultancy Services', 'IT'),
		('ITC.NS', 'ITC Limited', 'FMCG')`)
	if err != nil {
		t.Fatalf("seed companies: %v", err)
	}
	// two sessions each: TCS +10%, ITC -5%
	rows := []struct {
		symbol  string
		daysAgo int
		close   float64
	}{
		{"TCS.NS", 2, 100}, {"TCS.NS", 1, 110},
		{"ITC.NS", 2, 200}, {"ITC.NS", 1, 190},
	}
	for _, r := range rows {
		d := today.AddDate(0, 0, -r.daysAgo)
		if _, err := db.Exec(`INSERT INTO stock_data (symbol, date, open, high, low, close, volume)
			VALUES ($1, $2, $3, $3, $3, $3, 1000)`, r.symbol, d, r.close); err != nil {
			t.Fatalf("seed %s: %v", r.symbol, err)
		}
	}
}

func TestAPI_E2E_StoredData(t *testing.T) {
	dsn, term := startPG(t)
	defer term()

	// Point application config to containerized DB; the app applies migrations.
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{
		Server:   config.ServerConfig{RequestTimeout: 10 * time.Second},
		Postgres: config.PostgresConfig{URL: dsn, AutoMigrate: true},
		Cache:    config.CacheConfig{TTL: time.Minute, Size: 10},
	}

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	seedForE2E(t, db, today)

	get := func(path string, out any) {
		t.Helper()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status %d body=%s", path, w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s: json: %v", path, err)
		}
	}

	var companies []struct {
		Symbol string `json:"symbol"`
	}
	get("/api/v1/companies", &companies)
	if len(companies) != 2 || companies[0].Symbol != "ITC.NS" {
		t.Fatalf("unexpected companies: %+v", companies)
	}

	var bars []struct {
		Date  string  `json:"date"`
		Close float64 `json:"close"`
	}
	get("/api/v1/data/tcs.ns?days=10", &bars)
	if len(bars) != 2 || bars[1].Close != 110 {
		t.Fatalf("unexpected bars: %+v", bars)
	}

	var gainers []struct {
		Symbol        string  `json:"symbol"`
		ChangePercent float64 `json:"change_percent"`
	}
	get("/api/v1/top-gainers", &gainers)
	if len(gainers) != 2 || gainers[0].Symbol != "TCS.NS" {
		t.Fatalf("unexpected gainers: %+v", gainers)
	}

	var sectors []struct {
		Sector    *string `json:"sector"`
		AvgChange float64 `json:"avg_change"`
	}
	get("/api/v1/sectors", &sectors)
	if len(sectors) != 2 {
		t.Fatalf("unexpected sectors: %+v", sectors)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}
}
