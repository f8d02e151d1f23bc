//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/guttosm/stockpulse/db/migrations"
	"github.com/guttosm/stockpulse/internal/analytics"
	"github.com/guttosm/stockpulse/internal/domain/models"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
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
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=stockpulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "stockpulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func TestRepository_Integration_TableDriven(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	ctx := context.Background()
	repo := NewStockRepository(db)

	companies := []models.Company{
		{Symbol: "TCS.NS", Name: "Tata Consultancy Services", Sector: models.StringPtr("IT")},
		{Symbol: "ITC.NS", Name: "ITC Limited", Sector: models.StringPtr("FMCG")},
	}
	if err := repo.UpsertCompanies(ctx, companies); err != nil {
		t.Fatalf("upsert companies: %v", err)
	}

	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	var raw []models.Bar
	for i, c := range []float64{100, 102, 101, 105, 103, 107, 108, 110} {
		raw = append(raw, models.Bar{Symbol: "TCS.NS", Date: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: int64(1000 + i)})
	}
	enriched, err := analytics.Enrich(raw)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if err := repo.UpsertBars(ctx, enriched); err != nil {
		t.Fatalf("upsert bars: %v", err)
	}
	// second upsert replaces instead of duplicating
	if err := repo.UpsertBars(ctx, enriched); err != nil {
		t.Fatalf("re-upsert bars: %v", err)
	}

	cases := []struct {
		name  string
		since time.Time
		want  int
	}{
		{name: "all", since: base, want: 8},
		{name: "tail", since: base.AddDate(0, 0, 5), want: 3},
		{name: "future", since: base.AddDate(1, 0, 0), want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bars, err := repo.GetBars(ctx, "TCS.NS", tc.since)
			if err != nil {
				t.Fatalf("GetBars: %v", err)
			}
			if len(bars) != tc.want {
				t.Fatalf("got %d bars, want %d", len(bars), tc.want)
			}
		})
	}

	t.Run("metrics round trip", func(t *testing.T) {
		bars, err := repo.GetBars(ctx, "TCS.NS", base)
		if err != nil {
			t.Fatalf("GetBars: %v", err)
		}
		if bars[5].MovingAvg7.Valid() || !bars[6].MovingAvg7.Valid() {
			t.Fatalf("moving average nulls not preserved")
		}
		if bars[6].MovingAvg7 != enriched[6].MovingAvg7 {
			t.Fatalf("ma7 = %v, want %v", bars[6].MovingAvg7, enriched[6].MovingAvg7)
		}
	})

	t.Run("latest bars", func(t *testing.T) {
		bars, err := repo.GetLatestBars(ctx, "TCS.NS", 2)
		if err != nil || len(bars) != 2 {
			t.Fatalf("GetLatestBars: %v %v", bars, err)
		}
		if bars[0].Close != 110 || bars[1].Close != 108 {
			t.Fatalf("want newest first, got %v then %v", bars[0].Close, bars[1].Close)
		}
	})

	t.Run("companies", func(t *testing.T) {
		got, err := repo.ListCompanies(ctx)
		if err != nil || len(got) != 2 || got[0].Symbol != "ITC.NS" {
			t.Fatalf("ListCompanies: %+v %v", got, err)
		}
	})

	t.Run("ingestion log upsert+exists", func(t *testing.T) {
		if err := repo.UpsertIngestionLog(ctx, "TCS.NS", base, "yahoo", 8); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		ok, err := repo.HasIngestionForDate(ctx, "TCS.NS", base)
		if err != nil || !ok {
			t.Fatalf("exists want true, got ok=%v err=%v", ok, err)
		}
		ok, err = repo.HasIngestionForDate(ctx, "ITC.NS", base)
		if err != nil || ok {
			t.Fatalf("exists want false, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("delete by symbol", func(t *testing.T) {
		if err := repo.DeleteBarsBySymbol(ctx, "TCS.NS"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var cnt int
		if err := db.QueryRow("SELECT COUNT(*) FROM stock_data WHERE symbol=$1", "TCS.NS").Scan(&cnt); err != nil {
			t.Fatalf("count: %v", err)
		}
		if cnt != 0 {
			t.Fatalf("expected 0 rows after delete, got %d", cnt)
		}
	})
}
