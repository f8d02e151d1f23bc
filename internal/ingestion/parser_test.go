package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const csvHeader = "Date,Open,High,Low,Close,Adj Close,Volume\n"

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return p
}

func TestParseFile_TableDriven(t *testing.T) {
	dir := t.TempDir()
	validRow := "2025-01-02,100.5,102,99.5,101.25,101.25,123456\n"

	cases := []struct {
		name     string
		content  string
		wantErr  string
		wantRows int
	}{
		{name: "ok single row", content: csvHeader + validRow, wantRows: 1},
		{name: "bom in header", content: "\ufeff" + csvHeader + validRow, wantRows: 1},
		{name: "header only", content: csvHeader, wantRows: 0},
		{name: "null row skipped", content: csvHeader + validRow + "2025-01-03,null,null,null,null,null,null\n", wantRows: 1},
		{name: "float volume", content: csvHeader + "2025-01-02,1,1,1,1,1,1.5e3\n", wantRows: 1},
		{name: "empty volume", content: csvHeader + "2025-01-02,1,1,1,1,1,\n", wantRows: 1},
		{name: "bad header order", content: "Date,Close,Open,High,Low,Adj Close,Volume\n", wantErr: "invalid header at col 2"},
		{name: "bad header length", content: "Date,Open\n", wantErr: "invalid header length"},
		{name: "empty file", content: "", wantErr: "read header"},
		{name: "bad col count", content: csvHeader + "2025-01-02,1,2\n", wantErr: "invalid column count on line 2"},
		{name: "invalid price", content: csvHeader + "2025-01-02,abc,1,1,1,1,1\n", wantErr: "invalid Open"},
		{name: "invalid date", content: csvHeader + "02/01/2025,1,1,1,1,1,1\n", wantErr: "invalid Date"},
		{name: "invalid volume", content: csvHeader + "2025-01-02,1,1,1,1,1,lots\n", wantErr: "invalid Volume"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, dir, "file.csv", tc.content)
			bars, err := parseFile(context.Background(), path, "TCS.NS")
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("want error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(bars) != tc.wantRows {
				t.Fatalf("rows: want %d got %d", tc.wantRows, len(bars))
			}
		})
	}
}

func TestParseFile_Values(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "INFY.csv", csvHeader+"2025-01-02,100.5,102,99.5,101.25,100.9,123456\n")
	bars, err := parseFile(context.Background(), path, "INFY.NS")
	if err != nil || len(bars) != 1 {
		t.Fatalf("parse: %v (%d bars)", err, len(bars))
	}
	b := bars[0]
	if b.Symbol != "INFY.NS" || !b.Date.Equal(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected identity %+v", b)
	}
	if b.Open != 100.5 || b.High != 102 || b.Low != 99.5 || b.Close != 101.25 || b.Volume != 123456 {
		t.Fatalf("unexpected prices %+v", b)
	}
}

func TestParseFile_ContextCanceled(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(csvHeader)
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 1000; i++ {
		sb.WriteString(day.AddDate(0, 0, i).Format(csvDateLayout) + ",1,1,1,1,1,1\n")
	}
	path := writeTempFile(t, t.TempDir(), "big.csv", sb.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := parseFile(ctx, path, "X"); err == nil {
		t.Fatalf("expected context canceled error")
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	if _, err := parseFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "X"); err == nil {
		t.Fatal("expected open error")
	}
}
