package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	goose "github.com/pressly/goose/v3"

	"github.com/guttosm/stockpulse/db/migrations"
	"github.com/guttosm/stockpulse/internal/logger"
)

// Migrate runs a goose command ("up", "down", "status", "version", "redo",
// "reset", "up-to", "down-to") against the embedded SQL migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	l := logger.Component("migrate")
	l.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	l := logger.Component("migrate")
	l.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
