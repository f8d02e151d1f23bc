package main

//
//  @title           stockpulse API
//  @version         1.0
//  @description     Stock market analytics over daily NSE price history.
//  @termsOfService  https://github.com/guttosm/stockpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/stockpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        stocks
//  @tag.description Per-symbol history, summary and comparison
//
//  @tag.name        market
//  @tag.description Cross-company rankings and sector averages
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/stockpulse/config"
	_ "github.com/guttosm/stockpulse/docs" // swagger docs
	"github.com/guttosm/stockpulse/internal/app"
	"github.com/guttosm/stockpulse/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections, scheduler).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// newRootCmd builds the stockpulse command tree.
//
// Commands:
//   - api:     Starts the REST API (and the refresh scheduler when REFRESH_SCHEDULE is set).
//   - refresh: Fetches recent history for the company universe from the provider.
//   - import:  Imports Yahoo Finance CSV exports from a directory.
//   - migrate: Runs database migrations (default "up").
//   - movers:  Prints top gainers, losers and sector averages from the store.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stockpulse",
		Short: "Stock market analytics service",
		Long: `stockpulse collects daily NSE price history, derives indicators
(daily return, 7-day moving average, 52-week range, volatility, RSI)
and serves them over a REST API.

Examples:
  stockpulse migrate
  stockpulse refresh --days 400
  stockpulse import --dir ./data/input
  stockpulse api --port 8080
  stockpulse movers`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load configuration from environment or .env file
			config.LoadConfig()
			logger.Configure(logger.Options{Level: config.AppConfig.Log.Level, Pretty: config.AppConfig.Log.Pretty})
		},
	}

	root.AddCommand(newAPICmd(), newRefreshCmd(), newImportCmd(), newMigrateCmd(), newMoversCmd())
	return root
}

func newAPICmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = config.AppConfig.Server.Port
			}
			logger.L().Info().Msg("starting API server")

			router, cleanup, err := app.InitializeApp()
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}

			server := startServer(router, port)
			// the shutdown grace period must outlive the signal that triggered it
			gracefulShutdown(context.WithoutCancel(cmd.Context()), server, cleanup)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port for the API server (default SERVER_PORT)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|version|redo|reset|up-to V|down-to V]",
		Short: "Run database migrations",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command = args[0]
			}
			db, err := app.InitPostgres(config.AppConfig)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return app.Migrate(cmd.Context(), db, command, args[min(1, len(args)):]...)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
