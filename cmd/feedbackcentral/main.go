// Package main provides the entry point for the feedbackcentral dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aditya3403/feedbackcentral/internal/server"
	"github.com/Aditya3403/feedbackcentral/internal/stubapi"
	"github.com/Aditya3403/feedbackcentral/pkg/api"
	"github.com/Aditya3403/feedbackcentral/pkg/config"
	"github.com/Aditya3403/feedbackcentral/pkg/guard"
	"github.com/Aditya3403/feedbackcentral/pkg/health"
	"github.com/Aditya3403/feedbackcentral/pkg/persist"
	pgpersist "github.com/Aditya3403/feedbackcentral/pkg/persist/postgres"
	"github.com/Aditya3403/feedbackcentral/pkg/session"
)

// Version is set at build time.
var Version = "dev"

// devAPIAddress is where -dev serves the in-process stub API; it matches
// the default api.base_url so a bare `feedbackcentral -dev` just works.
const devAPIAddress = "127.0.0.1:8000"

const shutdownGrace = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	address     string
	apiBaseURL  string
	devMode     bool
	showVersion bool
}

func parseFlags() options {
	opts := options{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.address, "addr", "", "Dashboard listen address (overrides config)")
	flag.StringVar(&opts.apiBaseURL, "api", "", "Remote API base URL (overrides config)")
	flag.BoolVar(&opts.devMode, "dev", false, "Serve an in-process stub API with demo accounts")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
	if opts.apiBaseURL != "" {
		cfg.API.BaseURL = opts.apiBaseURL
	}
	return cfg, cfg.Validate()
}

// noticeSink receives one-shot session notices; *server.Server satisfies it.
type noticeSink interface {
	Notify(session.Notice)
}

// forwardNotices relays session notices to a sink that is wired up after
// the store exists. A notice emitted before then is dropped instead of
// dereferencing a nil sink.
func forwardNotices(sink *noticeSink) session.NotifyFunc {
	return func(n session.Notice) {
		if s := *sink; s != nil {
			s.Notify(n)
		}
	}
}

// openDurable builds the persistence backend for the session record.
func openDurable(cfg *config.Config) (persist.Store, func(), error) {
	switch cfg.Store.Mode {
	case config.StorePostgres:
		store, err := pgpersist.Open(cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		store, err := persist.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func startDevAPI(ctx context.Context) {
	stub := stubapi.New("dev-signing-key")
	stub.Seed(api.User{FullName: "Demo Manager", Email: "manager@example.com", Company: "Demo Co", Department: "Eng"},
		"password123", "manager")
	stub.Seed(api.User{FullName: "Demo Employee", Email: "employee@example.com", Company: "Demo Co", Department: "Eng"},
		"password123", "employee")

	devServer := &http.Server{Addr: devAPIAddress, Handler: stub, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		slog.Info("dev stub API listening", "address", devAPIAddress)
		if err := devServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("dev stub API failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = devServer.Shutdown(shutdownCtx)
	}()
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("feedbackcentral version %s\n", Version)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.devMode {
		startDevAPI(ctx)
	}

	durable, closeDurable, err := openDurable(cfg)
	if err != nil {
		return fmt.Errorf("opening session storage: %w", err)
	}
	defer closeDurable()

	var sessions *session.Store
	client := api.New(cfg.API.BaseURL, api.WithTokenSource(api.TokenSourceFunc(func() string {
		return sessions.Token()
	})))

	var sink noticeSink
	sessions = session.NewStore(client, durable,
		session.WithNotify(forwardNotices(&sink)))
	checker := health.NewChecker(sessions)
	dashboard := server.New(sessions, client, checker)
	sink = dashboard

	// Load persisted identity before accepting requests, so the guard never
	// decides on unhydrated state.
	sessions.Hydrate(ctx)
	slog.Info("session hydrated",
		"authenticated", guard.Decide(true, sessions.Token()) == guard.StateAuthenticated)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           dashboard,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("dashboard listening", "address", cfg.Server.Address, "api", cfg.API.BaseURL)
		checker.SetServing()
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving dashboard: %w", err)
	case <-ctx.Done():
	}

	checker.SetDraining()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
