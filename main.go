package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/unionhall/bmm-portal/cliparse"
	"github.com/unionhall/bmm-portal/db"
	"github.com/unionhall/bmm-portal/router"
	"github.com/unionhall/bmm-portal/venue"
)

func main() {
	// Load .env if present (dev convenience; real deployments use env vars)
	_ = godotenv.Load()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	conn, err := openDatabase(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		slog.Error("failed to create schema", "error", err)
		os.Exit(1)
	}

	venues, err := venue.Default()
	if err != nil {
		slog.Error("failed to load venue config", "error", err)
		os.Exit(1)
	}

	mux, h := router.New(conn, cfg, venues)
	defer h.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting",
			"port", cfg.Port,
			"database", cfg.DatabaseType,
			"event", cfg.EventName,
			"venues", len(venues.Forums()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func openDatabase(cfg cliparse.Config) (*sql.DB, error) {
	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}

	conn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// One writer; SQLite serializes writes anyway
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
