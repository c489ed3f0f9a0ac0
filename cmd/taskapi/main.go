package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskapi/internal/server"
	"taskapi/internal/storage"
	"taskapi/internal/storage/memory"
	"taskapi/internal/storage/sqlite"
	"taskapi/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TASKAPI_ADDR", ":8080"), "HTTP listen address")
	storeFlag := flag.String("store", util.EnvOrDefault("TASKAPI_STORE", "memory"), "Store backend: memory or sqlite")
	dsnFlag := flag.String("db", util.EnvOrDefault("TASKAPI_DB_DSN", sqlite.DefaultDSN), "SQLite DSN, used with -store sqlite")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var store storage.Store
	switch *storeFlag {
	case "memory":
		store = memory.NewStore()
	case "sqlite":
		st, err := sqlite.Open(*dsnFlag, logger)
		if err != nil {
			logger.Error("unable to open database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = st
	default:
		logger.Error("unknown store backend", slog.String("store", *storeFlag))
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(store, logger)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("store", *storeFlag))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
