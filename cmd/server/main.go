// Package main initializes and starts the import service, setting up
// configuration, logging, the importer, handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/otpmigrate/internal/config"
	"github.com/atinyakov/otpmigrate/internal/logger"
	"github.com/atinyakov/otpmigrate/internal/server/handler/http"
	"github.com/atinyakov/otpmigrate/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Addr

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))
	if options.Version {
		return
	}

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	importer := service.NewImporter(zapLogger)
	importHandler := &http.ImportHandler{Importer: importer}
	router := http.NewRouter(importHandler, zapLogger)

	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown failed", zap.Error(err))
		}
	}()

	var err error
	if options.TLSCert != "" && options.TLSKey != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", addr))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", addr))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
