// Package main initializes and starts the receiptguard HTTPS server,
// setting up configuration, logging, database connections, repositories,
// services, handlers, and TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/receiptguard/internal/config"
	"github.com/atinyakov/receiptguard/internal/db"
	"github.com/atinyakov/receiptguard/internal/hasher"
	"github.com/atinyakov/receiptguard/internal/logger"
	"github.com/atinyakov/receiptguard/internal/repository"
	"github.com/atinyakov/receiptguard/internal/server/handler/http"
	"github.com/atinyakov/receiptguard/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Trim histories left over from a larger keep setting.
	db.StartHistoryPruner(ctx, postgresDB, options.PruneInterval, options.HistoryKeep, zapLogger)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	historyRepo := repository.NewPostgresHistoryRepository(postgresDB)
	receiptRepo := repository.NewPostgresReceiptRepository(postgresDB)

	bcryptHasher, err := hasher.NewBcrypt(options.BcryptCost)
	if err != nil {
		zapLogger.Fatal("invalid bcrypt cost", zap.Error(err))
	}

	// Initialize business-logic services.
	historyService := service.NewHistoryService(historyRepo)
	passwordService := service.NewPasswordService(userRepo, historyService, bcryptHasher, options.HistoryKeep)
	receiptService := service.NewReceiptService(receiptRepo)

	// Create HTTP handlers.
	receiptHandler := &http.ReceiptHandler{
		ReceiptService: receiptService,
		MaxUploadBytes: options.MaxUploadBytes,
		Logger:         zapLogger,
	}
	passwordHandler := &http.PasswordHandler{
		PasswordService: passwordService,
		Logger:          zapLogger,
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(receiptHandler, passwordHandler, zapLogger)

	tlsConfig, err := loadTLSConfig(options.TLSCert, options.TLSKey, options.TLSCA)
	if err != nil {
		zapLogger.Fatal("failed to load TLS material", zap.Error(err))
	}

	// Create and start the HTTPS server.
	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTPS server",
		zap.String("addr", options.Port),
		zap.Int("history_keep", options.HistoryKeep),
	)
	if err := server.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTPS server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}

// loadTLSConfig loads the server key pair and the CA that signs client
// certificates. Client certificates are verified when presented; the
// CertAuth middleware rejects API requests without one.
func loadTLSConfig(certFile, keyFile, caFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load server cert/key: %w", err)
	}

	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read CA cert: %w", err)
	}
	caCertPool := x509.NewCertPool()
	if ok := caCertPool.AppendCertsFromPEM(caCert); !ok {
		return nil, errors.New("append CA cert to pool")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.VerifyClientCertIfGiven,
		ClientCAs:    caCertPool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
