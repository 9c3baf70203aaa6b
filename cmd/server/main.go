package main

import (
	"context"
	"database/sql"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rankpoll/api/internal/adapters/handler/http"
	identityjwt "github.com/rankpoll/api/internal/adapters/identity/jwt"
	"github.com/rankpoll/api/internal/adapters/repository/postgres"
	"github.com/rankpoll/api/internal/config"
	"github.com/rankpoll/api/internal/core/services"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.DBConnString())
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}

	pollRepo := postgres.NewPollRepository(db)
	ballotRepo := postgres.NewBallotRepository(db)
	verifier := identityjwt.NewVerifier([]byte(cfg.JWTSecret))
	resolver := services.NewIdentityResolver(verifier)

	pollService := services.NewPollService(pollRepo)
	votingService := services.NewVotingService(pollRepo, ballotRepo, resolver)

	handler := http.NewHandler(
		http.NewPollHandler(pollService),
		http.NewBallotHandler(votingService),
		verifier,
		logger,
	)

	server := &stdhttp.Server{Addr: "0.0.0.0:" + cfg.Port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
