package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naveenspark/eventdesk/internal/config"
	"github.com/naveenspark/eventdesk/internal/devserver"
	"github.com/naveenspark/eventdesk/internal/lib/logger"
	"github.com/naveenspark/eventdesk/internal/lib/logger/sl"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo123"
)

func main() {
	cfg := config.MustLoad()

	log := logger.New(cfg.Env, os.Stdout)

	log.Info("starting eventdesk devserver", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	store := devserver.NewStore()
	token, err := store.CreateUser("Demo User", demoEmail, demoPassword)
	if err != nil {
		log.Error("failed to create demo user", sl.Err(err))
		os.Exit(1)
	}
	demoID, _ := store.UserForToken(token)
	store.Seed(cfg.DevServer.Seed, demoID, time.Now())
	log.Info("seeded store",
		slog.Int("events", cfg.DevServer.Seed),
		slog.String("login", demoEmail),
		slog.String("password", demoPassword),
	)

	srv := &http.Server{
		Addr:         cfg.DevServer.Address,
		Handler:      devserver.New(log, store),
		ReadTimeout:  cfg.DevServer.Timeout,
		WriteTimeout: cfg.DevServer.Timeout,
		IdleTimeout:  cfg.DevServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Info("starting server", slog.String("address", cfg.DevServer.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("devserver stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("devserver stopped")
}
