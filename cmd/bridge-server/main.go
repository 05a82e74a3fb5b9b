package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"bridge-voice-backend/internal/config"
	"bridge-voice-backend/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("bridge-server: %v", err)
	}
}

func run() error {
	var envFile, port string
	var sessionTTL time.Duration

	flagSet := pflag.NewFlagSet("bridge-server", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", "", "load environment from this file instead of .env")
	flagSet.StringVar(&port, "port", "", "listen port (overrides PORT)")
	flagSet.DurationVar(&sessionTTL, "session-ttl", 0, "evict sessions idle this long (overrides SESSION_TTL)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	var cfg config.Config
	if envFile != "" {
		cfg = config.Load(envFile)
	} else {
		cfg = config.Load()
	}
	if port != "" {
		cfg.Port = port
	}
	if flagSet.Changed("session-ttl") {
		cfg.SessionTTL = sessionTTL
	}

	s, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	s.StartSweeper(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Bridge intake server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
