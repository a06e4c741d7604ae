// Package main is the entry point for the Project Gateway HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xn-coder/Project-Gateway/internal/app"
	"github.com/xn-coder/Project-Gateway/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logFile, err := config.InitLogging(cfg.LogFile)
	if err != nil {
		log.Fatalf("init logging: %v", err)
	}
	defer logFile.Close()

	// Cancelled on SIGINT/SIGTERM; the server then shuts down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init app: %v", err)
	}
	defer a.Close()

	if err := a.Server().Run(ctx); err != nil {
		log.Printf("server stopped: %v", err)
		a.Close()
		os.Exit(1)
	}
}
