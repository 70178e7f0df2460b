package main

import (
	"context"
	"log"
	"os"

	"StockAlert/internal/di"
	"StockAlert/pkg/config"
)

func main() {
	// Load config; the YAML file is optional
	cfg, err := config.LoadWithEnv(os.Getenv(config.PathEnv))
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// One batch; provider and dispatch problems are logged, not fatal
	if err := app.Run(context.Background()); err != nil {
		log.Printf("app error: %v", err)
	}
}
