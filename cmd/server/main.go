// Package main - Entry point for the genquote pricing server
package main

import (
	"flag"
	"fmt"
	"os"

	"genquote/api"
	"genquote/core/engine"
	"genquote/internal/config"
	"genquote/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	orchestrator, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building engine: %v\n", err)
		os.Exit(1)
	}

	// A drifted lookup table must never serve quotes.
	if err := orchestrator.SelfTest(); err != nil {
		fmt.Fprintf(os.Stderr, "Parity self test failed: %v\n", err)
		os.Exit(1)
	}

	server := api.NewServer(orchestrator, cfg)
	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		os.Exit(1)
	}
}
