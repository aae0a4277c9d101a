package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/fastspring-bridge/internal/app"
	"github.com/samvad-hq/fastspring-bridge/internal/config"
	"github.com/samvad-hq/fastspring-bridge/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bridge start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	log.InfoObj("bridge starting", "app_meta", map[string]any{
		"app_name": cfg.AppName,
		"app_env":  cfg.Env,
		"company":  cfg.FastSpringCompany,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bridge, err := app.NewBridge(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize bridge", "error", err)
		return err
	}

	if err := bridge.Run(ctx); err != nil {
		return fmt.Errorf("bridge run: %w", err)
	}

	return nil
}
