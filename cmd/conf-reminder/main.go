package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikey/conf-reminder/internal/core"
	"github.com/mikey/conf-reminder/internal/di"
	"github.com/mikey/conf-reminder/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	state *core.State,
	storage core.Storage,
	runner ports.Runner,
	assistant core.DeadlineAssistant,
) error {
	defer logger.Sync()

	loadCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err := state.Load(loadCtx)
	cancel()
	if err != nil {
		logger.Error("Failed to load state", zap.Error(err))
		return err
	}

	// Start the scheduler
	if err := runner.Start(); err != nil {
		logger.Error("Failed to start scheduler", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the scheduler
	if err := runner.Stop(); err != nil {
		logger.Error("Failed to stop scheduler", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := state.Flush(flushCtx); err != nil {
		logger.Error("Failed to flush state", zap.Error(err))
	}

	if err := storage.Close(); err != nil {
		logger.Error("Failed to close storage", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := assistant.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM assistant", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
