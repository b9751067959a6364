// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"taskdeck/internal/backend/todoapi"
	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The startup token is applied once, before the first command touches the session.
	var bootstrap sync.Once
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		client, err := todoapi.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		bootstrap.Do(func() {
			token, ok := config.InitialToken(cfg.EnvFile)
			if err := client.Bootstrap(token, ok); err != nil {
				cfg.Logger.Warn("failed to apply startup token", "err", err)
			}
		})
		return client, nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	dispatcher.SetInput(os.Stdin)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
