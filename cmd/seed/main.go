package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/wishlist/internal/cli"
	"github.com/utafrali/wishlist/internal/config"
	"github.com/utafrali/wishlist/internal/seed"
	"github.com/utafrali/wishlist/internal/store"
	"github.com/utafrali/wishlist/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "client config file (default "+config.DefaultClientConfigPath+")")
	force := flag.Bool("force", false, "seed even when the wishlist already has items")
	flag.Parse()

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		return err
	}

	log := logger.NewWithFormat("wishlist-seed", cfg.LogLevel, logger.FormatText, os.Stderr)
	slog.SetDefault(log)

	repo, err := cli.HTTPRepository(cfg, log)
	if err != nil {
		return fmt.Errorf("build api client: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	n, err := seed.Run(ctx, store.New(repo, log), *force, log)
	if errors.Is(err, seed.ErrNotEmpty) {
		fmt.Fprintln(os.Stderr, "wishlist already has items; rerun with -force to add the demo items anyway")
		return nil
	}
	if err != nil {
		return fmt.Errorf("after %d items: %w", n, err)
	}

	fmt.Printf("seeded %d items\n", n)
	return nil
}
