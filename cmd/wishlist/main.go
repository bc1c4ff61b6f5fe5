package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/wishlist/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return cli.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
