package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/utafrali/wishlist/internal/config"
	"github.com/utafrali/wishlist/pkg/logger"
)

// Main parses global flags, loads the client configuration and runs one
// command. It returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wishlist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default "+config.DefaultClientConfigPath+")")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "wishlist: %v\n", err)
		return 1
	}

	log := logger.NewWithFormat("wishlist", cfg.LogLevel, logger.FormatText, stderr)
	runner := NewRunner(cfg, nil, stdout, stderr, log)

	if err := runner.Execute(ctx, fs.Args()); err != nil {
		if errors.Is(err, ErrUsage) {
			return 2
		}
		NewRenderer(stderr, cfg.Currency).Error("wishlist: " + err.Error())
		return 1
	}
	return 0
}
