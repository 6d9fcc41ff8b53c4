package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.flipt.io/flagseed/pkg/config"
)

func main() {
	if err := loadEnv(".env"); err != nil {
		slog.Error("Exiting", "error", err)
		os.Exit(1)
	}

	ctx, stop := notifyContext(context.Background())

	err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("Exiting", "error", err)
		os.Exit(1)
	}
}

// notifyContext returns a context cancelled on interrupt or termination.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "flagseed",
		Usage:     "Generate feature flags with gradual rollout strategies and upload them to an Unleash instance",
		Flags:     config.Flags(),
		Writer:    stdout,
		ErrWriter: stderr,
		Action:    run,
	}
}
