// Command paramguard-demo serves a small API whose parameters and uploads
// are checked by the paramguard validators, and offers helpers for the
// built-in value formats.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/paramguard/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		slog.Error("paramguard-demo failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}
