package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/picogrid/robot-arena/pkg/logger"
)

// interruptContext returns a context that is cancelled on SIGINT or SIGTERM.
// The caller must call cancel to release the signal handler.
func interruptContext(what string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			logger.Warnf("\nReceived interrupt signal, stopping %s...", what)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
