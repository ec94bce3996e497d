// Package sigctx derives contexts canceled by termination signals.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var stopSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

func NotifyContext() (context.Context, context.CancelFunc) {
	return WithParent(context.Background())
}

// WithParent is NotifyContext with a caller supplied parent.
func WithParent(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, stopSignals...)
}
