package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap" // Logging.

	"github.com/mintel/grandfatherson/pkg/ctxlog" // Logger carried in Context.
)

// WithInterrupt returns a Context that will be canceled if a SIGINT or SIGTERM is received.
// The signal is logged to the Logger embedded in ctx.
func WithInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return withSignals(ctx, os.Interrupt, syscall.SIGTERM)
}

func withSignals(ctx context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctxWithCancel, cancel := context.WithCancel(ctx)
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, sigs...)
	go func() {
		defer cancel()
		defer signal.Stop(signalCh)
		select {
		case s := <-signalCh:
			ctxlog.L(ctx).Info("received signal, shutting down", zap.Stringer("signal", s))
		case <-ctxWithCancel.Done():
		}
	}()
	return ctxWithCancel, cancel
}
