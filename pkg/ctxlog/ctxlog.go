// Package ctxlog carries a zap Logger in a Context, so request-scoped
// fields such as a rotation run or snapshot name follow the call chain.
package ctxlog

import (
	"context"

	"go.uber.org/zap" // Logging.
)

type loggerKeyType struct{}

var (
	// loggerKey is a unique key to embed a zap.Logger in a Context.
	loggerKey = loggerKeyType{}

	// nop logger to ensure FromContext always returns something.
	nop = zap.NewNop()

	// L is an alias for FromContext.
	L = FromContext
)

// WithLogger embeds logger in the given Context. Later the logger can be
// obtained by FromContext or S.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithFields adds the given fields to the Logger embedded in ctx.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(fields...))
}

// WithName adds the given name to the Logger embedded in ctx.
func WithName(ctx context.Context, name string) context.Context {
	return WithLogger(ctx, FromContext(ctx).Named(name))
}

// FromContext either returns an embedded Logger from the context
// or a nop Logger if nothing is embedded.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return nop
}

// S returns the SugaredLogger of the Logger embedded in ctx.
func S(ctx context.Context) *zap.SugaredLogger {
	return FromContext(ctx).Sugar()
}

// Sync flushes the Logger embedded in ctx, ignoring errors
// from syncing terminals.
func Sync(ctx context.Context) {
	_ = FromContext(ctx).Sync()
}
