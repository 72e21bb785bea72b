// Package es contains helpers for the olivere/elastic Elasticsearch client.
package es

import (
	"context"
	"time"

	elastic "github.com/olivere/elastic/v7" // Elasticsearch client.
	"go.uber.org/zap"                       // Logging.

	"github.com/mintel/grandfatherson/pkg/ctxlog" // Logger carried in Context.
)

// DialContextRetry returns a new Elasticsearch client that uses
// exponential backoff to retry in case of errors. Unlike elastic.DialContext,
// the initial connection to Elasticsearch is retried as well.
//
// If max <= 0, a client without retry is returned.
// Errors other than connection errors are not retried.
// Each failed attempt is logged at debug level to the Logger in ctx.
func DialContextRetry(ctx context.Context, init, max time.Duration, options ...elastic.ClientOptionFunc) (*elastic.Client, error) {
	if max <= 0 {
		return elastic.DialContext(ctx, options...)
	}
	logger := ctxlog.L(ctx)
	retrier := elastic.NewBackoffRetrier(elastic.NewExponentialBackoff(init, max))
	options = append(options, elastic.SetRetrier(retrier))
	for attempt := 0; ; attempt++ {
		c, err := elastic.DialContext(ctx, options...)
		if err == nil {
			return c, nil
		}
		if !elastic.IsConnErr(err) {
			return nil, err
		}
		wait, goahead, _ := retrier.Retry(ctx, attempt, nil, nil, err)
		if !goahead {
			return nil, err
		}
		logger.Debug("retrying connection to Elasticsearch",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}
