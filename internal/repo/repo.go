// Package repo implements the dual-store repositories: every read tries the
// remote backend first and falls back to the local store, every successful
// remote read refreshes the local mirror, and every write goes to the remote
// backend with the local store as the fallback target. The
// try-remote-then-fallback dance lives here once instead of once per entity
// function.
package repo

import (
	"context"
	"time"

	"pos-service/internal/broker"

	"go.uber.org/zap"
)

const defaultCallTimeout = 3 * time.Second

// callRemote runs op against the remote backend with an explicit timeout
// and a single retry. A failed call is not retried beyond that; the caller
// falls back to the local store.
func callRemote(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	attempt := func() error {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return op(cctx)
	}

	err := attempt()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	return attempt()
}

// notify announces a table change on the invalidation channel. Channel
// failures are diagnostics only; they never bubble up.
func notify(ctx context.Context, notifier broker.Notifier, logger *zap.Logger, table string) {
	if notifier == nil {
		return
	}
	if err := notifier.NotifyTableChanged(ctx, table); err != nil {
		logger.Warn("Failed to publish change notification",
			zap.String("table", table),
			zap.Error(err))
	}
}
