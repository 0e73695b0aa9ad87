// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Enable returns a context that is cancelled when the process receives an
// interrupt or termination signal. The returned function releases the signal
// watcher, it should be called as soon as the guarded operation completes.
func Enable(ctx context.Context, logf func(format string, a ...interface{})) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			logf("Signal caught: %s", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
