package main

import (
	"context"

	"github.com/aretw0/iiifanno/pkg/adapters/fs"
)

// watch runs fn once, then again on every change of the local inputs until
// the context is cancelled. Failed runs are logged, not fatal.
func watch(ctx context.Context, inputs []string, fn func(ctx context.Context) error) error {
	w, err := fs.NewWatcher(inputs, logger)
	if err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		logger.Error("run failed", "error", err)
	}
	return w.Run(ctx, fn)
}
