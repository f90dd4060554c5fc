// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"context"
	"fmt"
	"runtime"

	"github.com/absmach/mserve/pkg/content"
)

// ContentCheck fails when any of files cannot be loaded from store or is
// empty. Routes answer 500 in that state.
func ContentCheck(store content.Store, files ...string) CheckFunc {
	return func(ctx context.Context) error {
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := store.Load(f)
			if err != nil {
				return fmt.Errorf("cannot read %q: %w", f, err)
			}
			if doc == "" {
				return fmt.Errorf("%q is missing or empty", f)
			}
		}
		return nil
	}
}

// GoroutineCheck fails when the process runs more than max goroutines.
// Every open connection holds one.
func GoroutineCheck(max int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > max {
			return fmt.Errorf("%d goroutines running, limit is %d", n, max)
		}
		return nil
	}
}
