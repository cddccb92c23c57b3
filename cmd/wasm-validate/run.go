// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/go-interpreter/wasmtypecheck/internal/tracelog"
	"github.com/go-interpreter/wasmtypecheck/validate"
)

type result struct {
	name          string
	err           error
	crossCheckErr error
}

// runFixtures validates every fixture named (directly or via a
// directory) by paths, bounding how many run at once via
// cfg.Concurrency (spec's validator is "trivially parallelizable by
// the caller, since no state is shared across module validations").
func runFixtures(ctx context.Context, fs afero.Fs, paths []string, cfg config) ([]result, error) {
	files, err := discoverFixtures(fs, paths)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	var (
		mu      sync.Mutex
		results []result
	)
	for _, path := range files {
		path := path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			fx, err := loadFixture(fs, path)
			if err != nil {
				return err
			}

			r := result{name: baseName(path)}
			r.err = validate.Validate(&fx.Module)
			if len(fx.Wasm) > 0 {
				r.crossCheckErr = wazeroCrossCheck(ctx, fx.Wasm)
			}
			tracelog.Printf("validated %s: err=%v", path, r.err)

			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].name < results[j].name })
	return results, nil
}

// report prints one line per fixture and returns an error if any
// fixture failed, so the process exit code reflects the outcome.
func report(w io.Writer, results []result) error {
	failed := 0
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", r.name, r.err)
		case r.crossCheckErr != nil:
			fmt.Fprintf(w, "ok   %s (wazero cross-check: %v)\n", r.name, r.crossCheckErr)
		default:
			fmt.Fprintf(w, "ok   %s\n", r.name)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d fixture(s) failed validation", failed)
	}
	return nil
}
