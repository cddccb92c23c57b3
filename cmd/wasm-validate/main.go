// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wasm-validate type-checks one or more decoded WebAssembly
// module fixtures. Each input is a JSON document matching the shape of
// wasm.Module (see cmd/wasm-validate/fixture.go); binary .wasm decoding
// is outside this validator's scope, so wasm-validate consumes the
// data model directly rather than a byte stream.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/go-interpreter/wasmtypecheck/internal/tracelog"
)

var (
	flagVerbose     bool
	flagConcurrency int
	flagConfig      string
)

func rootCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wasm-validate [flags] fixture.json [dir ...]",
		Short: "Type-check decoded WebAssembly module fixtures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(fs, flagConfig)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = flagVerbose
			}
			if cmd.Flags().Changed("concurrency") && flagConcurrency > 0 {
				cfg.Concurrency = flagConcurrency
			}
			tracelog.SetVerbose(cfg.Verbose)

			results, err := runFixtures(context.Background(), fs, args, cfg)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "trace the stack as each instruction is checked")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "number of fixtures validated concurrently (0 = config default)")
	cmd.Flags().StringVar(&flagConfig, "config", ".wasmvalidate.yaml", "path to the tuning config file")
	return cmd
}

func main() {
	if err := rootCmd(afero.NewOsFs()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
