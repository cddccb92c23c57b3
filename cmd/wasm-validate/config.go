// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// config is the optional .wasmvalidate.yaml tuning file. Its values are
// defaults: any flag the user actually sets on the command line wins.
type config struct {
	Verbose     bool `yaml:"verbose"`
	Concurrency int  `yaml:"concurrency"`
}

func defaultConfig() config {
	return config{Concurrency: 4}
}

// loadConfig reads path if it exists and merges it onto the defaults.
// A missing file is not an error: the defaults apply as-is.
func loadConfig(fs afero.Fs, path string) (config, error) {
	cfg := defaultConfig()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConfig().Concurrency
	}
	return cfg, nil
}
