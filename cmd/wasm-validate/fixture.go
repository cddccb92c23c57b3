// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/go-interpreter/wasmtypecheck/wasm"
)

// fixture is the on-disk JSON shape wasm-validate consumes: the decoded
// module data model the validator operates on, plus optional raw wasm
// bytes used only by the wazerocheck cross-check build.
type fixture struct {
	Module wasm.Module `json:"module"`
	Wasm   []byte      `json:"wasm,omitempty"`
}

// discoverFixtures expands paths (files or directories) into the list
// of *.json / *.json.zst fixture files they name, recursing into
// directories the way a build tool's input-globbing usually does.
func discoverFixtures(fs afero.Fs, paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := fs.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = afero.Walk(fs, p, func(walked string, fi afero.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if isFixturePath(walked) {
				out = append(out, walked)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isFixturePath(p string) bool {
	return strings.HasSuffix(p, ".json") || strings.HasSuffix(p, ".json.zst")
}

// loadFixture reads and decodes one fixture file, transparently
// decompressing a .json.zst file before unmarshaling.
func loadFixture(fs afero.Fs, path string) (fixture, error) {
	f, err := fs.Open(path)
	if err != nil {
		return fixture{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fixture{}, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fixture{}, fmt.Errorf("%s: %w", path, err)
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return fixture{}, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".zst")
	return strings.TrimSuffix(name, ".json")
}
