// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"

	"github.com/BurntSushi/toml"
)

// fileConfig is the optional on-disk configuration for the cluster
// subcommand, decoded from TOML the way holo-build decodes its package
// definitions: toml.Decode over the whole file contents (SPEC_FULL.md §2.1).
type fileConfig struct {
	Vocabulary string `toml:"vocabulary_path"`
	Workers    int    `toml:"workers"`
}

// loadConfig reads path as TOML if it exists, returning a zero fileConfig
// (not an error) when path is empty or absent: the config file is optional.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	blob, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if _, err := toml.Decode(string(blob), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
