// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

// Package config provides configuration utilities for hivesync: the
// defaults a run falls back to when a flag is omitted (database name,
// Hive host/port, log level), parseable from YAML the same way the
// teacher's pkg/common/config/config.go loads its workflow YAML. The CLI
// itself uses Default() and reads no config file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDatabase is used whenever --database is omitted on the CLI and
// the config file sets no database either, matching the CLI's own
// documented default (spec.md §6).
const DefaultDatabase = "telemetry"

// Config is hivesync's full set of YAML-configurable defaults.
type Config struct {
	Database string     `yaml:"database"`
	Hive     HiveConfig `yaml:"hive"`
	LogLevel string     `yaml:"log_level"`
	Batching Batching   `yaml:"batching"`
}

// HiveConfig is the Thrift metastore's address. The CLI targets Hive only
// when --hive=<host[:port]> is given; the host always comes from that
// flag, and Port is used when the flag names no port.
type HiveConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Batching holds per-back-end batch sizes. They are parsed and validated
// (negative values are rejected), but no back-end and not the reconciler
// reads them: batching always follows the back-ends' own fixed sizes.
type Batching struct {
	GlueAdd    int `yaml:"glue_add"`
	GlueUpdate int `yaml:"glue_update"`
	HiveAdd    int `yaml:"hive_add"`
	HiveUpdate int `yaml:"hive_update"`
}

// Default returns the built-in configuration a run uses when no config
// file is given: Glue's managed catalog, database "telemetry", the
// Hive Metastore's own well-known default port, info-level logging.
func Default() Config {
	return Config{
		Database: DefaultDatabase,
		Hive:     HiveConfig{Host: "127.0.0.1", Port: 9083},
		LogLevel: "info",
	}
}

// Parse reads and validates a YAML config file at path, starting from
// Default() so an operator's file only needs to set what it overrides.
func Parse(path string) (Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects a config whose values could never produce a working
// run, before any network call is attempted.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("config: database must not be empty")
	}
	if c.Hive.Port < 0 || c.Hive.Port > 65535 {
		return fmt.Errorf("config: hive.port %d out of range", c.Hive.Port)
	}
	for name, n := range map[string]int{
		"batching.glue_add":    c.Batching.GlueAdd,
		"batching.glue_update": c.Batching.GlueUpdate,
		"batching.hive_add":    c.Batching.HiveAdd,
		"batching.hive_update": c.Batching.HiveUpdate,
	} {
		if n < 0 {
			return fmt.Errorf("config: %s must not be negative", name)
		}
	}
	return nil
}
