// SPDX-License-Identifier: Apache-2.0
/*
 * hasher
 * Copyright (C) 2026 The Hasher Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads hasher's TOML configuration file and merges CLI flag
// overrides on top of it.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultConfigPath is used when the CLI doesn't override it.
const DefaultConfigPath = "./config.toml"

// Config is the decoded [database]/[hashes]/[options]/[logging] TOML
// document.
type Config struct {
	Database DatabaseConfig  `toml:"database"`
	Hashes   map[string]bool `toml:"hashes"`
	Options  Options         `toml:"options"`
	Logging  Logging         `toml:"logging"`
}

// DatabaseConfig is the [database] table.
type DatabaseConfig struct {
	DBString  string `toml:"db_string"`
	TableName string `toml:"table_name"`
}

// Options is the [options] table, mirroring the CLI's shared flags.
type Options struct {
	FailFast            bool   `toml:"fail_fast"`
	SilentFailures      bool   `toml:"silent_failures"`
	RetryCount          int    `toml:"retry_count"`
	RetryDelay          int    `toml:"retry_delay"`
	SQLOnly             bool   `toml:"sql_only"`
	JSONOnly            bool   `toml:"json_only"`
	PrettyJSON          bool   `toml:"pretty_json"`
	UseWAL              bool   `toml:"use_wal"`
	Stdin               bool   `toml:"stdin"`
	MaxDepth            int    `toml:"max_depth"`
	NoFollowSymlinks    bool   `toml:"no_follow_symlinks"`
	BreadthFirst        bool   `toml:"breadth_first"`
	DryRun              bool   `toml:"dry_run"`
	DBPath              string `toml:"db_path"`
	Compress            bool   `toml:"compress"`
	CompressionLevel    int    `toml:"compression_level"`
	HashCompressed      bool   `toml:"hash_compressed"`
	Decompress          bool   `toml:"decompress"`
	HashBoth            bool   `toml:"hash_both"`
	HashUncompressed    bool   `toml:"hash_uncompressed"`
	StoreSourcePath     bool   `toml:"store_source_path"`
	SkipExisting        bool   `toml:"skip_existing"`
	NoHashExisting      bool   `toml:"no_hash_existing"`
	MismatchesOnly      bool   `toml:"mismatches_only"`
	NoClobber           bool   `toml:"no_clobber"`
	DownloadConcurrency int    `toml:"download_concurrency"`
}

// Logging is the [logging] table.
type Logging struct {
	Level string `toml:"level"`
}

// defaultHashes is substituted for the [hashes] table when the config file
// itself is missing.
func defaultHashes() map[string]bool {
	return map[string]bool{"crc32": true, "md5": true, "sha1": true, "sha256": true}
}

// Load decodes the TOML file at path. A missing file is not fatal: it
// returns a zero Config with the built-in hash defaults substituted. A
// present-but-malformed file returns an error, which callers should treat
// as fatal.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{Hashes: defaultHashes()}, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Hashes == nil {
		cfg.Hashes = map[string]bool{}
	}
	return &cfg, nil
}

// Overrides holds CLI-flag values that were explicitly set by the user.
// Merge only applies a field when its pointer is non-nil, so an unset CLI
// flag never clobbers a value read from the config file.
type Overrides struct {
	FailFast            *bool
	SilentFailures      *bool
	RetryCount          *int
	RetryDelay          *int
	SQLOnly             *bool
	JSONOnly            *bool
	PrettyJSON          *bool
	UseWAL              *bool
	Stdin               *bool
	MaxDepth            *int
	NoFollowSymlinks    *bool
	BreadthFirst        *bool
	DryRun              *bool
	DBPath              *string
	Compress            *bool
	CompressionLevel    *int
	HashCompressed      *bool
	Decompress          *bool
	HashBoth            *bool
	HashUncompressed    *bool
	StoreSourcePath     *bool
	SkipExisting        *bool
	NoHashExisting      *bool
	MismatchesOnly      *bool
	NoClobber           *bool
	DownloadConcurrency *int

	TableName *string
	Hashes    map[string]bool
}

// Merge applies o on top of c, in place. CLI flags always win: only
// non-nil fields of o are copied, and entries of o.Hashes override (not
// replace) c.Hashes entry-by-entry.
func (c *Config) Merge(o Overrides) {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	opt := &c.Options
	setBool(&opt.FailFast, o.FailFast)
	setBool(&opt.SilentFailures, o.SilentFailures)
	setInt(&opt.RetryCount, o.RetryCount)
	setInt(&opt.RetryDelay, o.RetryDelay)
	setBool(&opt.SQLOnly, o.SQLOnly)
	setBool(&opt.JSONOnly, o.JSONOnly)
	setBool(&opt.PrettyJSON, o.PrettyJSON)
	setBool(&opt.UseWAL, o.UseWAL)
	setBool(&opt.Stdin, o.Stdin)
	setInt(&opt.MaxDepth, o.MaxDepth)
	setBool(&opt.NoFollowSymlinks, o.NoFollowSymlinks)
	setBool(&opt.BreadthFirst, o.BreadthFirst)
	setBool(&opt.DryRun, o.DryRun)
	setString(&opt.DBPath, o.DBPath)
	setBool(&opt.Compress, o.Compress)
	setInt(&opt.CompressionLevel, o.CompressionLevel)
	setBool(&opt.HashCompressed, o.HashCompressed)
	setBool(&opt.Decompress, o.Decompress)
	setBool(&opt.HashBoth, o.HashBoth)
	setBool(&opt.HashUncompressed, o.HashUncompressed)
	setBool(&opt.StoreSourcePath, o.StoreSourcePath)
	setBool(&opt.SkipExisting, o.SkipExisting)
	setBool(&opt.NoHashExisting, o.NoHashExisting)
	setBool(&opt.MismatchesOnly, o.MismatchesOnly)
	setBool(&opt.NoClobber, o.NoClobber)
	setInt(&opt.DownloadConcurrency, o.DownloadConcurrency)

	setString(&c.Database.TableName, o.TableName)

	if c.Hashes == nil {
		c.Hashes = map[string]bool{}
	}
	for alg, enabled := range o.Hashes {
		c.Hashes[alg] = enabled
	}
}
