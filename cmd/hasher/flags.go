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

package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/meemo/hasher/internal/config"
	"github.com/meemo/hasher/internal/digestset"
	"github.com/meemo/hasher/internal/pipeline"
	"github.com/meemo/hasher/internal/store"
)

// commonFlags is the flag set shared by every subcommand. Command-specific
// flags (copy's --skip-existing, verify's --mismatches-only, download's
// --no-clobber) are appended by each command's own Flags list.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "fail-fast, e",
			Usage: "abort the batch on the first per-input error",
		},
		cli.BoolFlag{
			Name:  "silent-failures, Q",
			Usage: "don't log non-fatal per-input errors",
		},
		cli.IntFlag{
			Name:  "retry-count, r",
			Usage: "number of retries on download transport failure",
			Value: 3,
		},
		cli.IntFlag{
			Name:  "retry-delay, d",
			Usage: "seconds between download retries",
			Value: 5,
		},
		cli.BoolFlag{
			Name:  "sql-only, s",
			Usage: "store records in the database but emit no JSON",
		},
		cli.BoolFlag{
			Name:  "json-only, j",
			Usage: "emit JSON but don't touch the database",
		},
		cli.BoolFlag{
			Name:  "pretty-json, p",
			Usage: "pretty-print JSON output",
		},
		cli.BoolFlag{
			Name:  "use-wal, w",
			Usage: "switch the database journal mode to write-ahead logging",
		},
		cli.StringFlag{
			Name:  "config-file, c",
			Usage: "path to the TOML configuration file",
			Value: config.DefaultConfigPath,
		},
		cli.BoolFlag{
			Name:  "stdin, n",
			Usage: "hash standard input instead of walking a path tree",
		},
		cli.IntFlag{
			Name:  "max-depth, m",
			Usage: "inclusive directory depth cap (the root is depth 0)",
			Value: 30,
		},
		cli.BoolFlag{
			Name:  "no-follow-symlinks, L",
			Usage: "don't dereference symlinks while descending",
		},
		cli.BoolFlag{
			Name:  "breadth-first, b",
			Usage: "emit files level by level instead of contents-first",
		},
		cli.BoolFlag{
			Name:  "dry-run, t",
			Usage: "compute digests but store and emit no hash records (download also writes no files)",
		},
		cli.StringFlag{
			Name:  "db-path, D",
			Usage: "path to the sqlite database file (overrides the config file)",
		},
		cli.BoolFlag{
			Name:  "compress, z",
			Usage: "gzip data on write",
		},
		cli.IntFlag{
			Name:  "compression-level",
			Usage: "gzip level, clamped to [1, 9]",
			Value: 6,
		},
		cli.BoolFlag{
			Name:  "hash-compressed, C",
			Usage: "hash the gzipped form of raw input",
		},
		cli.BoolFlag{
			Name:  "decompress, x",
			Usage: "gunzip data on read/write",
		},
		cli.BoolFlag{
			Name:  "hash-both, B",
			Usage: "hash both the raw and the transformed form (two records)",
		},
		cli.BoolFlag{
			Name:  "hash-uncompressed, U",
			Usage: "hash the gunzipped form of .gz input",
		},
	}
}

// loadConfig loads the TOML config named by --config-file and merges the
// explicitly-set CLI flags over it (CLI always wins), then fills any
// still-unset numeric options with their documented defaults.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String("config-file"))
	if err != nil {
		return nil, err
	}

	o := config.Overrides{}
	setBool := func(dst **bool, name string) {
		if ctx.IsSet(name) {
			v := ctx.Bool(name)
			*dst = &v
		}
	}
	setInt := func(dst **int, name string) {
		if ctx.IsSet(name) {
			v := ctx.Int(name)
			*dst = &v
		}
	}
	setString := func(dst **string, name string) {
		if ctx.IsSet(name) {
			v := ctx.String(name)
			*dst = &v
		}
	}

	setBool(&o.FailFast, "fail-fast")
	setBool(&o.SilentFailures, "silent-failures")
	setInt(&o.RetryCount, "retry-count")
	setInt(&o.RetryDelay, "retry-delay")
	setBool(&o.SQLOnly, "sql-only")
	setBool(&o.JSONOnly, "json-only")
	setBool(&o.PrettyJSON, "pretty-json")
	setBool(&o.UseWAL, "use-wal")
	setBool(&o.Stdin, "stdin")
	setInt(&o.MaxDepth, "max-depth")
	setBool(&o.NoFollowSymlinks, "no-follow-symlinks")
	setBool(&o.BreadthFirst, "breadth-first")
	setBool(&o.DryRun, "dry-run")
	setString(&o.DBPath, "db-path")
	setBool(&o.Compress, "compress")
	setInt(&o.CompressionLevel, "compression-level")
	setBool(&o.HashCompressed, "hash-compressed")
	setBool(&o.Decompress, "decompress")
	setBool(&o.HashBoth, "hash-both")
	setBool(&o.HashUncompressed, "hash-uncompressed")
	setBool(&o.StoreSourcePath, "store-source-path")
	setBool(&o.SkipExisting, "skip-existing")
	setBool(&o.NoHashExisting, "no-hash-existing")
	setBool(&o.MismatchesOnly, "mismatches-only")
	setBool(&o.NoClobber, "no-clobber")
	setInt(&o.DownloadConcurrency, "download-concurrency")

	cfg.Merge(o)

	opt := &cfg.Options
	if opt.RetryCount == 0 {
		opt.RetryCount = 3
	}
	if opt.RetryDelay == 0 {
		opt.RetryDelay = 5
	}
	if opt.MaxDepth == 0 {
		opt.MaxDepth = 30
	}
	if opt.CompressionLevel == 0 {
		opt.CompressionLevel = 6
	}
	if opt.DownloadConcurrency == 0 {
		opt.DownloadConcurrency = 4
	}

	return cfg, nil
}

// enabledAlgorithms translates the config's [hashes] table into the enabled
// set the digest registry understands, rejecting identifiers the registry
// doesn't know about before any hashing starts.
func enabledAlgorithms(cfg *config.Config) (map[digestset.Algorithm]bool, error) {
	enabled := make(map[digestset.Algorithm]bool, len(cfg.Hashes))
	for name, on := range cfg.Hashes {
		if !on {
			continue
		}
		id := digestset.Algorithm(name)
		if !digestset.Available(id) {
			return nil, fmt.Errorf("unknown hash algorithm in config: %q", name)
		}
		enabled[id] = true
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no hash algorithms enabled")
	}
	return enabled, nil
}

// ingestFlagsFrom projects the merged options onto the ingest pipeline's
// compression decision flags.
func ingestFlagsFrom(opt config.Options) pipeline.IngestFlags {
	return pipeline.IngestFlags{
		Compress:         opt.Compress,
		Decompress:       opt.Decompress,
		HashBoth:         opt.HashBoth,
		HashCompressed:   opt.HashCompressed,
		HashUncompressed: opt.HashUncompressed,
		CompressionLevel: opt.CompressionLevel,
	}
}

// dbPath resolves the sqlite file path: --db-path wins, then the config's
// db_string (with its sqlite:// prefix stripped), then a local default.
func dbPath(cfg *config.Config) string {
	if cfg.Options.DBPath != "" {
		return cfg.Options.DBPath
	}
	if s := strings.TrimPrefix(cfg.Database.DBString, "sqlite://"); s != "" {
		return s
	}
	return "hasher.db"
}

// tableName resolves the database table name, defaulting to "hashes".
func tableName(cfg *config.Config) string {
	if cfg.Database.TableName != "" {
		return cfg.Database.TableName
	}
	return "hashes"
}

// openStore opens the record store per the merged config. The caller is
// responsible for closing it with the same use-wal setting.
func openStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(dbPath(cfg), tableName(cfg), cfg.Options.UseWAL)
}
