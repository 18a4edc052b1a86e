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
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/docker/go-units"
	"github.com/urfave/cli"

	"github.com/meemo/hasher/internal/hasher"
	"github.com/meemo/hasher/internal/output"
	"github.com/meemo/hasher/internal/pipeline"
	"github.com/meemo/hasher/internal/walk"
)

var copyCommand = cli.Command{
	Name:      "copy",
	Usage:     "copy a source to a destination (optionally recoding), hashing the result",
	ArgsUsage: `source dest

Where "source" is the file or directory tree to copy and "dest" is the file
or directory to copy it to.`,

	Flags: append(commonFlags(),
		cli.BoolFlag{
			Name:  "store-source-path, S",
			Usage: "attribute the hash record to the source path instead of the destination",
		},
		cli.BoolFlag{
			Name:  "skip-existing, k",
			Usage: "skip the transfer when an equivalent destination already exists",
		},
		cli.BoolFlag{
			Name:  "no-hash-existing, H",
			Usage: "with --skip-existing, declare equivalence on matching size alone",
		},
	),

	Action: doCopy,
}

func doCopy(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("copy requires exactly two arguments: source dest")
	}
	source := ctx.Args().Get(0)
	dest := ctx.Args().Get(1)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opt := cfg.Options

	enabled, err := enabledAlgorithms(cfg)
	if err != nil {
		return err
	}

	ing := &pipeline.Ingest{
		Hasher:   hasher.New(enabled),
		SQLOnly:  opt.SQLOnly,
		JSONOnly: opt.JSONOnly,
		DryRun:   opt.DryRun,
	}
	var sink *output.Sink
	if !opt.SQLOnly {
		sink = output.New(os.Stdout, opt.PrettyJSON)
		ing.JSON = sink
	}
	if !opt.JSONOnly && !opt.DryRun {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close(opt.UseWAL)
		ing.Store = st
	}

	eng := &pipeline.Copy{Ingest: ing}
	copyFlags := pipeline.CopyFlags{
		Compress:         opt.Compress,
		Decompress:       opt.Decompress,
		CompressionLevel: opt.CompressionLevel,
		SkipExisting:     opt.SkipExisting,
		NoHashExisting:   opt.NoHashExisting,
		StoreSourcePath:  opt.StoreSourcePath,
	}
	ingestFlags := ingestFlagsFrom(opt)

	copyOne := func(src, dst string) error {
		res, err := eng.Do(src, dst, copyFlags, ingestFlags)
		if err != nil {
			return batchError(err, src, opt)
		}
		if res.Skipped {
			log.Debugf("skipped %s (%s)", res.FinalDest, res.SkipReason)
			if sink != nil && !opt.DryRun {
				return sink.CopySkipped(res.FinalDest, res.SkipReason)
			}
			return nil
		}
		for _, rec := range res.Records {
			log.Debugf("copied and hashed %s (%s)", rec.Path, units.HumanSize(float64(rec.Size)))
		}
		return nil
	}

	fi, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}
	if !fi.IsDir() {
		return copyOne(source, destFor(source, dest))
	}

	walkOpts := walk.Options{
		MaxDepth:       opt.MaxDepth,
		FollowSymlinks: !opt.NoFollowSymlinks,
		Order:          walk.ContentsFirst,
	}
	if opt.BreadthFirst {
		walkOpts.Order = walk.BreadthFirst
	}

	return walk.Walk(source, walkOpts, func(path string) error {
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}
		return copyOne(path, filepath.Join(dest, rel))
	})
}

// destFor maps a single-file copy onto its destination path: if dest is an
// existing directory the source's base name is appended, otherwise dest is
// taken literally.
func destFor(source, dest string) string {
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		return filepath.Join(dest, filepath.Base(source))
	}
	return dest
}
