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
	"os"

	"github.com/apex/log"
	"github.com/docker/go-units"
	"github.com/urfave/cli"

	"github.com/meemo/hasher/internal/config"
	"github.com/meemo/hasher/internal/hasher"
	"github.com/meemo/hasher/internal/iohelpers"
	"github.com/meemo/hasher/internal/output"
	"github.com/meemo/hasher/internal/pipeline"
	"github.com/meemo/hasher/internal/walk"
)

var hashCommand = cli.Command{
	Name:      "hash",
	Usage:     "hash a path tree (or standard input) and sink the records",
	ArgsUsage: `[source]

Where "[source]" is the file or directory tree to hash (default "."). With
--stdin, standard input is hashed instead and "[source]" is only used as the
path the record is attributed to.`,

	Flags: commonFlags(),

	Action: doHash,
}

func doHash(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opt := cfg.Options

	source := "."
	if ctx.NArg() > 0 {
		source = ctx.Args().Get(0)
	}

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
	if !opt.SQLOnly {
		ing.JSON = output.New(os.Stdout, opt.PrettyJSON)
	}
	if !opt.JSONOnly && !opt.DryRun {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close(opt.UseWAL)
		ing.Store = st
	}

	ingestFlags := ingestFlagsFrom(opt)

	if opt.Stdin {
		cr := iohelpers.CountReader(os.Stdin)
		if _, err := ing.Reader(cr, source, ingestFlags); err != nil {
			return err
		}
		log.Debugf("hashed %s from stdin", units.HumanSize(float64(cr.BytesRead())))
		return nil
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
		recs, err := ing.Path(path, ingestFlags)
		if err != nil {
			return batchError(err, path, opt)
		}
		for _, rec := range recs {
			log.Debugf("hashed %s (%s)", rec.Path, units.HumanSize(float64(rec.Size)))
		}
		return nil
	})
}

// batchError implements the per-input failure policy shared by the batch
// commands: fail-fast aborts, otherwise the error is logged (unless
// silenced) and the batch continues.
func batchError(err error, path string, opt config.Options) error {
	if opt.FailFast {
		return err
	}
	if !opt.SilentFailures {
		log.WithError(err).Warnf("skipping %s", path)
	}
	return nil
}
