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
	"github.com/urfave/cli"

	"github.com/meemo/hasher/internal/hasher"
	"github.com/meemo/hasher/internal/output"
	"github.com/meemo/hasher/internal/pipeline"
)

var verifyCommand = cli.Command{
	Name:  "verify",
	Usage: "recompute digests for every stored path and compare against the baseline",

	Flags: append(commonFlags(),
		cli.BoolFlag{
			Name:  "mismatches-only, M",
			Usage: "only emit records for paths that fail verification",
		},
	),

	Action: doVerify,
}

func doVerify(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opt := cfg.Options

	enabled, err := enabledAlgorithms(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close(opt.UseWAL)

	eng := &pipeline.Verify{
		Hasher: hasher.New(enabled),
		Store:  st,
	}
	sink := output.New(os.Stdout, opt.PrettyJSON)
	ingestFlags := ingestFlagsFrom(opt)

	paths, err := st.EnumeratePaths()
	if err != nil {
		return err
	}

	for _, path := range paths {
		outcome, err := eng.Check(path, ingestFlags)
		if outcome.Skip {
			if !opt.SilentFailures {
				log.WithError(err).Warnf("skipping %s", path)
			}
			continue
		}
		if err != nil {
			if err := batchError(err, path, opt); err != nil {
				return err
			}
			continue
		}

		if opt.MismatchesOnly && outcome.Valid {
			continue
		}
		if err := sink.VerifyRecord(outcome.Valid, outcome.Original, outcome.Current, outcome.Algorithm); err != nil {
			return err
		}
	}
	return nil
}
