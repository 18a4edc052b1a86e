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
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/docker/go-units"
	"github.com/urfave/cli"

	"github.com/meemo/hasher/internal/download"
	"github.com/meemo/hasher/internal/hasher"
	"github.com/meemo/hasher/internal/output"
	"github.com/meemo/hasher/internal/pipeline"
)

var downloadCommand = cli.Command{
	Name:      "download",
	Usage:     "download a URL (or a file of URLs, one per line) into a destination tree, hashing each file",
	ArgsUsage: `source dest

Where "source" is either a URL or the path of a local file containing one URL
per line, and "dest" is the directory the downloads are rooted at.`,

	Flags: append(commonFlags(),
		cli.BoolFlag{
			Name:  "no-clobber, N",
			Usage: "skip URLs whose destination already exists",
		},
		cli.IntFlag{
			Name:  "download-concurrency",
			Usage: "maximum number of in-flight downloads",
			Value: 4,
		},
	),

	Action: doDownload,
}

func doDownload(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("download requires exactly two arguments: source dest")
	}
	source := ctx.Args().Get(0)
	destDir := ctx.Args().Get(1)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opt := cfg.Options

	enabled, err := enabledAlgorithms(cfg)
	if err != nil {
		return err
	}

	urls, err := urlList(source)
	if err != nil {
		return err
	}

	ing := &pipeline.Ingest{
		Hasher:   hasher.New(enabled),
		SQLOnly:  opt.SQLOnly,
		JSONOnly: opt.JSONOnly,
		DryRun:   opt.DryRun,
	}
	sink := output.New(os.Stdout, opt.PrettyJSON)
	if !opt.SQLOnly {
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

	client := download.New(download.Config{
		RetryCount:  opt.RetryCount,
		RetryDelay:  time.Duration(opt.RetryDelay) * time.Second,
		Concurrency: opt.DownloadConcurrency,
		GzipOnWrite: opt.Compress,
		NoClobber:   opt.NoClobber,
		DryRun:      opt.DryRun,
	})
	ingestFlags := ingestFlagsFrom(opt)

	results := client.FetchAll(context.Background(), urls, destDir, hostRelPath)
	for res := range results {
		switch {
		case !res.Success:
			if err := sink.DownloadEvent(res.URL, res.Path, res.Size, output.DownloadFailure, res.Err.Error()); err != nil {
				return err
			}
			if err := batchError(res.Err, res.URL, opt); err != nil {
				return err
			}
			continue

		case errors.Is(res.Err, download.ErrFileExists):
			if err := sink.DownloadEvent(res.URL, res.Path, res.Size, output.DownloadSkipped, res.Err.Error()); err != nil {
				return err
			}

		default:
			log.Debugf("downloaded %s to %s (%s)", res.URL, res.Path, units.HumanSize(float64(res.Size)))
			if err := sink.DownloadEvent(res.URL, res.Path, res.Size, output.DownloadSuccess, ""); err != nil {
				return err
			}
		}

		if opt.DryRun {
			continue
		}
		if _, err := ing.Path(res.Path, ingestFlags); err != nil {
			if serr := sink.DownloadEvent(res.URL, res.Path, res.Size, output.DownloadHashFail, err.Error()); serr != nil {
				return serr
			}
			if err := batchError(err, res.Path, opt); err != nil {
				return err
			}
		}
	}
	return nil
}

// urlList resolves the download source argument: if it names an existing
// local file, it is read as a newline-separated URL list (blank lines are
// ignored); otherwise it is taken as a single URL.
func urlList(source string) ([]string, error) {
	fi, err := os.Stat(source)
	if err != nil || fi.IsDir() {
		return []string{source}, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open url list %s: %w", source, err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list %s: %w", source, err)
	}
	return urls, nil
}

// hostRelPath maps a URL onto a destination-relative path of the form
// host/path/segments/file, so that downloads from different hosts never
// collide inside the destination tree.
func hostRelPath(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("url has no host: %s", rawURL)
	}
	rel := strings.TrimPrefix(parsed.Path, "/")
	if rel == "" {
		return "", fmt.Errorf("url has no path component: %s", rawURL)
	}
	return path.Join(parsed.Host, rel), nil
}
