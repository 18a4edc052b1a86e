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

// Package download is hasher's bounded-concurrency batch URL fetcher. It
// uses go-resty/resty/v2 for the retrying HTTP client, and
// cyphar/filepath-securejoin to keep a URL-derived relative path from
// escaping the destination directory.
package download

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-resty/resty/v2"

	"github.com/meemo/hasher/internal/compress"
)

const (
	// DefaultRetryCount is the number of retries on transport failure.
	DefaultRetryCount = 3
	// DefaultRetryDelay is the fixed spacing between retries.
	DefaultRetryDelay = 5 * time.Second
	// DefaultTimeout is the per-request timeout, shared by every retry
	// attempt.
	DefaultTimeout = 300 * time.Second
	// DefaultConcurrency caps in-flight downloads.
	DefaultConcurrency = 4
)

// Config configures a Client.
type Config struct {
	RetryCount  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	Concurrency int
	GzipOnWrite bool
	NoClobber   bool
	DryRun      bool
}

// WithDefaults fills any zero fields with the documented defaults.
func (c Config) WithDefaults() Config {
	if c.RetryCount == 0 {
		c.RetryCount = DefaultRetryCount
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	return c
}

// Client is a bounded-concurrency batch fetcher built on a single
// resty.Client instance.
type Client struct {
	http *resty.Client
	cfg  Config
}

// New returns a Client configured per cfg (zero fields take their documented
// defaults).
func New(cfg Config) *Client {
	cfg = cfg.WithDefaults()

	http := resty.New().
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryDelay).
		SetRetryMaxWaitTime(cfg.RetryDelay).
		SetTimeout(cfg.Timeout)

	return &Client{http: http, cfg: cfg}
}

// Result is one per-URL outcome of a FetchAll batch.
type Result struct {
	URL     string
	Path    string
	Size    int64
	Success bool
	Err     error
}

// RelPathFunc maps a URL to the path it should be written at, relative to
// the batch's destination directory.
type RelPathFunc func(url string) (string, error)

// FetchAll fetches every url in urls into destDir (joined via relPath),
// with at most cfg.Concurrency requests in flight at once. It returns a
// channel that yields exactly one Result per url; the channel is closed once
// every url has been processed.
//
// On cfg.NoClobber with an existing destination, the result is reported as
// Success with Err set to ErrFileExists and Size the on-disk size, and no
// HTTP request is issued. On cfg.DryRun, a GET is still performed (so
// Result.Size is meaningful) but nothing is written to disk.
func (c *Client) FetchAll(ctx context.Context, urls []string, destDir string, relPath RelPathFunc) <-chan Result {
	out := make(chan Result)
	sem := make(chan struct{}, c.cfg.Concurrency)

	// Dispatch from its own goroutine so the caller can start draining out
	// immediately; acquiring sem here would otherwise deadlock against an
	// undrained out once every in-flight worker is blocked on sending.
	go func() {
		var wg sync.WaitGroup
		wg.Add(len(urls))
		for _, u := range urls {
			u := u
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				out <- c.fetchOne(ctx, u, destDir, relPath)
			}()
		}
		wg.Wait()
		close(out)
	}()

	return out
}

func (c *Client) fetchOne(ctx context.Context, url, destDir string, relPath RelPathFunc) Result {
	rel, err := relPath(url)
	if err != nil {
		return Result{URL: url, Success: false, Err: fmt.Errorf("derive destination for %s: %w", url, err)}
	}

	dest, err := securejoin.SecureJoin(destDir, rel)
	if err != nil {
		return Result{URL: url, Success: false, Err: fmt.Errorf("join destination for %s: %w", url, err)}
	}
	if c.cfg.GzipOnWrite {
		dest = compress.AddSuffix(dest)
	}

	if c.cfg.NoClobber {
		if fi, err := os.Stat(dest); err == nil {
			return Result{URL: url, Path: dest, Size: fi.Size(), Success: true, Err: ErrFileExists}
		}
	}

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return Result{URL: url, Path: dest, Success: false, Err: fmt.Errorf("fetch %s: %w", url, err)}
	}
	if resp.IsError() {
		return Result{URL: url, Path: dest, Success: false, Err: fmt.Errorf("fetch %s: http %d", url, resp.StatusCode())}
	}

	body := resp.Body()
	if c.cfg.GzipOnWrite {
		body, err = compress.Compress(body, compress.DefaultLevel)
		if err != nil {
			return Result{URL: url, Path: dest, Success: false, Err: fmt.Errorf("recompress %s: %w", url, err)}
		}
	}

	if !c.cfg.DryRun {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return Result{URL: url, Path: dest, Success: false, Err: fmt.Errorf("create parent dir for %s: %w", dest, err)}
		}
		if err := os.WriteFile(dest, body, 0o644); err != nil {
			return Result{URL: url, Path: dest, Success: false, Err: fmt.Errorf("write %s: %w", dest, err)}
		}
	}

	return Result{URL: url, Path: dest, Size: int64(len(body)), Success: true}
}

// DefaultRelPath derives a destination-relative path from the URL's
// unescaped path component, stripping any leading slash.
func DefaultRelPath(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	rel := strings.TrimPrefix(parsed.Path, "/")
	if rel == "" {
		return "", fmt.Errorf("url has no path component: %s", rawURL)
	}
	return rel, nil
}
