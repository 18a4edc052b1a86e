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

// Package compress is hasher's gzip codec: buffer-in/buffer-out
// compress/decompress plus a path-suffix classifier, in the buffer-oriented
// shape the ingest and copy pipelines need.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	gzip "github.com/klauspost/pgzip"
)

// gzipBlockSize matches containerd/docker's gzip buffer size. Changing it
// changes the compressed byte stream (and therefore its hash) for identical
// input, so it must stay fixed across releases.
const gzipBlockSize = 1 << 20

// DefaultLevel is used when no explicit level is requested.
const DefaultLevel = 6

// ErrInvalidGzip is returned by Decompress when the input is not a valid
// gzip stream.
var ErrInvalidGzip = errors.New("invalid gzip input")

// ClampLevel forces level into gzip's supported [1, 9] range, substituting
// DefaultLevel for 0 (the Go zero value, meaning "unset").
func ClampLevel(level int) int {
	if level == 0 {
		return DefaultLevel
	}
	if level < 1 {
		return 1
	}
	if level > 9 {
		return 9
	}
	return level
}

// Compress gzips data at the given level (clamped to [1, 9]) and returns the
// compressed bytes.
func Compress(data []byte, level int) ([]byte, error) {
	level = ClampLevel(level)

	var buf bytes.Buffer
	gzw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("new gzip writer: %w", err)
	}
	if err := gzw.SetConcurrency(gzipBlockSize, 2*runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("set gzip concurrency: %w", err)
	}

	if _, err := gzw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress gunzips data and returns the decompressed bytes. It returns
// ErrInvalidGzip if data is not a gzip stream.
func Decompress(data []byte) ([]byte, error) {
	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGzip, err)
	}
	defer gzr.Close()

	out, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGzip, err)
	}
	return out, nil
}

// IsCompressed reports whether path's final component ends in ".gz".
func IsCompressed(path string) bool {
	return strings.HasSuffix(filepath.Base(path), ".gz")
}

// StripSuffix removes a trailing ".gz" from path's final component,
// preserving any inner extension (e.g. "archive.tar.gz" -> "archive.tar").
// It returns path unchanged if it doesn't end in ".gz".
func StripSuffix(path string) string {
	return strings.TrimSuffix(path, ".gz")
}

// AddSuffix appends ".gz" to path if it doesn't already have it.
func AddSuffix(path string) string {
	if IsCompressed(path) {
		return path
	}
	return path + ".gz"
}
