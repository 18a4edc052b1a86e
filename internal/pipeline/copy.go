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

package pipeline

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meemo/hasher/internal/compress"
	"github.com/meemo/hasher/internal/hasher"
	"github.com/meemo/hasher/internal/system"
)

// Copy is the copy engine: it decides the final
// destination name, optionally skips the transfer when an equivalent
// destination already exists, transfers bytes (direct, compressing, or
// decompressing), and reports which path should be fed to the ingest
// pipeline next.
type Copy struct {
	Ingest *Ingest
}

// CopyResult describes what Copy.Do did, for the caller to translate into
// JSON output and/or ingest.
type CopyResult struct {
	// Skipped is true if an equivalent destination already existed and no
	// bytes were transferred.
	Skipped bool
	// SkipReason is "size match" or "hash match", set only if Skipped.
	SkipReason string
	// FinalDest is the path the transfer was written to (or would have
	// been, if Skipped).
	FinalDest string
	// IngestPath is the path Copy.Do invoked the ingest pipeline against:
	// FinalDest normally, or the original source if StoreSourcePath was
	// set. Empty if Skipped (the caller should not re-ingest).
	IngestPath string
	// Records are the hash records produced by invoking the ingest
	// pipeline against IngestPath, empty if Skipped.
	Records []hasher.Record
}

// Do copies source to dest according to flags, then invokes the ingest
// pipeline (unless skipped).
func (c *Copy) Do(source, dest string, flags CopyFlags, ingestFlags IngestFlags) (CopyResult, error) {
	finalDest := flags.finalDest(dest)

	if flags.SkipExisting {
		if _, err := os.Lstat(finalDest); err == nil {
			equivalent, reason, err := compareEquivalence(source, finalDest, flags)
			if err != nil {
				return CopyResult{}, err
			}
			if equivalent {
				return CopyResult{Skipped: true, SkipReason: reason, FinalDest: finalDest}, nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(finalDest), 0o755); err != nil {
		return CopyResult{}, fmt.Errorf("create parent dir for %s: %w", finalDest, err)
	}
	if err := transfer(source, finalDest, flags); err != nil {
		return CopyResult{}, err
	}

	ingestPath := finalDest
	if flags.StoreSourcePath {
		ingestPath = source
	}

	records, err := c.Ingest.Path(ingestPath, ingestFlags)
	if err != nil {
		return CopyResult{}, err
	}

	return CopyResult{FinalDest: finalDest, IngestPath: ingestPath, Records: records}, nil
}

// transfer writes source's bytes (transformed per flags) to finalDest.
func transfer(source, finalDest string, flags CopyFlags) error {
	switch {
	case flags.Compress:
		return transferTransformed(source, finalDest, func(b []byte) ([]byte, error) {
			return compress.Compress(b, flags.CompressionLevel)
		})
	case flags.Decompress && compress.IsCompressed(source):
		return transferTransformed(source, finalDest, compress.Decompress)
	default:
		return transferDirect(source, finalDest)
	}
}

func transferDirect(source, finalDest string) error {
	src, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer src.Close()

	dst, err := os.Create(finalDest)
	if err != nil {
		return fmt.Errorf("create %s: %w", finalDest, err)
	}
	defer dst.Close()

	if _, err := system.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s to %s: %w", source, finalDest, err)
	}
	return nil
}

func transferTransformed(source, finalDest string, transform func([]byte) ([]byte, error)) error {
	raw, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	out, err := transform(raw)
	if err != nil {
		return fmt.Errorf("transform %s: %w", source, err)
	}
	if err := os.WriteFile(finalDest, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", finalDest, err)
	}
	return nil
}

// compareEquivalence implements the skip-existing equivalence check: symlink-
// ness must match, comparison bytes must be equal length, and (unless
// NoHashExisting) must hash equal under SHA-256. It reports ErrFileChanged
// if either side's mtime or size moves between the initial probe and the
// comparison read.
func compareEquivalence(source, finalDest string, flags CopyFlags) (bool, string, error) {
	srcFi, err := os.Lstat(source)
	if err != nil {
		return false, "", fmt.Errorf("lstat %s: %w", source, err)
	}
	destFi, err := os.Lstat(finalDest)
	if err != nil {
		return false, "", fmt.Errorf("lstat %s: %w", finalDest, err)
	}

	if (srcFi.Mode()&os.ModeSymlink != 0) != (destFi.Mode()&os.ModeSymlink != 0) {
		return false, "", nil
	}

	srcBytes, srcAfter, err := comparisonBytes(source, flags)
	if err != nil {
		return false, "", err
	}
	if !srcAfter.ModTime().Equal(srcFi.ModTime()) || srcAfter.Size() != srcFi.Size() {
		return false, "", fmt.Errorf("%s: %w", source, ErrFileChanged)
	}

	destBytes, err := os.ReadFile(finalDest)
	if err != nil {
		return false, "", fmt.Errorf("read %s: %w", finalDest, err)
	}
	destAfter, err := os.Stat(finalDest)
	if err != nil {
		return false, "", fmt.Errorf("stat %s: %w", finalDest, err)
	}
	if !destAfter.ModTime().Equal(destFi.ModTime()) || destAfter.Size() != destFi.Size() {
		return false, "", fmt.Errorf("%s: %w", finalDest, ErrFileChanged)
	}

	if len(srcBytes) != len(destBytes) {
		return false, "", nil
	}
	if flags.NoHashExisting {
		return true, "size match", nil
	}

	srcSum := sha256.Sum256(srcBytes)
	destSum := sha256.Sum256(destBytes)
	if !bytes.Equal(srcSum[:], destSum[:]) {
		return false, "", nil
	}
	return true, "hash match", nil
}

// comparisonBytes builds the byte sequence that would be fed into the
// hasher for source under the copy's active flags, so that a
// compressed-to-raw (or raw-to-compressed) copy compares like-for-like
// against finalDest's already-transformed content.
func comparisonBytes(path string, flags CopyFlags) ([]byte, os.FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch {
	case flags.Compress:
		out, err := compress.Compress(raw, flags.CompressionLevel)
		return out, fi, err
	case flags.Decompress && compress.IsCompressed(path):
		out, err := compress.Decompress(raw)
		return out, fi, err
	default:
		return raw, fi, nil
	}
}
