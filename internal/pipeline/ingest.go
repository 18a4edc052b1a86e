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
	"fmt"
	"io"
	"os"

	"github.com/meemo/hasher/internal/compress"
	"github.com/meemo/hasher/internal/digestset"
	"github.com/meemo/hasher/internal/hasher"
	"github.com/meemo/hasher/internal/output"
	"github.com/meemo/hasher/internal/store"
)

// Ingest is the ingest pipeline: given a Hasher and sink configuration, it
// decides what bytes to hash for a source, invokes the Hasher, and routes
// the resulting records to the configured sinks.
type Ingest struct {
	Hasher *hasher.Hasher
	Store  *store.Store
	JSON   *output.Sink

	SQLOnly bool
	JSONOnly bool
	DryRun   bool
}

// Path hashes the file at path according to flags and routes the resulting
// record(s) to the configured sinks, unless DryRun is set (in which case
// records are computed but never sunk).
func (p *Ingest) Path(path string, flags IngestFlags) ([]hasher.Record, error) {
	records, err := computeRecordsFromPath(p.Hasher, path, flags)
	if err != nil {
		return nil, err
	}
	return records, p.sink(records)
}

// Reader hashes data read fully from r, attributed to path, according to
// flags. It is used for the --stdin input mode, where there is no file to
// re-open for a second (transform) pass.
func (p *Ingest) Reader(r io.Reader, path string, flags IngestFlags) ([]hasher.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	records, err := computeRecordsFromBytes(p.Hasher, data, path, flags)
	if err != nil {
		return nil, err
	}
	return records, p.sink(records)
}

// sink routes records to the SQL and/or JSON sinks per the SQLOnly/JSONOnly
// flags, unless DryRun is set (in which case no sink is ever invoked).
func (p *Ingest) sink(records []hasher.Record) error {
	if p.DryRun {
		return nil
	}
	for _, rec := range records {
		if !p.JSONOnly && p.Store != nil {
			digests := make(map[digestset.Algorithm][]byte, len(rec.Digests))
			for _, d := range rec.Digests {
				digests[d.ID] = d.Bytes
			}
			if err := p.Store.Insert(store.Row{Path: rec.Path, Size: rec.Size, Digests: digests}); err != nil {
				return fmt.Errorf("insert %s: %w", rec.Path, err)
			}
		}
		if !p.SQLOnly && p.JSON != nil {
			if err := p.JSON.HashRecord(rec); err != nil {
				return fmt.Errorf("emit json for %s: %w", rec.Path, err)
			}
		}
	}
	return nil
}

// computeRecordsFromPath implements the compression decision matrix for a
// filesystem path. When no transform is required, it streams the file
// through Hasher.HashFile (preserving mtime-based tamper detection);
// otherwise it reads the file fully into memory, since compress/decompress
// are buffer-oriented.
func computeRecordsFromPath(h *hasher.Hasher, path string, flags IngestFlags) ([]hasher.Record, error) {
	isGz := compress.IsCompressed(path)

	needsBuffer := flags.HashBoth ||
		(isGz && (flags.Decompress || flags.HashUncompressed)) ||
		(!isGz && flags.HashCompressed)

	if !needsBuffer {
		_, rec, err := h.HashFile(path)
		if err != nil {
			return nil, err
		}
		return []hasher.Record{rec}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return computeRecordsFromBytes(h, data, path, flags)
}

// computeRecordsFromBytes implements the compression decision matrix for an
// already-loaded buffer.
func computeRecordsFromBytes(h *hasher.Hasher, data []byte, path string, flags IngestFlags) ([]hasher.Record, error) {
	isGz := compress.IsCompressed(path)

	if flags.HashBoth {
		rawRec, err := h.HashSingleBuffer(data)
		if err != nil {
			return nil, err
		}
		rawRec.Path = path

		var transformed []byte
		var transformedPath string
		if isGz {
			transformed, err = compress.Decompress(data)
			transformedPath = compress.StripSuffix(path)
		} else {
			transformed, err = compress.Compress(data, flags.CompressionLevel)
			transformedPath = compress.AddSuffix(path)
		}
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", path, err)
		}

		transRec, err := h.HashSingleBuffer(transformed)
		if err != nil {
			return nil, err
		}
		transRec.Path = transformedPath

		return []hasher.Record{rawRec, transRec}, nil
	}

	if isGz && (flags.Decompress || flags.HashUncompressed) {
		decompressed, err := compress.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		rec, err := h.HashSingleBuffer(decompressed)
		if err != nil {
			return nil, err
		}
		rec.Path = path
		return []hasher.Record{rec}, nil
	}

	if !isGz && flags.HashCompressed {
		compressed, err := compress.Compress(data, flags.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("compress %s: %w", path, err)
		}
		rec, err := h.HashSingleBuffer(compressed)
		if err != nil {
			return nil, err
		}
		rec.Path = path
		return []hasher.Record{rec}, nil
	}

	rec, err := h.HashSingleBuffer(data)
	if err != nil {
		return nil, err
	}
	rec.Path = path
	return []hasher.Record{rec}, nil
}
