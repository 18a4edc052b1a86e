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

// Package output is hasher's JSON sink: one encoding/json.Encoder wrapper
// shared by the hash, copy, verify and download command paths.
package output

import (
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/meemo/hasher/internal/digestset"
	"github.com/meemo/hasher/internal/hasher"
)

// Sink emits one JSON object per event to an underlying writer.
type Sink struct {
	enc *json.Encoder
}

// New returns a Sink writing to w. If pretty is set, each object is emitted
// with two-space indentation instead of the default single-line form.
func New(w io.Writer, pretty bool) *Sink {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Sink{enc: enc}
}

// HashRecord emits {"file_path":"...","file_size":N,"<alg>":"hex",...} for a
// single finalized Record. The object is built as a map, so the encoder
// emits its keys in sorted order; that is stable across runs, which is all
// the field-order contract requires.
func (s *Sink) HashRecord(rec hasher.Record) error {
	obj := make(map[string]any, len(rec.Digests)+2)
	obj["file_path"] = rec.Path
	obj["file_size"] = rec.Size
	for _, d := range rec.Digests {
		obj[string(d.ID)] = hex.EncodeToString(d.Bytes)
	}
	return s.enc.Encode(obj)
}

// CopySkipped emits {"status":"skipped","file_path":"...","reason":"..."}
// for a copy that was skipped because the destination was already
// equivalent to the source.
func (s *Sink) CopySkipped(path, reason string) error {
	return s.enc.Encode(map[string]any{
		"status":    "skipped",
		"file_path": path,
		"reason":    reason,
	})
}

// DownloadEventType is the "type" field of a download result event.
type DownloadEventType string

const (
	DownloadSuccess  DownloadEventType = "download_success"
	DownloadSkipped  DownloadEventType = "download_skipped"
	DownloadFailure  DownloadEventType = "download_failure"
	DownloadHashFail DownloadEventType = "hash_failure"
)

// DownloadEvent emits one download result object.
func (s *Sink) DownloadEvent(url, destination string, size int64, eventType DownloadEventType, errMsg string) error {
	obj := map[string]any{
		"url":         url,
		"destination": destination,
		"size":        size,
		"type":        string(eventType),
	}
	if errMsg == "" {
		obj["error"] = nil
	} else {
		obj["error"] = errMsg
	}
	return s.enc.Encode(obj)
}

// notFoundSentinel is used for both "hash" and "algorithm" when a verify
// record's current side couldn't be located on disk.
const notFoundSentinel = "file not found"

// VerifySide is one half (original or current) of a verify record.
type VerifySide struct {
	Path  string
	Size  int64
	Found bool
	Hash  []byte
}

// VerifyRecord emits {"valid":bool,"original":{...},"current":{...},"algorithm":"..."}.
// algorithm names whichever of crc32/sha256 first mismatched, or the
// original's checked algorithm when valid. When current.Found is false, both
// its "hash" and "algorithm" fields are the literal "file not found".
func (s *Sink) VerifyRecord(valid bool, original, current VerifySide, algorithm digestset.Algorithm) error {
	origObj := map[string]any{
		"path": original.Path,
		"size": original.Size,
		"hash": hex.EncodeToString(original.Hash),
	}

	var curObj map[string]any
	algField := string(algorithm)
	if !current.Found {
		curObj = map[string]any{
			"path": current.Path,
			"size": current.Size,
			"hash": notFoundSentinel,
		}
		algField = notFoundSentinel
	} else {
		curObj = map[string]any{
			"path": current.Path,
			"size": current.Size,
			"hash": hex.EncodeToString(current.Hash),
		}
	}

	return s.enc.Encode(map[string]any{
		"valid":     valid,
		"original":  origObj,
		"current":   curObj,
		"algorithm": algField,
	})
}
