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
	"fmt"
	"os"

	"github.com/meemo/hasher/internal/digestset"
	"github.com/meemo/hasher/internal/hasher"
	"github.com/meemo/hasher/internal/output"
	"github.com/meemo/hasher/internal/store"
)

// Verify is the verify engine: it recomputes digests for
// a previously-stored path (falling back to a ".gz" sibling if the original
// no longer exists) and compares crc32 then sha256 against the stored
// baseline.
type Verify struct {
	Hasher *hasher.Hasher
	Store  *store.Store
}

// Outcome is the result of checking a single stored path. If Skip is true,
// the stored row lacked at least crc32 and sha256 and nothing else is
// meaningful; the caller should log a warning and move on without emitting
// a verify record.
type Outcome struct {
	Skip      bool
	Valid     bool
	Algorithm digestset.Algorithm
	Original  output.VerifySide
	Current   output.VerifySide
}

// Check recomputes digests for path and compares them to its stored
// baseline.
func (v *Verify) Check(path string, ingestFlags IngestFlags) (Outcome, error) {
	digests, err := v.Store.Lookup(path)
	if err != nil {
		return Outcome{}, err
	}

	byAlg := make(map[digestset.Algorithm]store.Digest, len(digests))
	for _, d := range digests {
		byAlg[d.Algorithm] = d
	}
	crc32Base, hasCRC := byAlg["crc32"]
	sha256Base, hasSHA := byAlg["sha256"]
	if !hasCRC || !hasSHA {
		return Outcome{Skip: true}, fmt.Errorf("%s: %w", path, ErrMissingBaseline)
	}

	actualPath := path
	found := fileExists(path)
	if !found {
		sibling := path + ".gz"
		if fileExists(sibling) {
			actualPath = sibling
			found = true
		}
	}

	if !found {
		return Outcome{
			Valid:     false,
			Algorithm: "sha256",
			Original:  output.VerifySide{Path: path, Size: sha256Base.Size, Found: true, Hash: sha256Base.Bytes},
			Current:   output.VerifySide{Path: path, Found: false},
		}, nil
	}

	recs, err := computeRecordsFromPath(v.Hasher, actualPath, ingestFlags)
	if err != nil {
		return Outcome{}, fmt.Errorf("rehash %s: %w", actualPath, err)
	}
	rec := recs[0]
	for _, r := range recs {
		if r.Path == path {
			rec = r
			break
		}
	}

	actualCRC, _ := rec.Get("crc32")
	actualSHA, _ := rec.Get("sha256")

	side := func(baseHash, curHash []byte, baseSize int64) (output.VerifySide, output.VerifySide) {
		return output.VerifySide{Path: path, Size: baseSize, Found: true, Hash: baseHash},
			output.VerifySide{Path: rec.Path, Size: rec.Size, Found: true, Hash: curHash}
	}

	if !bytes.Equal(actualCRC, crc32Base.Bytes) {
		orig, cur := side(crc32Base.Bytes, actualCRC, crc32Base.Size)
		return Outcome{Valid: false, Algorithm: "crc32", Original: orig, Current: cur}, nil
	}
	orig, cur := side(sha256Base.Bytes, actualSHA, sha256Base.Size)
	if !bytes.Equal(actualSHA, sha256Base.Bytes) {
		return Outcome{Valid: false, Algorithm: "sha256", Original: orig, Current: cur}, nil
	}
	return Outcome{Valid: true, Algorithm: "sha256", Original: orig, Current: cur}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
