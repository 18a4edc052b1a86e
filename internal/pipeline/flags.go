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

// Package pipeline is hasher's compression-aware ingest, copy and verify
// engines: the decision tree for what bytes get hashed, the skip-existing
// equivalence check, and the baseline comparison used by verify.
package pipeline

import "github.com/meemo/hasher/internal/compress"

// IngestFlags controls the compression decision matrix for a single input.
type IngestFlags struct {
	Compress         bool
	Decompress       bool
	HashBoth         bool
	HashCompressed   bool
	HashUncompressed bool
	CompressionLevel int
}

// CopyFlags controls the copy engine's destination-naming, skip-existing,
// and transfer-transform decisions.
type CopyFlags struct {
	Compress         bool
	Decompress       bool
	CompressionLevel int
	SkipExisting     bool
	NoHashExisting   bool
	StoreSourcePath  bool
}

// VerifyFlags controls the verify engine's output filtering.
type VerifyFlags struct {
	MismatchesOnly bool
}

// finalDest computes the destination path a CopyFlags configuration writes
// to, given the caller-supplied dest.
func (f CopyFlags) finalDest(dest string) string {
	switch {
	case f.Compress && !compress.IsCompressed(dest):
		return compress.AddSuffix(dest)
	case f.Decompress && compress.IsCompressed(dest):
		return compress.StripSuffix(dest)
	default:
		return dest
	}
}
