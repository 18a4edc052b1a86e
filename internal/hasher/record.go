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

package hasher

import "github.com/meemo/hasher/internal/digestset"

// AlgDigest is one finalized (algorithm, digest bytes) pair.
type AlgDigest struct {
	ID    digestset.Algorithm
	Bytes []byte
}

// Record is the tuple (path, size, {algorithm -> digest bytes}) produced by
// finalizing a hashing operation. Digests is ordered with crc32 first (if
// enabled), then the remaining algorithms in registry canonical order. JSON
// emission (sorted keys) and database column binding (canonical order) each
// fix their own order and don't depend on this one.
type Record struct {
	Path    string
	Size    int64
	Digests []AlgDigest
}

// Get returns the digest bytes for id and whether it was present.
func (r Record) Get(id digestset.Algorithm) ([]byte, bool) {
	for _, d := range r.Digests {
		if d.ID == id {
			return d.Bytes, true
		}
	}
	return nil, false
}
