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

// Package digestset is the canonical registry of digest algorithms known to
// hasher: a stable, ordered mapping from algorithm identifier to a fresh
// incremental digest state, modelled on the capability-style Digester
// interface opencontainers/go-digest exposes (Hash()-shaped state plus a
// finalizing Digest()), but covering a much larger algorithm catalog than
// go-digest's fixed sha256/sha384/sha512 family supports.
package digestset

import "hash"

// Digest is the incremental state for a single enabled algorithm. It is the
// minimal capability set the streaming hasher needs: absorb bytes, finalize
// to fixed-length output, and reset for reuse.
type Digest interface {
	// Write absorbs bytes into the running digest. Never returns a short
	// write or a non-nil error, matching hash.Hash's contract.
	Write(p []byte) (int, error)

	// Sum returns the finalized digest bytes without mutating the state,
	// so a caller can Sum and keep absorbing if it needs to (the streaming
	// hasher never does this, but the contract matches hash.Hash.Sum).
	Sum() []byte

	// Reset clears the state back to the algorithm's initial value.
	Reset()
}

// hashDigest adapts a stdlib/x-crypto hash.Hash into a Digest.
type hashDigest struct {
	hash.Hash
}

func (h hashDigest) Sum() []byte {
	return h.Hash.Sum(nil)
}

func fromHash(h hash.Hash) Digest {
	return hashDigest{Hash: h}
}
