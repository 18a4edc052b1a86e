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

package digestset

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash/adler32"
	"hash/crc64"
	"hash/fnv"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4" //nolint:staticcheck // MD4 is part of the catalog, not used for security.
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"github.com/cespare/xxhash/v2"
)

// Algorithm is a stable identifier from the closed catalog below. It is used
// verbatim in JSON output, as a database column name, and in config files.
type Algorithm string

// entry pairs an Algorithm with a constructor for a fresh Digest.
type entry struct {
	id  Algorithm
	new func() Digest
}

// registry is the canonical, order-independent source of truth: identifier
// to constructor. Canonical() below is what actually fixes iteration order,
// so insertion order here is irrelevant (and deliberately not alphabetical,
// to make that point).
var registry = map[Algorithm]func() Digest{
	"crc32": newCRC32,

	"crc64_iso":  func() Digest { return fromHash(crc64.New(crc64.MakeTable(crc64.ISO))) },
	"crc64_ecma": func() Digest { return fromHash(crc64.New(crc64.MakeTable(crc64.ECMA))) },
	"adler32":    func() Digest { return fromHash(adler32.New()) },

	"fnv1_32":   func() Digest { return fromHash(fnv.New32()) },
	"fnv1a_32":  func() Digest { return fromHash(fnv.New32a()) },
	"fnv1_64":   func() Digest { return fromHash(fnv.New64()) },
	"fnv1a_64":  func() Digest { return fromHash(fnv.New64a()) },
	"fnv1_128":  func() Digest { return fromHash(fnv.New128()) },
	"fnv1a_128": func() Digest { return fromHash(fnv.New128a()) },

	"md4":  func() Digest { return fromHash(md4.New()) },
	"md5":  func() Digest { return fromHash(md5.New()) },
	"sha1": func() Digest { return fromHash(sha1.New()) },

	"sha224": func() Digest { return fromHash(sha256.New224()) },
	"sha256": func() Digest { return fromHash(sha256.New()) },

	"sha384":     func() Digest { return fromHash(sha512.New384()) },
	"sha512":     func() Digest { return fromHash(sha512.New()) },
	"sha512_224": func() Digest { return fromHash(sha512.New512_224()) },
	"sha512_256": func() Digest { return fromHash(sha512.New512_256()) },

	"sha3_224": func() Digest { return fromHash(sha3.New224()) },
	"sha3_256": func() Digest { return fromHash(sha3.New256()) },
	"sha3_384": func() Digest { return fromHash(sha3.New384()) },
	"sha3_512": func() Digest { return fromHash(sha3.New512()) },

	"ripemd160": func() Digest { return fromHash(ripemd160.New()) },

	"blake2b_256": func() Digest {
		h, _ := blake2b.New256(nil)
		return fromHash(h)
	},
	"blake2b_384": func() Digest {
		h, _ := blake2b.New384(nil)
		return fromHash(h)
	},
	"blake2b_512": func() Digest {
		h, _ := blake2b.New512(nil)
		return fromHash(h)
	},
	"blake2s_256": func() Digest {
		h, _ := blake2s.New256(nil)
		return fromHash(h)
	},

	"blake3": func() Digest { return fromHash(blake3.New(32, nil)) },

	"xxh64": func() Digest { return fromHash(xxhash.New()) },
}

// canonical is the fixed iteration order used by Instantiate for every config
// containing the same set of enabled algorithms, so that JSON field order and
// database column binding never depend on map iteration order or the order
// the config happened to list algorithms in. It is alphabetical by
// identifier; finalization (in the hasher package) additionally moves crc32
// to the front of the finalized list.
var canonical = func() []Algorithm {
	ids := make([]Algorithm, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}()

// Algorithms returns every algorithm identifier known to the registry, in
// canonical order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(canonical))
	copy(out, canonical)
	return out
}

// Available reports whether id is a known algorithm identifier.
func Available(id Algorithm) bool {
	_, ok := registry[id]
	return ok
}

// Instantiate returns a fresh Digest for every algorithm in enabled, in
// canonical registry order regardless of the order enabled was built in.
// Identifiers in enabled that the registry doesn't know are ignored here;
// rejecting them is left to the caller's config validation.
func Instantiate(enabled map[Algorithm]bool) []Instance {
	var out []Instance
	for _, id := range canonical {
		if !enabled[id] {
			continue
		}
		out = append(out, Instance{ID: id, Digest: registry[id]()})
	}
	return out
}

// Instance is one live (algorithm, digest-state) pair produced by
// Instantiate.
type Instance struct {
	ID     Algorithm
	Digest Digest
}
