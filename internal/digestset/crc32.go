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
	"hash"
	"hash/crc32"
)

// crc32Digest wraps the stdlib IEEE CRC32 checksum. The generic hash.Hash
// interface's Sum(nil) would encode the checksum big-endian (the stdlib
// digest's Sum method appends it that way); fixture vectors pin CRC32's
// finalization as little-endian instead, so Sum32() is encoded by hand here
// rather than delegating to Hash.Sum.
type crc32Digest struct {
	h hash.Hash32
}

func newCRC32() Digest {
	return &crc32Digest{h: crc32.NewIEEE()}
}

func (c *crc32Digest) Write(p []byte) (int, error) {
	return c.h.Write(p)
}

func (c *crc32Digest) Reset() {
	c.h.Reset()
}

func (c *crc32Digest) Sum() []byte {
	s := c.h.Sum32()
	return []byte{
		byte(s),
		byte(s >> 8),
		byte(s >> 16),
		byte(s >> 24),
	}
}
