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
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalOrderIsStableAndSorted(t *testing.T) {
	first := Algorithms()
	second := Algorithms()
	require.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.Lessf(t, first[i-1], first[i], "canonical order must be alphabetical")
	}
}

func TestInstantiateOnlyEnabled(t *testing.T) {
	enabled := map[Algorithm]bool{"md5": true, "sha256": true}
	instances := Instantiate(enabled)
	require.Len(t, instances, 2)

	ids := []Algorithm{instances[0].ID, instances[1].ID}
	assert.Equal(t, []Algorithm{"md5", "sha256"}, ids, "instances are in canonical (alphabetical) order")
}

func TestCRC32LittleEndian(t *testing.T) {
	// CRC32/IEEE of "123456789" is the well-known check value 0xCBF43926.
	d := newCRC32()
	_, err := d.Write([]byte("123456789"))
	require.NoError(t, err)

	got := d.Sum()
	require.Len(t, got, 4)
	assert.Equal(t, "26 39 f4 cb", hexSpaced(got), "crc32 finalizes little-endian")
}

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		in   string
		want string
	}{
		{"md5", "abc", "900150983cd24fb0d6963f7d28e17f72"},
		{"sha1", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha256", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"sha256", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg)+"/"+tt.in, func(t *testing.T) {
			newFn, ok := registry[tt.alg]
			require.True(t, ok)
			d := newFn()
			_, err := d.Write([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(d.Sum()))
		})
	}
}

func TestEmptyBufferCRC32IsFourZeroBytes(t *testing.T) {
	d := newCRC32()
	assert.Equal(t, []byte{0, 0, 0, 0}, d.Sum())
}

func hexSpaced(b []byte) string {
	out := make([]byte, 0, len(b)*3)
	for i, c := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hex.EncodeToString([]byte{c})...)
	}
	return string(out)
}
