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

package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("some compressible content. "), 1024)

	gz, err := Compress(original, DefaultLevel)
	require.NoError(t, err)
	require.NotEqual(t, original, gz)

	back, err := Decompress(gz)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestRoundTripEmpty(t *testing.T) {
	gz, err := Compress(nil, DefaultLevel)
	require.NoError(t, err)

	back, err := Decompress(gz)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestHigherLevelIsNoLarger(t *testing.T) {
	// Redundant input, so higher effort has something to win on.
	input := bytes.Repeat([]byte("abcabcabcabc0123456789"), 4096)

	fast, err := Compress(input, 1)
	require.NoError(t, err)
	best, err := Compress(input, 9)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(best), len(fast))
}

func TestClampLevel(t *testing.T) {
	assert.Equal(t, DefaultLevel, ClampLevel(0))
	assert.Equal(t, 1, ClampLevel(-3))
	assert.Equal(t, 9, ClampLevel(42))
	assert.Equal(t, 5, ClampLevel(5))
}

func TestDecompressRejectsGarbage(t *testing.T) {
	_, err := Decompress([]byte("definitely not gzip"))
	require.ErrorIs(t, err, ErrInvalidGzip)
}

func TestPathClassifier(t *testing.T) {
	assert.True(t, IsCompressed("a/b/c.gz"))
	assert.True(t, IsCompressed("archive.tar.gz"))
	assert.False(t, IsCompressed("a/b/c"))
	assert.False(t, IsCompressed("a.gz/b"))

	assert.Equal(t, "archive.tar", StripSuffix("archive.tar.gz"))
	assert.Equal(t, "plain", StripSuffix("plain"))

	assert.Equal(t, "plain.gz", AddSuffix("plain"))
	assert.Equal(t, "already.gz", AddSuffix("already.gz"))
}
