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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meemo/hasher/internal/compress"
	"github.com/meemo/hasher/internal/digestset"
	"github.com/meemo/hasher/internal/hasher"
	"github.com/meemo/hasher/internal/store"
)

func defaultEnabled() map[digestset.Algorithm]bool {
	return map[digestset.Algorithm]bool{"crc32": true, "md5": true, "sha1": true, "sha256": true}
}

func TestIngestHashBothOnGzInput(t *testing.T) {
	dir := t.TempDir()
	gz, err := compress.Compress([]byte("hello"), 6)
	require.NoError(t, err)
	gzPath := filepath.Join(dir, "x.gz")
	require.NoError(t, os.WriteFile(gzPath, gz, 0o644))

	h := hasher.New(defaultEnabled())
	ing := &Ingest{Hasher: h}

	recs, err := computeRecordsFromPath(h, gzPath, IngestFlags{HashBoth: true})
	require.NoError(t, err)
	_ = ing
	require.Len(t, recs, 2)

	var gzRec, plainRec *hasher.Record
	for i := range recs {
		if recs[i].Path == gzPath {
			gzRec = &recs[i]
		} else {
			plainRec = &recs[i]
		}
	}
	require.NotNil(t, gzRec)
	require.NotNil(t, plainRec)
	assert.Equal(t, int64(len(gz)), gzRec.Size)
	assert.Equal(t, filepath.Join(dir, "x"), plainRec.Path)
	assert.Equal(t, int64(5), plainRec.Size)
}

func TestCopyCompressThenSkipExisting(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("0123456789"), 0o644))

	destDir := t.TempDir()
	dest := filepath.Join(destDir, "src.txt")

	h := hasher.New(defaultEnabled())
	c := &Copy{Ingest: &Ingest{Hasher: h, DryRun: true}}

	copyFlags := CopyFlags{Compress: true, CompressionLevel: 6}
	res, err := c.Do(src, dest, copyFlags, IngestFlags{})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, filepath.Join(destDir, "src.txt.gz"), res.FinalDest)

	_, err = os.Stat(res.FinalDest)
	require.NoError(t, err)

	skipFlags := CopyFlags{Compress: true, CompressionLevel: 6, SkipExisting: true}
	res2, err := c.Do(src, dest, skipFlags, IngestFlags{})
	require.NoError(t, err)
	assert.True(t, res2.Skipped)
	assert.Equal(t, "hash match", res2.SkipReason)
}

func TestCopyNoHashExistingUsesSizeOnly(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("abcdef"), 0o644))

	destDir := t.TempDir()
	dest := filepath.Join(destDir, "src.txt")
	require.NoError(t, os.WriteFile(dest, []byte("zzzzzz"), 0o644))

	// Make mtimes stable so the comparison doesn't race.
	now := time.Now()
	require.NoError(t, os.Chtimes(src, now, now))
	require.NoError(t, os.Chtimes(dest, now, now))

	h := hasher.New(defaultEnabled())
	c := &Copy{Ingest: &Ingest{Hasher: h, DryRun: true}}

	flags := CopyFlags{SkipExisting: true, NoHashExisting: true}
	res, err := c.Do(src, dest, flags, IngestFlags{})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "size match", res.SkipReason)
}

func TestVerifyDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A")
	require.NoError(t, os.WriteFile(path, []byte("original content"), 0o644))

	st, err := store.Open(filepath.Join(dir, "hasher.db"), "hashes", false)
	require.NoError(t, err)
	defer st.Close(false)

	h := hasher.New(defaultEnabled())
	_, rec, err := h.HashFile(path)
	require.NoError(t, err)

	digests := make(map[digestset.Algorithm][]byte)
	for _, d := range rec.Digests {
		digests[d.ID] = d.Bytes
	}
	require.NoError(t, st.Insert(store.Row{Path: path, Size: rec.Size, Digests: digests}))

	// Tamper with the file after the baseline was recorded.
	require.NoError(t, os.WriteFile(path, []byte("original CONTENT"), 0o644))

	v := &Verify{Hasher: h, Store: st}
	outcome, err := v.Check(path, IngestFlags{})
	require.NoError(t, err)
	assert.False(t, outcome.Valid)
	assert.Equal(t, digestset.Algorithm("sha256"), outcome.Algorithm)
}

func TestVerifyPassesForUnmodifiedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A")
	require.NoError(t, os.WriteFile(path, []byte("stable content"), 0o644))

	st, err := store.Open(filepath.Join(dir, "hasher.db"), "hashes", false)
	require.NoError(t, err)
	defer st.Close(false)

	h := hasher.New(defaultEnabled())
	_, rec, err := h.HashFile(path)
	require.NoError(t, err)

	digests := make(map[digestset.Algorithm][]byte)
	for _, d := range rec.Digests {
		digests[d.ID] = d.Bytes
	}
	require.NoError(t, st.Insert(store.Row{Path: path, Size: rec.Size, Digests: digests}))

	v := &Verify{Hasher: h, Store: st}
	outcome, err := v.Check(path, IngestFlags{})
	require.NoError(t, err)
	assert.True(t, outcome.Valid)
}

func TestVerifyMissingBaselineSkips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	st, err := store.Open(filepath.Join(dir, "hasher.db"), "hashes", false)
	require.NoError(t, err)
	defer st.Close(false)

	require.NoError(t, st.Insert(store.Row{Path: path, Size: 1, Digests: map[digestset.Algorithm][]byte{"md5": make([]byte, 16)}}))

	h := hasher.New(defaultEnabled())
	v := &Verify{Hasher: h, Store: st}
	outcome, err := v.Check(path, IngestFlags{})
	require.Error(t, err)
	assert.True(t, outcome.Skip)
}

func TestVerifyFallsBackToGzSibling(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A")
	original := []byte("to be gzipped")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	st, err := store.Open(filepath.Join(dir, "hasher.db"), "hashes", false)
	require.NoError(t, err)
	defer st.Close(false)

	h := hasher.New(defaultEnabled())
	_, rec, err := h.HashFile(path)
	require.NoError(t, err)
	digests := make(map[digestset.Algorithm][]byte)
	for _, d := range rec.Digests {
		digests[d.ID] = d.Bytes
	}
	require.NoError(t, st.Insert(store.Row{Path: path, Size: rec.Size, Digests: digests}))

	gz, err := compress.Compress(original, 6)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path+".gz", gz, 0o644))

	v := &Verify{Hasher: h, Store: st}
	outcome, err := v.Check(path, IngestFlags{HashUncompressed: true})
	require.NoError(t, err)
	assert.True(t, outcome.Valid)
	assert.Equal(t, path+".gz", outcome.Current.Path)
}
