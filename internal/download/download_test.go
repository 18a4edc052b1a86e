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

package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAllWritesEveryURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload:" + r.URL.Path))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	c := New(Config{Concurrency: 2})

	urls := []string{srv.URL + "/a.txt", srv.URL + "/b.txt"}
	results := make(map[string]Result)
	for res := range c.FetchAll(context.Background(), urls, destDir, DefaultRelPath) {
		results[res.URL] = res
	}

	require.Len(t, results, 2)
	for _, u := range urls {
		r := results[u]
		assert.True(t, r.Success)
		assert.NoError(t, r.Err)
		data, err := os.ReadFile(r.Path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "payload:")
	}
}

func TestFetchAllDrainsWithMoreURLsThanConcurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	c := New(Config{Concurrency: 2})

	// More URLs than the in-flight cap: the batch must still complete with
	// one result per URL while the caller drains lazily.
	var urls []string
	for i := 0; i < 9; i++ {
		urls = append(urls, srv.URL+"/f"+string(rune('0'+i))+".txt")
	}

	var count int
	for res := range c.FetchAll(context.Background(), urls, destDir, DefaultRelPath) {
		assert.True(t, res.Success)
		count++
	}
	assert.Equal(t, len(urls), count)
}

func TestNoClobberSkipsExistingWithoutRequest(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	existing := filepath.Join(destDir, "a.txt")
	require.NoError(t, os.WriteFile(existing, []byte("preexisting"), 0o644))

	c := New(Config{NoClobber: true})
	results := collectOne(t, c, srv.URL+"/a.txt", destDir)

	assert.True(t, results.Success)
	assert.ErrorIs(t, results.Err, ErrFileExists)
	assert.Equal(t, int64(len("preexisting")), results.Size)
	assert.False(t, requested)
}

func TestDryRunDoesNotWriteFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	c := New(Config{DryRun: true})
	res := collectOne(t, c, srv.URL+"/a.txt", destDir)

	require.True(t, res.Success)
	_, err := os.Stat(res.Path)
	assert.True(t, os.IsNotExist(err))
}

func collectOne(t *testing.T, c *Client, url, destDir string) Result {
	t.Helper()
	for res := range c.FetchAll(context.Background(), []string{url}, destDir, DefaultRelPath) {
		return res
	}
	t.Fatal("no result produced")
	return Result{}
}
