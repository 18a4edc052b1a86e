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

package walk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "z.txt"), []byte("z"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "m.txt"), []byte("m"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "nested", "n.txt"), []byte("n"), 0o644))
	return root
}

func TestContentsFirstLexicographicOrder(t *testing.T) {
	root := writeTree(t)

	var got []string
	err := Walk(root, DefaultOptions(), func(path string) error {
		rel, _ := filepath.Rel(root, path)
		got = append(got, rel)
		return nil
	})
	require.NoError(t, err)

	// "b" sorts between "a.txt" and "z.txt", so its contents are emitted
	// between them.
	require.Equal(t, []string{
		"a.txt",
		filepath.Join("b", "m.txt"),
		filepath.Join("b", "nested", "n.txt"),
		"z.txt",
	}, got)
}

func TestBreadthFirstOrder(t *testing.T) {
	root := writeTree(t)

	opts := DefaultOptions()
	opts.Order = BreadthFirst

	var got []string
	err := Walk(root, opts, func(path string) error {
		rel, _ := filepath.Rel(root, path)
		got = append(got, rel)
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, []string{
		"a.txt",
		"z.txt",
		filepath.Join("b", "m.txt"),
		filepath.Join("b", "nested", "n.txt"),
	}, got)
}

func TestMaxDepthStopsDescent(t *testing.T) {
	root := writeTree(t)

	opts := DefaultOptions()
	opts.MaxDepth = 0

	var got []string
	err := Walk(root, opts, func(path string) error {
		rel, _ := filepath.Rel(root, path)
		got = append(got, rel)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt", "z.txt"}, got)
}

func TestSingleFileRoot(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	var got []string
	err := Walk(path, DefaultOptions(), func(p string) error {
		got = append(got, p)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{path}, got)
}

func TestNoFollowSymlinksSkipsDescent(t *testing.T) {
	if os.Getenv("CI") != "" {
		t.Skip("symlink creation may be restricted in CI sandboxes")
	}
	root := t.TempDir()
	real := filepath.Join(root, "real")
	require.NoError(t, os.Mkdir(real, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(real, "inside.txt"), []byte("x"), 0o644))
	link := filepath.Join(root, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	opts := DefaultOptions()
	opts.FollowSymlinks = false

	var got []string
	err := Walk(root, opts, func(path string) error {
		rel, _ := filepath.Rel(root, path)
		got = append(got, rel)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join("real", "inside.txt")}, got)
}
