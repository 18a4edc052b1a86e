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

// Package walk is hasher's depth-bounded, symlink-policy-aware,
// deterministically-ordered directory traversal. It is built directly on
// os.ReadDir as a cache-free recursive descent with an explicit depth
// counter and an explicit per-directory sort, rather than on
// filepath.WalkDir's callback model, so that post-order and breadth-first
// emission can both be expressed without re-sorting state the stdlib
// walker already discarded.
package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Order selects how files are emitted relative to directory structure.
type Order int

const (
	// ContentsFirst emits a subdirectory's contents at the point the
	// subdirectory is reached in the sorted entry order, before any
	// lexicographically-later sibling; this is post-order and is the
	// default.
	ContentsFirst Order = iota
	// BreadthFirst emits all files at a given depth before descending to
	// the next depth.
	BreadthFirst
)

// DefaultMaxDepth is the default inclusive depth cap; the root is depth 0.
const DefaultMaxDepth = 30

// Options configures a traversal.
type Options struct {
	// MaxDepth is the inclusive depth cap. The root is depth 0.
	MaxDepth int
	// FollowSymlinks, when true (the default), dereferences symlinked
	// directories during descent. When false, a symlink is never
	// descended into, but a symlinked regular file is still yielded.
	FollowSymlinks bool
	// Order selects post-order (ContentsFirst) or breadth-first emission.
	Order Order
}

// DefaultOptions returns the documented default traversal parameters.
func DefaultOptions() Options {
	return Options{
		MaxDepth:       DefaultMaxDepth,
		FollowSymlinks: true,
		Order:          ContentsFirst,
	}
}

// Walk traverses root according to opts, calling fn once for every regular
// file encountered (directories are never passed to fn). fn receives the
// file's full path. Entries within a directory are visited in lexicographic
// order by file name.
func Walk(root string, opts Options, fn func(path string) error) error {
	fi, err := os.Lstat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}

	if !fi.IsDir() {
		if fi.Mode().IsRegular() {
			return fn(root)
		}
		return nil
	}

	switch opts.Order {
	case BreadthFirst:
		return walkBreadthFirst(root, opts, fn)
	default:
		return walkContentsFirst(root, 0, opts, fn)
	}
}

// walkContentsFirst implements post-order traversal: entries are visited in
// lexicographic order by name, and a subdirectory's contents are emitted at
// the point the subdirectory is reached in that order, before any
// lexicographically-later sibling.
func walkContentsFirst(dir string, depth int, opts Options, fn func(path string) error) error {
	entries, err := readSortedDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		isDir, err := isDescendable(path, e, opts)
		if err != nil {
			return err
		}
		if isDir {
			if depth < opts.MaxDepth {
				if err := walkContentsFirst(path, depth+1, opts, fn); err != nil {
					return err
				}
			}
			continue
		}

		if isRegular(path, e) {
			if err := fn(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkBreadthFirst implements level-order traversal: every file at a given
// depth is yielded (in per-directory lexicographic order) before any file
// at the next depth.
func walkBreadthFirst(root string, opts Options, fn func(path string) error) error {
	level := []string{root}

	for depth := 0; len(level) > 0; depth++ {
		var next []string
		for _, dir := range level {
			entries, err := readSortedDir(dir)
			if err != nil {
				return err
			}
			for _, e := range entries {
				path := filepath.Join(dir, e.Name())

				isDir, err := isDescendable(path, e, opts)
				if err != nil {
					return err
				}
				if isDir {
					if depth < opts.MaxDepth {
						next = append(next, path)
					}
					continue
				}

				if isRegular(path, e) {
					if err := fn(path); err != nil {
						return err
					}
				}
			}
		}
		level = next
	}
	return nil
}

// readSortedDir reads dir's entries, sorted lexicographically by name.
func readSortedDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// isDescendable reports whether path should be recursed into: it is a
// directory, or (when FollowSymlinks is set) a symlink that resolves to one.
func isDescendable(path string, e os.DirEntry, opts Options) (bool, error) {
	if e.IsDir() {
		return true, nil
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false, nil
	}
	if !opts.FollowSymlinks {
		return false, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		// A dangling symlink is neither descendable nor a regular file;
		// treat it as neither rather than failing the whole walk.
		return false, nil
	}
	return fi.IsDir(), nil
}

// isRegular reports whether path names a regular file, dereferencing a
// symlink if e names one.
func isRegular(path string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink != 0 {
		fi, err := os.Stat(path)
		if err != nil {
			return false
		}
		return fi.Mode().IsRegular()
	}
	info, err := e.Info()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
