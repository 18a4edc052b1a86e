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

import "errors"

var (
	// ErrFileChanged indicates a file's mtime or size moved during a copy
	// engine equivalence comparison.
	ErrFileChanged = errors.New("file changed during comparison")

	// ErrMissingBaseline indicates a stored row lacks at least crc32 and
	// sha256, so the verify engine can't establish a baseline comparison
	// and must skip the path with a warning.
	ErrMissingBaseline = errors.New("stored row missing crc32/sha256 baseline")
)
