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

package hasher

import "errors"

// Error taxonomy. These are sentinels, not types: callers use errors.Is
// against them, and the underlying cause (if any) is reachable with
// errors.Unwrap because every returned error is built with
// fmt.Errorf("...: %w", err).
var (
	// ErrFileChanged indicates the file's mtime moved between the initial
	// probe and a later re-probe during reading.
	ErrFileChanged = errors.New("file changed while hashing")

	// ErrInvalidInput indicates the path was not a regular file.
	ErrInvalidInput = errors.New("invalid input for hashing")

	// ErrIoFailure indicates a non-retryable read error.
	ErrIoFailure = errors.New("i/o failure while hashing")

	// ErrThreadPanic indicates a per-digest worker failed (a panic was
	// recovered, or a Write call returned an error); no partial record is
	// ever returned when this occurs.
	ErrThreadPanic = errors.New("digest worker failure")
)
