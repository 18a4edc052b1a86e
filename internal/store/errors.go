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

package store

import "errors"

var (
	// ErrNotFound indicates Lookup found no row for the requested path.
	ErrNotFound = errors.New("path not found in store")

	// ErrDbLocked indicates an INSERT hit SQLITE_BUSY for longer than the
	// retry budget.
	ErrDbLocked = errors.New("database locked")

	// ErrInvalidTableName indicates a table name failed the identifier
	// regex and was rejected before any SQL text was built from it.
	ErrInvalidTableName = errors.New("invalid table name")
)
