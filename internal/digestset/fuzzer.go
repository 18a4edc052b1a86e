//go:build gofuzz

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
	fuzz "github.com/AdaLogics/go-fuzz-headers"
)

// Fuzz exercises identifier lookup and digest construction with arbitrary
// identifiers and input bytes, the way a hostile config file would: unknown
// identifiers must be cleanly rejected by Available, and known ones must
// produce a usable digest whose finalization has a stable length.
func Fuzz(data []byte) int {
	f := fuzz.NewConsumer(data)

	id, err := f.GetString()
	if err != nil {
		return -1
	}
	payload, err := f.GetBytes()
	if err != nil {
		return -1
	}

	alg := Algorithm(id)
	if !Available(alg) {
		return 0
	}

	instances := Instantiate(map[Algorithm]bool{alg: true})
	if len(instances) != 1 {
		panic("Instantiate returned wrong instance count for a known algorithm")
	}

	d := instances[0].Digest
	if _, err := d.Write(payload); err != nil {
		panic("digest Write failed: " + err.Error())
	}
	first := d.Sum()

	d.Reset()
	if _, err := d.Write(payload); err != nil {
		panic("digest Write failed after Reset: " + err.Error())
	}
	second := d.Sum()

	if len(first) != len(second) {
		panic("digest output length changed across Reset")
	}
	for i := range first {
		if first[i] != second[i] {
			panic("digest output changed across Reset for identical input")
		}
	}
	return 1
}
