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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{
		"crc32":  true,
		"md5":    true,
		"sha1":   true,
		"sha256": true,
	}, cfg.Hashes)
	assert.Empty(t, cfg.Database.DBString)
}

func TestLoadDecodesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
db_string = "sqlite://test.db"
table_name = "digests"

[hashes]
sha256 = true
blake3 = true
md5 = false

[options]
fail_fast = true
compression_level = 9

[logging]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite://test.db", cfg.Database.DBString)
	assert.Equal(t, "digests", cfg.Database.TableName)
	assert.True(t, cfg.Hashes["sha256"])
	assert.True(t, cfg.Hashes["blake3"])
	assert.False(t, cfg.Hashes["md5"])
	assert.True(t, cfg.Options.FailFast)
	assert.Equal(t, 9, cfg.Options.CompressionLevel)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database\nnope"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestMergeCLIWins(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{TableName: "from_file"},
		Hashes:   map[string]bool{"sha256": true, "md5": true},
		Options:  Options{CompressionLevel: 3, FailFast: true},
	}

	level := 7
	table := "from_cli"
	cfg.Merge(Overrides{
		CompressionLevel: &level,
		TableName:        &table,
		Hashes:           map[string]bool{"md5": false, "blake3": true},
	})

	assert.Equal(t, 7, cfg.Options.CompressionLevel)
	assert.Equal(t, "from_cli", cfg.Database.TableName)
	// Untouched fields keep their file values.
	assert.True(t, cfg.Options.FailFast)
	// Hash overrides merge entry-by-entry.
	assert.True(t, cfg.Hashes["sha256"])
	assert.False(t, cfg.Hashes["md5"])
	assert.True(t, cfg.Hashes["blake3"])
}

func TestMergeUnsetFlagsDontClobber(t *testing.T) {
	cfg := &Config{
		Options: Options{MaxDepth: 12, UseWAL: true},
		Hashes:  map[string]bool{"sha256": true},
	}

	cfg.Merge(Overrides{})

	assert.Equal(t, 12, cfg.Options.MaxDepth)
	assert.True(t, cfg.Options.UseWAL)
	assert.True(t, cfg.Hashes["sha256"])
}
