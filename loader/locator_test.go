// Copyright 2026 The capnlite Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocatorValidateExactlyOne(t *testing.T) {
	require.Error(t, (Locator{}).validate())
	require.Error(t, (Locator{ModuleName: "a", ImportName: "b"}).validate())
	require.NoError(t, (Locator{Filename: "foo.capnp"}).validate())
}

func TestLocatorResolveFilename(t *testing.T) {
	path, err := (Locator{Filename: "/some/exact/path.capnp"}).resolve(nil)
	require.NoError(t, err)
	require.Equal(t, "/some/exact/path.capnp", path)
}

func TestLocatorResolveImportNameSearchesIncludePaths(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "foo.capnp")
	require.NoError(t, os.WriteFile(schemaPath, []byte("# not a real schema"), 0o644))

	loc := Locator{ImportName: "foo.capnp"}
	got, err := loc.resolve([]string{t.TempDir(), dir})
	require.NoError(t, err)
	require.Equal(t, schemaPath, got)
}

func TestLocatorResolveNotFound(t *testing.T) {
	loc := Locator{ImportName: "missing.capnp"}
	_, err := loc.resolve([]string{t.TempDir()})

	var notFound *SchemaNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestLocatorResolveModuleNameDerivesCapnpFilename(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "bar.capnp")
	require.NoError(t, os.WriteFile(schemaPath, []byte("# not a real schema"), 0o644))

	loc := Locator{ModuleName: "example.com/schema/bar"}
	got, err := loc.resolve([]string{dir})
	require.NoError(t, err)
	require.Equal(t, schemaPath, got)
}

func TestCompilerDefaultIsUsable(t *testing.T) {
	require.NotNil(t, Default)
	require.True(t, Default.Config.ConvertCase)
}
