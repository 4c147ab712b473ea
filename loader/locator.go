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
	"fmt"
	"path/filepath"
)

// Locator names a schema file one of three mutually exclusive ways,
// carried from the original `capnpy.compiler.Compiler` (SPEC_FULL.md
// supplemented feature #2): by Go-style module name, by include-path-relative import
// name, or by an on-disk filename. Exactly one field must be non-empty.
type Locator struct {
	ModuleName string // e.g. "example.com/schema/foo", resolved as foo.capnp
	ImportName string // e.g. "foo.capnp", resolved against include paths
	Filename   string // an exact on-disk path
}

func (l Locator) String() string {
	switch {
	case l.ModuleName != "":
		return "module:" + l.ModuleName
	case l.ImportName != "":
		return "import:" + l.ImportName
	default:
		return "file:" + l.Filename
	}
}

// validate checks that exactly one locator form was supplied.
func (l Locator) validate() error {
	n := 0
	for _, s := range []string{l.ModuleName, l.ImportName, l.Filename} {
		if s != "" {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("loader: exactly one of ModuleName, ImportName, or Filename must be set, got %d", n)
	}
	return nil
}

// resolve turns the locator into a concrete on-disk path to pass to the
// front-end, searching includePaths for ImportName/ModuleName forms.
func (l Locator) resolve(includePaths []string) (string, error) {
	if l.Filename != "" {
		return l.Filename, nil
	}

	name := l.ImportName
	if name == "" {
		// A module name's canonical schema file is its last path component
		// with ".capnp" appended.
		name = filepath.Base(l.ModuleName) + ".capnp"
	}

	for _, dir := range includePaths {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	if len(includePaths) == 0 && fileExists(name) {
		return name, nil
	}
	return "", &SchemaNotFound{Locator: l}
}
