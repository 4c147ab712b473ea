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

import "fmt"

// SchemaNotFound is returned when none of a [Locator]'s include paths
// contain the requested schema file.
type SchemaNotFound struct {
	Locator Locator
}

func (e *SchemaNotFound) Error() string {
	return fmt.Sprintf("loader: schema not found: %s", e.Locator)
}

// SchemaCompileError wraps a non-zero exit from the external `capnp
// compile` front-end, surfacing its captured standard error and the exact
// command line that was run.
type SchemaCompileError struct {
	CommandLine string
	Stderr      string
	ExitCode    int
}

func (e *SchemaCompileError) Error() string {
	return fmt.Sprintf("loader: schema compile failed (exit %d): %s\n%s", e.ExitCode, e.CommandLine, e.Stderr)
}
