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

// LoadOption configures one [Compiler.LoadSchema] call, a closure wrapping
// a private options struct so new knobs can be added without breaking
// callers.
type LoadOption struct{ apply func(*loadOptions) }

type loadOptions struct {
	includePaths []string
	convertCase  *bool
	outDir       string // if non-empty, write generated *.capnlite.go source here
}

// WithIncludePaths appends additional include paths for this call only, on
// top of the [Compiler]'s configured [Config.IncludePaths].
func WithIncludePaths(paths ...string) LoadOption {
	return LoadOption{func(o *loadOptions) { o.includePaths = append(o.includePaths, paths...) }}
}

// WithConvertCase overrides the Compiler's configured case-conversion
// setting for this call only.
func WithConvertCase(convert bool) LoadOption {
	return LoadOption{func(o *loadOptions) { o.convertCase = &convert }}
}

// WithOutputDir additionally writes the generated Go source for each
// requested file to dir, in a file named <scratchID>.capnlite.go, where
// scratchID is a random prefix that keeps concurrent calls from colliding.
func WithOutputDir(dir string) LoadOption {
	return LoadOption{func(o *loadOptions) { o.outDir = dir }}
}
