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

// Package loader runs the schema-loading pipeline: invoke the external
// schema front-end, decode its CodeGeneratorRequest output with package
// capnlite and package schema, emit source with package emit, and cache
// the result by canonical filename.
//
// The front-end named by [Config.CapnpPath] must speak package schema's
// private CodeGeneratorRequest encoding, not the upstream capnp
// distribution's schema.capnp wire format.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
	"golang.org/x/tools/imports"

	"capnlite"
	"capnlite/emit"
	"capnlite/schema"
)

// Compiler loads and caches compiled schemas, explicitly scoped to one
// object rather than a package-level global.
//
// A single mutex serializes cache insertions across concurrent
// [Compiler.LoadSchema] calls.
type Compiler struct {
	Config Config

	mu    sync.Mutex
	cache map[string]*schema.Request // keyed by resolved, canonical filename
}

// NewCompiler constructs a Compiler with the given configuration.
func NewCompiler(cfg Config) *Compiler {
	return &Compiler{Config: cfg, cache: make(map[string]*schema.Request)}
}

// Default is the package-wide default Compiler instance, used by the
// [LoadSchema] convenience function.
var Default = NewCompiler(DefaultConfig())

// LoadSchema loads and compiles loc against the package-wide [Default]
// Compiler.
func LoadSchema(loc Locator, opts ...LoadOption) (*Module, error) {
	return Default.LoadSchema(loc, opts...)
}

// LoadSchema runs the full pipeline for one schema file:
//
//  1. resolve loc to an on-disk path and invoke the external front-end
//  2. wrap its stdout as a [capnlite.Buffer] and decode it with
//     [schema.BuildRequest]
//  3. emit Go source for the requested file with [emit.Emitter] (written to
//     disk only if [WithOutputDir] was given)
//  4. return a [Module] handle, caching the decoded request by resolved
//     filename
func (c *Compiler) LoadSchema(loc Locator, opts ...LoadOption) (*Module, error) {
	if err := loc.validate(); err != nil {
		return nil, err
	}

	o := loadOptions{includePaths: append([]string(nil), c.Config.IncludePaths...)}
	for _, opt := range opts {
		opt.apply(&o)
	}
	convertCase := c.Config.ConvertCase
	if o.convertCase != nil {
		convertCase = *o.convertCase
	}

	path, err := loc.resolve(o.includePaths)
	if err != nil {
		return nil, err
	}
	canonical, err := filepath.Abs(path)
	if err != nil {
		canonical = path
	}

	if cached, ok := c.cachedRequest(canonical); ok {
		return c.moduleFor(cached)
	}

	capnpPath := c.Config.CapnpPath
	if capnpPath == "" {
		capnpPath = "capnp"
	}

	var reqBytes []byte
	if c.Config.RemoteHost != "" {
		schemaBytes, err := os.ReadFile(canonical)
		if err != nil {
			return nil, err
		}
		reqBytes, err = runFrontendRemote(c.Config.RemoteHost, capnpPath, schemaBytes, o.includePaths)
		if err != nil {
			return nil, err
		}
	} else {
		reqBytes, err = runFrontend(context.Background(), capnpPath, o.includePaths, canonical)
		if err != nil {
			return nil, err
		}
	}

	buf, err := capnlite.ParseMessage(reqBytes)
	if err != nil {
		return nil, fmt.Errorf("loader: decoding CodeGeneratorRequest: %w", err)
	}
	req, err := schema.BuildRequest(buf)
	if err != nil {
		return nil, fmt.Errorf("loader: decoding CodeGeneratorRequest: %w", err)
	}

	if o.outDir != "" {
		if err := c.writeGenerated(req, o.outDir, convertCase); err != nil {
			return nil, err
		}
	}

	c.storeRequest(canonical, req)
	return c.moduleFor(req)
}

func (c *Compiler) cachedRequest(canonical string) (*schema.Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	req, ok := c.cache[canonical]
	if !ok {
		return nil, false
	}
	// Deep-copy the cached request out so that a caller mutating a Node in
	// place (schema nodes are plain exported structs) can't corrupt the
	// cached copy seen by the next LoadSchema call.
	var clone *schema.Request
	if err := deepcopy.Copy(&clone, &req); err != nil {
		return req, true // fall back to sharing rather than failing a cache hit
	}
	return clone, true
}

func (c *Compiler) storeRequest(canonical string, req *schema.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[canonical] = req
}

func (c *Compiler) moduleFor(req *schema.Request) (*Module, error) {
	if len(req.FileNodes) == 0 {
		return nil, fmt.Errorf("loader: CodeGeneratorRequest names no requested files")
	}
	return &Module{Request: req, FileID: req.FileNodes[0]}, nil
}

// writeGenerated runs package emit over every requested file in req and
// writes the formatted result to dir, named <scratchID>.capnlite.go where
// scratchID disambiguates concurrent LoadSchema calls targeting the same
// output directory.
func (c *Compiler) writeGenerated(req *schema.Request, dir string, convertCase bool) error {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return err
	}
	pkg := filepath.Base(dir)
	for _, fileID := range req.FileNodes {
		e := emit.NewEmitter(req, pkg, convertCase)
		src, err := e.EmitFile(fileID)
		if err != nil {
			var ce *emit.CodegenError
			if ok := asCodegenError(err, &ce); ok {
				return ce
			}
			return err
		}
		formatted, err := imports.Process("generated.capnlite.go", src, nil)
		if err != nil {
			// Fall back to the unformatted source rather than losing the
			// generation entirely; a malformed emission is still useful for
			// debugging the emitter itself.
			formatted = src
		}
		name := fmt.Sprintf("%s.capnlite.go", uuid.NewString()[:8])
		if err := os.WriteFile(filepath.Join(dir, name), formatted, 0o666); err != nil {
			return err
		}
	}
	return nil
}

func asCodegenError(err error, target **emit.CodegenError) bool {
	ce, ok := err.(*emit.CodegenError)
	if ok {
		*target = ce
	}
	return ok
}
