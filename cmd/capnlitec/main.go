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

// Command capnlitec is the `capnp compile` code generation plugin: the front-end execs it with a serialized CodeGeneratorRequest on
// stdin and nothing else. It decodes that request with package schema and
// writes one *.capnlite.go file per requested schema file, next to the
// schema file itself, using package emit.
//
// Invoke it through the front-end, not directly:
//
//	capnp compile -o capnlitec foo.capnp
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"capnlite"
	"capnlite/emit"
	"capnlite/internal/dbg"
	"capnlite/schema"
)

func main() {
	convertCase := flag.Bool("convert-case", true, "convert schema field names to UpperCamelCase (false: only capitalize the first letter)")
	pkgFlag := flag.String("package", "", "Go package name for generated files (default: derived from each schema file's basename)")
	flag.Parse()

	if err := run(os.Stdin, *convertCase, *pkgFlag); err != nil {
		fmt.Fprintln(os.Stderr, "capnlitec:", err)
		os.Exit(1)
	}
}

func run(stdin io.Reader, convertCase bool, pkgOverride string) error {
	defer dbg.PushTrace()()

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}
	buf, err := capnlite.ParseMessage(raw)
	if err != nil {
		return fmt.Errorf("parsing request: %w", err)
	}
	req, err := schema.BuildRequest(buf)
	if err != nil {
		return fmt.Errorf("decoding CodeGeneratorRequest: %w", err)
	}
	dbg.Log("capnlitec", "decoded request with %d file(s), %d node(s)", len(req.FileNodes), len(req.Nodes))

	for _, fileID := range req.FileNodes {
		if err := emitOne(req, fileID, convertCase, pkgOverride); err != nil {
			return err
		}
	}
	return nil
}

func emitOne(req *schema.Request, fileID uint64, convertCase bool, pkgOverride string) error {
	node, ok := req.NodeByID(fileID)
	if !ok {
		return fmt.Errorf("request names unknown file node %#x", fileID)
	}

	outPath := outputPath(node.DisplayName)
	pkg := pkgOverride
	if pkg == "" {
		pkg = packageNameFor(node.DisplayName)
	}

	e := emit.NewEmitter(req, pkg, convertCase)
	src, err := e.EmitFile(fileID)
	if err != nil {
		return fmt.Errorf("%s: %w", node.DisplayName, err)
	}

	formatted, err := imports.Process(outPath, src, nil)
	if err != nil {
		return fmt.Errorf("%s: formatting generated source: %w", node.DisplayName, err)
	}

	dbg.Log("capnlitec", "writing %s (%d bytes)", outPath, len(formatted))
	return os.WriteFile(outPath, formatted, 0o666)
}

// outputPath mirrors capnpc-go's sibling-file convention: foo.capnp becomes
// foo.capnp.capnlite.go in the same directory the front-end reported the
// schema file's display name in.
func outputPath(displayName string) string {
	return displayName + ".capnlite.go"
}

// packageNameFor derives a default Go package name from a schema file's
// basename when the caller did not pass -package explicitly.
func packageNameFor(displayName string) string {
	base := filepath.Base(displayName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "capnpgen"
	}
	return base
}
