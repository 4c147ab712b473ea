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
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// sinkSpec is the plugin spec passed as `capnp compile -o<sinkSpec>`.
// Rather than naming a sink plugin to exec, it is "-": the front-end treats
// "capnp compile -o-" as "write the serialized CodeGeneratorRequest to this
// process's own stdout", per the `capnp` CLI's documented shorthand.
const sinkSpec = "-"

// runFrontend invokes the external schema compiler and
// returns the CodeGeneratorRequest bytes it printed to standard output.
func runFrontend(ctx context.Context, capnpPath string, includePaths []string, file string) ([]byte, error) {
	args := []string{"compile", "-o" + sinkSpec}
	for _, dir := range includePaths {
		args = append(args, "-I"+dir)
	}
	args = append(args, file)

	cmd := exec.CommandContext(ctx, capnpPath, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return nil, fmt.Errorf("loader: could not start %s: %w", capnpPath, err)
	}
	return nil, &SchemaCompileError{
		CommandLine: commandLine(capnpPath, args),
		Stderr:      stderr.String(),
		ExitCode:    exitErr.ExitCode(),
	}
}

// commandLine renders an argv as a shell-safe, copy-pasteable string for
// error messages, using shellescape so
// arguments containing spaces or schema-specific punctuation survive a
// paste into an operator's terminal unmangled.
func commandLine(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellescape.Quote(path))
	for _, a := range args {
		parts = append(parts, shellescape.Quote(a))
	}
	return strings.Join(parts, " ")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
