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

	"gopkg.in/yaml.v3"
)

// Config is the Compiler's static configuration: include paths for the
// schema front-end, whether generated field accessors are converted to
// UpperCamelCase (ConvertCase; names are never converted to snake_case),
// and (optionally) a remote build host to run the front-end on instead of
// locally.
//
// CapnpPath must name a front-end that emits a CodeGeneratorRequest in
// package schema's own wire layout (see schema/reader.go); it is not
// wire-compatible with the CodeGeneratorRequest an unmodified upstream
// capnp distribution produces.
//
// It is YAML round-trippable so it can live in a checked-in config file
// alongside the schemas it governs.
type Config struct {
	IncludePaths []string `yaml:"include_paths"`
	ConvertCase  bool     `yaml:"convert_case"`
	RemoteHost   string   `yaml:"remote_host,omitempty"`
	CapnpPath    string   `yaml:"capnp_path,omitempty"` // defaults to "capnp" on $PATH
}

// DefaultConfig returns the zero-value sensible default: no include paths
// beyond the schema's own directory, case conversion on, local execution.
func DefaultConfig() Config {
	return Config{ConvertCase: true, CapnpPath: "capnp"}
}

// LoadConfigFile reads a YAML-encoded [Config] from path.
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
