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

package emit

import (
	"github.com/stoewer/go-strcase"
)

// ReservedWords is the set of identifiers a target language forbids as
// field or type names. Emitted names colliding with one of these get a
// trailing underscore appended. Parameterized per REDESIGN FLAGS note: "the
// list of reserved words is target-language specific; parameterize the
// emitter with the target's reserved set rather than hard-coding one."
type ReservedWords map[string]bool

// GoReserved is the reserved-word set for Go: the language keywords plus
// identifiers the generated accessor code itself always defines
// (constructor parameter names collide with these if left unguarded).
var GoReserved = ReservedWords{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
	"nil": true, "true": true, "false": true, "iota": true, "error": true,
	"String": true, "Which": true,
}

// NameStyle controls whether field accessors are emitted in the schema's
// original camelCase or converted to Go's conventional idiom.
type NameStyle struct {
	ConvertCase bool
	Reserved    ReservedWords
}

// FieldName computes the exported Go identifier for a schema field.
func (s NameStyle) FieldName(schemaName string) string {
	name := schemaName
	if s.ConvertCase {
		name = strcase.UpperCamelCase(name)
	} else {
		name = exportCase(name)
	}
	if s.Reserved[name] {
		name += "_"
	}
	return name
}

// ParamName computes the unexported Go identifier for a constructor
// parameter built from a schema field (always snake_case-free, lowerCamel,
// since it never escapes the function signature it's declared in).
func (s NameStyle) ParamName(schemaName string) string {
	name := strcase.LowerCamelCase(schemaName)
	if s.Reserved[name] {
		name += "_"
	}
	return name
}

// TypeName computes the exported Go identifier for a schema struct, enum,
// or interface node from its declared (unqualified) name.
func (s NameStyle) TypeName(schemaName string) string {
	name := strcase.UpperCamelCase(schemaName)
	if s.Reserved[name] {
		name += "_"
	}
	return name
}

// exportCase upper-cases the first rune without otherwise touching case,
// used when ConvertCase is false and the schema's camelCase spelling is
// preserved as closely as Go's exported-identifier rule allows.
func exportCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
