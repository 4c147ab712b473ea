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

// Package emit walks a decoded [schema.Request] and produces Go source
// containing one accessor per field and one constructor per struct. The
// emitted source imports only package capnlite and calls into it the same
// way a hand-written caller would; nothing here is evaluated at runtime,
// favoring ahead-of-time compiled source over a dynamic interpreter.
package emit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"capnlite/schema"
)

// NoDiscriminant matches schema's "field is not part of a union" sentinel.
const NoDiscriminant = 0xffff

// Emitter walks one file node of a [schema.Request] and produces Go source.
type Emitter struct {
	Req     *schema.Request
	Names   NameStyle
	Package string
}

// NewEmitter builds an Emitter over req, targeting the given Go package
// name. Field accessors are always exported identifiers: with convertCase
// true a field name is converted to UpperCamelCase with strcase, with
// convertCase false only its first letter is capitalized. Names are never
// converted to snake_case. Type names are converted to UpperCamelCase
// either way.
func NewEmitter(req *schema.Request, pkg string, convertCase bool) *Emitter {
	return &Emitter{
		Req:     req,
		Package: pkg,
		Names:   NameStyle{ConvertCase: convertCase, Reserved: GoReserved},
	}
}

// EmitFile generates the Go source for one requested file node.
// The returned bytes are not yet gofmt'd; callers (package loader, or
// cmd/capnlitec) are expected to run them through go/format or
// golang.org/x/tools/imports before writing them to disk.
func (e *Emitter) EmitFile(fileID uint64) ([]byte, error) {
	file, ok := e.Req.NodeByID(fileID)
	if !ok {
		return nil, codegenErr(fileID, "requested file node not present in request")
	}
	if file.Kind != schema.KindFile {
		return nil, codegenErr(fileID, "requested node is not a file node")
	}

	var w strings.Builder
	fmt.Fprintf(&w, "// Code generated by capnlitec from %s. DO NOT EDIT.\n\n", file.DisplayName)
	fmt.Fprintf(&w, "package %s\n\n", e.Package)
	w.WriteString("import (\n\t\"capnlite\"\n)\n\n")

	ids := append([]uint64(nil), e.Req.Children[fileID]...)
	if err := e.emitNested(&w, ids); err != nil {
		return nil, err
	}
	return []byte(w.String()), nil
}

func (e *Emitter) emitNested(w *strings.Builder, ids []uint64) error {
	for _, id := range ids {
		node, ok := e.Req.NodeByID(id)
		if !ok {
			return codegenErr(id, "nested node id not present in request")
		}
		switch node.Kind {
		case schema.KindStruct:
			if err := e.emitStruct(w, node); err != nil {
				return err
			}
		case schema.KindEnum:
			e.emitEnum(w, node)
		case schema.KindConst:
			fmt.Fprintf(w, "// const node %s is not materialized (no wire-value decoder wired for consts).\n\n", node.DisplayName)
		case schema.KindInterface:
			fmt.Fprintf(w, "// interface node %s is not materialized: RPC/capabilities are out of scope.\n\n", node.DisplayName)
		default:
			continue
		}
		if err := e.emitNested(w, e.Req.Children[id]); err != nil {
			return err
		}
	}
	return nil
}

// emitStruct writes a reader type, its field accessors, its Which()
// discriminant accessor (if any field is part of a union), its group
// delegators, its Value type, and its constructor.
func (e *Emitter) emitStruct(w *strings.Builder, node *schema.Node) error {
	typeName := e.Names.TypeName(localName(node))

	fmt.Fprintf(w, "// %s is a view over a %s struct.\n", typeName, node.DisplayName)
	fmt.Fprintf(w, "type %s struct {\n\ts capnlite.Struct\n}\n\n", typeName)

	fmt.Fprintf(w, "// %sFromStruct wraps an already-resolved struct view.\n", typeName)
	fmt.Fprintf(w, "func %sFromStruct(s capnlite.Struct) %s { return %s{s: s} }\n\n", typeName, typeName, typeName)

	fmt.Fprintf(w, "// Read%s reads buf's root pointer as a %s.\n", typeName, typeName)
	fmt.Fprintf(w, "func Read%s(buf *capnlite.Buffer) (%s, error) {\n", typeName, typeName)
	w.WriteString("\ts, err := buf.RootStruct()\n")
	fmt.Fprintf(w, "\treturn %s{s: s}, err\n}\n\n", typeName)

	hasUnion := false
	for _, f := range node.Fields {
		if f.HasDiscriminant() {
			hasUnion = true
			break
		}
	}
	if hasUnion {
		fmt.Fprintf(w, "// Which reports the active union variant's discriminant value.\n")
		fmt.Fprintf(w, "func (s %s) Which() (uint16, error) { return s.s.Which(%d, %d) }\n\n",
			typeName, node.DiscriminantOffset, NoDiscriminant)
	}

	fields := append([]schema.Field(nil), node.Fields...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].CodeOrder < fields[j].CodeOrder })

	for _, f := range fields {
		if err := e.emitFieldAccessor(w, node, typeName, f); err != nil {
			return err
		}
	}

	names := e.Names
	structor := Structor{Names: names, Req: e.Req}
	plan := structor.Plan(node)
	structor.EmitValueType(w, typeName, plan)
	structor.EmitBuildFunc(w, typeName, plan)
	structor.EmitConstructor(w, typeName, node.DataWordCount, node.PointerCount, plan)

	return nil
}

func (e *Emitter) emitFieldAccessor(w *strings.Builder, node *schema.Node, typeName string, f schema.Field) error {
	fieldName := e.Names.FieldName(f.Name)

	if f.Kind == schema.FieldGroup {
		target, ok := e.Req.NodeByID(f.GroupTypeID)
		if !ok {
			return codegenErr(node.ID, "field %q: dangling group type id %#x", f.Name, f.GroupTypeID)
		}
		groupType := e.Names.TypeName(localName(target))
		fmt.Fprintf(w, "// %s returns a view over this struct's %s group (no physical indirection).\n", fieldName, f.Name)
		fmt.Fprintf(w, "func (s %s) %s() %s { return %s{s: s.s} }\n\n", typeName, fieldName, groupType, groupType)
		return nil
	}

	guard := ""
	if f.HasDiscriminant() {
		guard = fmt.Sprintf("if which, err := s.Which(); err != nil || which != %d {\n", f.DiscriminantValue)
	}

	switch {
	case f.Type.Kind == schema.TypeVoid:
		return nil // no accessor for void fields

	case f.Type.Kind == schema.TypeBool:
		byteOff, bit := f.Offset/8, f.Offset%8
		def := "false"
		if f.DefaultValue == "true" {
			def = "true"
		}
		fmt.Fprintf(w, "func (s %s) %s() (bool, error) {\n", typeName, fieldName)
		if guard != "" {
			w.WriteString(guard)
			fmt.Fprintf(w, "\t\treturn %s, capnlite.ErrWrongUnionVariant\n\t}\n", def)
		}
		fmt.Fprintf(w, "\treturn s.s.Bit(%d, %d, %s)\n}\n\n", byteOff, bit, def)
		return nil
	}

	if goType, method, width, ok := primitiveGoType(f.Type.Kind); ok {
		def := f.DefaultValue
		if def == "" {
			def = zeroLiteral(goType)
		}
		fmt.Fprintf(w, "func (s %s) %s() (%s, error) {\n", typeName, fieldName, goType)
		if guard != "" {
			w.WriteString(guard)
			fmt.Fprintf(w, "\t\treturn %s, capnlite.ErrWrongUnionVariant\n\t}\n", def)
		}
		fmt.Fprintf(w, "\treturn s.s.%s(%d, %s)\n}\n\n", method, f.Offset*width, def)
		return nil
	}

	switch f.Type.Kind {
	case schema.TypeText:
		fmt.Fprintf(w, "func (s %s) %s() (string, error) {\n", typeName, fieldName)
		if guard != "" {
			w.WriteString(guard)
			fmt.Fprintf(w, "\t\treturn %s, capnlite.ErrWrongUnionVariant\n\t}\n", strconv.Quote(f.DefaultValue))
		}
		fmt.Fprintf(w, "\treturn s.s.Text(%d, %s)\n}\n\n", f.Offset*8, strconv.Quote(f.DefaultValue))

	case schema.TypeData:
		fmt.Fprintf(w, "func (s %s) %s() ([]byte, error) {\n", typeName, fieldName)
		if guard != "" {
			w.WriteString(guard)
			w.WriteString("\t\treturn nil, capnlite.ErrWrongUnionVariant\n\t}\n")
		}
		fmt.Fprintf(w, "\treturn s.s.Data(%d, nil)\n}\n\n", f.Offset*8)

	case schema.TypeEnum:
		target, ok := e.Req.NodeByID(f.Type.TypeID)
		if !ok {
			return codegenErr(node.ID, "field %q: dangling enum type id %#x", f.Name, f.Type.TypeID)
		}
		enumType := e.Names.TypeName(localName(target))
		fmt.Fprintf(w, "func (s %s) %s() (%s, error) {\n", typeName, fieldName, enumType)
		if guard != "" {
			w.WriteString(guard)
			fmt.Fprintf(w, "\t\treturn 0, capnlite.ErrWrongUnionVariant\n\t}\n")
		}
		fmt.Fprintf(w, "\tv, err := s.s.Uint16(%d, 0)\n\treturn %s(v), err\n}\n\n", f.Offset*2, enumType)

	case schema.TypeStruct:
		target, ok := e.Req.NodeByID(f.Type.TypeID)
		if !ok {
			return codegenErr(node.ID, "field %q: dangling struct type id %#x", f.Name, f.Type.TypeID)
		}
		structType := e.Names.TypeName(localName(target))
		fmt.Fprintf(w, "func (s %s) %s() (%s, error) {\n", typeName, fieldName, structType)
		if guard != "" {
			w.WriteString(guard)
			fmt.Fprintf(w, "\t\treturn %s{}, capnlite.ErrWrongUnionVariant\n\t}\n", structType)
		}
		fmt.Fprintf(w, "\tv, err := s.s.StructField(%d, capnlite.Struct{})\n\treturn %s{s: v}, err\n}\n\n", f.Offset*8, structType)

	case schema.TypeList:
		fmt.Fprintf(w, "func (s %s) %s() (capnlite.List, error) {\n", typeName, fieldName)
		if guard != "" {
			w.WriteString(guard)
			w.WriteString("\t\treturn capnlite.List{}, capnlite.ErrWrongUnionVariant\n\t}\n")
		}
		fmt.Fprintf(w, "\treturn s.s.ListField(%d, capnlite.List{})\n}\n\n", f.Offset*8)

	case schema.TypeInterface:
		fmt.Fprintf(w, "// %s (interface-typed) is not materialized: RPC/capabilities are out of scope.\n\n", fieldName)

	case schema.TypeAnyPointer:
		fmt.Fprintf(w, "func (s %s) %s() (capnlite.Any, error) {\n", typeName, fieldName)
		if guard != "" {
			w.WriteString(guard)
			w.WriteString("\t\treturn capnlite.Any{}, capnlite.ErrWrongUnionVariant\n\t}\n")
		}
		fmt.Fprintf(w, "\treturn s.s.AnyField(%d)\n}\n\n", f.Offset*8)

	default:
		return codegenErr(node.ID, "field %q: unrecognized type kind %v", f.Name, f.Type.Kind)
	}
	return nil
}

// emitEnum writes a named integer type, one constant per enumerant in
// declared order, and a String method.
func (e *Emitter) emitEnum(w *strings.Builder, node *schema.Node) {
	typeName := e.Names.TypeName(localName(node))
	fmt.Fprintf(w, "// %s is a %s enum.\n", typeName, node.DisplayName)
	fmt.Fprintf(w, "type %s uint16\n\n", typeName)

	if len(node.Enumerants) > 0 {
		w.WriteString("const (\n")
		for i, name := range node.Enumerants {
			fmt.Fprintf(w, "\t%s%s %s = %d\n", typeName, e.Names.TypeName(name), typeName, i)
		}
		w.WriteString(")\n\n")
	}

	fmt.Fprintf(w, "func (v %s) String() string {\n\tswitch v {\n", typeName)
	for i, name := range node.Enumerants {
		fmt.Fprintf(w, "\tcase %d:\n\t\treturn %s\n", i, strconv.Quote(name))
	}
	w.WriteString("\tdefault:\n\t\treturn \"unknown\"\n\t}\n}\n\n")
}
