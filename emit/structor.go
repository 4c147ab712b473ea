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
	"fmt"
	"sort"
	"strings"

	"capnlite/schema"
)

// fieldPlanKind classifies a struct field for the purposes of constructor
// generation.
type fieldPlanKind int

const (
	planVoid fieldPlanKind = iota
	planPrimitive
	planText
	planData
	planStruct
	planEnum
	planPrimitiveList
	planTextList
	planDataList
	planStructList
	planUnsupported // bit, group, nullable-group placeholder, interface, anyPointer, list-of-list
)

// fieldPlan is one resolved constructor parameter (or a skipped void field).
type fieldPlan struct {
	field      schema.Field
	kind       fieldPlanKind
	paramName  string
	goType     string
	byteOffset int // data offset*width, or pointer slot offset*8

	// planStruct / planStructList only: the target node's identity.
	targetName      string // Go type name of the nested struct's reader
	targetDataWords int
	targetPtrsWords int

	// planPrimitive only
	setterSuffix string
}

// Structor computes a struct's constructor plan. Fields
// ignore declaration order and are processed sorted by offset, carried over
// from the original `structor.py`, which sorts fields by offset before
// emission independent of declaration order.
type Structor struct {
	Names NameStyle
	Req   *schema.Request
}

// StructPlan is the result of planning one struct node's constructor.
type StructPlan struct {
	Supported bool // false => constructor degrades to an Unsupported stub
	Reason    string
	Fields    []fieldPlan // only populated when Supported
}

// Plan resolves node's fields into a [StructPlan]. node must be a
// KindStruct node.
func (s Structor) Plan(node *schema.Node) StructPlan {
	fields := append([]schema.Field(nil), node.Fields...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Offset < fields[j].Offset })

	plan := StructPlan{Supported: true}
	for _, f := range fields {
		fp, err := s.planField(f)
		if err != nil {
			return StructPlan{Supported: false, Reason: err.Error()}
		}
		if fp.kind == planVoid {
			continue // accounted for as padding, never a constructor parameter
		}
		plan.Fields = append(plan.Fields, fp)
	}
	return plan
}

func (s Structor) planField(f schema.Field) (fieldPlan, error) {
	base := fieldPlan{field: f, paramName: s.Names.ParamName(f.Name)}

	if f.Kind == schema.FieldGroup {
		return fieldPlan{}, fmt.Errorf("group field %q: groups are not materialized by the constructor", f.Name)
	}

	if f.Type.Kind == schema.TypeVoid {
		base.kind = planVoid
		return base, nil
	}

	if f.Type.Kind == schema.TypeBool {
		// Bit-packed fields are left unsupported by the constructor, matching
		// the inherited behavior of the original structor.
		return fieldPlan{}, fmt.Errorf("field %q: bit (bool) fields are not materialized by the constructor", f.Name)
	}

	if goType, method, width, ok := primitiveGoType(f.Type.Kind); ok {
		base.kind = planPrimitive
		base.goType = goType
		base.setterSuffix = method
		base.byteOffset = f.Offset * width
		return base, nil
	}

	switch f.Type.Kind {
	case schema.TypeText:
		base.kind = planText
		base.goType = "string"
		base.byteOffset = f.Offset * 8
		return base, nil
	case schema.TypeData:
		base.kind = planData
		base.goType = "[]byte"
		base.byteOffset = f.Offset * 8
		return base, nil
	case schema.TypeEnum:
		target, ok := s.Req.NodeByID(f.Type.TypeID)
		if !ok {
			return fieldPlan{}, fmt.Errorf("field %q: dangling enum type id %#x", f.Name, f.Type.TypeID)
		}
		base.kind = planEnum
		base.goType = s.Names.TypeName(localName(target))
		base.byteOffset = f.Offset * 2
		return base, nil
	case schema.TypeStruct:
		target, ok := s.Req.NodeByID(f.Type.TypeID)
		if !ok {
			return fieldPlan{}, fmt.Errorf("field %q: dangling struct type id %#x", f.Name, f.Type.TypeID)
		}
		base.kind = planStruct
		base.targetName = s.Names.TypeName(localName(target))
		base.targetDataWords = target.DataWordCount
		base.targetPtrsWords = target.PointerCount
		base.goType = base.targetName + "Value"
		base.byteOffset = f.Offset * 8
		return base, nil
	case schema.TypeList:
		return s.planListField(base, f)
	default:
		return fieldPlan{}, fmt.Errorf("field %q: kind %v is not materialized by the constructor", f.Name, f.Type.Kind)
	}
}

// planListField resolves a list field's element kind, sharing its Go type
// resolution with [listElemGoType] (also used by the reader's slice
// accessors) rather than re-deriving it here.
func (s Structor) planListField(base fieldPlan, f schema.Field) (fieldPlan, error) {
	base.byteOffset = f.Offset * 8
	if f.Type.Elem == nil {
		return fieldPlan{}, fmt.Errorf("field %q: list with no element type", f.Name)
	}
	elem := *f.Type.Elem

	if elem.Kind == schema.TypeStruct {
		if _, ok := s.Req.NodeByID(elem.TypeID); !ok {
			return fieldPlan{}, fmt.Errorf("field %q: dangling list element struct id %#x", f.Name, elem.TypeID)
		}
	}

	elemGoType, ok := listElemGoType(elem, s.Names, s.Req)
	if !ok {
		return fieldPlan{}, fmt.Errorf("field %q: list element kind %v is not materialized by the constructor", f.Name, elem.Kind)
	}
	base.goType = "[]" + elemGoType

	switch {
	case elem.Kind == schema.TypeText:
		base.kind = planTextList
	case elem.Kind == schema.TypeData:
		base.kind = planDataList
	case elem.Kind == schema.TypeStruct:
		target, _ := s.Req.NodeByID(elem.TypeID) // presence checked above
		base.kind = planStructList
		base.targetName = s.Names.TypeName(localName(target))
		base.targetDataWords = target.DataWordCount
		base.targetPtrsWords = target.PointerCount
	default:
		if _, _, _, isPrim := primitiveGoType(elem.Kind); !isPrim {
			return fieldPlan{}, fmt.Errorf("field %q: list element kind %v is not materialized by the constructor", f.Name, elem.Kind)
		}
		base.kind = planPrimitiveList
		base.setterSuffix = primitiveListSetter(elem.Kind)
	}
	return base, nil
}

func primitiveListSetter(k schema.TypeKind) string {
	_, method, _, _ := primitiveGoType(k)
	return method
}

// EmitValueType writes the plain data-holding "Value" type a struct's
// constructor accepts for a nested-struct or struct-list field: just the
// fields, no reader machinery.
func (s Structor) EmitValueType(w *strings.Builder, typeName string, plan StructPlan) {
	fmt.Fprintf(w, "// %sValue holds the field values used to construct a %s.\n", typeName, typeName)
	fmt.Fprintf(w, "type %sValue struct {\n", typeName)
	for _, fp := range plan.Fields {
		fmt.Fprintf(w, "\t%s %s\n", exportCase(fp.paramName), fp.goType)
	}
	w.WriteString("}\n\n")
}

// EmitBuildFunc writes the unexported buildX(cursor, value) helper that
// fills in a struct body in place, used both by the top-level NewX
// constructor and by nested struct/struct-list allocation.
func (s Structor) EmitBuildFunc(w *strings.Builder, typeName string, plan StructPlan) {
	fmt.Fprintf(w, "func build%s(c capnlite.StructCursor, v %sValue) {\n", typeName, typeName)
	for _, fp := range plan.Fields {
		field := exportCase(fp.paramName)
		switch fp.kind {
		case planPrimitive:
			fmt.Fprintf(w, "\tc.Set%s(%d, v.%s)\n", fp.setterSuffix, fp.byteOffset, field)
		case planEnum:
			fmt.Fprintf(w, "\tc.SetUint16(%d, uint16(v.%s))\n", fp.byteOffset, field)
		case planText:
			fmt.Fprintf(w, "\tc.AllocText(%d, v.%s)\n", fp.byteOffset, field)
		case planData:
			fmt.Fprintf(w, "\tc.AllocData(%d, v.%s)\n", fp.byteOffset, field)
		case planStruct:
			fmt.Fprintf(w, "\tbuild%s(c.AllocStruct(%d, %d, %d), v.%s)\n",
				fp.targetName, fp.byteOffset, fp.targetDataWords, fp.targetPtrsWords, field)
		case planPrimitiveList:
			fmt.Fprintf(w, "\tc.Alloc%sList(%d, v.%s)\n", fp.setterSuffix, fp.byteOffset, field)
		case planTextList:
			fmt.Fprintf(w, "\tc.AllocTextList(%d, v.%s)\n", fp.byteOffset, field)
		case planDataList:
			fmt.Fprintf(w, "\tc.AllocDataList(%d, v.%s)\n", fp.byteOffset, field)
		case planStructList:
			fmt.Fprintf(w, "\t{\n")
			fmt.Fprintf(w, "\t\tlist := c.AllocStructList(%d, %d, %d, len(v.%s))\n",
				fp.byteOffset, fp.targetDataWords, fp.targetPtrsWords, field)
			fmt.Fprintf(w, "\t\tfor i, elem := range v.%s {\n", field)
			fmt.Fprintf(w, "\t\t\tbuild%s(list.Element(i), elem)\n", fp.targetName)
			w.WriteString("\t\t}\n\t}\n")
		}
	}
	w.WriteString("}\n\n")
}

// EmitConstructor writes the top-level NewX(v XValue) []byte constructor, or
// (when plan.Supported is false) a stub that always returns
// [capnlite.ErrUnsupported].
func (s Structor) EmitConstructor(w *strings.Builder, typeName string, dataWords, ptrsWords int, plan StructPlan) {
	if !plan.Supported {
		fmt.Fprintf(w, "// New%s is a stub: %s\n", typeName, plan.Reason)
		fmt.Fprintf(w, "func New%s(v %sValue) ([]byte, error) {\n\treturn nil, capnlite.ErrUnsupported\n}\n\n", typeName, typeName)
		return
	}
	fmt.Fprintf(w, "func New%s(v %sValue) []byte {\n", typeName, typeName)
	fmt.Fprintf(w, "\tb := capnlite.NewBuilder(%d, %d)\n", dataWords, ptrsWords)
	fmt.Fprintf(w, "\tbuild%s(b.Root(), v)\n", typeName)
	w.WriteString("\treturn b.Build()\n}\n\n")
}
