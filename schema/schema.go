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

// Package schema reads a Cap'n Proto CodeGeneratorRequest through the
// capnlite reader, bootstrapping the schema model by hand rather than
// through generated accessors: no code exists to read a CodeGeneratorRequest
// until this package exists.
package schema

// NodeKind discriminates the variants of a [Node]'s closed set: file,
// struct, enum, interface, const, and annotation nodes.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindStruct
	KindEnum
	KindInterface
	KindConst
	KindAnnotation
)

// TypeKind discriminates the variants of a [Type].
type TypeKind int

const (
	TypeVoid TypeKind = iota
	TypeBool
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeText
	TypeData
	TypeList
	TypeStruct
	TypeEnum
	TypeInterface
	TypeAnyPointer
)

// Type is the closed set of field types: the primitives, text, data,
// list<T>, struct<id>, enum<id>, interface<id>, and anyPointer.
type Type struct {
	Kind TypeKind
	// Elem is the element type of a List; only meaningful when Kind == TypeList.
	Elem *Type
	// TypeID names the target Node for a Struct, Enum, or Interface type.
	TypeID uint64
}

// NestedNode records one entry of a Node's nestedNodes list: the id of a
// child node together with the name it is nested under.
type NestedNode struct {
	ID   uint64
	Name string
}

// FieldKind discriminates a [Field]'s which: a physical slot, or a group
// sharing its parent's data/pointer region.
type FieldKind int

const (
	FieldSlot FieldKind = iota
	FieldGroup
)

// Field is one member of a struct node's field list.
type Field struct {
	Name              string
	CodeOrder         int
	DiscriminantValue uint16 // 0xffff when the field is not part of a union
	Kind              FieldKind

	// Slot fields:
	Offset             int // element offset within the data or pointer section
	Type               Type
	DefaultValue       string // emitter-facing textual default
	HadExplicitDefault bool

	// Group fields:
	GroupTypeID uint64
}

// HasDiscriminant reports whether this field is a variant of a union.
func (f Field) HasDiscriminant() bool { return f.DiscriminantValue != noDiscriminant }

const noDiscriminant = 0xffff

// Node is one entry of the schema forest, keyed by a 64-bit id.
type Node struct {
	ID                 uint64
	Kind               NodeKind
	DisplayName        string
	NestedNodes        []NestedNode
	DiscriminantOffset int // union tag's offset in 16-bit units (bytes = offset*2), struct nodes only
	DataWordCount      int
	PointerCount       int
	Fields             []Field     // struct nodes only, declaration order
	Enumerants         []string    // enum nodes only, declared order (authoritative)
}

// Request is a fully decoded CodeGeneratorRequest: every node keyed by id,
// plus the parent→children map the emitter walks.
type Request struct {
	Nodes      map[uint64]*Node
	Children   map[uint64][]uint64 // parent node id -> nested child ids, declaration order
	FileNodes  []uint64            // top-level file node ids, in request order
}

// NodeByID looks up a node, returning ok=false if the id is absent from the
// request (a dangling reference, which the emitter reports as a CodegenError).
func (r *Request) NodeByID(id uint64) (*Node, bool) {
	n, ok := r.Nodes[id]
	return n, ok
}
