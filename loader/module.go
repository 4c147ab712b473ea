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
	"fmt"

	"capnlite"
	"capnlite/schema"
)

// Module is a loaded schema file: the decoded node forest plus a cursor on
// which top-level file node this [Locator] resolved to. It exposes one
// accessor class per struct and one enum table per enum, realized here
// reflectively (see [Module.Dynamic]) rather than as generated Go types. A
// compiled handle with real generated types is obtained by running
// cmd/capnlitec ahead of time and importing its output normally.
type Module struct {
	Request *schema.Request
	FileID  uint64
}

// StructNode looks up a struct node nested (directly or transitively)
// under this module's file by its declared local name.
func (m *Module) StructNode(name string) (*schema.Node, bool) {
	return m.findNested(m.FileID, name, schema.KindStruct)
}

// EnumNode looks up an enum node the same way as [Module.StructNode].
func (m *Module) EnumNode(name string) (*schema.Node, bool) {
	return m.findNested(m.FileID, name, schema.KindEnum)
}

func (m *Module) findNested(parent uint64, name string, kind schema.NodeKind) (*schema.Node, bool) {
	for _, id := range m.Request.Children[parent] {
		node, ok := m.Request.NodeByID(id)
		if !ok {
			continue
		}
		if node.Kind == kind && nestedLocalName(m.Request, parent, id) == name {
			return node, true
		}
		if found, ok := m.findNested(id, name, kind); ok {
			return found, true
		}
	}
	return nil, false
}

func nestedLocalName(req *schema.Request, parent, child uint64) string {
	p, ok := req.NodeByID(parent)
	if !ok {
		return ""
	}
	for _, nn := range p.NestedNodes {
		if nn.ID == child {
			return nn.Name
		}
	}
	return ""
}

// Dynamic returns a reflective view over a message's root struct, typed
// against the named struct node. Field geometry (offsets, union
// discriminants) is interpreted at call time straight from the cached
// [schema.Request] instead of from generated source, trading a little
// per-access overhead for not needing a build step before the schema can be
// used. Of the schema's default values only Text defaults are applied;
// other fields fall back to their zero value.
func (m *Module) Dynamic(structName string, buf *capnlite.Buffer) (DynamicStruct, error) {
	node, ok := m.StructNode(structName)
	if !ok {
		return DynamicStruct{}, fmt.Errorf("loader: no struct named %q in %s", structName, m.fileDisplayName())
	}
	root, err := buf.RootStruct()
	if err != nil {
		return DynamicStruct{}, err
	}
	return DynamicStruct{req: m.Request, node: node, s: root}, nil
}

func (m *Module) fileDisplayName() string {
	if n, ok := m.Request.NodeByID(m.FileID); ok {
		return n.DisplayName
	}
	return fmt.Sprintf("node %#x", m.FileID)
}

// DynamicStruct is a reflective struct view: the [schema.Node] it was
// resolved against, plus the underlying [capnlite.Struct]. [DynamicStruct.Field]
// interprets the same geometry emit.Emitter would compile into source,
// just at call time.
type DynamicStruct struct {
	req  *schema.Request
	node *schema.Node
	s    capnlite.Struct
}

// Field reads the named field generically, dispatching on its schema type
// the way a generated accessor's body would. The result is one of:
// nil for void fields, bool, int8/../float64, uint16 for enum fields,
// string, []byte, capnlite.List, capnlite.Any, or a nested [DynamicStruct]
// for struct and group fields.
func (d DynamicStruct) Field(name string) (any, error) {
	for _, f := range d.node.Fields {
		if f.Name != name {
			continue
		}
		return d.readField(f)
	}
	return nil, fmt.Errorf("loader: %s has no field named %q", d.node.DisplayName, name)
}

func (d DynamicStruct) readField(f schema.Field) (any, error) {
	if f.Kind == schema.FieldGroup {
		target, ok := d.req.NodeByID(f.GroupTypeID)
		if !ok {
			return nil, fmt.Errorf("loader: dangling group type id %#x", f.GroupTypeID)
		}
		return DynamicStruct{req: d.req, node: target, s: d.s}, nil
	}
	if f.HasDiscriminant() {
		which, err := d.s.Which(d.node.DiscriminantOffset, 0xffff)
		if err != nil {
			return nil, err
		}
		if which != f.DiscriminantValue {
			return nil, capnlite.ErrWrongUnionVariant
		}
	}

	switch f.Type.Kind {
	case schema.TypeVoid:
		return nil, nil
	case schema.TypeBool:
		return d.s.Bit(f.Offset/8, f.Offset%8, false)
	case schema.TypeInt8:
		return d.s.Int8(f.Offset, 0)
	case schema.TypeUint8:
		return d.s.Uint8(f.Offset, 0)
	case schema.TypeInt16:
		return d.s.Int16(f.Offset*2, 0)
	case schema.TypeUint16:
		return d.s.Uint16(f.Offset*2, 0)
	case schema.TypeInt32:
		return d.s.Int32(f.Offset*4, 0)
	case schema.TypeUint32:
		return d.s.Uint32(f.Offset*4, 0)
	case schema.TypeInt64:
		return d.s.Int64(f.Offset*8, 0)
	case schema.TypeUint64:
		return d.s.Uint64(f.Offset*8, 0)
	case schema.TypeFloat32:
		return d.s.Float32(f.Offset*4, 0)
	case schema.TypeFloat64:
		return d.s.Float64(f.Offset*8, 0)
	case schema.TypeText:
		return d.s.Text(f.Offset*8, f.DefaultValue)
	case schema.TypeData:
		return d.s.Data(f.Offset*8, nil)
	case schema.TypeEnum:
		return d.s.Uint16(f.Offset*2, 0)
	case schema.TypeStruct:
		v, err := d.s.StructField(f.Offset*8, capnlite.Struct{})
		if err != nil {
			return nil, err
		}
		target, ok := d.req.NodeByID(f.Type.TypeID)
		if !ok {
			return nil, fmt.Errorf("loader: dangling struct type id %#x", f.Type.TypeID)
		}
		return DynamicStruct{req: d.req, node: target, s: v}, nil
	case schema.TypeList:
		return d.s.ListField(f.Offset*8, capnlite.List{})
	case schema.TypeAnyPointer:
		return d.s.AnyField(f.Offset * 8)
	default:
		return nil, fmt.Errorf("loader: field %q has unsupported type kind %v for dynamic access", f.Name, f.Type.Kind)
	}
}
