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

package schema

import (
	"fmt"

	"capnlite"
)

// Wire layout of a CodeGeneratorRequest, Node, Type, and Field, as read and
// written by this package. This is a deliberately capnlite-private encoding
// rather than a byte-for-byte reproduction of the upstream capnp
// distribution's schema.capnp bootstrap layout: a front-end that feeds
// package loader must emit (or be translated to) this layout, produced by
// this package's own [WriteRequest]. See DESIGN.md for the scope decision.
const (
	nodeIDOffset                 = 0  // uint64
	nodeKindOffset                = 8  // uint16
	nodeDiscriminantOffsetOffset  = 10 // uint16
	nodeDataWordCountOffset       = 12 // uint16
	nodePointerCountOffset        = 14 // uint16

	nodeDisplayNamePtr = 0
	nodeNestedNodesPtr = 1
	nodeFieldsPtr      = 2
	nodeEnumerantsPtr  = 3

	nestedNodeIDOffset = 0 // uint64
	nestedNodeNamePtr  = 0

	fieldCodeOrderOffset         = 0  // uint16
	fieldDiscriminantValueOffset = 2  // uint16
	fieldSlotOffsetOffset        = 4  // uint32
	fieldWhichOffset             = 8  // uint16
	fieldTypeKindOffset          = 10 // uint16
	fieldListElemKindOffset      = 12 // uint16
	fieldHadExplicitDefaultOffset = 14 // uint16 (0/1)
	fieldTypeIDOffset            = 16 // uint64 (struct/enum/interface type id, or group type id)

	fieldNamePtr         = 0
	fieldDefaultValuePtr = 1

	requestNodesPtr     = 0
	requestFileNodesPtr = 1
)

// BuildRequest decodes a CodeGeneratorRequest message into a [Request],
// building the id→node map and parent→children map the emitter walks
//.
func BuildRequest(buf *capnlite.Buffer) (*Request, error) {
	root, err := buf.RootStruct()
	if err != nil {
		return nil, fmt.Errorf("schema: reading request root: %w", err)
	}

	nodesList, err := root.ListField(requestNodesPtr*8, capnlite.List{})
	if err != nil {
		return nil, fmt.Errorf("schema: reading nodes list: %w", err)
	}

	req := &Request{
		Nodes:    make(map[uint64]*Node, nodesList.Len()),
		Children: make(map[uint64][]uint64),
	}

	for i := range nodesList.Len() {
		ns, err := nodesList.StructAt(i)
		if err != nil {
			return nil, fmt.Errorf("schema: reading node %d: %w", i, err)
		}
		n, err := readNode(ns)
		if err != nil {
			return nil, fmt.Errorf("schema: decoding node %d: %w", i, err)
		}
		req.Nodes[n.ID] = n
	}

	for _, n := range req.Nodes {
		for _, nested := range n.NestedNodes {
			req.Children[n.ID] = append(req.Children[n.ID], nested.ID)
		}
	}

	fileList, err := root.ListField(requestFileNodesPtr*8, capnlite.List{})
	if err != nil {
		return nil, fmt.Errorf("schema: reading requested files list: %w", err)
	}
	for i := range fileList.Len() {
		id, err := fileList.Uint64(i)
		if err != nil {
			return nil, fmt.Errorf("schema: reading requested file id %d: %w", i, err)
		}
		req.FileNodes = append(req.FileNodes, id)
	}

	return req, nil
}

func readNode(s capnlite.Struct) (*Node, error) {
	id, err := s.Uint64(nodeIDOffset, 0)
	if err != nil {
		return nil, err
	}
	kindVal, err := s.Uint16(nodeKindOffset, 0)
	if err != nil {
		return nil, err
	}
	discOff, err := s.Uint16(nodeDiscriminantOffsetOffset, 0)
	if err != nil {
		return nil, err
	}
	dataWords, err := s.Uint16(nodeDataWordCountOffset, 0)
	if err != nil {
		return nil, err
	}
	ptrCount, err := s.Uint16(nodePointerCountOffset, 0)
	if err != nil {
		return nil, err
	}
	displayName, err := s.Text(nodeDisplayNamePtr*8, "")
	if err != nil {
		return nil, err
	}

	n := &Node{
		ID:                 id,
		Kind:               NodeKind(kindVal),
		DisplayName:        displayName,
		DiscriminantOffset: int(discOff),
		DataWordCount:      int(dataWords),
		PointerCount:       int(ptrCount),
	}

	nestedList, err := s.ListField(nodeNestedNodesPtr*8, capnlite.List{})
	if err != nil {
		return nil, err
	}
	for i := range nestedList.Len() {
		ns, err := nestedList.StructAt(i)
		if err != nil {
			return nil, err
		}
		nid, err := ns.Uint64(nestedNodeIDOffset, 0)
		if err != nil {
			return nil, err
		}
		name, err := ns.Text(nestedNodeNamePtr*8, "")
		if err != nil {
			return nil, err
		}
		n.NestedNodes = append(n.NestedNodes, NestedNode{ID: nid, Name: name})
	}

	switch n.Kind {
	case KindStruct:
		fieldsList, err := s.ListField(nodeFieldsPtr*8, capnlite.List{})
		if err != nil {
			return nil, err
		}
		for i := range fieldsList.Len() {
			fs, err := fieldsList.StructAt(i)
			if err != nil {
				return nil, err
			}
			f, err := readField(fs)
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, f)
		}
	case KindEnum:
		enumList, err := s.ListField(nodeEnumerantsPtr*8, capnlite.List{})
		if err != nil {
			return nil, err
		}
		for i := range enumList.Len() {
			name, err := enumList.TextAt(i, "")
			if err != nil {
				return nil, err
			}
			n.Enumerants = append(n.Enumerants, name)
		}
	}

	return n, nil
}

func readField(s capnlite.Struct) (Field, error) {
	codeOrder, err := s.Uint16(fieldCodeOrderOffset, 0)
	if err != nil {
		return Field{}, err
	}
	discVal, err := s.Uint16(fieldDiscriminantValueOffset, noDiscriminant)
	if err != nil {
		return Field{}, err
	}
	slotOffset, err := s.Uint32(fieldSlotOffsetOffset, 0)
	if err != nil {
		return Field{}, err
	}
	which, err := s.Uint16(fieldWhichOffset, 0)
	if err != nil {
		return Field{}, err
	}
	typeKind, err := s.Uint16(fieldTypeKindOffset, 0)
	if err != nil {
		return Field{}, err
	}
	listElemKind, err := s.Uint16(fieldListElemKindOffset, 0)
	if err != nil {
		return Field{}, err
	}
	hadDefault, err := s.Uint16(fieldHadExplicitDefaultOffset, 0)
	if err != nil {
		return Field{}, err
	}
	typeID, err := s.Uint64(fieldTypeIDOffset, 0)
	if err != nil {
		return Field{}, err
	}
	name, err := s.Text(fieldNamePtr*8, "")
	if err != nil {
		return Field{}, err
	}
	defaultValue, err := s.Text(fieldDefaultValuePtr*8, "")
	if err != nil {
		return Field{}, err
	}

	f := Field{
		Name:               name,
		CodeOrder:          int(codeOrder),
		DiscriminantValue:  discVal,
		Kind:               FieldKind(which),
		Offset:             int(slotOffset),
		DefaultValue:       defaultValue,
		HadExplicitDefault: hadDefault != 0,
	}
	if f.Kind == FieldGroup {
		f.GroupTypeID = typeID
		return f, nil
	}
	f.Type = Type{Kind: TypeKind(typeKind), TypeID: typeID}
	if f.Type.Kind == TypeList {
		f.Type.Elem = &Type{Kind: TypeKind(listElemKind), TypeID: typeID}
	}
	return f, nil
}
