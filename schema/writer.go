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

import "capnlite"

// Node wire layout (data section is 16 bytes, see reader.go):
//
//	0:8   id
//	8:10  kind
//	10:12 discriminantOffset
//	12:14 dataWordCount
//	14:16 pointerCount
//
// pointer section: 0=displayName, 1=nestedNodes, 2=fields, 3=enumerants.
const (
	nodeDataWords = 2
	nodePtrs      = 4

	nestedNodeDataWords = 1
	nestedNodePtrs      = 1

	fieldDataWords = 3
	fieldPtrs      = 2
)

// WriteRequest serializes req back into CodeGeneratorRequest wire bytes,
// the inverse of [BuildRequest]. It exists so the schema wire layout this
// package defines can be exercised round-trip in tests without depending on
// an external `capnp compile` invocation (see package doc and DESIGN.md).
func WriteRequest(req *Request) []byte {
	b := capnlite.NewBuilder(0, 2)
	root := b.Root()

	nodes := make([]uint64, 0, len(req.Nodes))
	for id := range req.Nodes {
		nodes = append(nodes, id)
	}

	nodesList := root.AllocStructList(requestNodesPtr*8, nodeDataWords, nodePtrs, len(nodes))
	for i, id := range nodes {
		writeNode(nodesList.Element(i), req.Nodes[id])
	}

	root.AllocUint64List(requestFileNodesPtr*8, req.FileNodes)

	return b.Build()
}

func writeNode(c capnlite.StructCursor, n *Node) {
	c.SetUint64(nodeIDOffset, n.ID)
	c.SetUint16(nodeKindOffset, uint16(n.Kind))
	c.SetUint16(nodeDiscriminantOffsetOffset, uint16(n.DiscriminantOffset))
	c.SetUint16(nodeDataWordCountOffset, uint16(n.DataWordCount))
	c.SetUint16(nodePointerCountOffset, uint16(n.PointerCount))

	c.AllocText(nodeDisplayNamePtr*8, n.DisplayName)

	nested := c.AllocStructList(nodeNestedNodesPtr*8, nestedNodeDataWords, nestedNodePtrs, len(n.NestedNodes))
	for i, nn := range n.NestedNodes {
		e := nested.Element(i)
		e.SetUint64(nestedNodeIDOffset, nn.ID)
		e.AllocText(nestedNodeNamePtr*8, nn.Name)
	}

	switch n.Kind {
	case KindStruct:
		fields := c.AllocStructList(nodeFieldsPtr*8, fieldDataWords, fieldPtrs, len(n.Fields))
		for i, f := range n.Fields {
			writeField(fields.Element(i), f)
		}
	case KindEnum:
		c.AllocTextList(nodeEnumerantsPtr*8, n.Enumerants)
	}
}

func writeField(c capnlite.StructCursor, f Field) {
	c.SetUint16(fieldCodeOrderOffset, uint16(f.CodeOrder))
	c.SetUint16(fieldDiscriminantValueOffset, f.DiscriminantValue)
	c.SetUint32(fieldSlotOffsetOffset, uint32(f.Offset))
	c.SetUint16(fieldWhichOffset, uint16(f.Kind))

	hadDefault := uint16(0)
	if f.HadExplicitDefault {
		hadDefault = 1
	}
	c.SetUint16(fieldHadExplicitDefaultOffset, hadDefault)
	c.AllocText(fieldNamePtr*8, f.Name)
	c.AllocText(fieldDefaultValuePtr*8, f.DefaultValue)

	if f.Kind == FieldGroup {
		c.SetUint64(fieldTypeIDOffset, f.GroupTypeID)
		return
	}

	c.SetUint16(fieldTypeKindOffset, uint16(f.Type.Kind))
	c.SetUint64(fieldTypeIDOffset, f.Type.TypeID)
	if f.Type.Kind == TypeList && f.Type.Elem != nil {
		c.SetUint16(fieldListElemKindOffset, uint16(f.Type.Elem.Kind))
	}
}
