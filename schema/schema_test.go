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
	"testing"

	"github.com/stretchr/testify/require"

	"capnlite"
)

func sampleRequest() *Request {
	structNode := &Node{
		ID:            0xface1,
		Kind:          KindStruct,
		DisplayName:   "foo.capnp:Point",
		DataWordCount: 1,
		PointerCount:  1,
		Fields: []Field{
			{
				Name:      "x",
				CodeOrder: 0,
				Kind:      FieldSlot,
				Offset:    0,
				Type:      Type{Kind: TypeInt32},
			},
			{
				Name:      "label",
				CodeOrder: 1,
				Kind:      FieldSlot,
				Offset:    0,
				Type:      Type{Kind: TypeText},
			},
		},
	}
	enumNode := &Node{
		ID:          0xface2,
		Kind:        KindEnum,
		DisplayName: "foo.capnp:Color",
		Enumerants:  []string{"red", "green", "blue"},
	}
	fileNode := &Node{
		ID:          0xface0,
		Kind:        KindFile,
		DisplayName: "foo.capnp",
		NestedNodes: []NestedNode{
			{ID: structNode.ID, Name: "Point"},
			{ID: enumNode.ID, Name: "Color"},
		},
	}

	req := &Request{
		Nodes: map[uint64]*Node{
			fileNode.ID:   fileNode,
			structNode.ID: structNode,
			enumNode.ID:   enumNode,
		},
		Children:  map[uint64][]uint64{fileNode.ID: {structNode.ID, enumNode.ID}},
		FileNodes: []uint64{fileNode.ID},
	}
	return req
}

func TestRequestRoundTrip(t *testing.T) {
	req := sampleRequest()
	bytes := WriteRequest(req)

	buf := capnlite.NewBuffer(bytes)
	got, err := BuildRequest(buf)
	require.NoError(t, err)

	require.Equal(t, []uint64{0xface0}, got.FileNodes)
	require.Len(t, got.Nodes, 3)

	file, ok := got.NodeByID(0xface0)
	require.True(t, ok)
	require.Equal(t, KindFile, file.Kind)
	require.Equal(t, "foo.capnp", file.DisplayName)
	require.ElementsMatch(t, []uint64{0xface1, 0xface2}, got.Children[0xface0])

	st, ok := got.NodeByID(0xface1)
	require.True(t, ok)
	require.Equal(t, KindStruct, st.Kind)
	require.Len(t, st.Fields, 2)
	require.Equal(t, "x", st.Fields[0].Name)
	require.Equal(t, TypeInt32, st.Fields[0].Type.Kind)
	require.Equal(t, "label", st.Fields[1].Name)
	require.Equal(t, TypeText, st.Fields[1].Type.Kind)

	en, ok := got.NodeByID(0xface2)
	require.True(t, ok)
	require.Equal(t, KindEnum, en.Kind)
	require.Equal(t, []string{"red", "green", "blue"}, en.Enumerants)
}

func TestNodeByIDMissing(t *testing.T) {
	req := &Request{Nodes: map[uint64]*Node{}}
	_, ok := req.NodeByID(12345)
	require.False(t, ok)
}
