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
	"testing"

	"github.com/stretchr/testify/require"

	"capnlite/schema"
)

func pointRequest() *schema.Request {
	point := &schema.Node{
		ID:            0x1001,
		Kind:          schema.KindStruct,
		DisplayName:   "foo.capnp:Point",
		DataWordCount: 1,
		PointerCount:  0,
		Fields: []schema.Field{
			{Name: "x", CodeOrder: 0, Kind: schema.FieldSlot, Offset: 0, Type: schema.Type{Kind: schema.TypeInt32}},
			{Name: "y", CodeOrder: 1, Kind: schema.FieldSlot, Offset: 1, Type: schema.Type{Kind: schema.TypeInt32}},
		},
	}
	color := &schema.Node{
		ID:          0x1002,
		Kind:        schema.KindEnum,
		DisplayName: "foo.capnp:Color",
		Enumerants:  []string{"red", "green", "blue"},
	}
	file := &schema.Node{
		ID:          0x1000,
		Kind:        schema.KindFile,
		DisplayName: "foo.capnp",
		NestedNodes: []schema.NestedNode{
			{ID: point.ID, Name: "Point"},
			{ID: color.ID, Name: "Color"},
		},
	}
	return &schema.Request{
		Nodes: map[uint64]*schema.Node{
			file.ID:  file,
			point.ID: point,
			color.ID: color,
		},
		Children:  map[uint64][]uint64{file.ID: {point.ID, color.ID}},
		FileNodes: []uint64{file.ID},
	}
}

func TestEmitFileStructAndEnum(t *testing.T) {
	req := pointRequest()
	e := NewEmitter(req, "foopb", true)

	src, err := e.EmitFile(req.FileNodes[0])
	require.NoError(t, err)

	out := string(src)
	require.Contains(t, out, "package foopb")
	require.Contains(t, out, "type Point struct")
	require.Contains(t, out, "func (s Point) X() (int32, error)")
	require.Contains(t, out, "func (s Point) Y() (int32, error)")
	require.Contains(t, out, "type Color uint16")
	require.Contains(t, out, "ColorRed")
	require.Contains(t, out, "func NewPoint(v PointValue) []byte")
}

func TestEmitFileUnknownFileNode(t *testing.T) {
	req := pointRequest()
	e := NewEmitter(req, "foopb", true)

	_, err := e.EmitFile(0xdeadbeef)
	require.Error(t, err)

	var ce *CodegenError
	require.ErrorAs(t, err, &ce)
}

func TestStructorDegradesOnGroupField(t *testing.T) {
	req := pointRequest()
	point := req.Nodes[0x1001]
	point.Fields = append(point.Fields, schema.Field{
		Name:        "meta",
		CodeOrder:   2,
		Kind:        schema.FieldGroup,
		GroupTypeID: 0x1002, // reuse the enum id; contents don't matter for this check
	})

	s := Structor{Names: NameStyle{ConvertCase: true, Reserved: GoReserved}, Req: req}
	plan := s.Plan(point)

	require.False(t, plan.Supported)
	require.NotEmpty(t, plan.Reason)
}
