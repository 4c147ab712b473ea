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

package capnlite_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"capnlite"
)

func TestBuilderRootPrimitives(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(2, 0)
	root := b.Root()
	root.SetUint32(0, 42)
	root.SetFloat64(8, 3.5)

	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	v, err := s.Uint32(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)

	f, err := s.Float64(8, 0)
	require.NoError(t, err)
	require.Equal(t, 3.5, f)
}

func TestBuilderTextAndData(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(0, 2)
	root := b.Root()
	root.AllocText(0, "hello, capnp")
	root.AllocData(8, []byte{1, 2, 3, 4})

	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	text, err := s.Text(0, "")
	require.NoError(t, err)
	require.Equal(t, "hello, capnp", text)

	data, err := s.Data(8, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestBuilderNestedStruct(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(0, 1)
	root := b.Root()
	child := root.AllocStruct(0, 1, 0)
	child.SetInt64(0, -12345)

	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	c, err := s.StructField(0, capnlite.Struct{})
	require.NoError(t, err)
	v, err := c.Int64(0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(-12345), v)
}

func TestBuilderMissingFieldReturnsDefault(t *testing.T) {
	t.Parallel()
	// A struct with zero pointer slots: reading a struct field from it must
	// fall back to the caller's default rather than erroring, the same way
	// an old message read against a newer schema would.
	b := capnlite.NewBuilder(0, 0)
	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	def := capnlite.Struct{}
	got, err := s.StructField(0, def)
	require.NoError(t, err)
	require.Equal(t, def, got)

	text, err := s.Text(0, "fallback")
	require.NoError(t, err)
	require.Equal(t, "fallback", text)
}

func TestBuilderPrimitiveList(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(0, 1)
	root := b.Root()
	root.AllocUint32List(0, []uint32{10, 20, 30, 40})

	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	l, err := s.ListField(0, capnlite.List{})
	require.NoError(t, err)
	require.Equal(t, 4, l.Len())
	for i, want := range []uint32{10, 20, 30, 40} {
		got, err := l.Uint32(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBuilderBitList(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(0, 1)
	root := b.Root()
	bits := []bool{true, false, true, true, false, false, false, true, true}
	root.AllocBitList(0, bits)

	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	l, err := s.ListField(0, capnlite.List{})
	require.NoError(t, err)
	require.Equal(t, len(bits), l.Len())
	for i, want := range bits {
		got, err := l.Bit(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBuilderTextList(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(0, 1)
	root := b.Root()
	words := []string{"alpha", "beta", "gamma"}
	root.AllocTextList(0, words)

	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	l, err := s.ListField(0, capnlite.List{})
	require.NoError(t, err)
	require.Equal(t, 3, l.Len())
	for i, want := range words {
		got, err := l.TextAt(i, "")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBuilderStructList(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(0, 1)
	root := b.Root()
	sl := root.AllocStructList(0, 1, 0, 3)
	for i := range 3 {
		sl.Element(i).SetUint32(0, uint32(100+i))
	}

	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	l, err := s.ListField(0, capnlite.List{})
	require.NoError(t, err)
	require.Equal(t, 3, l.Len())
	for i := range 3 {
		elem, err := l.StructAt(i)
		require.NoError(t, err)
		v, err := elem.Uint32(0, 0)
		require.NoError(t, err)
		require.Equal(t, uint32(100+i), v)
	}
}

func TestBuilderUnionDiscriminant(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(1, 0)
	root := b.Root()
	root.SetWhich(0, 2)

	buf := capnlite.NewBuffer(b.Build())
	s, err := buf.RootStruct()
	require.NoError(t, err)

	which, err := s.Which(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(2), which)
}

func TestNullRootPointerIsEmptyStruct(t *testing.T) {
	t.Parallel()
	// An all-zero single-segment message: the root pointer is null.
	buf := capnlite.NewBuffer(make([]byte, 8))
	s, err := buf.RootStruct()
	require.NoError(t, err)
	require.Equal(t, 0, s.DataSize())
	require.Equal(t, 0, s.PtrsSize())
}

func TestFarPointerInSingleSegmentBufferErrors(t *testing.T) {
	t.Parallel()
	// Root pointer word tagged as FAR (kind bits == 2).
	buf := capnlite.NewBuffer([]byte{2, 0, 0, 0, 0, 0, 0, 0})
	_, err := buf.RootStruct()
	require.ErrorIs(t, err, capnlite.ErrFarInSingleSegment)
}
