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

package capnlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointerKind(t *testing.T) {
	t.Parallel()
	require.Equal(t, kindStruct, ptr(0).kind())
	require.Equal(t, kindList, ptr(1).kind())
	require.Equal(t, kindFar, ptr(2).kind())
	require.Equal(t, kindOther, ptr(3).kind())
}

func TestStructPointerRoundTrip(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name     string
		off      int32
		dataSize int
		ptrsSize int
	}{
		{"zero offset", 0, 1, 2},
		{"positive offset", 5, 3, 0},
		{"negative offset", -3, 0, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := makeStructPtr(tc.off, tc.dataSize, tc.ptrsSize)
			require.Equal(t, kindStruct, p.kind())
			require.Equal(t, tc.off, p.structOffset())
			require.Equal(t, tc.dataSize, p.structDataSize())
			require.Equal(t, tc.ptrsSize, p.structPtrsSize())
		})
	}
}

func TestListPointerRoundTrip(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name    string
		off     int32
		sizeTag int
		count   int
	}{
		{"byte list", 0, listByte1, 10},
		{"pointer list negative offset", -1, listPointer, 3},
		{"composite list large count", 100, listComposite, 1 << 20},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := makeListPtr(tc.off, tc.sizeTag, tc.count)
			require.Equal(t, kindList, p.kind())
			require.Equal(t, tc.off, p.listOffset())
			require.Equal(t, tc.sizeTag, p.listSizeTag())
			require.Equal(t, tc.count, p.listItemCount())
		})
	}
}

func TestDeref(t *testing.T) {
	t.Parallel()
	// A zero word offset means "right after the pointer word itself".
	require.Equal(t, 8, deref(makeStructPtr(0, 0, 0), 0))
	require.Equal(t, 16, deref(makeStructPtr(0, 0, 0), 8))
	require.Equal(t, 0, deref(makeStructPtr(-1, 0, 0), 0))
}

func TestElementByteWidth(t *testing.T) {
	t.Parallel()
	width, ok := elementByteWidth(listByte4)
	require.True(t, ok)
	require.Equal(t, 4, width)

	_, ok = elementByteWidth(listComposite) // composite lists have no fixed element width
	require.False(t, ok)
}
