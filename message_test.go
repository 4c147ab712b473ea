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
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"capnlite"
)

func TestWriteMessageThenParseMessage(t *testing.T) {
	t.Parallel()
	b := capnlite.NewBuilder(1, 0)
	b.Root().SetUint64(0, 0x0102030405060708)
	body := b.Build()

	var buf bytes.Buffer
	require.NoError(t, capnlite.WriteMessage(&buf, body))

	msg, err := capnlite.ReadMessage(&buf)
	require.NoError(t, err)

	root, err := msg.RootStruct()
	require.NoError(t, err)
	v, err := root.Uint64(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v)
}

func TestParseMessageRejectsTruncatedHeader(t *testing.T) {
	t.Parallel()
	_, err := capnlite.ParseMessage([]byte{0, 0})
	require.Error(t, err)
}

func TestParseMessageRejectsTruncatedSegment(t *testing.T) {
	t.Parallel()
	// Claims a single segment of 2 words but supplies none.
	_, err := capnlite.ParseMessage([]byte{0, 0, 0, 0, 2, 0, 0, 0})
	require.Error(t, err)
}

func TestParseMessageMultiSegmentRoot(t *testing.T) {
	t.Parallel()
	// Segment 0 holds the root struct; segment 1 is a second, otherwise
	// unreferenced segment, present only to force the multi-segment framing
	// path. Regression test for the root pointer being read at absolute
	// byte 0 (the segment header) instead of segmentOffsets[0].
	b := capnlite.NewBuilder(1, 0)
	b.Root().SetUint32(0, 0xcafef00d)
	seg0 := b.Build()
	seg1 := make([]byte, 8)

	var raw bytes.Buffer
	var header [16]byte
	binary.LittleEndian.PutUint32(header[0:4], 1) // segmentCount-1
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(seg0)/8))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(seg1)/8))
	raw.Write(header[:])
	raw.Write(seg0)
	raw.Write(seg1)

	msg, err := capnlite.ParseMessage(raw.Bytes())
	require.NoError(t, err)

	root, err := msg.RootStruct()
	require.NoError(t, err)
	v, err := root.Uint32(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0xcafef00d), v)
}
