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
	"encoding/binary"
	"fmt"
	"io"
)

// ParseMessage decodes the Cap'n Proto unpacked stream framing (a
// segment-count-minus-one word, one word-length per segment, optional
// padding, then the segments back to back) and returns a [Buffer] ready
// for [Buffer.RootStruct].
func ParseMessage(s []byte) (*Buffer, error) {
	if len(s) < 4 {
		return nil, fmt.Errorf("capnlite: message too short for segment header: %d bytes", len(s))
	}
	segmentCount := int(binary.LittleEndian.Uint32(s[0:4])) + 1
	if segmentCount <= 0 {
		return nil, fmt.Errorf("capnlite: invalid segment count")
	}

	// Header is (segmentCount+1) uint32 fields: the count word plus one
	// length per segment, padded to an 8-byte boundary.
	headerFields := segmentCount + 1
	headerLen := headerFields * 4
	if headerFields%2 != 0 {
		headerLen += 4 // padding
	}
	if len(s) < headerLen {
		return nil, fmt.Errorf("capnlite: message too short for segment table: need %d bytes, have %d", headerLen, len(s))
	}

	lengths := make([]int, segmentCount)
	for i := range segmentCount {
		lengths[i] = int(binary.LittleEndian.Uint32(s[4+4*i : 8+4*i]))
	}

	offsets := make([]int, segmentCount)
	offset := headerLen
	for i, wordLen := range lengths {
		offsets[i] = offset
		offset += wordLen * 8
	}
	if offset > len(s) {
		return nil, fmt.Errorf("capnlite: message too short for segment data: need %d bytes, have %d", offset, len(s))
	}

	if segmentCount == 1 {
		return NewBuffer(s[offsets[0]:offset]), nil
	}
	return NewMultiSegmentBuffer(s, offsets), nil
}

// ReadMessage reads an entire Cap'n Proto message from r and parses it with
// [ParseMessage].
func ReadMessage(r io.Reader) (*Buffer, error) {
	s, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseMessage(s)
}

// WriteMessage frames body (the serialized bytes of a single-segment
// message, as produced by [Builder.Build]) with the unpacked stream's
// segment header and writes the result to w.
func WriteMessage(w io.Writer, body []byte) error {
	if len(body)%8 != 0 {
		return fmt.Errorf("capnlite: message body length %d is not a multiple of 8", len(body))
	}
	var header [8]byte
	// segmentCount - 1 == 0 for a single segment.
	binary.LittleEndian.PutUint32(header[0:4], 0)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(body)/8))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
