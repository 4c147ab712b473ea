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
	"math"
)

// Buffer owns a message's raw bytes and, for multi-segment messages, the
// byte offset at which each segment starts.
//
// A Buffer is immutable after construction and safe to share across
// goroutines; every [Struct] and [List] view borrows it and owns nothing of
// its own.
type Buffer struct {
	s              []byte
	segmentOffsets []int // nil for single-segment buffers
}

// NewBuffer wraps a single contiguous segment of message bytes. Following a
// FAR pointer in the resulting buffer fails with [ErrFarInSingleSegment].
func NewBuffer(s []byte) *Buffer {
	return &Buffer{s: s}
}

// NewMultiSegmentBuffer wraps message bytes that contain len(segmentOffsets)
// segments, with segmentOffsets[i] giving the byte offset in s at which
// segment i begins. A single hop across a FAR pointer (landing-pad flag 0)
// is supported; a landing-pad flag of 1 (double-far) is rejected with
// [ErrUnsupportedPointer].
func NewMultiSegmentBuffer(s []byte, segmentOffsets []int) *Buffer {
	return &Buffer{s: s, segmentOffsets: segmentOffsets}
}

// RootStruct reads the message's root pointer (the first word of segment 0)
// and returns the struct it names. An empty (zero-size) struct is returned
// for a null root pointer.
func (b *Buffer) RootStruct() (Struct, error) {
	base := 0
	if b.segmentOffsets != nil {
		base = b.segmentOffsets[0]
	}
	s, _, err := (blob{buf: b, base: base}).readStructAt(0)
	return s, err
}

func (b *Buffer) boundsCheck(offset, n int) error {
	if offset < 0 || n < 0 || offset+n > len(b.s) {
		return wireErr(errCodeOutOfBounds, offset)
	}
	return nil
}

// readPrimitive reads a little-endian fixed-width value of type T at the
// given byte offset.
func readPrimitive[T primitive](b *Buffer, offset int) (T, error) {
	var zero T
	var width int
	switch any(zero).(type) {
	case uint8, int8, bool:
		width = 1
	case uint16, int16:
		width = 2
	case uint32, int32, float32:
		width = 4
	case uint64, int64, float64:
		width = 8
	}
	if err := b.boundsCheck(offset, width); err != nil {
		return zero, err
	}
	return decodePrimitive[T](b.s[offset : offset+width]), nil
}

// primitive is the set of fixed-width scalar types the wire format can
// encode directly into a struct's data section.
type primitive interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 |
		~int32 | ~uint32 | ~float32 | ~int64 | ~uint64 | ~float64
}

func decodePrimitive[T primitive](raw []byte) T {
	var zero T
	switch any(zero).(type) {
	case bool:
		return any(raw[0]&1 != 0).(T)
	case uint8:
		return any(raw[0]).(T)
	case int8:
		return any(int8(raw[0])).(T)
	case uint16:
		return any(binary.LittleEndian.Uint16(raw)).(T)
	case int16:
		return any(int16(binary.LittleEndian.Uint16(raw))).(T)
	case uint32:
		return any(binary.LittleEndian.Uint32(raw)).(T)
	case int32:
		return any(int32(binary.LittleEndian.Uint32(raw))).(T)
	case float32:
		return any(math.Float32frombits(binary.LittleEndian.Uint32(raw))).(T)
	case uint64:
		return any(binary.LittleEndian.Uint64(raw)).(T)
	case int64:
		return any(int64(binary.LittleEndian.Uint64(raw))).(T)
	case float64:
		return any(math.Float64frombits(binary.LittleEndian.Uint64(raw))).(T)
	default:
		panic("capnlite: unreachable primitive kind")
	}
}

// readRawPtr reads the raw 64-bit pointer word at the given byte offset,
// performing no FAR resolution.
func (b *Buffer) readRawPtr(offset int) (ptr, error) {
	if err := b.boundsCheck(offset, 8); err != nil {
		return 0, err
	}
	return ptr(binary.LittleEndian.Uint64(b.s[offset : offset+8])), nil
}

// readPtr reads the pointer word at offset, following at most one FAR hop.
// It returns the byte offset of the pointer word that was ultimately read
// (the landing pad's offset, for a FAR pointer) together with that word.
func (b *Buffer) readPtr(offset int) (int, ptr, error) {
	p, err := b.readRawPtr(offset)
	if err != nil {
		return 0, 0, err
	}
	if p.kind() != kindFar {
		return offset, p, nil
	}
	return b.followFar(p)
}

func (b *Buffer) followFar(p ptr) (int, ptr, error) {
	if b.segmentOffsets == nil {
		return 0, 0, wireErr(errCodeFarInSingleSegment, 0)
	}
	if p.farLandingPad() != 0 {
		return 0, 0, wireErr(errCodeUnsupportedPointer, 0)
	}
	target := p.farTarget()
	if int(target) >= len(b.segmentOffsets) {
		return 0, 0, wireErr(errCodeOutOfBounds, 0)
	}
	landingOffset := b.segmentOffsets[target] + int(p.farOffset())*8
	landed, err := b.readRawPtr(landingOffset)
	if err != nil {
		return 0, 0, err
	}
	return landingOffset, landed, nil
}

// readStr reads Text or Data named by pointer p (which was read from byte
// offset ptrOffset). additional is -1 for Text (drop the trailing NUL) or 0
// for Data. p == 0 (the null pointer) is handled by the caller, not here.
func (b *Buffer) readStr(p ptr, ptrOffset int, additional int) ([]byte, error) {
	if p.kind() == kindOther {
		return nil, wireErr(errCodeUnsupportedPointer, ptrOffset)
	}
	if p.kind() != kindList {
		return nil, wireErr(errCodeMalformedPointer, ptrOffset)
	}
	if p.listSizeTag() != listByte1 {
		return nil, wireErr(errCodeMalformedPointer, ptrOffset)
	}
	start := deref(p, ptrOffset)
	n := p.listItemCount() + additional
	if err := b.boundsCheck(start, n); err != nil {
		return nil, err
	}
	return b.s[start : start+n], nil
}
