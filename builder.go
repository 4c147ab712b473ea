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

// Builder lays out a new message's bytes in a single growing buffer.
//
// It owns two regions: body, the message's root pointer word (sized once,
// at construction), and extra, the region that the root struct itself and
// every string, nested struct, and list are appended to as the message is
// built. Every allocation — [StructCursor.AllocText], [StructCursor.AllocStruct],
// and the list allocators — reserves its bytes in extra up front, which
// fixes its absolute position immediately; this lets a pointer word be
// written as soon as the allocation is made, rather than requiring a
// second back-patching pass once extra has stopped growing.
type Builder struct {
	body  []byte
	extra []byte

	rootBase               int
	rootDataSize, rootPtrs int
}

// NewBuilder allocates a builder for a root struct with the given data and
// pointer section sizes, in words. body holds only the message's root
// pointer word; the root
// struct's own data and pointer sections are reserved in extra immediately
// behind it, exactly as any other nested struct would be.
func NewBuilder(dataSize, ptrsSize int) *Builder {
	b := &Builder{body: make([]byte, 8)}
	start := b.reserve((dataSize + ptrsSize) * 8)
	b.writePtrAt(0, makeStructPtr(relWords(0, start), dataSize, ptrsSize))
	b.rootBase, b.rootDataSize, b.rootPtrs = start, dataSize, ptrsSize
	return b
}

// Root returns a cursor over the builder's root struct.
func (b *Builder) Root() StructCursor {
	return StructCursor{b: b, base: b.rootBase, dataSize: b.rootDataSize, ptrsSize: b.rootPtrs}
}

// Build packs the accumulated body and extra regions into the final
// message bytes, suitable for passing to [WriteMessage] or wrapping
// directly with [NewBuffer].
func (b *Builder) Build() []byte {
	out := make([]byte, 0, len(b.body)+len(b.extra))
	out = append(out, b.body...)
	out = append(out, b.extra...)
	return out
}

// reserve appends n zeroed bytes to extra, rounded up to a whole number of
// words so that every allocation starts word-aligned, and returns their
// absolute offset (relative to the start of body).
func (b *Builder) reserve(n int) int {
	start := len(b.body) + len(b.extra)
	b.extra = append(b.extra, make([]byte, align8(n))...)
	return start
}

func (b *Builder) writeAt(abs int, p []byte) {
	if abs < len(b.body) {
		copy(b.body[abs:], p)
		return
	}
	copy(b.extra[abs-len(b.body):], p)
}

func (b *Builder) writePtrAt(abs int, p ptr) {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], uint64(p))
	b.writeAt(abs, raw[:])
}

// align8 pads n up to the next multiple of 8.
func align8(n int) int { return (n + 7) &^ 7 }

// Note: the <<2 must happen in 32-bit arithmetic so that it wraps exactly
// the way the decoder's matching `int32(p) >> 2` arithmetic shift expects;
// widening to 64 bits before shifting would leave the sign-extended high
// bits sitting above bit 31 instead of wrapping back into bits 2..31.
func makeStructPtr(wordOffset int32, dataSize, ptrsSize int) ptr {
	return ptr(uint64(uint32(wordOffset)<<2)) | kindStruct |
		ptr(uint16(dataSize))<<32 | ptr(uint16(ptrsSize))<<48
}

func makeListPtr(wordOffset int32, sizeTag int, itemCount int) ptr {
	return ptr(uint64(uint32(wordOffset)<<2)) | kindList |
		ptr(sizeTag&0x7)<<32 | ptr(uint64(itemCount))<<35
}

// relWords computes the signed word offset a pointer at ptrAbs must encode
// to name data starting at targetAbs — the inverse of [deref].
func relWords(ptrAbs, targetAbs int) int32 {
	return int32((targetAbs - ptrAbs - 8) / 8)
}

// StructCursor is a handle to a struct body being filled in by a [Builder]:
// either the builder's root struct, or a nested struct reserved by
// [StructCursor.AllocStruct] or addressed via [StructList.Element].
type StructCursor struct {
	b                  *Builder
	base               int
	dataSize, ptrsSize int
}

func setCursorPrimitive[T primitive](c StructCursor, byteOffset int, v T) {
	var raw [8]byte
	n := sizeofPrimitive[T]()
	encodePrimitive(raw[:n], v)
	c.b.writeAt(c.base+byteOffset, raw[:n])
}

func encodePrimitive[T primitive](dst []byte, v T) {
	switch x := any(v).(type) {
	case bool:
		if x {
			dst[0] = 1
		}
	case uint8:
		dst[0] = x
	case int8:
		dst[0] = byte(x)
	case uint16:
		binary.LittleEndian.PutUint16(dst, x)
	case int16:
		binary.LittleEndian.PutUint16(dst, uint16(x))
	case uint32:
		binary.LittleEndian.PutUint32(dst, x)
	case int32:
		binary.LittleEndian.PutUint32(dst, uint32(x))
	case float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(x))
	case uint64:
		binary.LittleEndian.PutUint64(dst, x)
	case int64:
		binary.LittleEndian.PutUint64(dst, uint64(x))
	case float64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(x))
	default:
		panic("capnlite: unreachable primitive kind")
	}
}

// SetUint8 writes a uint8 data field at the given byte offset.
func (c StructCursor) SetUint8(byteOffset int, v uint8) { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetInt8(byteOffset int, v int8)   { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetUint16(byteOffset int, v uint16) { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetInt16(byteOffset int, v int16)   { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetUint32(byteOffset int, v uint32) { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetInt32(byteOffset int, v int32)   { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetUint64(byteOffset int, v uint64) { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetInt64(byteOffset int, v int64)   { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetFloat32(byteOffset int, v float32) { setCursorPrimitive(c, byteOffset, v) }
func (c StructCursor) SetFloat64(byteOffset int, v float64) { setCursorPrimitive(c, byteOffset, v) }

// SetBit sets or clears a single bit within the byte at byteOffset.
func (c StructCursor) SetBit(byteOffset, bitIndex int, v bool) {
	abs := c.base + byteOffset
	cur := byte(0)
	if abs < len(c.b.body) {
		cur = c.b.body[abs]
	} else {
		cur = c.b.extra[abs-len(c.b.body)]
	}
	if v {
		cur |= 1 << uint(bitIndex)
	} else {
		cur &^= 1 << uint(bitIndex)
	}
	c.b.writeAt(abs, []byte{cur})
}

// SetWhich writes the union discriminant tag at discriminantOffset*2.
func (c StructCursor) SetWhich(discriminantOffset int, tag uint16) {
	c.SetUint16(discriminantOffset*2, tag)
}

// AllocText reserves text, NUL-terminates and 8-byte-aligns it, and writes
// a LIST pointer at ptrOffset naming it.
func (c StructCursor) AllocText(ptrOffset int, text string) {
	n := len(text) + 1
	padded := align8(n)
	start := c.b.reserve(padded)
	copy(c.b.extra[start-len(c.b.body):], text)
	// the NUL terminator and any alignment padding are already zero.
	ptrAbs := c.base + ptrOffset
	c.b.writePtrAt(ptrAbs, makeListPtr(relWords(ptrAbs, start), listByte1, n))
}

// AllocData reserves data, 8-byte-aligns it, and writes a LIST pointer at
// ptrOffset naming it.
func (c StructCursor) AllocData(ptrOffset int, data []byte) {
	padded := align8(len(data))
	start := c.b.reserve(padded)
	copy(c.b.extra[start-len(c.b.body):], data)
	ptrAbs := c.base + ptrOffset
	c.b.writePtrAt(ptrAbs, makeListPtr(relWords(ptrAbs, start), listByte1, len(data)))
}

// AllocStruct reserves a nested struct body of the given size and writes a
// STRUCT pointer at ptrOffset naming it, returning a cursor to fill it in.
func (c StructCursor) AllocStruct(ptrOffset, dataSize, ptrsSize int) StructCursor {
	start := c.b.reserve((dataSize + ptrsSize) * 8)
	ptrAbs := c.base + ptrOffset
	c.b.writePtrAt(ptrAbs, makeStructPtr(relWords(ptrAbs, start), dataSize, ptrsSize))
	return StructCursor{b: c.b, base: start, dataSize: dataSize, ptrsSize: ptrsSize}
}
