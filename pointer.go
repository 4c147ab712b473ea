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

// ptr is a 64-bit tagged Cap'n Proto pointer word.
//
// All accessors below are pure functions of the bit pattern; none of them
// touch a buffer. A ptr value of 0 is the null pointer.
type ptr uint64

// Pointer kinds, stored in bits 0..1.
const (
	kindStruct ptr = 0
	kindList   ptr = 1
	kindFar    ptr = 2
	kindOther  ptr = 3
)

// List element-size tags, stored in bits 32..34 of a LIST pointer.
const (
	listVoid      = 0
	listBit       = 1
	listByte1     = 2
	listByte2     = 3
	listByte4     = 4
	listByte8     = 5
	listPointer   = 6
	listComposite = 7
)

func (p ptr) kind() ptr { return p & 3 }

// structOffset returns the struct pointer's signed word offset (bits 2..31).
func (p ptr) structOffset() int32 {
	return int32(p) >> 2
}

// structDataSize returns the struct's data-section size, in words (bits 32..47).
func (p ptr) structDataSize() int {
	return int(uint16(p >> 32))
}

// structPtrsSize returns the struct's pointer-section size, in words (bits 48..63).
func (p ptr) structPtrsSize() int {
	return int(uint16(p >> 48))
}

// listOffset returns the list pointer's signed word offset (bits 2..31).
func (p ptr) listOffset() int32 {
	return int32(p) >> 2
}

// listSizeTag returns the element-size tag (bits 32..34).
func (p ptr) listSizeTag() int {
	return int((p >> 32) & 0x7)
}

// listItemCount returns the element (or, for composite lists, word) count
// (bits 35..63).
func (p ptr) listItemCount() int {
	return int(p >> 35)
}

// farLandingPad returns the far pointer's landing-pad flag (bit 2).
func (p ptr) farLandingPad() int {
	return int((p >> 2) & 1)
}

// farOffset returns the far pointer's target word offset within its segment
// (bits 3..31).
func (p ptr) farOffset() int32 {
	return int32(p>>3) & 0x1fffffff
}

// farTarget returns the far pointer's target segment id (bits 32..63).
func (p ptr) farTarget() uint32 {
	return uint32(p >> 32)
}

// deref computes the byte offset of the data named by pointer p, which was
// itself read from byte offset ptrOffset.
//
// The "+8" accounts for the pointer word sitting immediately before its
// referent in struct/list encoding: a zero word offset means "right after
// me".
func deref(p ptr, ptrOffset int) int {
	var wordOffset int32
	switch p.kind() {
	case kindStruct:
		wordOffset = p.structOffset()
	case kindList:
		wordOffset = p.listOffset()
	default:
		wordOffset = 0
	}
	return ptrOffset + 8 + int(wordOffset)*8
}

// elementByteWidth returns the byte width of one element of a
// non-composite list with the given size tag.
func elementByteWidth(sizeTag int) (int, bool) {
	switch sizeTag {
	case listVoid:
		return 0, true
	case listBit:
		return 0, true // handled specially: sub-byte
	case listByte1:
		return 1, true
	case listByte2:
		return 2, true
	case listByte4:
		return 4, true
	case listByte8:
		return 8, true
	case listPointer:
		return 8, true
	default:
		return 0, false
	}
}
