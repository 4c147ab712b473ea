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

// This file implements the three list-writer variants: PrimitiveList,
// StringList, and StructList. Each allocator is a method on [StructCursor]
// rather than a standalone writer, since every allocation in this builder
// needs to know the absolute position of the pointer slot it is patching;
// the struct-list allocator returns a [StructList] handle for filling in
// its elements.

// allocPrimitiveList reserves a tightly-packed primitive list and writes a
// LIST pointer at ptrOffset naming it. sizeTag must match the byte width of
// T (the list element-size tag, 2..5).
func allocPrimitiveList[T primitive](c StructCursor, ptrOffset int, sizeTag int, items []T) {
	width := sizeofPrimitive[T]()
	start := c.b.reserve(len(items) * width)
	for i, v := range items {
		var raw [8]byte
		encodePrimitive(raw[:width], v)
		c.b.writeAt(start+i*width, raw[:width])
	}
	ptrAbs := c.base + ptrOffset
	c.b.writePtrAt(ptrAbs, makeListPtr(relWords(ptrAbs, start), sizeTag, len(items)))
}

func (c StructCursor) AllocUint8List(ptrOffset int, items []uint8) { allocPrimitiveList(c, ptrOffset, listByte1, items) }
func (c StructCursor) AllocInt8List(ptrOffset int, items []int8)   { allocPrimitiveList(c, ptrOffset, listByte1, items) }
func (c StructCursor) AllocUint16List(ptrOffset int, items []uint16) {
	allocPrimitiveList(c, ptrOffset, listByte2, items)
}
func (c StructCursor) AllocInt16List(ptrOffset int, items []int16) {
	allocPrimitiveList(c, ptrOffset, listByte2, items)
}
func (c StructCursor) AllocUint32List(ptrOffset int, items []uint32) {
	allocPrimitiveList(c, ptrOffset, listByte4, items)
}
func (c StructCursor) AllocInt32List(ptrOffset int, items []int32) {
	allocPrimitiveList(c, ptrOffset, listByte4, items)
}
func (c StructCursor) AllocFloat32List(ptrOffset int, items []float32) {
	allocPrimitiveList(c, ptrOffset, listByte4, items)
}
func (c StructCursor) AllocUint64List(ptrOffset int, items []uint64) {
	allocPrimitiveList(c, ptrOffset, listByte8, items)
}
func (c StructCursor) AllocInt64List(ptrOffset int, items []int64) {
	allocPrimitiveList(c, ptrOffset, listByte8, items)
}
func (c StructCursor) AllocFloat64List(ptrOffset int, items []float64) {
	allocPrimitiveList(c, ptrOffset, listByte8, items)
}

// AllocBitList reserves a packed bit list and writes a LIST pointer at
// ptrOffset naming it.
func (c StructCursor) AllocBitList(ptrOffset int, items []bool) {
	start := c.b.reserve((len(items) + 7) / 8)
	for i, v := range items {
		if !v {
			continue
		}
		abs := start + i/8
		cur := byte(0)
		if abs < len(c.b.body) {
			cur = c.b.body[abs]
		} else {
			cur = c.b.extra[abs-len(c.b.body)]
		}
		cur |= 1 << uint(i%8)
		c.b.writeAt(abs, []byte{cur})
	}
	ptrAbs := c.base + ptrOffset
	c.b.writePtrAt(ptrAbs, makeListPtr(relWords(ptrAbs, start), listBit, len(items)))
}

// AllocTextList reserves a list of pointers and fills each with a separate
// [StructCursor.AllocText]-style allocation, then writes the LIST pointer
// at ptrOffset.
func (c StructCursor) AllocTextList(ptrOffset int, items []string) {
	start := c.b.reserve(len(items) * 8)
	ptrAbs := c.base + ptrOffset
	c.b.writePtrAt(ptrAbs, makeListPtr(relWords(ptrAbs, start), listPointer, len(items)))
	for i, text := range items {
		slot := StructCursor{b: c.b, base: start}
		slot.AllocText(i*8, text)
	}
}

// AllocDataList is the Data analogue of [StructCursor.AllocTextList].
func (c StructCursor) AllocDataList(ptrOffset int, items [][]byte) {
	start := c.b.reserve(len(items) * 8)
	ptrAbs := c.base + ptrOffset
	c.b.writePtrAt(ptrAbs, makeListPtr(relWords(ptrAbs, start), listPointer, len(items)))
	for i, data := range items {
		slot := StructCursor{b: c.b, base: start}
		slot.AllocData(i*8, data)
	}
}

// StructList is a handle to a composite (struct) list reserved by
// [StructCursor.AllocStructList]: a tag word followed by n fixed-stride
// struct bodies, per /glossary "Composite list".
type StructList struct {
	b                  *Builder
	elemsStart         int
	count              int
	dataSize, ptrsSize int
}

// AllocStructList reserves a composite list of n structs, each with the
// given data/pointer section sizes, and writes a LIST pointer at ptrOffset
// naming it.
func (c StructCursor) AllocStructList(ptrOffset, dataSize, ptrsSize, n int) StructList {
	elemWords := dataSize + ptrsSize
	tagAbs := c.b.reserve(8 + n*elemWords*8)
	c.b.writePtrAt(tagAbs, makeStructPtr(int32(n), dataSize, ptrsSize))
	ptrAbs := c.base + ptrOffset
	c.b.writePtrAt(ptrAbs, makeListPtr(relWords(ptrAbs, tagAbs), listComposite, n*elemWords))
	return StructList{b: c.b, elemsStart: tagAbs + 8, count: n, dataSize: dataSize, ptrsSize: ptrsSize}
}

// Element returns a cursor over the i'th struct body of the list.
func (l StructList) Element(i int) StructCursor {
	elemWords := l.dataSize + l.ptrsSize
	return StructCursor{
		b: l.b, base: l.elemsStart + i*elemWords*8,
		dataSize: l.dataSize, ptrsSize: l.ptrsSize,
	}
}

// Len returns the number of elements in this struct list.
func (l StructList) Len() int { return l.count }
