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

// Struct is a read-only view of a struct in a Cap'n Proto message: the
// buffer it borrows, the byte offset of its data section, and the word
// sizes of its data and pointer sections.
//
// The zero Struct is a valid, empty (all-default) struct: accessors on it
// read past the declared data/pointer sections and fall back to field
// defaults exactly as for a struct that was grown with new optional fields
// after a reader was compiled against an older schema.
type Struct struct {
	buf      *Buffer
	offset   int // byte offset of the data section
	dataSize int // words
	ptrsSize int // words
}

// DataSize returns the size of this struct's data section, in words.
func (s Struct) DataSize() int { return s.dataSize }

// PtrsSize returns the size of this struct's pointer section, in words.
func (s Struct) PtrsSize() int { return s.ptrsSize }

// ptrs returns the blob giving access to this struct's pointer section.
func (s Struct) ptrs() blob {
	return blob{buf: s.buf, base: s.offset + s.dataSize*8}
}

// Uint8/Int8/... read a fixed-width primitive field at the given byte
// offset within the data section (the emitter computes this as
// slot.offset * width). A read past the end of the struct's declared data
// section (because the struct predates the field) returns def.
func structPrimitive[T primitive](s Struct, byteOffset int, def T) (T, error) {
	if s.buf == nil || byteOffset+sizeofPrimitive[T]() > s.dataSize*8 {
		return def, nil
	}
	return readPrimitive[T](s.buf, s.offset+byteOffset)
}

func sizeofPrimitive[T primitive]() int {
	var zero T
	switch any(zero).(type) {
	case bool, uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32, float32:
		return 4
	default:
		return 8
	}
}

// Uint8 reads a uint8 data field.
func (s Struct) Uint8(byteOffset int, def uint8) (uint8, error) { return structPrimitive(s, byteOffset, def) }

// Int8 reads an int8 data field.
func (s Struct) Int8(byteOffset int, def int8) (int8, error) { return structPrimitive(s, byteOffset, def) }

func (s Struct) Uint16(byteOffset int, def uint16) (uint16, error) { return structPrimitive(s, byteOffset, def) }
func (s Struct) Int16(byteOffset int, def int16) (int16, error)    { return structPrimitive(s, byteOffset, def) }
func (s Struct) Uint32(byteOffset int, def uint32) (uint32, error) { return structPrimitive(s, byteOffset, def) }
func (s Struct) Int32(byteOffset int, def int32) (int32, error)    { return structPrimitive(s, byteOffset, def) }
func (s Struct) Uint64(byteOffset int, def uint64) (uint64, error) { return structPrimitive(s, byteOffset, def) }
func (s Struct) Int64(byteOffset int, def int64) (int64, error)    { return structPrimitive(s, byteOffset, def) }
func (s Struct) Float32(byteOffset int, def float32) (float32, error) {
	return structPrimitive(s, byteOffset, def)
}
func (s Struct) Float64(byteOffset int, def float64) (float64, error) {
	return structPrimitive(s, byteOffset, def)
}

// Bit reads a single bit from the data section: byteOffset is the
// containing byte's offset and bitIndex is 0..7 within that byte.
func (s Struct) Bit(byteOffset, bitIndex int, def bool) (bool, error) {
	b, err := structPrimitive(s, byteOffset, boolToByte(def)<<uint(bitIndex))
	if err != nil {
		return false, err
	}
	return b&(1<<uint(bitIndex)) != 0, nil
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// ptrIndex converts a byte offset within the pointer section (slot.offset*8,
// as computed by the emitter) to a pointer index.
func ptrIndex(byteOffset int) int { return byteOffset / 8 }

// hasPtrSlot reports whether idx falls within this struct's declared
// pointer section. A struct read against a newer schema than it was
// written with has fewer slots than the accessor expects; such a read
// returns the caller's default rather than reaching past the struct into
// whatever happens to follow it in the buffer.
func (s Struct) hasPtrSlot(idx int) bool {
	return s.buf != nil && idx >= 0 && idx < s.ptrsSize
}

// Text reads a text field whose pointer lives at the given byte offset
// within the pointer section. def is returned for a null pointer.
func (s Struct) Text(byteOffset int, def string) (string, error) {
	if !s.hasPtrSlot(ptrIndex(byteOffset)) {
		return def, nil
	}
	v, ok, err := s.ptrs().readTextAt(ptrIndex(byteOffset))
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// Data reads a data field whose pointer lives at the given byte offset
// within the pointer section. def is returned for a null pointer.
func (s Struct) Data(byteOffset int, def []byte) ([]byte, error) {
	if !s.hasPtrSlot(ptrIndex(byteOffset)) {
		return def, nil
	}
	v, ok, err := s.ptrs().readDataAt(ptrIndex(byteOffset))
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// StructField reads a nested-struct field. def is returned for a null
// pointer.
func (s Struct) StructField(byteOffset int, def Struct) (Struct, error) {
	if !s.hasPtrSlot(ptrIndex(byteOffset)) {
		return def, nil
	}
	v, ok, err := s.ptrs().readStructAt(ptrIndex(byteOffset))
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// ListField reads a list field. def is returned for a null pointer.
func (s Struct) ListField(byteOffset int, def List) (List, error) {
	if !s.hasPtrSlot(ptrIndex(byteOffset)) {
		return def, nil
	}
	v, ok, err := s.ptrs().readListAt(ptrIndex(byteOffset))
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// AnyField reads an anyPointer field.
func (s Struct) AnyField(byteOffset int) (Any, error) {
	if !s.hasPtrSlot(ptrIndex(byteOffset)) {
		return Any{Kind: AnyNull}, nil
	}
	return s.ptrs().readAnyAt(ptrIndex(byteOffset))
}

// Which reads the 16-bit union discriminant stored at discriminantOffset*2.
func (s Struct) Which(discriminantOffset int, def uint16) (uint16, error) {
	return structPrimitive(s, discriminantOffset*2, def)
}
