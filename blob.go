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

// blob is the shared navigational core behind both [Struct]'s pointer
// section and a pointer-kind [List]'s elements: a sequence of 8-byte
// pointer slots starting at some byte offset, each of which can be
// followed to a struct, a list, text, data, or (via [blob.readAny]) any of
// the above.
//
// Both Struct and List build a blob over their pointer slots on demand
// rather than inheriting from a common base, since Go has no classical
// inheritance; this mirrors the Struct/List/Blob split in the design this
// package is modeled on, just assembled by composition instead of
// subclassing.
type blob struct {
	buf  *Buffer
	base int // byte offset of pointer slot 0
}

// slotOffset returns the byte offset of the pointer word at index idx.
func (b blob) slotOffset(idx int) int {
	return b.base + idx*8
}

// readPtr reads and (if necessary) FAR-resolves the pointer at slot idx,
// returning the offset of the pointer word that was actually followed
// together with its value.
func (b blob) readPtr(idx int) (int, ptr, error) {
	return b.buf.readPtr(b.slotOffset(idx))
}

// readStructAt follows the pointer at slot idx and returns the struct it
// names. ok is false (with a zero error) when the pointer was null.
func (b blob) readStructAt(idx int) (s Struct, ok bool, err error) {
	offset, p, err := b.readPtr(idx)
	if err != nil {
		return Struct{}, false, err
	}
	if p == 0 {
		return Struct{}, false, nil
	}
	if p.kind() == kindOther {
		return Struct{}, false, wireErr(errCodeUnsupportedPointer, offset)
	}
	if p.kind() != kindStruct {
		return Struct{}, false, wireErr(errCodeMalformedPointer, offset)
	}
	return Struct{
		buf:      b.buf,
		offset:   deref(p, offset),
		dataSize: p.structDataSize(),
		ptrsSize: p.structPtrsSize(),
	}, true, nil
}

// readListAt follows the pointer at slot idx and returns the list it names.
func (b blob) readListAt(idx int) (l List, ok bool, err error) {
	offset, p, err := b.readPtr(idx)
	if err != nil {
		return List{}, false, err
	}
	if p == 0 {
		return List{}, false, nil
	}
	if p.kind() == kindOther {
		return List{}, false, wireErr(errCodeUnsupportedPointer, offset)
	}
	if p.kind() != kindList {
		return List{}, false, wireErr(errCodeMalformedPointer, offset)
	}
	l, err = newList(b.buf, offset, p)
	return l, err == nil, err
}

// readTextAt follows the pointer at slot idx and returns the NUL-terminated
// byte list it names, with the terminator stripped.
func (b blob) readTextAt(idx int) (s string, ok bool, err error) {
	offset, p, err := b.readPtr(idx)
	if err != nil {
		return "", false, err
	}
	if p == 0 {
		return "", false, nil
	}
	raw, err := b.buf.readStr(p, offset, -1)
	if err != nil {
		return "", false, err
	}
	return string(raw), true, nil
}

// readDataAt follows the pointer at slot idx and returns the raw byte list
// it names.
func (b blob) readDataAt(idx int) (d []byte, ok bool, err error) {
	offset, p, err := b.readPtr(idx)
	if err != nil {
		return nil, false, err
	}
	if p == 0 {
		return nil, false, nil
	}
	raw, err := b.buf.readStr(p, offset, 0)
	if err != nil {
		return nil, false, err
	}
	return append([]byte(nil), raw...), true, nil
}

// AnyKind discriminates the variants of [Any].
type AnyKind int

const (
	AnyNull AnyKind = iota
	AnyStruct
	AnyList
)

// Any is the sum type `Struct | List | Null` returned by an anyPointer
// field accessor. Text and Data are not distinct wire kinds —
// both are encoded as a LIST pointer with an element-size tag of 2 — so a
// List with [List.IsBytes] true can be reinterpreted as Text or Data via
// [List.Text] / [List.Data] once the caller's schema says which it should
// be.
type Any struct {
	Kind   AnyKind
	Struct Struct
	List   List
}

// readAnyAt follows the pointer at slot idx and dispatches on its kind.
func (b blob) readAnyAt(idx int) (Any, error) {
	offset, p, err := b.readPtr(idx)
	if err != nil {
		return Any{}, err
	}
	if p == 0 {
		return Any{Kind: AnyNull}, nil
	}
	switch p.kind() {
	case kindStruct:
		return Any{
			Kind: AnyStruct,
			Struct: Struct{
				buf:      b.buf,
				offset:   deref(p, offset),
				dataSize: p.structDataSize(),
				ptrsSize: p.structPtrsSize(),
			},
		}, nil
	case kindList:
		l, err := newList(b.buf, offset, p)
		if err != nil {
			return Any{}, err
		}
		return Any{Kind: AnyList, List: l}, nil
	case kindOther:
		return Any{}, wireErr(errCodeUnsupportedPointer, offset)
	default:
		return Any{}, wireErr(errCodeMalformedPointer, offset)
	}
}
