// Package zc provides a packed, zero-copy byte-range representation: a
// Range is an offset+length pair relative to a message's backing array,
// convertible to a real []byte or string on demand. The decoder in package
// capnlite does not use it; its Text and Data reads copy.
package zc

import (
	"fmt"
	"math"

	"capnlite/internal/dbg"
	"capnlite/internal/xunsafe"
)

// Range is a []byte expressed as a slice relative to some larger byte array,
// such as the bytes backing a decoded message.
//
// This is a packed representation with the layout
//
//	struct {
//	  offset, len uint32
//	}
//
// The zero value faithfully represents an empty range.
type Range uint64

// New creates a Range over src, starting at start, with length n.
func New(src, start *byte, n int) Range {
	return NewRaw(xunsafe.Sub(start, src), n)
}

// NewRaw builds a Range directly from an offset and length.
func NewRaw(offset, n int) Range {
	dbg.Assert(offset >= 0 && offset <= math.MaxUint32 && n >= 0 && n <= math.MaxUint32,
		"range out of packable bounds: [%d:+%d]", offset, n)
	return Range(uint32(offset)) | Range(uint32(n))<<32
}

// Start returns the start offset of this range within its source.
func (r Range) Start() int { return int(uint32(r)) }

// End returns the end offset of this range within its source.
func (r Range) End() int { return r.Start() + r.Len() }

// Len returns the length of this range.
func (r Range) Len() int { return int(r >> 32) }

// Bytes materializes this range as a []byte, given its source array.
func (r Range) Bytes(src *byte) []byte {
	if r.Len() == 0 {
		return nil
	}
	return xunsafe.Slice(xunsafe.Add(src, r.Start()), r.Len())
}

// UTF8 materializes this range as a string, given its source array.
func (r Range) UTF8(src *byte) string {
	if r.Len() == 0 {
		return ""
	}
	return xunsafe.String(xunsafe.Add(src, r.Start()), r.Len())
}

// Format implements [fmt.Formatter].
func (r Range) Format(s fmt.State, verb rune) {
	dbg.Fprintf("[%d:%d]", r.Start(), r.End()).Format(s, verb)
}
