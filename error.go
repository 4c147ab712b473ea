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
	"errors"
	"fmt"
)

const (
	errCodeOK errCode = iota
	errCodeOutOfBounds
	errCodeMalformedPointer
	errCodeUnsupportedPointer
	errCodeFarInSingleSegment
	errCodeWrongUnionVariant
	errCodeUnsupported
)

type errCode int

// Sentinel errors, one per entry in the taxonomy. Use
// [errors.Is] to test for these; decode-site errors additionally carry a
// byte offset (see [*wireError.Offset]).
var (
	ErrOutOfBounds        = errors.New("capnlite: read or write would cross the buffer's end")
	ErrMalformedPointer   = errors.New("capnlite: malformed pointer (unknown list tag or negative size)")
	ErrUnsupportedPointer = errors.New("capnlite: unsupported pointer kind (capability, or double-far landing pad)")
	ErrFarInSingleSegment = errors.New("capnlite: far pointer encountered in a single-segment buffer")
	ErrWrongUnionVariant  = errors.New("capnlite: union accessor called for the inactive variant")
	ErrUnsupported        = errors.New("capnlite: field kind not materialized by the code generator")
)

var sentinels = [...]error{
	errCodeOK:                 nil,
	errCodeOutOfBounds:        ErrOutOfBounds,
	errCodeMalformedPointer:   ErrMalformedPointer,
	errCodeUnsupportedPointer: ErrUnsupportedPointer,
	errCodeFarInSingleSegment: ErrFarInSingleSegment,
	errCodeWrongUnionVariant:  ErrWrongUnionVariant,
	errCodeUnsupported:        ErrUnsupported,
}

// wireError is an error tied to a specific byte offset in a buffer.
type wireError struct {
	code   errCode
	offset int
}

func wireErr(code errCode, offset int) *wireError {
	return &wireError{code: code, offset: offset}
}

// Offset returns the byte offset at which the error occurred.
func (e *wireError) Offset() int { return e.offset }

// Unwrap implements error unwrapping via [errors.Unwrap].
func (e *wireError) Unwrap() error { return sentinels[e.code] }

// Error implements [error].
func (e *wireError) Error() string {
	return fmt.Sprintf("capnlite: at offset %d (%#x): %v", e.offset, e.offset, e.Unwrap())
}
