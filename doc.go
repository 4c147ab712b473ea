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

// Package capnlite is a Cap'n Proto message decoder and builder: zero-copy
// access to structured data in the Cap'n Proto wire format without a full
// deserialization pass, plus a matching builder for laying out new messages.
//
// Use [NewBuffer] or [NewMultiSegmentBuffer] to wrap raw message bytes, then
// [Buffer.RootStruct] to obtain a [Struct] view over the root of the message.
// Struct and List views are cheap-to-copy value types that borrow the
// buffer's bytes; primitive reads do not allocate, while Text and Data
// reads return copies of the bytes they name.
//
// To write new messages, use [NewBuilder] with the root struct's data and
// pointer section sizes in words, fill it in through [Builder.Root], then
// call [Builder.Build] to obtain the serialized bytes.
//
// # Support status
//
// The decoder supports single-hop far pointers across a multi-segment
// message (see [NewMultiSegmentBuffer]); double-far landing pads are not
// implemented, matching the Non-goals in the design of this package. The
// RPC/capability wire kind (pointer kind OTHER) is rejected wherever it is
// encountered.
//
// The companion packages [capnlite/schema], [capnlite/emit], and
// [capnlite/loader] implement the schema-driven code generator described in
// package capnlite's design: they consume a serialized CodeGeneratorRequest
// (itself read using this package) and emit accessor code for user-defined
// schemas.
package capnlite
