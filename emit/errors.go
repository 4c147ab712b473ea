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

package emit

import "fmt"

// CodegenError reports a failure to materialize a schema node into source,
// carrying the offending node id.
type CodegenError struct {
	NodeID uint64
	Reason string
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("emit: node %#x: %s", e.NodeID, e.Reason)
}

func codegenErr(nodeID uint64, format string, args ...any) *CodegenError {
	return &CodegenError{NodeID: nodeID, Reason: fmt.Sprintf(format, args...)}
}
