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

import "capnlite/schema"

// primitiveGoType maps a schema.Type primitive kind to its Go spelling and
// the capnlite accessor/setter method suffix ("Uint8", "Int32", ...).
func primitiveGoType(k schema.TypeKind) (goType, method string, width int, ok bool) {
	switch k {
	case schema.TypeInt8:
		return "int8", "Int8", 1, true
	case schema.TypeUint8:
		return "uint8", "Uint8", 1, true
	case schema.TypeInt16:
		return "int16", "Int16", 2, true
	case schema.TypeUint16:
		return "uint16", "Uint16", 2, true
	case schema.TypeInt32:
		return "int32", "Int32", 4, true
	case schema.TypeUint32:
		return "uint32", "Uint32", 4, true
	case schema.TypeInt64:
		return "int64", "Int64", 8, true
	case schema.TypeUint64:
		return "uint64", "Uint64", 8, true
	case schema.TypeFloat32:
		return "float32", "Float32", 4, true
	case schema.TypeFloat64:
		return "float64", "Float64", 8, true
	default:
		return "", "", 0, false
	}
}

// zeroLiteral returns a Go literal for the default zero value of a
// primitive type, used when a field's schema default is empty.
func zeroLiteral(goType string) string {
	switch goType {
	case "float32", "float64":
		return "0"
	case "bool":
		return "false"
	default:
		return "0"
	}
}

// listElemGoType maps a list element type to the Go element type used by
// both the reader's slice helpers and the struct-list Value emission.
func listElemGoType(elem schema.Type, names NameStyle, req *schema.Request) (goType string, ok bool) {
	if pt, _, _, isPrim := primitiveGoType(elem.Kind); isPrim {
		return pt, true
	}
	switch elem.Kind {
	case schema.TypeText:
		return "string", true
	case schema.TypeData:
		return "[]byte", true
	case schema.TypeBool:
		return "bool", true
	case schema.TypeStruct:
		if target, ok := req.NodeByID(elem.TypeID); ok {
			return names.TypeName(localName(target)) + "Value", true
		}
		return "", false
	case schema.TypeEnum:
		if target, ok := req.NodeByID(elem.TypeID); ok {
			return names.TypeName(localName(target)), true
		}
		return "", false
	default:
		return "", false
	}
}

// localName returns the node's name as declared in its parent's
// nestedNodes (falling back to the trailing component of DisplayName),
// which is what TypeName mangles into a Go identifier.
func localName(n *schema.Node) string {
	if idx := lastColon(n.DisplayName); idx >= 0 {
		return n.DisplayName[idx+1:]
	}
	return n.DisplayName
}

func lastColon(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return i
		}
	}
	return -1
}
