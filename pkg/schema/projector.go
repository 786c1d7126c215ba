// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

// Package schema projects a flat, depth-first Parquet schema-element
// sequence into an ordered list of Hive columns. It is a pure function
// of already-decoded Thrift structures: it never touches the network and
// never reads a data page.
package schema

import (
	"fmt"
	"strings"

	"github.com/hivesync/hivesync/pkg/catalog"
	"github.com/hivesync/hivesync/pkg/parquetmeta/thriftschema"
)

var primitiveTypes = map[thriftschema.Type]string{
	thriftschema.TypeBoolean:   "boolean",
	thriftschema.TypeInt32:     "int",
	thriftschema.TypeInt64:     "bigint",
	thriftschema.TypeInt96:     "timestamp",
	thriftschema.TypeFloat:     "float",
	thriftschema.TypeDouble:    "double",
	thriftschema.TypeByteArray: "binary",
}

// ProjectionError reports a schema element this system does not know how
// to render as a Hive type.
type ProjectionError struct{ Msg string }

func (e *ProjectionError) Error() string { return "schema: " + e.Msg }

// Project rebuilds the schema tree from its flat pre-order serialization
// (elements[0] is the root group; each group reserves NumChildren of the
// immediately following elements, recursively) and returns one Column
// per top-level child, in order. Column names are lowercased.
func Project(elements []*thriftschema.SchemaElement) ([]catalog.Column, error) {
	if len(elements) == 0 {
		return nil, nil
	}
	root := elements[0]
	cursor := 1
	columns := make([]catalog.Column, 0, root.Children())
	for i := int32(0); i < root.Children(); i++ {
		if cursor >= len(elements) {
			return nil, &ProjectionError{Msg: "truncated schema"}
		}
		child := elements[cursor]
		typ, next, err := projectNode(elements, cursor)
		if err != nil {
			return nil, err
		}
		columns = append(columns, catalog.NewColumn(child.Name, typ))
		cursor = next
	}
	return columns, nil
}

// projectNode returns the Hive type string for the subtree rooted at
// elements[idx] and the index of the first element after that subtree.
func projectNode(elements []*thriftschema.SchemaElement, idx int) (string, int, error) {
	elem := elements[idx]

	if elem.IsGroup() {
		switch {
		case elem.ConvertedType != nil && *elem.ConvertedType == thriftschema.ConvertedTypeList:
			return projectList(elements, idx)
		case elem.ConvertedType != nil &&
			(*elem.ConvertedType == thriftschema.ConvertedTypeMap || *elem.ConvertedType == thriftschema.ConvertedTypeMapKeyValue):
			return projectMap(elements, idx)
		default:
			return projectStruct(elements, idx)
		}
	}

	typ, err := projectPrimitive(elem)
	if err != nil {
		return "", 0, err
	}
	if elem.Repetition() == thriftschema.RepetitionRepeated {
		return "array<" + typ + ">", idx + 1, nil
	}
	return typ, idx + 1, nil
}

// projectList implements spec.md §4.4's list-group disambiguation: the
// single repeated child is either the array element itself (2-level
// list, possibly struct-typed), or a wrapper one level removed from the
// real element (3-level list).
func projectList(elements []*thriftschema.SchemaElement, idx int) (string, int, error) {
	if idx+1 >= len(elements) {
		return "", 0, &ProjectionError{Msg: "truncated list schema"}
	}
	parent := elements[idx]
	child := elements[idx+1]

	switch {
	case !child.IsGroup():
		// child is a primitive: array<HIVE(child)>, child treated as required.
		typ, err := projectPrimitive(child)
		if err != nil {
			return "", 0, err
		}
		return "array<" + typ + ">", idx + 2, nil

	case child.Children() > 1, child.Name == "array", child.Name == parent.Name+"_tuple":
		// child is the struct element itself: array<HIVE(child)>, child required.
		typ, next, err := projectNode(elements, idx+1)
		if err != nil {
			return "", 0, err
		}
		return "array<" + typ + ">", next, nil

	default:
		// 3-level list: child is a single-field wrapper; project its one
		// grandchild as the array element.
		typ, next, err := projectNode(elements, idx+2)
		if err != nil {
			return "", 0, err
		}
		return "array<" + typ + ">", next, nil
	}
}

// projectMap implements spec.md §4.4's map-group rule: the single
// immediate child is the key_value wrapper, whose two children are the
// key and the value.
func projectMap(elements []*thriftschema.SchemaElement, idx int) (string, int, error) {
	if idx+2 >= len(elements) {
		return "", 0, &ProjectionError{Msg: "truncated map schema"}
	}
	keyType, valIdx, err := projectNode(elements, idx+2)
	if err != nil {
		return "", 0, err
	}
	valType, next, err := projectNode(elements, valIdx)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("map<%s,%s>", keyType, valType), next, nil
}

// projectStruct implements the unannotated-struct-group rule: one
// "name:type" fragment per child, in order.
func projectStruct(elements []*thriftschema.SchemaElement, idx int) (string, int, error) {
	elem := elements[idx]
	cursor := idx + 1
	parts := make([]string, 0, elem.Children())
	for i := int32(0); i < elem.Children(); i++ {
		if cursor >= len(elements) {
			return "", 0, &ProjectionError{Msg: "truncated struct schema"}
		}
		child := elements[cursor]
		typ, next, err := projectNode(elements, cursor)
		if err != nil {
			return "", 0, err
		}
		parts = append(parts, fmt.Sprintf("%s:%s", strings.ToLower(child.Name), typ))
		cursor = next
	}
	return "struct<" + strings.Join(parts, ",") + ">", cursor, nil
}

func projectPrimitive(elem *thriftschema.SchemaElement) (string, error) {
	if elem.Type == nil {
		return "", &ProjectionError{Msg: fmt.Sprintf("unknown element type for %q", elem.Name)}
	}
	t := *elem.Type

	if t == thriftschema.TypeByteArray &&
		(elem.ConvertedType == nil || *elem.ConvertedType == thriftschema.ConvertedTypeUTF8) {
		return "string", nil
	}

	if t == thriftschema.TypeFixedLenByteArray &&
		elem.ConvertedType != nil && *elem.ConvertedType == thriftschema.ConvertedTypeDecimal {
		var precision, scale int32
		if elem.Precision != nil {
			precision = *elem.Precision
		}
		if elem.Scale != nil {
			scale = *elem.Scale
		}
		return fmt.Sprintf("decimal(%d,%d)", precision, scale), nil
	}

	if name, ok := primitiveTypes[t]; ok {
		return name, nil
	}
	return "", &ProjectionError{Msg: fmt.Sprintf("unknown element type %d for %q", t, elem.Name)}
}
