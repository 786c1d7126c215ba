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

package metastore

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// NoSuchObjectException is the Metastore's "not found" signal for both
// get_table and get_partitions_by_names. pkg/catalog/hive translates it
// into a (nil, nil) result the same way pkg/catalog/glue translates
// Glue's EntityNotFoundException.
type NoSuchObjectException struct {
	Message string
}

func (e *NoSuchObjectException) Error() string { return e.Message }

func (e *NoSuchObjectException) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "NoSuchObjectException", func(fieldID int16, fieldTypeID thrift.TType) error {
		if fieldID == 1 {
			return readStringInto(ctx, iprot, fieldTypeID, &e.Message)
		}
		return iprot.Skip(ctx, fieldTypeID)
	})
}

// MetaException is the Metastore's catch-all server-side failure.
type MetaException struct {
	Message string
}

func (e *MetaException) Error() string { return e.Message }

func (e *MetaException) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "MetaException", func(fieldID int16, fieldTypeID thrift.TType) error {
		if fieldID == 1 {
			return readStringInto(ctx, iprot, fieldTypeID, &e.Message)
		}
		return iprot.Skip(ctx, fieldTypeID)
	})
}

// AlreadyExistsException is raised by create_table and add_partitions
// when the target already exists.
type AlreadyExistsException struct {
	Message string
}

func (e *AlreadyExistsException) Error() string { return e.Message }

func (e *AlreadyExistsException) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "AlreadyExistsException", func(fieldID int16, fieldTypeID thrift.TType) error {
		if fieldID == 1 {
			return readStringInto(ctx, iprot, fieldTypeID, &e.Message)
		}
		return iprot.Skip(ctx, fieldTypeID)
	})
}

// InvalidObjectException is raised when a Table or Partition definition
// fails the Metastore's own validation.
type InvalidObjectException struct {
	Message string
}

func (e *InvalidObjectException) Error() string { return e.Message }

func (e *InvalidObjectException) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "InvalidObjectException", func(fieldID int16, fieldTypeID thrift.TType) error {
		if fieldID == 1 {
			return readStringInto(ctx, iprot, fieldTypeID, &e.Message)
		}
		return iprot.Skip(ctx, fieldTypeID)
	})
}

// InvalidOperationException is raised by alter_table for an unsupported
// alteration.
type InvalidOperationException struct {
	Message string
}

func (e *InvalidOperationException) Error() string { return e.Message }

func (e *InvalidOperationException) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "InvalidOperationException", func(fieldID int16, fieldTypeID thrift.TType) error {
		if fieldID == 1 {
			return readStringInto(ctx, iprot, fieldTypeID, &e.Message)
		}
		return iprot.Skip(ctx, fieldTypeID)
	})
}
