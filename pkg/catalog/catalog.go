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

package catalog

import (
	"context"
	"errors"
	"iter"
)

// ErrTableNotFound is never returned to a Catalog caller — GetTable
// translates the back-end's NotFound error into a (nil, nil) result, per
// spec.md §4.6/§4.7/§4.8. Neither back-end uses it: each matches its own
// SDK's not-found error type before that translation.
var ErrTableNotFound = errors.New("catalog: table not found")

// StorageDescriptorTemplate captures the fixed descriptor fields every
// external Parquet table in this system is created with (spec.md §4.6).
// It is back-end-agnostic; pkg/catalog/glue and pkg/catalog/hive each
// serialize it into their own wire shape.
type StorageDescriptorTemplate struct {
	InputFormat        string
	OutputFormat       string
	SerializationLib   string
	SerdeParameters    map[string]string
	Compressed         bool
	NumberOfBuckets    int32
	TableParameters    map[string]string
}

// DefaultStorageDescriptorTemplate returns the template used for every
// table this system creates, with hiveExtraParams merged into
// TableParameters (the Hive back-end adds
// "hive.hcatalog.partition.spec.grouping.enabled"; the Glue back-end
// passes nil).
func DefaultStorageDescriptorTemplate(hiveExtraParams map[string]string) StorageDescriptorTemplate {
	params := map[string]string{"EXTERNAL": "TRUE"}
	for k, v := range hiveExtraParams {
		params[k] = v
	}
	return StorageDescriptorTemplate{
		InputFormat:      "org.apache.hadoop.hive.ql.io.parquet.MapredParquetInputFormat",
		OutputFormat:     "org.apache.hadoop.hive.ql.io.parquet.MapredParquetOutputFormat",
		SerializationLib: "org.apache.hadoop.hive.ql.io.parquet.serde.ParquetHiveSerDe",
		SerdeParameters:  map[string]string{"serialization.format": "1"},
		Compressed:       false,
		NumberOfBuckets:  -1,
		TableParameters:  params,
	}
}

// Catalog is the back-end-agnostic interface the Reconciler drives.
// GetTable returns (nil, nil) when the table does not exist — back-ends
// translate their own NotFound error locally rather than surfacing it.
type Catalog interface {
	GetTable(ctx context.Context, database, name string) (*Table, error)
	CreateTable(ctx context.Context, database, name string, columns []Column, location string, partitionKeys []Column) (*Table, error)
	UpdateTable(ctx context.Context, database, name string, columns []Column, location string, partitionKeys []Column) (*Table, error)
	DropTable(ctx context.Context, database, name string) error

	// ListPartitions streams a table's partitions, paginating internally.
	// It is the primary, lazy interface; CollectPartitions below is the
	// eager convenience built on top of it.
	ListPartitions(ctx context.Context, table *Table) iter.Seq2[Partition, error]
	AddPartitions(ctx context.Context, table *Table, partitions []Partition) error
	// UpdatePartitions rewrites partitions in place (drop-then-create,
	// same Values): the Hive back-end does this atomically per batch via
	// drop_partitions_req; the Glue back-end does two sequential batch
	// calls and documents the resulting non-atomicity (spec.md §5).
	UpdatePartitions(ctx context.Context, table *Table, partitions []Partition) error

	// AddBatchSize and UpdateBatchSize report the back-end's own batching
	// rule (Glue: 50 add / 25 rewrite; Hive: 100 / 100), so the
	// Reconciler never hard-codes a back-end's batch size.
	AddBatchSize() int
	UpdateBatchSize() int
}

// CollectPartitions drains a lazy partition listing into a slice. It
// exists for callers that want the eager variant the Python original's
// glue.py also exposed (Table.get_partitions alongside the lazy
// Table.list_partitions) — tests and debugging tools, not the
// Reconciler itself, which streams.
func CollectPartitions(ctx context.Context, c Catalog, table *Table) ([]Partition, error) {
	var out []Partition
	for p, err := range c.ListPartitions(ctx, table) {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
