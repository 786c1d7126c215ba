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

// Package hive implements pkg/catalog.Catalog against a Hive Metastore
// reached over the Thrift binary protocol, the direct Go analogue of
// the Python original's thrift-generated ThriftHiveMetastore.Client
// (pdsm/hive.py). Unlike the Glue back-end, Hive's own
// drop_partitions_req makes UpdatePartitions atomic per batch.
package hive

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/hivesync/hivesync/pkg/catalog"
	"github.com/hivesync/hivesync/pkg/catalog/hive/metastore"
	"github.com/hivesync/hivesync/pkg/pathutil"
)

const (
	batchSize = 100

	// partitionGroupingParam mirrors the Python original's
	// HIVE_TABLE_TEMPLATE parameter enabling grouped partition lookups.
	partitionGroupingParam = "hive.hcatalog.partition.spec.grouping.enabled"
)

// MetastoreClient is the subset of *metastore.Client this package
// calls, so tests can substitute a stub without a live Metastore.
type MetastoreClient interface {
	GetTable(ctx context.Context, dbname, tblName string) (*metastore.Table, error)
	CreateTable(ctx context.Context, tbl *metastore.Table) error
	DropTable(ctx context.Context, dbname, name string, deleteData bool) error
	AlterTable(ctx context.Context, dbname, tblName string, newTbl *metastore.Table) error
	GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error)
	GetPartitionsByNames(ctx context.Context, dbName, tblName string, names []string) ([]*metastore.Partition, error)
	AddPartitions(ctx context.Context, newParts []*metastore.Partition) (int32, error)
	DropPartitionsReq(ctx context.Context, req *metastore.DropPartitionsRequest) (*metastore.DropPartitionsResult, error)
}

// Catalog drives a Hive Metastore. It satisfies pkg/catalog.Catalog.
type Catalog struct {
	client MetastoreClient
	closer func() error
}

// New wraps an existing MetastoreClient (or any compatible stub).
func New(client MetastoreClient) *Catalog {
	return &Catalog{client: client}
}

// Dial opens a buffered, binary-protocol Thrift socket to a Hive
// Metastore at host:port, the same connection shape
// pdsm.hive.create_client() builds (TSocket + TBufferedTransport +
// TBinaryProtocol). The returned Catalog's Close method tears the
// socket down.
func Dial(ctx context.Context, host string, port int) (*Catalog, error) {
	socket := thrift.NewTSocketConf(fmt.Sprintf("%s:%d", host, port), &thrift.TConfiguration{
		ConnectTimeout: 30 * time.Second,
		SocketTimeout:  30 * time.Second,
	})
	transport := thrift.NewTBufferedTransport(socket, 8192)
	if err := transport.Open(); err != nil {
		return nil, fmt.Errorf("hive: dial %s:%d: %w", host, port, err)
	}
	protocolFactory := thrift.NewTBinaryProtocolFactoryConf(&thrift.TConfiguration{})
	protocol := protocolFactory.GetProtocol(transport)
	client := metastore.NewClient(protocol, protocol)
	return &Catalog{client: client, closer: transport.Close}, nil
}

// Close releases the underlying Thrift transport, if Dial opened one.
func (c *Catalog) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func toMetastoreColumns(columns []catalog.Column) []*metastore.FieldSchema {
	out := make([]*metastore.FieldSchema, len(columns))
	for i, c := range columns {
		out[i] = &metastore.FieldSchema{Name: c.Name, Type: c.Type}
	}
	return out
}

func fromMetastoreColumns(columns []*metastore.FieldSchema) []catalog.Column {
	out := make([]catalog.Column, len(columns))
	for i, c := range columns {
		out[i] = catalog.NewColumn(c.Name, c.Type)
	}
	return out
}

func defaultStorageDescriptor(columns []catalog.Column, location string) *metastore.StorageDescriptor {
	tmpl := catalog.DefaultStorageDescriptorTemplate(map[string]string{partitionGroupingParam: "TRUE"})
	return &metastore.StorageDescriptor{
		Cols:         toMetastoreColumns(columns),
		Location:     pathutil.RemoveTrailingSlash(location),
		InputFormat:  tmpl.InputFormat,
		OutputFormat: tmpl.OutputFormat,
		Compressed:   tmpl.Compressed,
		NumBuckets:   tmpl.NumberOfBuckets,
		SerdeInfo: &metastore.SerDeInfo{
			SerializationLib: tmpl.SerializationLib,
			Parameters:       tmpl.SerdeParameters,
		},
	}
}

func tableDefinition(database, name string, columns []catalog.Column, location string, partitionKeys []catalog.Column) *metastore.Table {
	tmpl := catalog.DefaultStorageDescriptorTemplate(map[string]string{partitionGroupingParam: "TRUE"})
	return &metastore.Table{
		TableName:     name,
		DbName:        database,
		Owner:         "hadoop",
		Sd:            defaultStorageDescriptor(columns, location),
		PartitionKeys: toMetastoreColumns(partitionKeys),
		Parameters:    tmpl.TableParameters,
		TableType:     "EXTERNAL_TABLE",
	}
}

// GetTable returns (nil, nil) if the table does not exist.
func (c *Catalog) GetTable(ctx context.Context, database, name string) (*catalog.Table, error) {
	tbl, err := c.client.GetTable(ctx, database, name)
	if err != nil {
		if _, ok := err.(*metastore.NoSuchObjectException); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("hive: get table %s.%s: %w", database, name, err)
	}
	return &catalog.Table{
		DatabaseName:  database,
		Name:          tbl.TableName,
		Columns:       fromMetastoreColumns(tbl.Sd.Cols),
		Location:      pathutil.EnsureTrailingSlash(tbl.Sd.Location),
		PartitionKeys: fromMetastoreColumns(tbl.PartitionKeys),
	}, nil
}

// CreateTable creates a new external Hive table.
func (c *Catalog) CreateTable(ctx context.Context, database, name string, columns []catalog.Column, location string, partitionKeys []catalog.Column) (*catalog.Table, error) {
	def := tableDefinition(database, name, columns, location, partitionKeys)
	if err := c.client.CreateTable(ctx, def); err != nil {
		return nil, fmt.Errorf("hive: create table %s.%s: %w", database, name, err)
	}
	return &catalog.Table{DatabaseName: database, Name: name, Columns: columns, Location: pathutil.EnsureTrailingSlash(location), PartitionKeys: partitionKeys}, nil
}

// UpdateTable replaces a table's definition (alter_table).
func (c *Catalog) UpdateTable(ctx context.Context, database, name string, columns []catalog.Column, location string, partitionKeys []catalog.Column) (*catalog.Table, error) {
	def := tableDefinition(database, name, columns, location, partitionKeys)
	if err := c.client.AlterTable(ctx, database, name, def); err != nil {
		return nil, fmt.Errorf("hive: alter table %s.%s: %w", database, name, err)
	}
	return &catalog.Table{DatabaseName: database, Name: name, Columns: columns, Location: pathutil.EnsureTrailingSlash(location), PartitionKeys: partitionKeys}, nil
}

// DropTable deletes a table definition. deleteData is always false: this
// system owns reconciliation, not object-storage lifecycle.
func (c *Catalog) DropTable(ctx context.Context, database, name string) error {
	if err := c.client.DropTable(ctx, database, name, false); err != nil {
		return fmt.Errorf("hive: drop table %s.%s: %w", database, name, err)
	}
	return nil
}

// ListPartitions streams every partition of table. The Metastore has no
// native pagination for get_partitions_by_names, so this fetches all
// names up front (maxParts -1, matching pdsm.hive's batch_size=100 name
// listing) and then the full records in batches of batchSize.
func (c *Catalog) ListPartitions(ctx context.Context, table *catalog.Table) iter.Seq2[catalog.Partition, error] {
	return func(yield func(catalog.Partition, error) bool) {
		names, err := c.client.GetPartitionNames(ctx, table.DatabaseName, table.Name, -1)
		if err != nil {
			yield(catalog.Partition{}, fmt.Errorf("hive: list partition names of %s.%s: %w", table.DatabaseName, table.Name, err))
			return
		}
		for chunk := range pathutil.Chunks(names, batchSize) {
			partitions, err := c.client.GetPartitionsByNames(ctx, table.DatabaseName, table.Name, chunk)
			if err != nil {
				yield(catalog.Partition{}, fmt.Errorf("hive: get partitions by name on %s.%s: %w", table.DatabaseName, table.Name, err))
				return
			}
			for _, p := range partitions {
				partition := catalog.Partition{
					Values:   p.Values,
					Columns:  fromMetastoreColumns(p.Sd.Cols),
					Location: pathutil.EnsureTrailingSlash(p.Sd.Location),
				}
				if !yield(partition, nil) {
					return
				}
			}
		}
	}
}

func toMetastorePartitions(database, name string, partitions []catalog.Partition) []*metastore.Partition {
	out := make([]*metastore.Partition, len(partitions))
	for i, p := range partitions {
		out[i] = &metastore.Partition{
			Values:    p.Values,
			DbName:    database,
			TableName: name,
			Sd:        defaultStorageDescriptor(p.Columns, p.Location),
		}
	}
	return out
}

// AddPartitions creates partitions in batches of batchSize.
func (c *Catalog) AddPartitions(ctx context.Context, table *catalog.Table, partitions []catalog.Partition) error {
	for chunk := range pathutil.Chunks(partitions, batchSize) {
		if _, err := c.client.AddPartitions(ctx, toMetastorePartitions(table.DatabaseName, table.Name, chunk)); err != nil {
			return fmt.Errorf("hive: add partitions on %s.%s: %w", table.DatabaseName, table.Name, err)
		}
	}
	return nil
}

// UpdatePartitions rewrites partitions via drop_partitions_req followed
// by add_partitions, in batches of batchSize. Each drop is one atomic
// Metastore call, unlike the Glue back-end's two independent batch
// calls.
func (c *Catalog) UpdatePartitions(ctx context.Context, table *catalog.Table, partitions []catalog.Partition) error {
	for chunk := range pathutil.Chunks(partitions, batchSize) {
		names := make([]string, len(chunk))
		for i, p := range chunk {
			names[i] = p.Name(table.PartitionKeys)
		}
		req := &metastore.DropPartitionsRequest{
			DbName:     table.DatabaseName,
			TblName:    table.Name,
			Parts:      metastore.RequestPartsSpec{Names: names},
			DeleteData: false,
			IfExists:   true,
			NeedResult: false,
		}
		if _, err := c.client.DropPartitionsReq(ctx, req); err != nil {
			return fmt.Errorf("hive: drop partitions on %s.%s: %w", table.DatabaseName, table.Name, err)
		}
		if _, err := c.client.AddPartitions(ctx, toMetastorePartitions(table.DatabaseName, table.Name, chunk)); err != nil {
			return fmt.Errorf("hive: re-add partitions on %s.%s: %w", table.DatabaseName, table.Name, err)
		}
	}
	return nil
}

// AddBatchSize reports the partition-create batch size: 100.
func (c *Catalog) AddBatchSize() int { return batchSize }

// UpdateBatchSize reports the partition-rewrite batch size: 100.
func (c *Catalog) UpdateBatchSize() int { return batchSize }
