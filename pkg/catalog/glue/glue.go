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

// Package glue implements pkg/catalog.Catalog against the AWS Glue Data
// Catalog, the managed HTTP/JSON metastore this system targets by
// default. It is the direct Go analogue of the Python original's
// botocore "glue" client.
package glue

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/aws/smithy-go"

	"github.com/hivesync/hivesync/pkg/catalog"
	"github.com/hivesync/hivesync/pkg/pathutil"
)

const (
	addBatchSize    = 50
	updateBatchSize = 25
)

// API is the subset of *glue.Client this package calls, so tests can
// substitute a stub without standing up real AWS credentials.
type API interface {
	GetTable(ctx context.Context, params *awsglue.GetTableInput, optFns ...func(*awsglue.Options)) (*awsglue.GetTableOutput, error)
	CreateTable(ctx context.Context, params *awsglue.CreateTableInput, optFns ...func(*awsglue.Options)) (*awsglue.CreateTableOutput, error)
	UpdateTable(ctx context.Context, params *awsglue.UpdateTableInput, optFns ...func(*awsglue.Options)) (*awsglue.UpdateTableOutput, error)
	DeleteTable(ctx context.Context, params *awsglue.DeleteTableInput, optFns ...func(*awsglue.Options)) (*awsglue.DeleteTableOutput, error)
	GetPartitions(ctx context.Context, params *awsglue.GetPartitionsInput, optFns ...func(*awsglue.Options)) (*awsglue.GetPartitionsOutput, error)
	BatchCreatePartition(ctx context.Context, params *awsglue.BatchCreatePartitionInput, optFns ...func(*awsglue.Options)) (*awsglue.BatchCreatePartitionOutput, error)
	BatchDeletePartition(ctx context.Context, params *awsglue.BatchDeletePartitionInput, optFns ...func(*awsglue.Options)) (*awsglue.BatchDeletePartitionOutput, error)
}

// Catalog drives the AWS Glue Data Catalog. It satisfies
// pkg/catalog.Catalog.
type Catalog struct {
	client API
}

// New wraps an existing *glue.Client (or any API-compatible stub).
func New(client API) *Catalog {
	return &Catalog{client: client}
}

func defaultStorageDescriptor(columns []catalog.Column, location string) *types.StorageDescriptor {
	tmpl := catalog.DefaultStorageDescriptorTemplate(nil)
	return &types.StorageDescriptor{
		Columns:          toGlueColumns(columns),
		Location:         aws.String(pathutil.RemoveTrailingSlash(location)),
		InputFormat:      aws.String(tmpl.InputFormat),
		OutputFormat:     aws.String(tmpl.OutputFormat),
		Compressed:       tmpl.Compressed,
		NumberOfBuckets:  tmpl.NumberOfBuckets,
		SerdeInfo: &types.SerDeInfo{
			SerializationLibrary: aws.String(tmpl.SerializationLib),
			Parameters:           tmpl.SerdeParameters,
		},
	}
}

func toGlueColumns(columns []catalog.Column) []types.Column {
	out := make([]types.Column, len(columns))
	for i, c := range columns {
		out[i] = types.Column{Name: aws.String(c.Name), Type: aws.String(c.Type)}
	}
	return out
}

func fromGlueColumns(columns []types.Column) []catalog.Column {
	out := make([]catalog.Column, len(columns))
	for i, c := range columns {
		out[i] = catalog.NewColumn(aws.ToString(c.Name), aws.ToString(c.Type))
	}
	return out
}

func tableInput(name string, columns []catalog.Column, location string, partitionKeys []catalog.Column) *types.TableInput {
	return &types.TableInput{
		Name:              aws.String(name),
		Owner:             aws.String("hadoop"),
		StorageDescriptor: defaultStorageDescriptor(columns, location),
		PartitionKeys:     toGlueColumns(partitionKeys),
		TableType:         aws.String("EXTERNAL_TABLE"),
		Parameters:        map[string]string{"EXTERNAL": "TRUE"},
	}
}

// GetTable returns (nil, nil) if the table does not exist.
func (c *Catalog) GetTable(ctx context.Context, database, name string) (*catalog.Table, error) {
	out, err := c.client.GetTable(ctx, &awsglue.GetTableInput{DatabaseName: aws.String(database), Name: aws.String(name)})
	if err != nil {
		if isEntityNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("glue: get table %s.%s: %w", database, name, err)
	}
	sd := out.Table.StorageDescriptor
	table := &catalog.Table{
		DatabaseName:  database,
		Name:          aws.ToString(out.Table.Name),
		Columns:       fromGlueColumns(sd.Columns),
		Location:      pathutil.EnsureTrailingSlash(aws.ToString(sd.Location)),
		PartitionKeys: fromGlueColumns(out.Table.PartitionKeys),
	}
	return table, nil
}

// CreateTable creates a new external Glue table.
func (c *Catalog) CreateTable(ctx context.Context, database, name string, columns []catalog.Column, location string, partitionKeys []catalog.Column) (*catalog.Table, error) {
	_, err := c.client.CreateTable(ctx, &awsglue.CreateTableInput{
		DatabaseName: aws.String(database),
		TableInput:   tableInput(name, columns, location, partitionKeys),
	})
	if err != nil {
		return nil, fmt.Errorf("glue: create table %s.%s: %w", database, name, err)
	}
	return &catalog.Table{DatabaseName: database, Name: name, Columns: columns, Location: pathutil.EnsureTrailingSlash(location), PartitionKeys: partitionKeys}, nil
}

// UpdateTable replaces a table's definition (alter_table equivalent).
func (c *Catalog) UpdateTable(ctx context.Context, database, name string, columns []catalog.Column, location string, partitionKeys []catalog.Column) (*catalog.Table, error) {
	_, err := c.client.UpdateTable(ctx, &awsglue.UpdateTableInput{
		DatabaseName: aws.String(database),
		TableInput:   tableInput(name, columns, location, partitionKeys),
	})
	if err != nil {
		return nil, fmt.Errorf("glue: update table %s.%s: %w", database, name, err)
	}
	return &catalog.Table{DatabaseName: database, Name: name, Columns: columns, Location: pathutil.EnsureTrailingSlash(location), PartitionKeys: partitionKeys}, nil
}

// DropTable deletes a table definition.
func (c *Catalog) DropTable(ctx context.Context, database, name string) error {
	_, err := c.client.DeleteTable(ctx, &awsglue.DeleteTableInput{DatabaseName: aws.String(database), Name: aws.String(name)})
	if err != nil {
		return fmt.Errorf("glue: drop table %s.%s: %w", database, name, err)
	}
	return nil
}

// ListPartitions streams every partition of table, paginating via the
// SDK's NextToken.
func (c *Catalog) ListPartitions(ctx context.Context, table *catalog.Table) iter.Seq2[catalog.Partition, error] {
	return func(yield func(catalog.Partition, error) bool) {
		var nextToken *string
		for {
			out, err := c.client.GetPartitions(ctx, &awsglue.GetPartitionsInput{
				DatabaseName: aws.String(table.DatabaseName),
				TableName:    aws.String(table.Name),
				NextToken:    nextToken,
			})
			if err != nil {
				yield(catalog.Partition{}, fmt.Errorf("glue: list partitions of %s.%s: %w", table.DatabaseName, table.Name, err))
				return
			}
			for _, p := range out.Partitions {
				sd := p.StorageDescriptor
				partition := catalog.Partition{
					Values:   p.Values,
					Columns:  fromGlueColumns(sd.Columns),
					Location: pathutil.EnsureTrailingSlash(aws.ToString(sd.Location)),
				}
				if !yield(partition, nil) {
					return
				}
			}
			if out.NextToken == nil {
				return
			}
			nextToken = out.NextToken
		}
	}
}

// AddPartitions creates partitions in batches of addBatchSize.
func (c *Catalog) AddPartitions(ctx context.Context, table *catalog.Table, partitions []catalog.Partition) error {
	for chunk := range pathutil.Chunks(partitions, addBatchSize) {
		inputs := make([]types.PartitionInput, len(chunk))
		for i, p := range chunk {
			inputs[i] = types.PartitionInput{
				Values:            p.Values,
				StorageDescriptor: defaultStorageDescriptor(p.Columns, p.Location),
			}
		}
		_, err := c.client.BatchCreatePartition(ctx, &awsglue.BatchCreatePartitionInput{
			DatabaseName:        aws.String(table.DatabaseName),
			TableName:           aws.String(table.Name),
			PartitionInputList:  inputs,
		})
		if err != nil {
			return fmt.Errorf("glue: batch create partitions on %s.%s: %w", table.DatabaseName, table.Name, err)
		}
	}
	return nil
}

// UpdatePartitions rewrites partitions via delete-then-create, in
// batches of updateBatchSize. The two calls per batch are not atomic:
// a failure between them can leave a partition briefly absent from the
// catalog, a limitation inherited from the Glue API itself.
func (c *Catalog) UpdatePartitions(ctx context.Context, table *catalog.Table, partitions []catalog.Partition) error {
	for chunk := range pathutil.Chunks(partitions, updateBatchSize) {
		toDelete := make([]types.PartitionValueList, len(chunk))
		for i, p := range chunk {
			toDelete[i] = types.PartitionValueList{Values: p.Values}
		}
		_, err := c.client.BatchDeletePartition(ctx, &awsglue.BatchDeletePartitionInput{
			DatabaseName:      aws.String(table.DatabaseName),
			TableName:         aws.String(table.Name),
			PartitionsToDelete: toDelete,
		})
		if err != nil {
			return fmt.Errorf("glue: batch delete partitions on %s.%s: %w", table.DatabaseName, table.Name, err)
		}

		inputs := make([]types.PartitionInput, len(chunk))
		for i, p := range chunk {
			inputs[i] = types.PartitionInput{
				Values:            p.Values,
				StorageDescriptor: defaultStorageDescriptor(p.Columns, p.Location),
			}
		}
		_, err = c.client.BatchCreatePartition(ctx, &awsglue.BatchCreatePartitionInput{
			DatabaseName:       aws.String(table.DatabaseName),
			TableName:          aws.String(table.Name),
			PartitionInputList: inputs,
		})
		if err != nil {
			return fmt.Errorf("glue: batch create partitions on %s.%s: %w", table.DatabaseName, table.Name, err)
		}
	}
	return nil
}

// AddBatchSize reports the partition-create batch size: 50.
func (c *Catalog) AddBatchSize() int { return addBatchSize }

// UpdateBatchSize reports the partition-rewrite batch size: 25.
func (c *Catalog) UpdateBatchSize() int { return updateBatchSize }

func isEntityNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "EntityNotFoundException"
	}
	return false
}
