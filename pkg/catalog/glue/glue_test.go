package glue

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivesync/hivesync/internal/testutil"
	"github.com/hivesync/hivesync/pkg/catalog"
)

type notFoundError struct{}

func (notFoundError) Error() string                  { return "EntityNotFoundException: no such table" }
func (notFoundError) ErrorCode() string               { return "EntityNotFoundException" }
func (notFoundError) ErrorMessage() string            { return "no such table" }
func (notFoundError) ErrorFault() smithy.ErrorFault   { return smithy.FaultClient }

type fakeAPI struct {
	table               *types.Table
	getTableErr         error
	createCalls         []*awsglue.CreateTableInput
	batchCreateCalls    []*awsglue.BatchCreatePartitionInput
	batchDeleteCalls    []*awsglue.BatchDeletePartitionInput
	partitionPages      [][]types.Partition
}

func (f *fakeAPI) GetTable(_ context.Context, _ *awsglue.GetTableInput, _ ...func(*awsglue.Options)) (*awsglue.GetTableOutput, error) {
	if f.getTableErr != nil {
		return nil, f.getTableErr
	}
	return &awsglue.GetTableOutput{Table: f.table}, nil
}

func (f *fakeAPI) CreateTable(_ context.Context, params *awsglue.CreateTableInput, _ ...func(*awsglue.Options)) (*awsglue.CreateTableOutput, error) {
	f.createCalls = append(f.createCalls, params)
	return &awsglue.CreateTableOutput{}, nil
}

func (f *fakeAPI) UpdateTable(_ context.Context, _ *awsglue.UpdateTableInput, _ ...func(*awsglue.Options)) (*awsglue.UpdateTableOutput, error) {
	return &awsglue.UpdateTableOutput{}, nil
}

func (f *fakeAPI) DeleteTable(_ context.Context, _ *awsglue.DeleteTableInput, _ ...func(*awsglue.Options)) (*awsglue.DeleteTableOutput, error) {
	return &awsglue.DeleteTableOutput{}, nil
}

func (f *fakeAPI) GetPartitions(_ context.Context, params *awsglue.GetPartitionsInput, _ ...func(*awsglue.Options)) (*awsglue.GetPartitionsOutput, error) {
	pageIndex := 0
	if params.NextToken != nil {
		pageIndex = int((*params.NextToken)[0] - '0')
	}
	out := &awsglue.GetPartitionsOutput{Partitions: f.partitionPages[pageIndex]}
	if pageIndex+1 < len(f.partitionPages) {
		out.NextToken = aws.String(string(rune('0' + pageIndex + 1)))
	}
	return out, nil
}

func (f *fakeAPI) BatchCreatePartition(_ context.Context, params *awsglue.BatchCreatePartitionInput, _ ...func(*awsglue.Options)) (*awsglue.BatchCreatePartitionOutput, error) {
	f.batchCreateCalls = append(f.batchCreateCalls, params)
	return &awsglue.BatchCreatePartitionOutput{}, nil
}

func (f *fakeAPI) BatchDeletePartition(_ context.Context, params *awsglue.BatchDeletePartitionInput, _ ...func(*awsglue.Options)) (*awsglue.BatchDeletePartitionOutput, error) {
	f.batchDeleteCalls = append(f.batchDeleteCalls, params)
	return &awsglue.BatchDeletePartitionOutput{}, nil
}

func TestGetTableReturnsNilOnEntityNotFound(t *testing.T) {
	api := &fakeAPI{getTableErr: notFoundError{}}
	c := New(api)

	table, err := c.GetTable(context.Background(), "db", "missing")
	require.NoError(t, err)
	assert.Nil(t, table)
}

func TestGetTableTranslatesStorageDescriptor(t *testing.T) {
	api := &fakeAPI{table: &types.Table{
		Name: aws.String("my_table"),
		StorageDescriptor: &types.StorageDescriptor{
			Columns:  []types.Column{{Name: aws.String("id"), Type: aws.String("bigint")}},
			Location: aws.String("s3://bucket/ds/v1"),
		},
		PartitionKeys: []types.Column{{Name: aws.String("year"), Type: aws.String("string")}},
	}}
	c := New(api)

	table, err := c.GetTable(context.Background(), "db", "my_table")
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, "s3://bucket/ds/v1/", table.Location)
	require.Len(t, table.Columns, 1)
	assert.Equal(t, "bigint", table.Columns[0].Type)
	require.Len(t, table.PartitionKeys, 1)
	assert.Equal(t, "year", table.PartitionKeys[0].Name)
}

func TestAddPartitionsBatchesAtFifty(t *testing.T) {
	api := &fakeAPI{}
	c := New(api)
	table := &catalog.Table{DatabaseName: "db", Name: "t"}

	partitions := make([]catalog.Partition, 120)
	for i := range partitions {
		partitions[i] = catalog.Partition{Values: []string{"v"}, Location: "s3://b/p/"}
	}

	err := c.AddPartitions(context.Background(), table, partitions)
	require.NoError(t, err)
	require.Len(t, api.batchCreateCalls, 3)
	assert.Len(t, api.batchCreateCalls[0].PartitionInputList, 50)
	assert.Len(t, api.batchCreateCalls[1].PartitionInputList, 50)
	assert.Len(t, api.batchCreateCalls[2].PartitionInputList, 20)
}

func TestUpdatePartitionsBatchesAtTwentyFiveAndDeletesBeforeCreating(t *testing.T) {
	api := &fakeAPI{}
	c := New(api)
	table := &catalog.Table{DatabaseName: "db", Name: "t"}

	partitions := make([]catalog.Partition, 30)
	for i := range partitions {
		partitions[i] = catalog.Partition{Values: []string{"v"}, Location: "s3://b/p/"}
	}

	err := c.UpdatePartitions(context.Background(), table, partitions)
	require.NoError(t, err)
	require.Len(t, api.batchDeleteCalls, 2)
	require.Len(t, api.batchCreateCalls, 2)
	assert.Len(t, api.batchDeleteCalls[0].PartitionsToDelete, 25)
	assert.Len(t, api.batchCreateCalls[0].PartitionInputList, 25)
	assert.Len(t, api.batchDeleteCalls[1].PartitionsToDelete, 5)
	assert.Len(t, api.batchCreateCalls[1].PartitionInputList, 5)
}

func TestListPartitionsFollowsNextToken(t *testing.T) {
	api := &fakeAPI{partitionPages: [][]types.Partition{
		{{Values: []string{"2023"}, StorageDescriptor: &types.StorageDescriptor{Location: aws.String("s3://b/y=2023")}}},
		{{Values: []string{"2024"}, StorageDescriptor: &types.StorageDescriptor{Location: aws.String("s3://b/y=2024")}}},
	}}
	c := New(api)
	table := &catalog.Table{DatabaseName: "db", Name: "t"}

	var got []catalog.Partition
	for p, err := range c.ListPartitions(context.Background(), table) {
		require.NoError(t, err)
		got = append(got, p)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "s3://b/y=2023/", got[0].Location)
	assert.Equal(t, "s3://b/y=2024/", got[1].Location)
}

// Round-trip law (spec.md §8): from(to(x)) == x, here for a Table's
// columns/location/partition keys through CreateTable's wire encoding
// and GetTable's decoding.
func TestCreateThenGetTableRoundTripsColumnsAndPartitionKeys(t *testing.T) {
	create := &fakeAPI{}
	c := New(create)
	columns := []catalog.Column{{Name: "a", Type: "int"}, {Name: "b", Type: "string"}}
	partitionKeys := []catalog.Column{{Name: "year", Type: "string"}}
	location := "s3://bucket/ds/v1/"

	_, err := c.CreateTable(context.Background(), "db", "t", columns, location, partitionKeys)
	require.NoError(t, err)
	require.Len(t, create.createCalls, 1)
	input := create.createCalls[0].TableInput

	read := &fakeAPI{table: &types.Table{
		Name:              input.Name,
		StorageDescriptor: input.StorageDescriptor,
		PartitionKeys:     input.PartitionKeys,
	}}
	roundTripped, err := New(read).GetTable(context.Background(), "db", "t")
	require.NoError(t, err)
	require.NotNil(t, roundTripped)

	assert.Empty(t, testutil.Diff(columns, roundTripped.Columns))
	assert.Empty(t, testutil.Diff(partitionKeys, roundTripped.PartitionKeys))
	assert.Equal(t, location, roundTripped.Location)
}

func TestBatchSizes(t *testing.T) {
	c := New(&fakeAPI{})
	assert.Equal(t, 50, c.AddBatchSize())
	assert.Equal(t, 25, c.UpdateBatchSize())
}
