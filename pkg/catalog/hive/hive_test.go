package hive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivesync/hivesync/internal/testutil"
	"github.com/hivesync/hivesync/pkg/catalog"
	"github.com/hivesync/hivesync/pkg/catalog/hive/metastore"
)

type fakeClient struct {
	table              *metastore.Table
	getTableErr        error
	createCalls        []*metastore.Table
	alterCalls         []*metastore.Table
	partitionNames     []string
	partitionsByName   map[string][]*metastore.Partition
	addPartitionCalls  [][]*metastore.Partition
	dropRequests       []*metastore.DropPartitionsRequest
}

func (f *fakeClient) GetTable(_ context.Context, _, _ string) (*metastore.Table, error) {
	if f.getTableErr != nil {
		return nil, f.getTableErr
	}
	return f.table, nil
}

func (f *fakeClient) CreateTable(_ context.Context, tbl *metastore.Table) error {
	f.createCalls = append(f.createCalls, tbl)
	return nil
}

func (f *fakeClient) DropTable(_ context.Context, _, _ string, _ bool) error { return nil }

func (f *fakeClient) AlterTable(_ context.Context, _, _ string, newTbl *metastore.Table) error {
	f.alterCalls = append(f.alterCalls, newTbl)
	return nil
}

func (f *fakeClient) GetPartitionNames(_ context.Context, _, _ string, _ int16) ([]string, error) {
	return f.partitionNames, nil
}

func (f *fakeClient) GetPartitionsByNames(_ context.Context, _, _ string, names []string) ([]*metastore.Partition, error) {
	var out []*metastore.Partition
	for _, n := range names {
		out = append(out, f.partitionsByName[n]...)
	}
	return out, nil
}

func (f *fakeClient) AddPartitions(_ context.Context, newParts []*metastore.Partition) (int32, error) {
	f.addPartitionCalls = append(f.addPartitionCalls, newParts)
	return int32(len(newParts)), nil
}

func (f *fakeClient) DropPartitionsReq(_ context.Context, req *metastore.DropPartitionsRequest) (*metastore.DropPartitionsResult, error) {
	f.dropRequests = append(f.dropRequests, req)
	return &metastore.DropPartitionsResult{}, nil
}

func TestGetTableReturnsNilOnNoSuchObject(t *testing.T) {
	client := &fakeClient{getTableErr: &metastore.NoSuchObjectException{Message: "no such table"}}
	c := New(client)

	table, err := c.GetTable(context.Background(), "db", "missing")
	require.NoError(t, err)
	assert.Nil(t, table)
}

func TestGetTableTranslatesStorageDescriptor(t *testing.T) {
	client := &fakeClient{table: &metastore.Table{
		TableName: "my_table",
		Sd: &metastore.StorageDescriptor{
			Cols:     []*metastore.FieldSchema{{Name: "id", Type: "bigint"}},
			Location: "s3://bucket/ds/v1",
		},
		PartitionKeys: []*metastore.FieldSchema{{Name: "year", Type: "string"}},
	}}
	c := New(client)

	table, err := c.GetTable(context.Background(), "db", "my_table")
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, "s3://bucket/ds/v1/", table.Location)
	require.Len(t, table.Columns, 1)
	assert.Equal(t, "bigint", table.Columns[0].Type)
	require.Len(t, table.PartitionKeys, 1)
	assert.Equal(t, "year", table.PartitionKeys[0].Name)
}

func TestAddPartitionsBatchesAtOneHundred(t *testing.T) {
	client := &fakeClient{}
	c := New(client)
	table := &catalog.Table{DatabaseName: "db", Name: "t"}

	partitions := make([]catalog.Partition, 150)
	for i := range partitions {
		partitions[i] = catalog.Partition{Values: []string{"v"}, Location: "s3://b/p/"}
	}

	err := c.AddPartitions(context.Background(), table, partitions)
	require.NoError(t, err)
	require.Len(t, client.addPartitionCalls, 2)
	assert.Len(t, client.addPartitionCalls[0], 100)
	assert.Len(t, client.addPartitionCalls[1], 50)
}

func TestUpdatePartitionsDropsThenReaddsAtomicallyPerBatch(t *testing.T) {
	client := &fakeClient{}
	c := New(client)
	table := &catalog.Table{DatabaseName: "db", Name: "t", PartitionKeys: []catalog.Column{{Name: "year", Type: "string"}}}

	partitions := []catalog.Partition{
		{Values: []string{"2023"}, Location: "s3://b/year=2023/"},
		{Values: []string{"2024"}, Location: "s3://b/year=2024/"},
	}

	err := c.UpdatePartitions(context.Background(), table, partitions)
	require.NoError(t, err)
	require.Len(t, client.dropRequests, 1)
	assert.Equal(t, []string{"year=2023", "year=2024"}, client.dropRequests[0].Parts.Names)
	assert.True(t, client.dropRequests[0].IfExists, "drop_partitions_req must set ifExists=true")
	assert.False(t, client.dropRequests[0].NeedResult, "drop_partitions_req must set needResult=false")
	require.Len(t, client.addPartitionCalls, 1)
	assert.Len(t, client.addPartitionCalls[0], 2)
}

func TestListPartitionsFetchesNamesThenRecords(t *testing.T) {
	client := &fakeClient{
		partitionNames: []string{"year=2023", "year=2024"},
		partitionsByName: map[string][]*metastore.Partition{
			"year=2023": {{Values: []string{"2023"}, Sd: &metastore.StorageDescriptor{Location: "s3://b/y=2023"}}},
			"year=2024": {{Values: []string{"2024"}, Sd: &metastore.StorageDescriptor{Location: "s3://b/y=2024"}}},
		},
	}
	c := New(client)
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
	create := &fakeClient{}
	c := New(create)
	columns := []catalog.Column{{Name: "a", Type: "int"}, {Name: "b", Type: "string"}}
	partitionKeys := []catalog.Column{{Name: "year", Type: "string"}}
	location := "s3://bucket/ds/v1/"

	_, err := c.CreateTable(context.Background(), "db", "t", columns, location, partitionKeys)
	require.NoError(t, err)
	require.Len(t, create.createCalls, 1)
	def := create.createCalls[0]

	read := &fakeClient{table: &metastore.Table{
		TableName:     def.TableName,
		Sd:            def.Sd,
		PartitionKeys: def.PartitionKeys,
	}}
	roundTripped, err := New(read).GetTable(context.Background(), "db", "t")
	require.NoError(t, err)
	require.NotNil(t, roundTripped)

	assert.Empty(t, testutil.Diff(columns, roundTripped.Columns))
	assert.Empty(t, testutil.Diff(partitionKeys, roundTripped.PartitionKeys))
	assert.Equal(t, location, roundTripped.Location)
}

func TestBatchSizesAreOneHundred(t *testing.T) {
	c := New(&fakeClient{})
	assert.Equal(t, 100, c.AddBatchSize())
	assert.Equal(t, 100, c.UpdateBatchSize())
}
