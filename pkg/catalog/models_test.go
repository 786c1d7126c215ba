package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnSetEqualIgnoresOrder(t *testing.T) {
	a := []Column{{Name: "a", Type: "int"}, {Name: "b", Type: "string"}}
	b := []Column{{Name: "b", Type: "string"}, {Name: "a", Type: "int"}}
	assert.True(t, ColumnSetEqual(a, b))
}

func TestColumnSetEqualDetectsDrift(t *testing.T) {
	a := []Column{{Name: "a", Type: "int"}}
	b := []Column{{Name: "a", Type: "int"}, {Name: "b", Type: "string"}}
	assert.False(t, ColumnSetEqual(a, b))
}

func TestPartitionEqualityIsLocationOnly(t *testing.T) {
	p1 := Partition{Values: []string{"1"}, Columns: []Column{{Name: "a", Type: "int"}}, Location: "s3://b/ds/k=1/"}
	p2 := Partition{Values: []string{"1"}, Columns: []Column{{Name: "a", Type: "bigint"}}, Location: "s3://b/ds/k=1/"}
	assert.True(t, p1.Equal(p2))
}

func TestPartitionWithColumnsDoesNotMutateOriginal(t *testing.T) {
	original := Partition{Values: []string{"1"}, Columns: []Column{{Name: "a", Type: "int"}}, Location: "s3://b/ds/k=1/"}
	replaced := original.WithColumns([]Column{{Name: "a", Type: "int"}, {Name: "b", Type: "string"}})
	assert.Len(t, original.Columns, 1)
	assert.Len(t, replaced.Columns, 2)
	assert.Equal(t, original.Location, replaced.Location)
}

func TestPartitionName(t *testing.T) {
	keys := []Column{{Name: "year", Type: "string"}, {Name: "month", Type: "string"}}
	p := Partition{Values: []string{"2024", "01"}}
	assert.Equal(t, "year=2024/month=01", p.Name(keys))
}

func TestSortByLocation(t *testing.T) {
	partitions := []Partition{
		{Location: "s3://b/ds/k=3/"},
		{Location: "s3://b/ds/k=1/"},
		{Location: "s3://b/ds/k=2/"},
	}
	SortByLocation(partitions)
	assert.Equal(t, "s3://b/ds/k=1/", partitions[0].Location)
	assert.Equal(t, "s3://b/ds/k=2/", partitions[1].Location)
	assert.Equal(t, "s3://b/ds/k=3/", partitions[2].Location)
}

func TestDatasetVersionNumber(t *testing.T) {
	assert.Equal(t, 12, Dataset{Version: "v12"}.VersionNumber())
	assert.Equal(t, 0, Dataset{Version: "v0"}.VersionNumber())
	assert.Equal(t, -1, Dataset{Version: ""}.VersionNumber())
	assert.Equal(t, -1, Dataset{Version: "bogus"}.VersionNumber())
}

func TestCompareDatasetsOrdersByVersion(t *testing.T) {
	a := Dataset{Version: "v2"}
	b := Dataset{Version: "v10"}
	assert.Less(t, CompareDatasets(a, b), 0)
	assert.Greater(t, CompareDatasets(b, a), 0)
}
