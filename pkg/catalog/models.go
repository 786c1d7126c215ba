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

// Package catalog defines the value types shared by every catalog back-end
// (Column, Partition, Table, Dataset) and the Catalog interface those
// back-ends implement. The types here never touch the network; wire
// translation lives in pkg/catalog/glue and pkg/catalog/hive.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hivesync/hivesync/pkg/pathutil"
)

// Column is a single Hive column: a lowercase identifier and a textual
// Hive type ("string", "bigint", "array<int>", "struct<a:int,b:string>",
// "decimal(10,2)", ...). Equality and hashing are over the pair.
type Column struct {
	Name string
	Type string
}

// NewColumn lowercases name, matching the projector and the scanner's
// partition-key derivation.
func NewColumn(name, typ string) Column {
	return Column{Name: strings.ToLower(name), Type: typ}
}

func (c Column) String() string {
	return fmt.Sprintf("Column(name=%s, type=%s)", c.Name, c.Type)
}

// columnKey is the hashable representation used by set-like comparisons.
type columnKey struct{ Name, Type string }

func (c Column) key() columnKey { return columnKey{c.Name, c.Type} }

// ColumnSetEqual reports whether a and b contain the same multiset of
// (name, type) pairs, ignoring order. This is the comparison the
// reconciler uses to decide whether a table or partition needs a column
// update — order within the column list never matters for that decision.
func ColumnSetEqual(a, b []Column) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[columnKey]int, len(a))
	for _, c := range a {
		counts[c.key()]++
	}
	for _, c := range b {
		counts[c.key()]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}

// Partition is one partition of a Table: its ordered key values, the
// column list it was last written with, and its storage location.
// Equality, ordering and hashing are solely over Location — two
// partitions are "the same" whenever they describe the same storage
// path, regardless of column drift.
type Partition struct {
	Values   []string
	Columns  []Column
	Location string
}

// WithColumns returns a copy of p with Columns replaced by cols. Partition
// is a value type; rewriting a partition's column list after a schema
// drift is expressed as building a new value; there is no in-place
// mutation path.
func (p Partition) WithColumns(cols []Column) Partition {
	p.Columns = cols
	return p
}

// Equal compares partitions by Location only, per the data model's
// equality law.
func (p Partition) Equal(other Partition) bool {
	return p.Location == other.Location
}

// Key returns the comparable/hashable identity of p (its Location),
// suitable for use as a Go map key when partitions need to be tracked
// in a set, e.g. the reconciler's "missing" set.
func (p Partition) Key() string {
	return p.Location
}

// Name renders the partition's k=v/... path segment given the table's
// ordered partition keys, e.g. "year=2024/month=01". Used to build the
// Thrift metastore's drop-by-name request.
func (p Partition) Name(keys []Column) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k.Name, p.Values[i])
	}
	return strings.Join(parts, "/")
}

func (p Partition) String() string {
	return fmt.Sprintf("Partition(location=%s)", p.Location)
}

// SortByLocation sorts partitions lexicographically by Location in place.
// Partition intentionally exposes no Less/Compare method of its own: the
// Python original's ordering was defined as "a.location == b.location",
// which is not a strict weak order (a latent bug, per spec.md's Design
// Notes) — this helper is the one place the reconciler needs a stable
// ordering, and it is plain lexicographic string comparison.
func SortByLocation(partitions []Partition) {
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].Location < partitions[j].Location
	})
}

// Table is an external Hive-compatible table: its non-partition columns,
// its ordered partition-key columns, and its root storage location.
// Invariant: for partition p belonging to this table,
// location + join("/", partitionKeys[i]+"="+p.Values[i]) + "/" == p.Location.
type Table struct {
	DatabaseName  string
	Name          string
	Columns       []Column
	Location      string
	PartitionKeys []Column
}

// NewDataset builds a Dataset, normalizing location to always end in a
// trailing slash per the type's invariant (the scanner derives location
// from object-storage common prefixes, which are not guaranteed to carry
// one consistently across back-ends).
func NewDataset(name, version string, columns []Column, partitions []Partition, location string, partitionKeys []Column) Dataset {
	return Dataset{
		Name:          name,
		Version:       version,
		Columns:       columns,
		Partitions:    partitions,
		Location:      pathutil.EnsureTrailingSlash(location),
		PartitionKeys: partitionKeys,
	}
}

// Dataset is the scanner's output: the dataset name and version, the
// columns read from the canonical Parquet footer, the discovered
// partitions, the dataset root location, and the partition-key columns
// derived from the lexicographically-last partition name.
//
// Invariants: Location ends in "/"; if Version is non-empty it matches
// v[0-9]+; every partition's Location begins with Location; all
// partitions share the same PartitionKeys (by name and order); Columns
// and PartitionKeys never share a name.
type Dataset struct {
	Name          string
	Version       string
	Columns       []Column
	Partitions    []Partition
	Location      string
	PartitionKeys []Column
}

// VersionNumber parses the numeric suffix of Version ("v12" -> 12), used
// to order datasets by recency. It returns -1 if Version is not of the
// expected "vN" shape.
func (d Dataset) VersionNumber() int {
	if len(d.Version) < 2 || d.Version[0] != 'v' {
		return -1
	}
	n := 0
	for _, r := range d.Version[1:] {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// CompareDatasets orders two datasets by their numeric version suffix,
// ascending, so sorting a slice of Datasets and taking the last element
// picks the latest version.
func CompareDatasets(a, b Dataset) int {
	return a.VersionNumber() - b.VersionNumber()
}
