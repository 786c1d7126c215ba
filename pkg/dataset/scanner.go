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

// Package dataset discovers datasets, versions and partitions on object
// storage and assembles them into catalog.Dataset values by reading a
// single representative Parquet footer per dataset. It never reads
// column data; only the footer's schema and the object listing itself.
package dataset

import (
	"context"
	"fmt"
	"iter"
	"regexp"
	"sort"
	"strings"

	"github.com/hivesync/hivesync/pkg/catalog"
	"github.com/hivesync/hivesync/pkg/objectstore"
	"github.com/hivesync/hivesync/pkg/parquetmeta"
	"github.com/hivesync/hivesync/pkg/pathutil"
	"github.com/hivesync/hivesync/pkg/schema"
)

var (
	nameVersionPattern = regexp.MustCompile(`([^/]+)(?:/(v[0-9]+))?/$`)
	datasetNamePattern = regexp.MustCompile(`(?i)^[a-z](?:[_-]?[a-z0-9]+)*`)
	versionPattern     = regexp.MustCompile(`^v[0-9]+/$`)
	partitionPattern   = regexp.MustCompile(`^[^=/]+=[^=/]+(?:/[^=/]+=[^=/]+)*/`)
)

// Lister is the capability Scanner needs from pkg/objectstore: common-
// prefix listing for dataset/version discovery and object listing for
// partition discovery.
type Lister interface {
	ListCommonPrefixes(ctx context.Context, prefix string) iter.Seq2[string, error]
	ListObjects(ctx context.Context, prefix string) iter.Seq2[objectstore.ObjectSummary, error]
}

// GetDatasets yields the full s3://bucket/... location of every
// dataset-shaped common prefix directly under location.
func GetDatasets(ctx context.Context, lister Lister, location string) iter.Seq2[string, error] {
	return scanNames(ctx, lister, location, datasetNamePattern)
}

// GetVersions yields the full s3://bucket/... location of every
// version-shaped ("vN/") common prefix directly under a dataset's location.
func GetVersions(ctx context.Context, lister Lister, location string) iter.Seq2[string, error] {
	return scanNames(ctx, lister, location, versionPattern)
}

func scanNames(ctx context.Context, lister Lister, location string, pattern *regexp.Regexp) iter.Seq2[string, error] {
	location = pathutil.EnsureTrailingSlash(location)
	bucket, prefix := pathutil.SplitS3(location)
	return func(yield func(string, error) bool) {
		for result, err := range lister.ListCommonPrefixes(ctx, prefix) {
			if err != nil {
				yield("", fmt.Errorf("dataset: listing %s: %w", location, err))
				return
			}
			if len(result) < len(prefix) {
				continue
			}
			if !pattern.MatchString(result[len(prefix):]) {
				continue
			}
			if !yield(fmt.Sprintf("s3://%s/%s", bucket, result), nil) {
				return
			}
		}
	}
}

// Get reads one dataset's full metadata: its columns (from the most
// recently modified object's Parquet footer), its partitions (derived
// from the distinct partition-path prefixes among its objects) and its
// partition-key columns (derived from the lexicographically-last
// partition name, all typed "string" per the Hive partition convention).
// It returns (nil, nil) if location contains no eligible objects.
func Get(ctx context.Context, lister Lister, fetcher parquetmeta.RangeFetcher, location string) (*catalog.Dataset, error) {
	location = pathutil.EnsureTrailingSlash(location)
	_, prefix := pathutil.SplitS3(location)

	matches := nameVersionPattern.FindStringSubmatch(prefix)
	if matches == nil {
		return nil, nil
	}
	name, version := matches[1], matches[2]

	var latest objectstore.ObjectSummary
	haveLatest := false
	partitionNames := make(map[string]struct{})

	for summary, err := range lister.ListObjects(ctx, prefix) {
		if err != nil {
			return nil, fmt.Errorf("dataset: listing objects under %s: %w", location, err)
		}
		if !haveLatest || summary.LastModified.After(latest.LastModified) {
			latest = summary
			haveLatest = true
		}
		if len(summary.Key) < len(prefix) {
			continue
		}
		if m := partitionPattern.FindString(summary.Key[len(prefix):]); m != "" {
			partitionNames[strings.TrimSuffix(m, "/")] = struct{}{}
		}
	}
	if !haveLatest {
		return nil, nil
	}

	sortedPartitionNames := make([]string, 0, len(partitionNames))
	for p := range partitionNames {
		sortedPartitionNames = append(sortedPartitionNames, p)
	}
	sort.Strings(sortedPartitionNames)

	metadata, err := parquetmeta.ReadFooter(ctx, fetcher, latest.Key, latest.Size)
	if err != nil {
		return nil, err
	}
	columns, err := schema.Project(metadata.Schema)
	if err != nil {
		return nil, err
	}

	var partitionKeys []catalog.Column
	if len(sortedPartitionNames) > 0 {
		last := sortedPartitionNames[len(sortedPartitionNames)-1]
		for _, segment := range strings.Split(last, "/") {
			k, _, _ := strings.Cut(segment, "=")
			partitionKeys = append(partitionKeys, catalog.NewColumn(k, "string"))
		}
	}

	partitions := make([]catalog.Partition, 0, len(sortedPartitionNames))
	for _, partitionName := range sortedPartitionNames {
		segments := strings.Split(partitionName, "/")
		values := make([]string, len(segments))
		for i, segment := range segments {
			_, v, _ := strings.Cut(segment, "=")
			values[i] = v
		}
		partitions = append(partitions, catalog.Partition{
			Values:   values,
			Columns:  columns,
			Location: fmt.Sprintf("%s%s/", location, partitionName),
		})
	}

	dataset := catalog.NewDataset(name, version, columns, partitions, location, partitionKeys)
	return &dataset, nil
}
