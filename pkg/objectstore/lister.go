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

// Package objectstore lists dataset locations on an object-storage
// bucket. It wraps github.com/thanos-io/objstore, the same bucket
// abstraction the teacher module uses to back its Iceberg integration,
// in the two pagination modes the scanner needs: a directory-style
// common-prefix listing and a fully-recursive object listing with the
// reconciliation core's ignore-list filter applied before a key is ever
// handed to a caller.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"iter"
	"regexp"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/thanos-io/objstore"
)

// ObjectSummary is one non-ignored object surfaced by ListObjects.
type ObjectSummary struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// minObjectSize is the smallest object ListObjects will surface: a valid
// Parquet file has at least its 4-byte leading magic and 8-byte trailer.
const minObjectSize = 12

var legacyMarker = regexp.MustCompile(`(^|/)_[0-9A-Za-z]+(/|$)`)

// Lister paginates an objstore.Bucket in directory or object mode,
// applying the dataset-discovery ignore list in object mode.
type Lister struct {
	bucket objstore.Bucket
	logger log.Logger
}

// NewLister wraps bucket. A nil logger defaults to a no-op logger.
func NewLister(bucket objstore.Bucket, logger log.Logger) *Lister {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Lister{bucket: bucket, logger: logger}
}

// ListCommonPrefixes yields the immediate sub-"directories" one level
// below prefix (directory mode: objstore.Iter's default delimiter
// behaviour, no recursion option set).
func (l *Lister) ListCommonPrefixes(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cont := true
		err := l.bucket.Iter(ctx, prefix, func(name string) error {
			if !cont {
				return nil
			}
			if !yield(name, nil) {
				cont = false
			}
			return nil
		})
		if err != nil && cont {
			yield("", fmt.Errorf("objectstore: listing prefixes under %s: %w", prefix, err))
		}
	}
}

// ListObjects yields every object under prefix (object mode: recursive
// iteration, no delimiter), applying the ignore-list filter and fetching
// Attributes for every surviving key. It never buffers the full result
// set: each object is yielded as soon as its attributes are fetched.
func (l *Lister) ListObjects(ctx context.Context, prefix string) iter.Seq2[ObjectSummary, error] {
	return func(yield func(ObjectSummary, error) bool) {
		cont := true
		err := l.bucket.Iter(ctx, prefix, func(name string) error {
			if !cont {
				return nil
			}
			if isIgnored(name) {
				level.Debug(l.logger).Log("msg", "skipping ignored object", "key", name)
				return nil
			}
			attrs, err := l.bucket.Attributes(ctx, name)
			if err != nil {
				if !yield(ObjectSummary{}, fmt.Errorf("objectstore: attributes of %s: %w", name, err)) {
					cont = false
				}
				return nil
			}
			if attrs.Size < minObjectSize {
				return nil
			}
			if !yield(ObjectSummary{Key: name, Size: attrs.Size, LastModified: attrs.LastModified}, nil) {
				cont = false
			}
			return nil
		}, objstore.WithRecursive())
		if err != nil && cont {
			yield(ObjectSummary{}, fmt.Errorf("objectstore: listing objects under %s: %w", prefix, err))
		}
	}
}

// GetRange is a thin pass-through to Bucket.GetRange, satisfying
// pkg/parquetmeta.RangeFetcher.
func (l *Lister) GetRange(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	return l.bucket.GetRange(ctx, key, offset, length)
}

// isIgnored reports whether key matches spec.md §4.2's ignore list:
// Spark/Hadoop bookkeeping markers, folder placeholders, legacy
// temporary segments, and the default-partition marker. Size filtering
// happens separately in ListObjects, since it needs Attributes.
func isIgnored(key string) bool {
	switch {
	case strings.Contains(key, "_spark_metadata/"):
		return true
	case strings.HasSuffix(key, "_common_metadata"):
		return true
	case strings.HasSuffix(key, "_metadata"):
		return true
	case strings.Contains(key, "_temporary/"):
		return true
	case strings.HasSuffix(key, "_$folder$"):
		return true
	case strings.HasSuffix(key, "/"):
		return true
	case strings.Contains(key, "=__HIVE_DEFAULT_PARTITION__/"):
		return true
	case legacyMarker.MatchString(key):
		return true
	}
	return false
}
