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

// Package pathutil provides the small set of string operations shared by
// every other package that talks about dataset locations: trailing-slash
// normalization, s3://bucket/key splitting, Hive table-name canonicalization,
// and fixed-size chunking of slices for batched RPCs.
package pathutil

import (
	"iter"
	"regexp"
	"strings"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// EnsureTrailingSlash appends "/" to s unless it already ends in one.
func EnsureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// RemoveTrailingSlash strips a single trailing "/" from s, if present.
func RemoveTrailingSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}

// SplitS3 strips an optional "s3://" prefix from uri and splits the
// remainder at the first "/" into a bucket and a key. A bare bucket name
// (no slash) returns an empty key.
func SplitS3(uri string) (bucket, key string) {
	uri = strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(uri, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// Underscore canonicalizes a dataset name into a Hive-safe table-name stem:
// it inserts "_" at acronym/word and lower/upper boundaries, replaces "-"
// with "_", and lowercases the result. It is idempotent:
// Underscore(Underscore(s)) == Underscore(s).
func Underscore(s string) string {
	s = acronymBoundary.ReplaceAllString(s, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ToLower(s)
}

// Chunks returns an iterator over fixed-size, non-overlapping groups of
// items. The final group may be shorter than n. It never materializes
// more than one group at a time, so callers can range over arbitrarily
// large slices (e.g. partition batches headed to a catalog RPC) without
// an intermediate [][]T allocation.
func Chunks[T any](items []T, n int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if n <= 0 {
			if len(items) > 0 {
				yield(items)
			}
			return
		}
		for i := 0; i < len(items); i += n {
			end := i + n
			if end > len(items) {
				end = len(items)
			}
			if !yield(items[i:end]) {
				return
			}
		}
	}
}
