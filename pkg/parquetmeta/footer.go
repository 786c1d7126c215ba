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

// Package parquetmeta decodes the Parquet FileMetaData structure from the
// tail of an object via two range reads, without ever reading a data
// page. It is the system's only consumer of the Thrift compact protocol.
package parquetmeta

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hivesync/hivesync/pkg/parquetmeta/thriftschema"
)

// trailerSize is the fixed 8-byte trailer: a little-endian uint32 footer
// length followed by the 4-byte magic "PAR1".
const trailerSize = 8

// minParquetSize is the smallest a well-formed Parquet file can be: the
// 4-byte leading magic, an empty footer, and the 8-byte trailer.
const minParquetSize = 12

var parquetMagic = []byte("PAR1")

// ParquetError reports a malformed Parquet footer: wrong magic, a
// declared footer length that doesn't fit the object, or an undecodable
// Thrift structure. It is always fatal for the dataset it was read from.
type ParquetError struct {
	Msg string
	Err error
}

func (e *ParquetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parquet: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("parquet: %s", e.Msg)
}

func (e *ParquetError) Unwrap() error { return e.Err }

func newParquetError(msg string) error { return &ParquetError{Msg: msg} }

// RangeFetcher is the minimal capability FooterReader needs from an
// object store: a byte-range GET. pkg/objectstore's Lister satisfies it;
// tests can satisfy it directly against an in-memory byte slice.
type RangeFetcher interface {
	GetRange(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error)
}

// ReadFooter fetches and decodes the Parquet FileMetaData footer of the
// object at key, whose total size is size. It performs exactly two range
// reads: the trailing 8 bytes (footer length + magic), then the
// footer-length bytes immediately preceding the trailer.
func ReadFooter(ctx context.Context, fetcher RangeFetcher, key string, size int64) (*thriftschema.FileMetaData, error) {
	if size < minParquetSize {
		return nil, newParquetError("file is too small")
	}

	trailer, err := fetcher.GetRange(ctx, key, size-trailerSize, trailerSize)
	if err != nil {
		return nil, fmt.Errorf("parquetmeta: fetching trailer of %s: %w", key, err)
	}
	trailerBytes, err := readAllAndClose(trailer)
	if err != nil {
		return nil, fmt.Errorf("parquetmeta: reading trailer of %s: %w", key, err)
	}
	if len(trailerBytes) != trailerSize {
		return nil, newParquetError("file is too small")
	}

	footerLength := int64(binary.LittleEndian.Uint32(trailerBytes[:4]))
	magic := trailerBytes[4:8]

	if size < minParquetSize+footerLength {
		return nil, newParquetError("file is too small")
	}
	if !bytes.Equal(magic, parquetMagic) {
		return nil, newParquetError("magic number is invalid")
	}

	footerOffset := size - trailerSize - footerLength
	footer, err := fetcher.GetRange(ctx, key, footerOffset, footerLength)
	if err != nil {
		return nil, fmt.Errorf("parquetmeta: fetching footer of %s: %w", key, err)
	}
	footerBytes, err := readAllAndClose(footer)
	if err != nil {
		return nil, fmt.Errorf("parquetmeta: reading footer of %s: %w", key, err)
	}
	if footerLength == 0 {
		return &thriftschema.FileMetaData{}, nil
	}

	metadata := &thriftschema.FileMetaData{}
	transport := thrift.NewStreamTransportR(bytes.NewReader(footerBytes))
	protocol := thrift.NewTCompactProtocolConf(transport, &thrift.TConfiguration{})
	if err := metadata.Read(ctx, protocol); err != nil {
		return nil, &ParquetError{Msg: "could not decode footer", Err: err}
	}

	return metadata, nil
}

func readAllAndClose(r io.ReadCloser) ([]byte, error) {
	defer r.Close()
	return io.ReadAll(r)
}
