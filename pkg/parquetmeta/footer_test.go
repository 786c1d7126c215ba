package parquetmeta

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivesync/hivesync/pkg/parquetmeta/thriftschema"
)

// fakeObject is an in-memory RangeFetcher over a single byte slice,
// standing in for the real object-storage bucket in unit tests.
type fakeObject struct {
	data []byte
}

func (f *fakeObject) GetRange(_ context.Context, _ string, offset, length int64) (io.ReadCloser, error) {
	if offset < 0 || offset+length > int64(len(f.data)) {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(f.data[offset : offset+length])), nil
}

// encodeFileMetaData thrift-compact-encodes a minimal FileMetaData with a
// two-element schema: a root group followed by one INT64 "id" leaf, the
// same shape as the spec's "primitive schema" scenario.
func encodeFileMetaData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	transport := thrift.NewStreamTransportW(&buf)
	oprot := thrift.NewTCompactProtocolConf(transport, &thrift.TConfiguration{})
	ctx := context.Background()

	require.NoError(t, oprot.WriteStructBegin(ctx, "FileMetaData"))

	require.NoError(t, oprot.WriteFieldBegin(ctx, "version", thrift.I32, 1))
	require.NoError(t, oprot.WriteI32(ctx, 1))
	require.NoError(t, oprot.WriteFieldEnd(ctx))

	require.NoError(t, oprot.WriteFieldBegin(ctx, "schema", thrift.LIST, 2))
	require.NoError(t, oprot.WriteListBegin(ctx, thrift.STRUCT, 2))

	// root group, name "root", num_children=1
	require.NoError(t, oprot.WriteStructBegin(ctx, "SchemaElement"))
	require.NoError(t, oprot.WriteFieldBegin(ctx, "name", thrift.STRING, 4))
	require.NoError(t, oprot.WriteString(ctx, "root"))
	require.NoError(t, oprot.WriteFieldEnd(ctx))
	require.NoError(t, oprot.WriteFieldBegin(ctx, "num_children", thrift.I32, 5))
	require.NoError(t, oprot.WriteI32(ctx, 1))
	require.NoError(t, oprot.WriteFieldEnd(ctx))
	require.NoError(t, oprot.WriteFieldStop(ctx))
	require.NoError(t, oprot.WriteStructEnd(ctx))

	// leaf: optional int64 "id"
	require.NoError(t, oprot.WriteStructBegin(ctx, "SchemaElement"))
	require.NoError(t, oprot.WriteFieldBegin(ctx, "type", thrift.I32, 1))
	require.NoError(t, oprot.WriteI32(ctx, int32(thriftschema.TypeInt64)))
	require.NoError(t, oprot.WriteFieldEnd(ctx))
	require.NoError(t, oprot.WriteFieldBegin(ctx, "repetition_type", thrift.I32, 3))
	require.NoError(t, oprot.WriteI32(ctx, int32(thriftschema.RepetitionOptional)))
	require.NoError(t, oprot.WriteFieldEnd(ctx))
	require.NoError(t, oprot.WriteFieldBegin(ctx, "name", thrift.STRING, 4))
	require.NoError(t, oprot.WriteString(ctx, "id"))
	require.NoError(t, oprot.WriteFieldEnd(ctx))
	require.NoError(t, oprot.WriteFieldStop(ctx))
	require.NoError(t, oprot.WriteStructEnd(ctx))

	require.NoError(t, oprot.WriteListEnd(ctx))
	require.NoError(t, oprot.WriteFieldEnd(ctx))

	require.NoError(t, oprot.WriteFieldBegin(ctx, "num_rows", thrift.I64, 3))
	require.NoError(t, oprot.WriteI64(ctx, 0))
	require.NoError(t, oprot.WriteFieldEnd(ctx))

	require.NoError(t, oprot.WriteFieldStop(ctx))
	require.NoError(t, oprot.WriteStructEnd(ctx))

	return buf.Bytes()
}

func buildParquetObject(t *testing.T) []byte {
	t.Helper()
	footer := encodeFileMetaData(t)
	var out bytes.Buffer
	out.WriteString("PAR1")
	out.Write(footer)
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(footer)))
	out.Write(lenBuf)
	out.WriteString("PAR1")
	return out.Bytes()
}

func TestReadFooterDecodesPrimitiveSchema(t *testing.T) {
	data := buildParquetObject(t)
	obj := &fakeObject{data: data}

	metadata, err := ReadFooter(context.Background(), obj, "ds/v1/file.parquet", int64(len(data)))
	require.NoError(t, err)
	require.Len(t, metadata.Schema, 2)
	assert.Equal(t, "root", metadata.Schema[0].Name)
	assert.Equal(t, "id", metadata.Schema[1].Name)
	assert.Equal(t, thriftschema.TypeInt64, *metadata.Schema[1].Type)
}

func TestReadFooterRejectsTooSmallFile(t *testing.T) {
	obj := &fakeObject{data: make([]byte, 10)}
	_, err := ReadFooter(context.Background(), obj, "tiny", 10)
	require.Error(t, err)
	var perr *ParquetError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "file is too small", perr.Msg)
}

func TestReadFooterRejectsDeclaredLengthLargerThanObject(t *testing.T) {
	// 12-byte object (the minimum), but its declared footer length would
	// require more bytes than the object has.
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[4:8], 100)
	copy(buf[8:12], parquetMagic)
	obj := &fakeObject{data: buf}

	_, err := ReadFooter(context.Background(), obj, "k", 12)
	require.Error(t, err)
	var perr *ParquetError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "file is too small", perr.Msg)
}

func TestReadFooterRejectsBadMagic(t *testing.T) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], 0)
	copy(buf[8:12], []byte("XXXX"))
	obj := &fakeObject{data: buf}

	_, err := ReadFooter(context.Background(), obj, "k", 12)
	require.Error(t, err)
	var perr *ParquetError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "magic number is invalid", perr.Msg)
}

func TestReadFooterBoundarySizeTwelve(t *testing.T) {
	// size == 12 with a zero-length footer is the smallest valid file.
	buf := make([]byte, 12)
	copy(buf[8:12], parquetMagic)
	obj := &fakeObject{data: buf}

	metadata, err := ReadFooter(context.Background(), obj, "k", 12)
	require.NoError(t, err)
	assert.Empty(t, metadata.Schema)
}
