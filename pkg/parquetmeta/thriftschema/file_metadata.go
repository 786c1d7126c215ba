package thriftschema

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// FileMetaData is the top-level structure a Parquet footer decodes into.
// Only the fields this system's reconciliation core touches are named;
// RowGroups, KeyValueMetadata, CreatedBy and the rest of parquet.thrift's
// FileMetaData are read past (via iprot.Skip in the default case below)
// but not retained, consistent with the Non-goal that this system never
// reads column data.
type FileMetaData struct {
	Version int32
	Schema  []*SchemaElement
	NumRows int64
}

func (m *FileMetaData) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", m), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T read field %d begin error: ", m, fieldID), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			if fieldTypeID == thrift.I32 {
				v, err := iprot.ReadI32(ctx)
				if err != nil {
					return err
				}
				m.Version = v
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 2:
			if fieldTypeID == thrift.LIST {
				if err := m.readSchema(ctx, iprot); err != nil {
					return err
				}
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 3:
			if fieldTypeID == thrift.I64 {
				v, err := iprot.ReadI64(ctx)
				if err != nil {
					return err
				}
				m.NumRows = v
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		default:
			if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := iprot.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct end error: ", m), err)
	}
	return nil
}

func (m *FileMetaData) readSchema(ctx context.Context, iprot thrift.TProtocol) error {
	_, size, err := iprot.ReadListBegin(ctx)
	if err != nil {
		return err
	}
	m.Schema = make([]*SchemaElement, 0, size)
	for i := 0; i < size; i++ {
		elem := &SchemaElement{}
		if err := elem.Read(ctx, iprot); err != nil {
			return err
		}
		m.Schema = append(m.Schema, elem)
	}
	return iprot.ReadListEnd(ctx)
}
