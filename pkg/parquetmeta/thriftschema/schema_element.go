// Package thriftschema is a narrow, hand-written Thrift binding for the
// subset of the Parquet FileMetaData structure this system reads: the
// schema element list, the format version, and the row count. It plays
// the role spec.md §1 calls "the generated wire-protocol binding" for the
// Parquet footer — a real Thrift compiler run over parquet.thrift would
// produce a much larger file covering row groups, column chunk
// statistics, encodings and so on, none of which this system's Non-goals
// ("does not read column data") ever touch. Every field this system
// doesn't use is still walked on the wire (via iprot.Skip) so footers
// from real Parquet files decode correctly; it is simply not promoted to
// a named Go field.
package thriftschema

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Type mirrors parquet.thrift's Type enum: the physical on-disk encoding
// of a primitive schema element.
type Type int32

const (
	TypeBoolean             Type = 0
	TypeInt32               Type = 1
	TypeInt64               Type = 2
	TypeInt96               Type = 3
	TypeFloat               Type = 4
	TypeDouble              Type = 5
	TypeByteArray           Type = 6
	TypeFixedLenByteArray   Type = 7
)

// ConvertedType mirrors parquet.thrift's ConvertedType enum: the logical
// annotation layered on top of a primitive or group Type.
type ConvertedType int32

const (
	ConvertedTypeUTF8           ConvertedType = 0
	ConvertedTypeMap            ConvertedType = 1
	ConvertedTypeMapKeyValue    ConvertedType = 2
	ConvertedTypeList           ConvertedType = 3
	ConvertedTypeDecimal        ConvertedType = 5
)

// FieldRepetitionType mirrors parquet.thrift's FieldRepetitionType enum.
type FieldRepetitionType int32

const (
	RepetitionRequired FieldRepetitionType = 0
	RepetitionOptional FieldRepetitionType = 1
	RepetitionRepeated FieldRepetitionType = 2
)

// SchemaElement is one node of the flat, depth-first schema sequence a
// Parquet footer encodes: the root, then each group's children in order,
// recursively. Pointer fields are optional on the wire, matching
// parquet.thrift's "optional" qualifiers.
type SchemaElement struct {
	Type          *Type
	TypeLength    *int32
	RepetitionType *FieldRepetitionType
	Name          string
	NumChildren   *int32
	ConvertedType *ConvertedType
	Scale         *int32
	Precision     *int32
	FieldID       *int32
}

// IsGroup reports whether this element is a group node (no physical
// Type set) rather than a primitive leaf.
func (s *SchemaElement) IsGroup() bool {
	return s.Type == nil
}

// Children returns NumChildren, or 0 if unset.
func (s *SchemaElement) Children() int32 {
	if s.NumChildren == nil {
		return 0
	}
	return *s.NumChildren
}

// Repetition returns RepetitionType, or RepetitionRequired if unset
// (required is the wire default for elements that omit the field, which
// only ever happens for the implicit schema root).
func (s *SchemaElement) Repetition() FieldRepetitionType {
	if s.RepetitionType == nil {
		return RepetitionRequired
	}
	return *s.RepetitionType
}

func (s *SchemaElement) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", s), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T read field %d begin error: ", s, fieldID), err)
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
				t := Type(v)
				s.Type = &t
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 2:
			if fieldTypeID == thrift.I32 {
				v, err := iprot.ReadI32(ctx)
				if err != nil {
					return err
				}
				s.TypeLength = &v
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 3:
			if fieldTypeID == thrift.I32 {
				v, err := iprot.ReadI32(ctx)
				if err != nil {
					return err
				}
				r := FieldRepetitionType(v)
				s.RepetitionType = &r
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 4:
			if fieldTypeID == thrift.STRING {
				v, err := iprot.ReadString(ctx)
				if err != nil {
					return err
				}
				s.Name = v
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 5:
			if fieldTypeID == thrift.I32 {
				v, err := iprot.ReadI32(ctx)
				if err != nil {
					return err
				}
				s.NumChildren = &v
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 6:
			if fieldTypeID == thrift.I32 {
				v, err := iprot.ReadI32(ctx)
				if err != nil {
					return err
				}
				ct := ConvertedType(v)
				s.ConvertedType = &ct
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 7:
			if fieldTypeID == thrift.I32 {
				v, err := iprot.ReadI32(ctx)
				if err != nil {
					return err
				}
				s.Scale = &v
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 8:
			if fieldTypeID == thrift.I32 {
				v, err := iprot.ReadI32(ctx)
				if err != nil {
					return err
				}
				s.Precision = &v
			} else if err := iprot.Skip(ctx, fieldTypeID); err != nil {
				return err
			}
		case 9:
			if fieldTypeID == thrift.I32 {
				v, err := iprot.ReadI32(ctx)
				if err != nil {
					return err
				}
				s.FieldID = &v
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
		return thrift.PrependError(fmt.Sprintf("%T read struct end error: ", s), err)
	}
	return nil
}
