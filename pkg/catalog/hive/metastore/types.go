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

// Package metastore is a narrow, hand-written Thrift binding for the
// subset of hive_metastore.thrift this system's Hive back-end calls:
// FieldSchema, SerDeInfo, StorageDescriptor, Table, Partition, the
// drop_partitions_req request/result pair, and the ThriftHiveMetastore
// service methods pkg/catalog/hive drives. It plays the same role for
// the Hive Metastore protocol that pkg/parquetmeta/thriftschema plays
// for the Parquet footer: a real Thrift compiler run over
// hive_metastore.thrift produces a much larger client covering
// databases, indexes, privileges, and transactions, none of which this
// system touches.
package metastore

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// FieldSchema is one column or partition-key definition.
type FieldSchema struct {
	Name    string
	Type    string
	Comment string
}

func (f *FieldSchema) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "FieldSchema"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "name", 1, f.Name); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "type", 2, f.Type); err != nil {
		return err
	}
	if f.Comment != "" {
		if err := writeStringField(ctx, oprot, "comment", 3, f.Comment); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (f *FieldSchema) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "FieldSchema", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			return readStringInto(ctx, iprot, fieldTypeID, &f.Name)
		case 2:
			return readStringInto(ctx, iprot, fieldTypeID, &f.Type)
		case 3:
			return readStringInto(ctx, iprot, fieldTypeID, &f.Comment)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// SerDeInfo names the (de)serialization library a StorageDescriptor uses.
type SerDeInfo struct {
	Name             string
	SerializationLib string
	Parameters       map[string]string
}

func (s *SerDeInfo) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "SerDeInfo"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "name", 1, s.Name); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "serializationLib", 2, s.SerializationLib); err != nil {
		return err
	}
	if err := writeStringMapField(ctx, oprot, "parameters", 3, s.Parameters); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (s *SerDeInfo) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "SerDeInfo", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			return readStringInto(ctx, iprot, fieldTypeID, &s.Name)
		case 2:
			return readStringInto(ctx, iprot, fieldTypeID, &s.SerializationLib)
		case 3:
			if fieldTypeID != thrift.MAP {
				return iprot.Skip(ctx, fieldTypeID)
			}
			m, err := readStringMap(ctx, iprot)
			if err != nil {
				return err
			}
			s.Parameters = m
			return nil
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// StorageDescriptor describes how a table's or partition's data is laid
// out and serialized on disk.
type StorageDescriptor struct {
	Cols        []*FieldSchema
	Location    string
	InputFormat string
	OutputFormat string
	Compressed  bool
	NumBuckets  int32
	SerdeInfo   *SerDeInfo
	Parameters  map[string]string
}

func (sd *StorageDescriptor) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "StorageDescriptor"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "cols", thrift.LIST, 1); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(ctx, thrift.STRUCT, len(sd.Cols)); err != nil {
		return err
	}
	for _, c := range sd.Cols {
		if err := c.Write(ctx, oprot); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "location", 2, sd.Location); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "inputFormat", 3, sd.InputFormat); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "outputFormat", 4, sd.OutputFormat); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "compressed", thrift.BOOL, 5); err != nil {
		return err
	}
	if err := oprot.WriteBool(ctx, sd.Compressed); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "numBuckets", thrift.I32, 6); err != nil {
		return err
	}
	if err := oprot.WriteI32(ctx, sd.NumBuckets); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if sd.SerdeInfo != nil {
		if err := oprot.WriteFieldBegin(ctx, "serdeInfo", thrift.STRUCT, 7); err != nil {
			return err
		}
		if err := sd.SerdeInfo.Write(ctx, oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := writeStringMapField(ctx, oprot, "parameters", 10, sd.Parameters); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (sd *StorageDescriptor) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "StorageDescriptor", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			if fieldTypeID != thrift.LIST {
				return iprot.Skip(ctx, fieldTypeID)
			}
			_, size, err := iprot.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			sd.Cols = make([]*FieldSchema, 0, size)
			for i := 0; i < size; i++ {
				f := &FieldSchema{}
				if err := f.Read(ctx, iprot); err != nil {
					return err
				}
				sd.Cols = append(sd.Cols, f)
			}
			return iprot.ReadListEnd(ctx)
		case 2:
			return readStringInto(ctx, iprot, fieldTypeID, &sd.Location)
		case 3:
			return readStringInto(ctx, iprot, fieldTypeID, &sd.InputFormat)
		case 4:
			return readStringInto(ctx, iprot, fieldTypeID, &sd.OutputFormat)
		case 5:
			if fieldTypeID != thrift.BOOL {
				return iprot.Skip(ctx, fieldTypeID)
			}
			v, err := iprot.ReadBool(ctx)
			if err != nil {
				return err
			}
			sd.Compressed = v
			return nil
		case 6:
			if fieldTypeID != thrift.I32 {
				return iprot.Skip(ctx, fieldTypeID)
			}
			v, err := iprot.ReadI32(ctx)
			if err != nil {
				return err
			}
			sd.NumBuckets = v
			return nil
		case 7:
			if fieldTypeID != thrift.STRUCT {
				return iprot.Skip(ctx, fieldTypeID)
			}
			s := &SerDeInfo{}
			if err := s.Read(ctx, iprot); err != nil {
				return err
			}
			sd.SerdeInfo = s
			return nil
		case 10:
			if fieldTypeID != thrift.MAP {
				return iprot.Skip(ctx, fieldTypeID)
			}
			m, err := readStringMap(ctx, iprot)
			if err != nil {
				return err
			}
			sd.Parameters = m
			return nil
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// Table is the Hive Metastore's external table definition.
type Table struct {
	TableName     string
	DbName        string
	Owner         string
	Sd            *StorageDescriptor
	PartitionKeys []*FieldSchema
	Parameters    map[string]string
	TableType     string
}

func (t *Table) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "Table"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "tableName", 1, t.TableName); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "dbName", 2, t.DbName); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "owner", 3, t.Owner); err != nil {
		return err
	}
	if t.Sd != nil {
		if err := oprot.WriteFieldBegin(ctx, "sd", thrift.STRUCT, 7); err != nil {
			return err
		}
		if err := t.Sd.Write(ctx, oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldBegin(ctx, "partitionKeys", thrift.LIST, 8); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(ctx, thrift.STRUCT, len(t.PartitionKeys)); err != nil {
		return err
	}
	for _, k := range t.PartitionKeys {
		if err := k.Write(ctx, oprot); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeStringMapField(ctx, oprot, "parameters", 9, t.Parameters); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "tableType", 12, t.TableType); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (t *Table) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "Table", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			return readStringInto(ctx, iprot, fieldTypeID, &t.TableName)
		case 2:
			return readStringInto(ctx, iprot, fieldTypeID, &t.DbName)
		case 3:
			return readStringInto(ctx, iprot, fieldTypeID, &t.Owner)
		case 7:
			if fieldTypeID != thrift.STRUCT {
				return iprot.Skip(ctx, fieldTypeID)
			}
			sd := &StorageDescriptor{}
			if err := sd.Read(ctx, iprot); err != nil {
				return err
			}
			t.Sd = sd
			return nil
		case 8:
			if fieldTypeID != thrift.LIST {
				return iprot.Skip(ctx, fieldTypeID)
			}
			_, size, err := iprot.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			t.PartitionKeys = make([]*FieldSchema, 0, size)
			for i := 0; i < size; i++ {
				f := &FieldSchema{}
				if err := f.Read(ctx, iprot); err != nil {
					return err
				}
				t.PartitionKeys = append(t.PartitionKeys, f)
			}
			return iprot.ReadListEnd(ctx)
		case 9:
			if fieldTypeID != thrift.MAP {
				return iprot.Skip(ctx, fieldTypeID)
			}
			m, err := readStringMap(ctx, iprot)
			if err != nil {
				return err
			}
			t.Parameters = m
			return nil
		case 12:
			return readStringInto(ctx, iprot, fieldTypeID, &t.TableType)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// Partition is one partition of a Table, keyed by its ordered values.
type Partition struct {
	Values     []string
	DbName     string
	TableName  string
	Sd         *StorageDescriptor
	Parameters map[string]string
}

func (p *Partition) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "Partition"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "values", thrift.LIST, 1); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(ctx, thrift.STRING, len(p.Values)); err != nil {
		return err
	}
	for _, v := range p.Values {
		if err := oprot.WriteString(ctx, v); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "dbName", 2, p.DbName); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "tableName", 3, p.TableName); err != nil {
		return err
	}
	if p.Sd != nil {
		if err := oprot.WriteFieldBegin(ctx, "sd", thrift.STRUCT, 6); err != nil {
			return err
		}
		if err := p.Sd.Write(ctx, oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := writeStringMapField(ctx, oprot, "parameters", 7, p.Parameters); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (p *Partition) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "Partition", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			if fieldTypeID != thrift.LIST {
				return iprot.Skip(ctx, fieldTypeID)
			}
			_, size, err := iprot.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			p.Values = make([]string, 0, size)
			for i := 0; i < size; i++ {
				v, err := iprot.ReadString(ctx)
				if err != nil {
					return err
				}
				p.Values = append(p.Values, v)
			}
			return iprot.ReadListEnd(ctx)
		case 2:
			return readStringInto(ctx, iprot, fieldTypeID, &p.DbName)
		case 3:
			return readStringInto(ctx, iprot, fieldTypeID, &p.TableName)
		case 6:
			if fieldTypeID != thrift.STRUCT {
				return iprot.Skip(ctx, fieldTypeID)
			}
			sd := &StorageDescriptor{}
			if err := sd.Read(ctx, iprot); err != nil {
				return err
			}
			p.Sd = sd
			return nil
		case 7:
			if fieldTypeID != thrift.MAP {
				return iprot.Skip(ctx, fieldTypeID)
			}
			m, err := readStringMap(ctx, iprot)
			if err != nil {
				return err
			}
			p.Parameters = m
			return nil
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// RequestPartsSpec is hive_metastore.thrift's union type for specifying
// which partitions a drop_partitions_req targets. This binding only
// supports the by-name variant (field 1), the one the "different"/
// "missing" reconciliation loop needs.
type RequestPartsSpec struct {
	Names []string
}

func (r *RequestPartsSpec) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "RequestPartsSpec"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "names", thrift.LIST, 1); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(ctx, thrift.STRING, len(r.Names)); err != nil {
		return err
	}
	for _, n := range r.Names {
		if err := oprot.WriteString(ctx, n); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

// DropPartitionsRequest drops a batch of partitions by name in one call.
type DropPartitionsRequest struct {
	DbName     string
	TblName    string
	Parts      RequestPartsSpec
	DeleteData bool
	IfExists   bool
	NeedResult bool
}

func (r *DropPartitionsRequest) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "DropPartitionsRequest"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "dbName", 1, r.DbName); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "tblName", 2, r.TblName); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "parts", thrift.STRUCT, 3); err != nil {
		return err
	}
	if err := r.Parts.Write(ctx, oprot); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "deleteData", thrift.BOOL, 4); err != nil {
		return err
	}
	if err := oprot.WriteBool(ctx, r.DeleteData); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "ifExists", thrift.BOOL, 5); err != nil {
		return err
	}
	if err := oprot.WriteBool(ctx, r.IfExists); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "needResult", thrift.BOOL, 8); err != nil {
		return err
	}
	if err := oprot.WriteBool(ctx, r.NeedResult); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

// DropPartitionsResult reports the partitions that were dropped.
type DropPartitionsResult struct {
	Partitions []*Partition
}

func (r *DropPartitionsResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "DropPartitionsResult", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 0:
			if fieldTypeID != thrift.LIST {
				return iprot.Skip(ctx, fieldTypeID)
			}
			_, size, err := iprot.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			r.Partitions = make([]*Partition, 0, size)
			for i := 0; i < size; i++ {
				p := &Partition{}
				if err := p.Read(ctx, iprot); err != nil {
					return err
				}
				r.Partitions = append(r.Partitions, p)
			}
			return iprot.ReadListEnd(ctx)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

func writeStringField(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v string) error {
	if err := oprot.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return err
	}
	if err := oprot.WriteString(ctx, v); err != nil {
		return err
	}
	return oprot.WriteFieldEnd(ctx)
}

func writeStringMapField(ctx context.Context, oprot thrift.TProtocol, name string, id int16, m map[string]string) error {
	if err := oprot.WriteFieldBegin(ctx, name, thrift.MAP, id); err != nil {
		return err
	}
	if err := oprot.WriteMapBegin(ctx, thrift.STRING, thrift.STRING, len(m)); err != nil {
		return err
	}
	for k, v := range m {
		if err := oprot.WriteString(ctx, k); err != nil {
			return err
		}
		if err := oprot.WriteString(ctx, v); err != nil {
			return err
		}
	}
	if err := oprot.WriteMapEnd(ctx); err != nil {
		return err
	}
	return oprot.WriteFieldEnd(ctx)
}

func readStringMap(ctx context.Context, iprot thrift.TProtocol) (map[string]string, error) {
	_, _, size, err := iprot.ReadMapBegin(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, size)
	for i := 0; i < size; i++ {
		k, err := iprot.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		v, err := iprot.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, iprot.ReadMapEnd(ctx)
}

func readStringInto(ctx context.Context, iprot thrift.TProtocol, fieldTypeID thrift.TType, dst *string) error {
	if fieldTypeID != thrift.STRING {
		return iprot.Skip(ctx, fieldTypeID)
	}
	v, err := iprot.ReadString(ctx)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// readStruct walks a struct's field stream, delegating each non-stop
// field to handle. It centralizes the ReadStructBegin/ReadFieldBegin/
// ReadFieldEnd/ReadStructEnd boilerplate every Read method above shares.
func readStruct(ctx context.Context, iprot thrift.TProtocol, name string, handle func(fieldID int16, fieldTypeID thrift.TType) error) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s read struct begin error: ", name), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%s read field %d begin error: ", name, fieldID), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		if err := handle(fieldID, fieldTypeID); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}
