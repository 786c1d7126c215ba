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

package metastore

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// Client is a ThriftHiveMetastore client: it frames each RPC as a
// Thrift message and drives it through the given protocol, the same
// send/recv shape a thrift-compiler-generated Go client uses.
type Client struct {
	tclient thrift.TClient
	seqID   int32
}

// NewClient wraps a transport pair already negotiated onto a single
// TProtocol (compact or binary; the Hive Metastore speaks binary).
func NewClient(iprot, oprot thrift.TProtocol) *Client {
	return &Client{tclient: thrift.NewTStandardClient(iprot, oprot)}
}

func (c *Client) nextSeqID() int32 {
	c.seqID++
	return c.seqID
}

// --- get_table -------------------------------------------------------

type getTableArgs struct {
	Dbname  string
	TblName string
}

func (a *getTableArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "get_table_args"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "dbname", 1, a.Dbname); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "tbl_name", 2, a.TblName); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (a *getTableArgs) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "get_table_args", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			return readStringInto(ctx, iprot, fieldTypeID, &a.Dbname)
		case 2:
			return readStringInto(ctx, iprot, fieldTypeID, &a.TblName)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

type getTableResult struct {
	Success *Table
	O1      *NoSuchObjectException
	O2      *MetaException
}

func (r *getTableResult) Write(ctx context.Context, oprot thrift.TProtocol) error { return nil }

func (r *getTableResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "get_table_result", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 0:
			if fieldTypeID != thrift.STRUCT {
				return iprot.Skip(ctx, fieldTypeID)
			}
			r.Success = &Table{}
			return r.Success.Read(ctx, iprot)
		case 1:
			if fieldTypeID != thrift.STRUCT {
				return iprot.Skip(ctx, fieldTypeID)
			}
			r.O1 = &NoSuchObjectException{}
			return r.O1.Read(ctx, iprot)
		case 2:
			if fieldTypeID != thrift.STRUCT {
				return iprot.Skip(ctx, fieldTypeID)
			}
			r.O2 = &MetaException{}
			return r.O2.Read(ctx, iprot)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// GetTable returns the named table, or (nil, *NoSuchObjectException) if
// it does not exist.
func (c *Client) GetTable(ctx context.Context, dbname, tblName string) (*Table, error) {
	args := &getTableArgs{Dbname: dbname, TblName: tblName}
	result := &getTableResult{}
	if _, err := c.tclient.Call(ctx, "get_table", args, result); err != nil {
		return nil, err
	}
	if result.O1 != nil {
		return nil, result.O1
	}
	if result.O2 != nil {
		return nil, result.O2
	}
	return result.Success, nil
}

// --- create_table -----------------------------------------------------

type createTableArgs struct {
	Tbl *Table
}

func (a *createTableArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "create_table_args"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "tbl", thrift.STRUCT, 1); err != nil {
		return err
	}
	if err := a.Tbl.Write(ctx, oprot); err != nil {
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

func (a *createTableArgs) Read(ctx context.Context, iprot thrift.TProtocol) error { return nil }

type createTableResult struct {
	O1 *AlreadyExistsException
	O2 *InvalidObjectException
	O3 *MetaException
}

func (r *createTableResult) Write(ctx context.Context, oprot thrift.TProtocol) error { return nil }

func (r *createTableResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "create_table_result", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			r.O1 = &AlreadyExistsException{}
			return r.O1.Read(ctx, iprot)
		case 2:
			r.O2 = &InvalidObjectException{}
			return r.O2.Read(ctx, iprot)
		case 3:
			r.O3 = &MetaException{}
			return r.O3.Read(ctx, iprot)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// CreateTable creates tbl on the Metastore.
func (c *Client) CreateTable(ctx context.Context, tbl *Table) error {
	result := &createTableResult{}
	if _, err := c.tclient.Call(ctx, "create_table", &createTableArgs{Tbl: tbl}, result); err != nil {
		return err
	}
	if result.O1 != nil {
		return result.O1
	}
	if result.O2 != nil {
		return result.O2
	}
	if result.O3 != nil {
		return result.O3
	}
	return nil
}

// --- drop_table --------------------------------------------------------

type dropTableArgs struct {
	Dbname     string
	Name       string
	DeleteData bool
}

func (a *dropTableArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "drop_table_args"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "dbname", 1, a.Dbname); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "name", 2, a.Name); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "deleteData", thrift.BOOL, 3); err != nil {
		return err
	}
	if err := oprot.WriteBool(ctx, a.DeleteData); err != nil {
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

func (a *dropTableArgs) Read(ctx context.Context, iprot thrift.TProtocol) error { return nil }

type dropTableResult struct {
	O1 *NoSuchObjectException
	O3 *MetaException
}

func (r *dropTableResult) Write(ctx context.Context, oprot thrift.TProtocol) error { return nil }

func (r *dropTableResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "drop_table_result", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			r.O1 = &NoSuchObjectException{}
			return r.O1.Read(ctx, iprot)
		case 3:
			r.O3 = &MetaException{}
			return r.O3.Read(ctx, iprot)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// DropTable drops the named table. deleteData mirrors the Metastore's
// own flag for whether the underlying data is removed too; this system
// always passes false: its tables are external, and deleting their data
// is not part of reconciliation.
func (c *Client) DropTable(ctx context.Context, dbname, name string, deleteData bool) error {
	result := &dropTableResult{}
	args := &dropTableArgs{Dbname: dbname, Name: name, DeleteData: deleteData}
	if _, err := c.tclient.Call(ctx, "drop_table", args, result); err != nil {
		return err
	}
	if result.O1 != nil {
		return result.O1
	}
	if result.O3 != nil {
		return result.O3
	}
	return nil
}

// --- alter_table --------------------------------------------------------

type alterTableArgs struct {
	Dbname  string
	TblName string
	NewTbl  *Table
}

func (a *alterTableArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "alter_table_args"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "dbname", 1, a.Dbname); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "tbl_name", 2, a.TblName); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "new_tbl", thrift.STRUCT, 3); err != nil {
		return err
	}
	if err := a.NewTbl.Write(ctx, oprot); err != nil {
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

func (a *alterTableArgs) Read(ctx context.Context, iprot thrift.TProtocol) error { return nil }

type alterTableResult struct {
	O1 *InvalidOperationException
	O2 *MetaException
}

func (r *alterTableResult) Write(ctx context.Context, oprot thrift.TProtocol) error { return nil }

func (r *alterTableResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "alter_table_result", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 1:
			r.O1 = &InvalidOperationException{}
			return r.O1.Read(ctx, iprot)
		case 2:
			r.O2 = &MetaException{}
			return r.O2.Read(ctx, iprot)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// AlterTable replaces dbname.tblName's definition with newTbl.
func (c *Client) AlterTable(ctx context.Context, dbname, tblName string, newTbl *Table) error {
	result := &alterTableResult{}
	args := &alterTableArgs{Dbname: dbname, TblName: tblName, NewTbl: newTbl}
	if _, err := c.tclient.Call(ctx, "alter_table", args, result); err != nil {
		return err
	}
	if result.O1 != nil {
		return result.O1
	}
	if result.O2 != nil {
		return result.O2
	}
	return nil
}

// --- get_partition_names -------------------------------------------------

type getPartitionNamesArgs struct {
	DbName   string
	TblName  string
	MaxParts int16
}

func (a *getPartitionNamesArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "get_partition_names_args"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "db_name", 1, a.DbName); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "tbl_name", 2, a.TblName); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "max_parts", thrift.I16, 3); err != nil {
		return err
	}
	if err := oprot.WriteI16(ctx, a.MaxParts); err != nil {
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

func (a *getPartitionNamesArgs) Read(ctx context.Context, iprot thrift.TProtocol) error { return nil }

type getPartitionNamesResult struct {
	Success []string
	O2      *NoSuchObjectException
}

func (r *getPartitionNamesResult) Write(ctx context.Context, oprot thrift.TProtocol) error { return nil }

func (r *getPartitionNamesResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "get_partition_names_result", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 0:
			if fieldTypeID != thrift.LIST {
				return iprot.Skip(ctx, fieldTypeID)
			}
			_, size, err := iprot.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			r.Success = make([]string, 0, size)
			for i := 0; i < size; i++ {
				v, err := iprot.ReadString(ctx)
				if err != nil {
					return err
				}
				r.Success = append(r.Success, v)
			}
			return iprot.ReadListEnd(ctx)
		case 2:
			r.O2 = &NoSuchObjectException{}
			return r.O2.Read(ctx, iprot)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// GetPartitionNames lists every partition name (the "k=v/..." path
// segment) of dbName.tblName, up to maxParts (a negative value means
// unlimited, matching the Metastore's own convention).
func (c *Client) GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error) {
	result := &getPartitionNamesResult{}
	args := &getPartitionNamesArgs{DbName: dbName, TblName: tblName, MaxParts: maxParts}
	if _, err := c.tclient.Call(ctx, "get_partition_names", args, result); err != nil {
		return nil, err
	}
	if result.O2 != nil {
		return nil, result.O2
	}
	return result.Success, nil
}

// --- get_partitions_by_names ---------------------------------------------

type getPartitionsByNamesArgs struct {
	DbName  string
	TblName string
	Names   []string
}

func (a *getPartitionsByNamesArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "get_partitions_by_names_args"); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "db_name", 1, a.DbName); err != nil {
		return err
	}
	if err := writeStringField(ctx, oprot, "tbl_name", 2, a.TblName); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "names", thrift.LIST, 3); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(ctx, thrift.STRING, len(a.Names)); err != nil {
		return err
	}
	for _, n := range a.Names {
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

func (a *getPartitionsByNamesArgs) Read(ctx context.Context, iprot thrift.TProtocol) error { return nil }

type getPartitionsByNamesResult struct {
	Success []*Partition
	O1      *NoSuchObjectException
	O2      *MetaException
}

func (r *getPartitionsByNamesResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return nil
}

func (r *getPartitionsByNamesResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "get_partitions_by_names_result", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 0:
			if fieldTypeID != thrift.LIST {
				return iprot.Skip(ctx, fieldTypeID)
			}
			_, size, err := iprot.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			r.Success = make([]*Partition, 0, size)
			for i := 0; i < size; i++ {
				p := &Partition{}
				if err := p.Read(ctx, iprot); err != nil {
					return err
				}
				r.Success = append(r.Success, p)
			}
			return iprot.ReadListEnd(ctx)
		case 1:
			r.O1 = &NoSuchObjectException{}
			return r.O1.Read(ctx, iprot)
		case 2:
			r.O2 = &MetaException{}
			return r.O2.Read(ctx, iprot)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// GetPartitionsByNames fetches the full partition records for the given
// partition names, in one round trip.
func (c *Client) GetPartitionsByNames(ctx context.Context, dbName, tblName string, names []string) ([]*Partition, error) {
	result := &getPartitionsByNamesResult{}
	args := &getPartitionsByNamesArgs{DbName: dbName, TblName: tblName, Names: names}
	if _, err := c.tclient.Call(ctx, "get_partitions_by_names", args, result); err != nil {
		return nil, err
	}
	if result.O1 != nil {
		return nil, result.O1
	}
	if result.O2 != nil {
		return nil, result.O2
	}
	return result.Success, nil
}

// --- add_partitions ----------------------------------------------------

type addPartitionsArgs struct {
	NewParts []*Partition
}

func (a *addPartitionsArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "add_partitions_args"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "new_parts", thrift.LIST, 1); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(ctx, thrift.STRUCT, len(a.NewParts)); err != nil {
		return err
	}
	for _, p := range a.NewParts {
		if err := p.Write(ctx, oprot); err != nil {
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

func (a *addPartitionsArgs) Read(ctx context.Context, iprot thrift.TProtocol) error { return nil }

type addPartitionsResult struct {
	Success *int32
	O1      *InvalidObjectException
	O2      *AlreadyExistsException
	O3      *MetaException
}

func (r *addPartitionsResult) Write(ctx context.Context, oprot thrift.TProtocol) error { return nil }

func (r *addPartitionsResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "add_partitions_result", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 0:
			if fieldTypeID != thrift.I32 {
				return iprot.Skip(ctx, fieldTypeID)
			}
			v, err := iprot.ReadI32(ctx)
			if err != nil {
				return err
			}
			r.Success = &v
			return nil
		case 1:
			r.O1 = &InvalidObjectException{}
			return r.O1.Read(ctx, iprot)
		case 2:
			r.O2 = &AlreadyExistsException{}
			return r.O2.Read(ctx, iprot)
		case 3:
			r.O3 = &MetaException{}
			return r.O3.Read(ctx, iprot)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// AddPartitions registers newParts in one call, returning the count
// created. Callers chunk the slice themselves (pkg/catalog/hive batches
// at 100, per spec.md §4.9).
func (c *Client) AddPartitions(ctx context.Context, newParts []*Partition) (int32, error) {
	result := &addPartitionsResult{}
	if _, err := c.tclient.Call(ctx, "add_partitions", &addPartitionsArgs{NewParts: newParts}, result); err != nil {
		return 0, err
	}
	if result.O1 != nil {
		return 0, result.O1
	}
	if result.O2 != nil {
		return 0, result.O2
	}
	if result.O3 != nil {
		return 0, result.O3
	}
	if result.Success != nil {
		return *result.Success, nil
	}
	return 0, nil
}

// --- drop_partitions_req ------------------------------------------------

type dropPartitionsReqArgs struct {
	Req *DropPartitionsRequest
}

func (a *dropPartitionsReqArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "drop_partitions_req_args"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "req", thrift.STRUCT, 1); err != nil {
		return err
	}
	if err := a.Req.Write(ctx, oprot); err != nil {
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

func (a *dropPartitionsReqArgs) Read(ctx context.Context, iprot thrift.TProtocol) error { return nil }

type dropPartitionsReqResult struct {
	Success *DropPartitionsResult
	O1      *NoSuchObjectException
	O2      *MetaException
}

func (r *dropPartitionsReqResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return nil
}

func (r *dropPartitionsReqResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, "drop_partitions_req_result", func(fieldID int16, fieldTypeID thrift.TType) error {
		switch fieldID {
		case 0:
			if fieldTypeID != thrift.STRUCT {
				return iprot.Skip(ctx, fieldTypeID)
			}
			r.Success = &DropPartitionsResult{}
			return r.Success.Read(ctx, iprot)
		case 1:
			r.O1 = &NoSuchObjectException{}
			return r.O1.Read(ctx, iprot)
		case 2:
			r.O2 = &MetaException{}
			return r.O2.Read(ctx, iprot)
		default:
			return iprot.Skip(ctx, fieldTypeID)
		}
	})
}

// DropPartitionsReq drops every partition named in req.Parts.Names in
// one call, the batch-drop half of the Hive back-end's update-partitions
// rewrite (the other half is AddPartitions), done atomically server-side
// unlike the Glue back-end's two sequential calls.
func (c *Client) DropPartitionsReq(ctx context.Context, req *DropPartitionsRequest) (*DropPartitionsResult, error) {
	result := &dropPartitionsReqResult{}
	if _, err := c.tclient.Call(ctx, "drop_partitions_req", &dropPartitionsReqArgs{Req: req}, result); err != nil {
		return nil, err
	}
	if result.O1 != nil {
		return nil, result.O1
	}
	if result.O2 != nil {
		return nil, result.O2
	}
	return result.Success, nil
}
