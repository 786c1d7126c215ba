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

// Package reconcile drives one dataset's catalog state to match what the
// DatasetScanner found on object storage: the table create/recreate/
// update/leave-alone decision tree and the streaming partition diff,
// both unchanged in meaning from spec.md §4.9. It is the one package
// that calls both pkg/dataset and pkg/catalog.
package reconcile

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/hivesync/hivesync/pkg/catalog"
	"github.com/hivesync/hivesync/pkg/dataset"
	"github.com/hivesync/hivesync/pkg/parquetmeta"
	"github.com/hivesync/hivesync/pkg/pathutil"
)

// differentFlushSize is the fixed threshold at which the "different"
// (column-drifted) partition set is flushed via UpdatePartitions,
// regardless of which catalog back-end is in play (spec.md §4.9 step 5:
// "Whenever |different| == 100, flush"). It is distinct from
// Catalog.AddBatchSize/UpdateBatchSize, which report the back-end's own
// per-RPC batching rule for the separate add-batch step.
const differentFlushSize = 100

// Lister is the object-storage capability Reconciler needs for discover
// mode: the dataset-root enumeration DatasetScanner.GetDatasets exposes.
type Lister = dataset.Lister

// Reconciler drives a single catalog back-end to match what the scanner
// finds at a dataset root, per spec.md §4.9.
type Reconciler struct {
	cat     catalog.Catalog
	lister  Lister
	fetcher parquetmeta.RangeFetcher
	logger  log.Logger
}

// New builds a Reconciler against cat (the target catalog back-end),
// lister/fetcher (the scanner's object-storage capabilities) and logger
// (nil defaults to a no-op logger, matching pkg/objectstore.NewLister).
func New(cat catalog.Catalog, lister Lister, fetcher parquetmeta.RangeFetcher, logger log.Logger) *Reconciler {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Reconciler{cat: cat, lister: lister, fetcher: fetcher, logger: logger}
}

// Request is one reconciliation invocation's parameters, corresponding
// to the CLI's positional/flag arguments (spec.md §6).
type Request struct {
	// Root is the dataset (or, in discover mode, datasets-directory)
	// location, e.g. "s3://bucket/prefix/dataset/".
	Root string
	// Version pins the version ("vN"); empty means "latest".
	Version string
	// Alias overrides the table-name stem; empty means use the
	// dataset's own name.
	Alias string
	// Database is the target Hive/Glue database name.
	Database string
}

// Run executes one reconciliation against Root (spec.md §4.9 steps
// 1-5). It returns nil when there was nothing to do (no versions, no
// usable dataset) — those are logged, not treated as failures.
func (r *Reconciler) Run(ctx context.Context, req Request) error {
	runID := uuid.NewString()
	logger := log.With(r.logger, "run_id", runID, "root", req.Root)

	location, err := r.resolveLocation(ctx, req.Root, req.Version)
	if err != nil {
		return fmt.Errorf("reconcile: resolving version under %s: %w", req.Root, err)
	}
	if location == "" {
		level.Info(logger).Log("msg", "no versions found, nothing to do")
		return nil
	}

	ds, err := dataset.Get(ctx, r.lister, r.fetcher, location)
	if err != nil {
		return fmt.Errorf("reconcile: reading dataset at %s: %w", location, err)
	}
	if ds == nil {
		level.Info(logger).Log("msg", "no usable dataset at location, skipping", "location", location)
		return nil
	}
	logger = log.With(logger, "dataset", ds.Name, "version", ds.Version)

	for _, name := range tableNames(*ds, req.Alias, req.Version != "") {
		if err := r.reconcileTable(ctx, log.With(logger, "table", name), req.Database, name, *ds); err != nil {
			return fmt.Errorf("reconcile: table %s: %w", name, err)
		}
	}
	return nil
}

// RunDiscover implements discover mode: enumerate every dataset root
// under req.Root via DatasetScanner.GetDatasets and reconcile each with
// no pinned version (spec.md §4.9's "Discover mode").
func (r *Reconciler) RunDiscover(ctx context.Context, req Request) error {
	for root, err := range dataset.GetDatasets(ctx, r.lister, req.Root) {
		if err != nil {
			return fmt.Errorf("reconcile: discovering datasets under %s: %w", req.Root, err)
		}
		sub := req
		sub.Root = root
		sub.Version = ""
		if err := r.Run(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// resolveLocation returns the version-pinned dataset location, or ""
// when no version could be resolved (root has no "vN/" subdirectories).
func (r *Reconciler) resolveLocation(ctx context.Context, root, version string) (string, error) {
	root = pathutil.EnsureTrailingSlash(root)
	if version != "" {
		return root + version + "/", nil
	}

	var latest string
	for location, err := range dataset.GetVersions(ctx, r.lister, root) {
		if err != nil {
			return "", err
		}
		if location > latest {
			latest = location
		}
	}
	return latest, nil
}

// tableNames computes the target table name(s) per spec.md §4.9 step 3:
// always the versioned name, plus the floating unversioned alias when
// the caller did not pin an explicit version.
func tableNames(ds catalog.Dataset, alias string, pinned bool) []string {
	stem := alias
	if stem == "" {
		stem = ds.Name
	}
	stem = pathutil.Underscore(stem)

	names := []string{stem + "_" + ds.Version}
	if !pinned {
		names = append(names, stem)
	}
	return names
}

// reconcileTable runs the decision tree (spec.md §4.9 step 4) and then
// the partition diff (step 5) for one target table name.
func (r *Reconciler) reconcileTable(ctx context.Context, logger log.Logger, database, name string, ds catalog.Dataset) error {
	existing, err := r.cat.GetTable(ctx, database, name)
	if err != nil {
		return fmt.Errorf("get table: %w", err)
	}

	table, err := r.applyDecision(ctx, logger, database, name, ds, existing)
	if err != nil {
		return err
	}

	return r.reconcilePartitions(ctx, logger, table, ds)
}

// applyDecision implements the create/recreate/update/leave-alone table
// of spec.md §4.9 step 4 and returns the table to reconcile partitions
// against afterward.
func (r *Reconciler) applyDecision(ctx context.Context, logger log.Logger, database, name string, ds catalog.Dataset, existing *catalog.Table) (*catalog.Table, error) {
	switch {
	case existing == nil:
		level.Info(logger).Log("msg", "creating table")
		return r.cat.CreateTable(ctx, database, name, ds.Columns, ds.Location, ds.PartitionKeys)

	case existing.Location != ds.Location:
		level.Info(logger).Log("msg", "location changed, recreating table", "old_location", existing.Location, "new_location", ds.Location)
		if err := r.cat.DropTable(ctx, database, name); err != nil {
			return nil, fmt.Errorf("drop table: %w", err)
		}
		return r.cat.CreateTable(ctx, database, name, ds.Columns, ds.Location, ds.PartitionKeys)

	case !catalog.ColumnSetEqual(existing.Columns, ds.Columns):
		level.Info(logger).Log("msg", "columns changed, updating table")
		return r.cat.UpdateTable(ctx, database, name, ds.Columns, ds.Location, ds.PartitionKeys)

	default:
		level.Debug(logger).Log("msg", "table unchanged, leaving as-is")
		return existing, nil
	}
}

// reconcilePartitions implements the single streaming pass of spec.md
// §4.9 step 5.
func (r *Reconciler) reconcilePartitions(ctx context.Context, logger log.Logger, table *catalog.Table, ds catalog.Dataset) error {
	if table == nil {
		return fmt.Errorf("reconcilePartitions: nil table")
	}

	missing := make(map[string]catalog.Partition, len(ds.Partitions))
	for _, p := range ds.Partitions {
		missing[p.Key()] = p
	}

	var different []catalog.Partition
	flush := func() error {
		if len(different) == 0 {
			return nil
		}
		if err := r.cat.UpdatePartitions(ctx, table, different); err != nil {
			return fmt.Errorf("update partitions: %w", err)
		}
		level.Info(logger).Log("msg", "flushed drifted partitions", "count", len(different))
		different = different[:0]
		return nil
	}

	for cp, err := range r.cat.ListPartitions(ctx, table) {
		if err != nil {
			return fmt.Errorf("list partitions: %w", err)
		}
		delete(missing, cp.Key())

		if !catalog.ColumnSetEqual(cp.Columns, ds.Columns) {
			different = append(different, cp.WithColumns(ds.Columns))
			if len(different) == differentFlushSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if len(missing) == 0 {
		return nil
	}
	toAdd := make([]catalog.Partition, 0, len(missing))
	for _, p := range missing {
		toAdd = append(toAdd, p)
	}
	catalog.SortByLocation(toAdd)

	addBatchSize := r.cat.AddBatchSize()
	for batch := range pathutil.Chunks(toAdd, addBatchSize) {
		if err := r.cat.AddPartitions(ctx, table, batch); err != nil {
			return fmt.Errorf("add partitions: %w", err)
		}
	}
	level.Info(logger).Log("msg", "added missing partitions", "count", len(toAdd))
	return nil
}
