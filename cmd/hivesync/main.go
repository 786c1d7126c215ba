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

// Command hivesync reconciles the Hive-compatible catalog (AWS Glue by
// default, or a Thrift Hive Metastore given --hive) against the
// Parquet dataset found at <src>, per spec.md §6.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsglue "github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/docopt/docopt-go"
	"github.com/go-kit/log/level"

	"github.com/hivesync/hivesync/internal/logging"
	"github.com/hivesync/hivesync/pkg/catalog"
	"github.com/hivesync/hivesync/pkg/catalog/glue"
	"github.com/hivesync/hivesync/pkg/catalog/hive"
	"github.com/hivesync/hivesync/pkg/common/config"
	"github.com/hivesync/hivesync/pkg/common/utils"
	"github.com/hivesync/hivesync/pkg/objectstore"
	"github.com/hivesync/hivesync/pkg/pathutil"
	"github.com/hivesync/hivesync/pkg/reconcile"
)

const usage = `hivesync reconciles a Hive-compatible catalog against a Parquet dataset.

Usage:
  hivesync <src> [--version=<vn>] [--alias=<name>] [--discover] [--hive=<hostport>] [--database=<name>]
  hivesync -h | --help

Options:
  -h --help              Show this screen.
  --version=<vn>         Pin the dataset version (e.g. v3); default is the latest.
  --alias=<name>         Override the table-name stem; default is the dataset name.
  --discover             Treat <src> as a directory of dataset roots, not one dataset.
  --hive=<hostport>      Target a Thrift Hive Metastore at host[:port] instead of AWS Glue.
  --database=<name>      Target catalog database [default: telemetry].
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hivesync:", err)
		os.Exit(1)
	}
}

func run() error {
	arguments, err := docopt.ParseDoc(usage)
	if err != nil {
		return fmt.Errorf("parsing arguments: %w", err)
	}

	src, _ := arguments.String("<src>")
	version, _ := arguments.String("--version")
	alias, _ := arguments.String("--alias")
	discover, _ := arguments.Bool("--discover")
	hiveAddr, _ := arguments.String("--hive")
	database, _ := arguments.String("--database")

	utils.LoadEnv()
	cfg := config.Default()
	if database != "" {
		cfg.Database = database
	}
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bucket, _ := pathutil.SplitS3(src)
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	store, err := objectstore.NewS3Bucket(logger, bucket, region, os.Getenv("AWS_ENDPOINT"))
	if err != nil {
		return fmt.Errorf("connecting to object storage: %w", err)
	}
	lister := objectstore.NewLister(store, logger)

	cat, closeCatalog, err := openCatalog(ctx, hiveAddr, cfg)
	if err != nil {
		return fmt.Errorf("connecting to catalog: %w", err)
	}
	defer closeCatalog()

	r := reconcile.New(cat, lister, lister, logger)
	req := reconcile.Request{Root: src, Version: version, Alias: alias, Database: cfg.Database}

	if discover {
		err = r.RunDiscover(ctx, req)
	} else {
		err = r.Run(ctx, req)
	}
	if err != nil {
		level.Error(logger).Log("msg", "reconciliation failed", "err", err)
		return err
	}
	level.Info(logger).Log("msg", "reconciliation complete")
	return nil
}

// openCatalog selects the Glue or Hive back-end per --hive, returning a
// no-op closer for Glue (a stateless HTTP client) and the Thrift
// connection's Close for Hive.
func openCatalog(ctx context.Context, hiveAddr string, cfg config.Config) (catalog.Catalog, func() error, error) {
	if hiveAddr == "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client := awsglue.NewFromConfig(awsCfg)
		return glue.New(client), func() error { return nil }, nil
	}

	host, portStr, ok := strings.Cut(hiveAddr, ":")
	port := cfg.Hive.Port
	if ok {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing --hive port from %q: %w", hiveAddr, err)
		}
		port = p
	}
	cat, err := hive.Dial(ctx, host, port)
	if err != nil {
		return nil, nil, fmt.Errorf("dialing hive metastore at %s:%d: %w", host, port, err)
	}
	return cat, cat.Close, nil
}
