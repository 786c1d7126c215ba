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

package objectstore

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/thanos-io/objstore"
	"github.com/thanos-io/objstore/providers/s3"
	"gopkg.in/yaml.v3"
)

// NewS3Bucket builds the objstore.Bucket this system reads every
// dataset through, backed by the same thanos-io/objstore/providers/s3
// client the teacher's wider Arrow/Iceberg stack depends on
// (integrations/iceberg/iceberg.go takes an objstore.Bucket as a
// constructor argument; this is the one place hivesync actually builds
// one). The access key and secret are read from the process environment
// (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY) and passed to the provider
// config, the same environment pkg/common/utils.LoadEnv populates from a
// local .env file.
func NewS3Bucket(logger log.Logger, bucket, region, endpoint string) (objstore.Bucket, error) {
	cfg := s3.Config{
		Bucket:    bucket,
		Endpoint:  endpoint,
		Region:    region,
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("objectstore: marshaling s3 config: %w", err)
	}

	bkt, err := s3.NewBucket(logger, raw, "hivesync", nil)
	if err != nil {
		return nil, fmt.Errorf("objectstore: building s3 bucket %s: %w", bucket, err)
	}
	return bkt, nil
}
