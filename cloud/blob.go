/*
Copyright © 2017 the recons authors.
This file is part of recons.

recons is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

recons is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with recons.  If not, see <http://www.gnu.org/licenses/>.
*/

package cloud

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
)

// BucketWriter writes job files to a blob storage bucket. It implements
// recons.Writer.
type BucketWriter struct {
	Bucket *blob.Bucket
}

// NewBucketWriter opens the bucket at bucketURL for writing job files.
// The writer must be closed when it is no longer needed.
func NewBucketWriter(ctx context.Context, bucketURL string) (*BucketWriter, error) {
	b, err := OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &BucketWriter{Bucket: b}, nil
}

// WriteJob writes body to the key file, replacing any existing blob.
func (w *BucketWriter) WriteJob(ctx context.Context, file string, body []byte) error {
	opts := &blob.WriterOptions{ContentType: "text/x-shellscript"}
	if err := w.Bucket.WriteAll(ctx, file, body, opts); err != nil {
		return fmt.Errorf("cloud: writing job file %s: %w", file, err)
	}
	return nil
}

// Close closes the underlying bucket.
func (w *BucketWriter) Close() error {
	return w.Bucket.Close()
}
