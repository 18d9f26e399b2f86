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

// Package cloud writes job files to blob storage.
package cloud

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob" // gs:// buckets
	_ "gocloud.dev/blob/memblob" // mem:// buckets
	_ "gocloud.dev/blob/s3blob"  // s3:// buckets
)

var blobSchemes = []string{"file://", "mem://", "gs://", "s3://"}

// IsBlob returns whether path refers to a blob storage location rather
// than a local directory.
func IsBlob(path string) bool {
	for _, s := range blobSchemes {
		if strings.HasPrefix(path, s) {
			return true
		}
	}
	return false
}

// OpenBucket returns the blob storage bucket specified by bucketURL,
// where bucketURL must be in the format 'provider://name/dir'.
// The currently accepted storage providers are "file" for the local
// filesystem, "mem" for in-memory storage (for testing), "gs" for Google
// Cloud Storage, and "s3" for AWS S3. For file buckets the whole path is the
// bucket directory, which is created if it doesn't exist; for the other
// providers any path after the bucket name is used as a key prefix.
func OpenBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("cloud: parsing bucket URL: %v", err)
	}
	switch u.Scheme {
	case "file":
		dir, err := filepath.Abs(filepath.FromSlash(u.Host + u.Path))
		if err != nil {
			return nil, fmt.Errorf("cloud: bucket directory: %v", err)
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("cloud: creating bucket directory: %v", err)
		}
		// Job files are plain scripts, so no attribute sidecar files.
		b, err := fileblob.OpenBucket(dir, &fileblob.Options{Metadata: fileblob.MetadataDontWrite})
		if err != nil {
			return nil, fmt.Errorf("cloud: opening bucket %s: %v", dir, err)
		}
		return b, nil
	case "mem", "gs", "s3":
		b, err := openBucket(ctx, u.Scheme+"://"+u.Host)
		if err != nil {
			return nil, err
		}
		if prefix := strings.Trim(u.Path, "/"); prefix != "" {
			return blob.PrefixedBucket(b, prefix+"/"), nil
		}
		return b, nil
	default:
		return nil, fmt.Errorf("cloud: invalid provider %q", u.Scheme)
	}
}

func openBucket(ctx context.Context, urlstr string) (*blob.Bucket, error) {
	b, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, fmt.Errorf("cloud: opening bucket %s: %v", urlstr, err)
	}
	return b, nil
}
