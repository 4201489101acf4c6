package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSAPI is the subset of the GCS client that the backend uses, scoped to a
// single bucket. It exists so tests can substitute a fake client.
type GCSAPI interface {
	// Attrs returns the metadata of the given object.
	Attrs(ctx context.Context, object string) (*GCSObjectAttrs, error)
	// NewRangeReader opens a read of length bytes starting at offset.
	// A negative length reads to the end of the object.
	NewRangeReader(ctx context.Context, object string, offset, length int64) (io.ReadCloser, error)
	// NewWriter opens a write of the given object.
	NewWriter(ctx context.Context, object, contentType string) io.WriteCloser
	// Delete removes the given object.
	Delete(ctx context.Context, object string) error
	// List returns the objects directly under prefix (delimiter "/").
	List(ctx context.Context, prefix string) ([]GCSObjectAttrs, error)
}

// GCSObjectAttrs holds the object metadata the backend needs.
type GCSObjectAttrs struct {
	Name        string
	Size        int64
	ContentType string
}

// realGCSClient adapts *gcs.Client to GCSAPI for one bucket.
type realGCSClient struct {
	bucket *gcs.BucketHandle
}

func (c *realGCSClient) Attrs(ctx context.Context, object string) (*GCSObjectAttrs, error) {
	attrs, err := c.bucket.Object(object).Attrs(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSObjectAttrs{Name: attrs.Name, Size: attrs.Size, ContentType: attrs.ContentType}, nil
}

func (c *realGCSClient) NewRangeReader(ctx context.Context, object string, offset, length int64) (io.ReadCloser, error) {
	return c.bucket.Object(object).NewRangeReader(ctx, offset, length)
}

func (c *realGCSClient) NewWriter(ctx context.Context, object, contentType string) io.WriteCloser {
	w := c.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

func (c *realGCSClient) Delete(ctx context.Context, object string) error {
	return c.bucket.Object(object).Delete(ctx)
}

func (c *realGCSClient) List(ctx context.Context, prefix string) ([]GCSObjectAttrs, error) {
	it := c.bucket.Objects(ctx, &gcs.Query{Prefix: prefix, Delimiter: "/"})
	var out []GCSObjectAttrs
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs.Name == "" {
			continue // synthetic prefix entry
		}
		out = append(out, GCSObjectAttrs{Name: attrs.Name, Size: attrs.Size, ContentType: attrs.ContentType})
	}
	return out, nil
}

// GCSBackend serves range reads and uploads against one Google Cloud
// Storage bucket.
type GCSBackend struct {
	bucket string
	client GCSAPI
}

var _ RemoteStorage = (*GCSBackend)(nil)

// NewGCSBackend builds a backend over the named bucket. Credentials resolve
// via Application Default Credentials. The bucket is probed once so a
// misconfigured deployment fails at startup instead of on first request.
func NewGCSBackend(ctx context.Context, bucket string) (*GCSBackend, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	handle := client.Bucket(bucket)
	if _, err := handle.Attrs(ctx); err != nil {
		return nil, fmt.Errorf("access GCS bucket %q: %w", bucket, err)
	}
	return &GCSBackend{bucket: bucket, client: &realGCSClient{bucket: handle}}, nil
}

// NewGCSBackendWithClient builds a backend over a pre-made client, used by
// tests with fakes.
func NewGCSBackendWithClient(bucket string, client GCSAPI) *GCSBackend {
	return &GCSBackend{bucket: bucket, client: client}
}

func (b *GCSBackend) Kind() BackendKind { return BackendGCS }

func (b *GCSBackend) Stat(ctx context.Context, key string) (int64, string, error) {
	attrs, err := b.client.Attrs(ctx, key)
	if err != nil {
		return 0, "", mapGCSError(err, key)
	}
	return attrs.Size, attrs.ContentType, nil
}

func (b *GCSBackend) Open(ctx context.Context, key string, rng *ByteRange) (io.ReadCloser, int64, string, error) {
	attrs, err := b.client.Attrs(ctx, key)
	if err != nil {
		return nil, 0, "", mapGCSError(err, key)
	}

	offset, length := int64(0), int64(-1)
	if rng != nil {
		clamped, err := clampRange(rng, attrs.Size)
		if err != nil {
			return nil, 0, "", err
		}
		offset, length = clamped.Start, clamped.Len()
	}

	r, err := b.client.NewRangeReader(ctx, key, offset, length)
	if err != nil {
		return nil, 0, "", mapGCSError(err, key)
	}
	return r, attrs.Size, attrs.ContentType, nil
}

func (b *GCSBackend) Upload(ctx context.Context, in UploadInput) (ObjectRef, error) {
	key := in.Folder + "/" + in.Name
	w := b.client.NewWriter(ctx, key, in.ContentType)
	if _, err := w.Write(in.Data); err != nil {
		_ = w.Close()
		return ObjectRef{}, fmt.Errorf("%w: write %s: %v", ErrBackendUnavailable, key, err)
	}
	if err := w.Close(); err != nil {
		return ObjectRef{}, fmt.Errorf("%w: finalize %s: %v", ErrBackendUnavailable, key, err)
	}
	return ObjectRef{
		Backend:     BackendGCS,
		Key:         key,
		URL:         b.publicURL(key),
		Size:        int64(len(in.Data)),
		ContentType: in.ContentType,
	}, nil
}

func (b *GCSBackend) List(ctx context.Context, folder string) ([]ObjectInfo, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"
	attrs, err := b.client.List(ctx, prefix)
	if err != nil {
		return nil, mapGCSError(err, prefix)
	}
	out := make([]ObjectInfo, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, ObjectInfo{Name: a.Name, Size: a.Size, URL: b.publicURL(a.Name)})
	}
	return out, nil
}

func (b *GCSBackend) Delete(ctx context.Context, identifier string) error {
	if err := b.client.Delete(ctx, identifier); err != nil {
		return mapGCSError(err, identifier)
	}
	return nil
}

func (b *GCSBackend) publicURL(key string) string {
	return "https://storage.googleapis.com/" + b.bucket + "/" + key
}

func mapGCSError(err error, key string) error {
	if errors.Is(err, gcs.ErrObjectNotExist) || errors.Is(err, gcs.ErrBucketNotExist) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return fmt.Errorf("%w: gcs %s: %v", ErrBackendUnavailable, key, err)
}
