package storage

import (
	"context"
	"errors"
	"io"
)

// BackendKind identifies which remote provider holds an object.
type BackendKind string

const (
	BackendGCS BackendKind = "gcs"
	BackendS3  BackendKind = "s3"
)

var (
	// ErrObjectNotFound is returned when the remote object no longer exists.
	ErrObjectNotFound = errors.New("object not found")
	// ErrBackendUnavailable is returned on network or auth failures against
	// the provider.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	// ErrRangeNotSatisfiable is returned when a requested range starts at or
	// beyond the object size.
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
)

// ObjectRef identifies a stored object on a specific backend. Refs are
// immutable once produced by an upload or by the resolver.
type ObjectRef struct {
	Backend     BackendKind
	Key         string // bucket-relative key
	URL         string // public URL, when the backend has one
	Size        int64  // declared size, 0 when unknown
	ContentType string
}

// ByteRange is an inclusive byte window within an object.
type ByteRange struct {
	Start int64
	End   int64
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int64 { return r.End - r.Start + 1 }

// ObjectInfo describes one object in a folder listing.
type ObjectInfo struct {
	Name string
	Size int64
	URL  string
}

// UploadInput carries one buffered file destined for a backend write.
type UploadInput struct {
	Folder      string
	Name        string
	ContentType string
	Data        []byte
}

// RemoteStorage is the capability interface over one storage provider.
// Implementations must be safe for concurrent use; a single client is built
// at startup and shared across all requests.
type RemoteStorage interface {
	Kind() BackendKind

	// Stat reports the object's size and stored content type from metadata,
	// without reading any object data.
	Stat(ctx context.Context, key string) (size int64, contentType string, err error)

	// Open starts a read of the object. A nil rng reads the whole object.
	// A rng with End at or past the object size is clamped to the last byte;
	// a rng starting at or past the size fails with ErrRangeNotSatisfiable.
	// The returned size is the total object size, known before any bytes are
	// consumed. The caller owns closing the reader.
	Open(ctx context.Context, key string, rng *ByteRange) (r io.ReadCloser, size int64, contentType string, err error)

	// Upload writes in.Data under in.Folder/in.Name and returns a ref that
	// the streaming path can later resolve.
	Upload(ctx context.Context, in UploadInput) (ObjectRef, error)

	// List returns the objects directly under folder, non-recursive.
	List(ctx context.Context, folder string) ([]ObjectInfo, error)

	// Delete removes the object addressed by the backend's native
	// identifier. Fails with ErrObjectNotFound if it does not exist.
	Delete(ctx context.Context, identifier string) error
}

// clampRange bounds rng to [0, size-1]. Returns ErrRangeNotSatisfiable when
// the start lies at or beyond the object size.
func clampRange(rng *ByteRange, size int64) (ByteRange, error) {
	if rng.Start < 0 || rng.Start >= size {
		return ByteRange{}, ErrRangeNotSatisfiable
	}
	out := *rng
	if out.End >= size {
		out.End = size - 1
	}
	return out, nil
}
