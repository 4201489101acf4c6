package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidLocator is returned when a stored locator matches no known
// backend addressing scheme.
var ErrInvalidLocator = errors.New("invalid locator")

// Resolver turns opaque persisted locators into backend object references.
// A locator is whatever was stored alongside a video record: a GCS public
// URL, an S3 URL (virtual-hosted or path style), or a bare bucket-relative
// key written by the configured default backend. Resolution is pure parsing,
// no network I/O.
type Resolver struct {
	gcsBucket   string
	s3Bucket    string
	defaultKind BackendKind
}

func NewResolver(gcsBucket, s3Bucket string, defaultKind BackendKind) *Resolver {
	return &Resolver{
		gcsBucket:   gcsBucket,
		s3Bucket:    s3Bucket,
		defaultKind: defaultKind,
	}
}

// Resolve parses locator into an ObjectRef. Resolving the same locator twice
// yields the same ref.
func (r *Resolver) Resolve(locator string) (ObjectRef, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return ObjectRef{}, fmt.Errorf("%w: empty", ErrInvalidLocator)
	}

	if !strings.Contains(locator, "://") {
		// Bare bucket-relative key, written by the default backend.
		if strings.HasPrefix(locator, "/") || r.defaultKind == "" {
			return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
		}
		return ObjectRef{Backend: r.defaultKind, Key: locator, URL: locator}, nil
	}

	u, err := url.Parse(locator)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return ObjectRef{}, fmt.Errorf("%w: scheme %q", ErrInvalidLocator, u.Scheme)
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimPrefix(u.Path, "/")

	switch {
	case host == "storage.googleapis.com":
		// https://storage.googleapis.com/<bucket>/<key>
		bucket, key, ok := splitBucketKey(path)
		if !ok || (r.gcsBucket != "" && bucket != r.gcsBucket) {
			return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
		}
		return ObjectRef{Backend: BackendGCS, Key: key, URL: locator}, nil

	case strings.HasSuffix(host, ".amazonaws.com") && strings.Contains(host, ".s3"):
		// Virtual-hosted style: https://<bucket>.s3.<region>.amazonaws.com/<key>
		bucket := host[:strings.Index(host, ".s3")]
		if bucket == "" || path == "" {
			return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
		}
		if r.s3Bucket != "" && bucket != r.s3Bucket {
			return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
		}
		return ObjectRef{Backend: BackendS3, Key: path, URL: locator}, nil

	case strings.HasPrefix(host, "s3.") && strings.HasSuffix(host, ".amazonaws.com"):
		// Path style: https://s3.<region>.amazonaws.com/<bucket>/<key>
		bucket, key, ok := splitBucketKey(path)
		if !ok || (r.s3Bucket != "" && bucket != r.s3Bucket) {
			return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
		}
		return ObjectRef{Backend: BackendS3, Key: key, URL: locator}, nil
	}

	return ObjectRef{}, fmt.Errorf("%w: unknown host %q", ErrInvalidLocator, u.Host)
}

func splitBucketKey(path string) (bucket, key string, ok bool) {
	idx := strings.IndexByte(path, '/')
	if idx <= 0 || idx == len(path)-1 {
		return "", "", false
	}
	return path[:idx], path[idx+1:], true
}
