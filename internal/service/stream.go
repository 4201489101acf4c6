package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"vidvault/internal/storage"
)

// StreamSession is the ephemeral state of one streaming request: the
// resolved object, its true size, and the backend that will serve the bytes.
// A session never outlives the HTTP exchange that created it and is never
// reused or pooled.
type StreamSession struct {
	Ref         storage.ObjectRef
	Size        int64
	ContentType string

	backend storage.RemoteStorage
}

// OpenStream resolves an opaque locator and fetches the object's metadata.
// The returned session reports the total size before any bytes are read, so
// the caller can translate a Range header against it.
func (s *Service) OpenStream(ctx context.Context, locator string) (*StreamSession, error) {
	ref, err := s.resolver.Resolve(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	be, err := s.backend(ref.Backend)
	if err != nil {
		return nil, err
	}

	statCtx, cancel := s.controlCtx(ctx)
	defer cancel()
	size, contentType, err := be.Stat(statCtx, ref.Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref.Key)
		}
		return nil, err
	}

	return &StreamSession{
		Ref:         ref,
		Size:        size,
		ContentType: contentType,
		backend:     be,
	}, nil
}

// Open starts the backend read for the session, at rng when non-nil. The
// caller owns closing the reader; closing it releases the backend
// connection.
func (sess *StreamSession) Open(ctx context.Context, rng *storage.ByteRange) (io.ReadCloser, error) {
	r, _, _, err := sess.backend.Open(ctx, sess.Ref.Key, rng)
	return r, err
}
