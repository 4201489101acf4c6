package service

import (
	"context"
	"fmt"
	"time"

	"vidvault/internal/auth"
	"vidvault/internal/storage"
	"vidvault/internal/store"
)

// Options tunes the service beyond its collaborators.
type Options struct {
	// UploadBackend selects which provider receives new uploads.
	UploadBackend storage.BackendKind
	// UploadFolder is the default destination folder.
	UploadFolder string
	// MaxUploadBytes caps one buffered upload.
	MaxUploadBytes int64
	// BackendTimeout bounds metadata and control-plane calls against a
	// provider. Stream bodies are deliberately not capped; long-lived
	// playback is expected.
	BackendTimeout time.Duration
	// UploadConcurrency bounds parallel files in a multi-file upload.
	UploadConcurrency int
}

// Service owns the catalog's business logic: video records, accounts, the
// upload pipeline, and the streaming proxy. Storage backends are injected
// once at construction and shared by every request.
type Service struct {
	store    *store.Store
	backends map[storage.BackendKind]storage.RemoteStorage
	resolver *storage.Resolver
	tokens   *auth.TokenManager
	opts     Options
}

func New(
	st *store.Store,
	backends map[storage.BackendKind]storage.RemoteStorage,
	resolver *storage.Resolver,
	tokens *auth.TokenManager,
	opts Options,
) (*Service, error) {
	if opts.UploadFolder == "" {
		opts.UploadFolder = "videos"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 500 * 1024 * 1024
	}
	if opts.BackendTimeout <= 0 {
		opts.BackendTimeout = 30 * time.Second
	}
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = 4
	}
	if _, ok := backends[opts.UploadBackend]; !ok {
		return nil, fmt.Errorf("upload backend %q is not configured", opts.UploadBackend)
	}
	return &Service{
		store:    st,
		backends: backends,
		resolver: resolver,
		tokens:   tokens,
		opts:     opts,
	}, nil
}

func (s *Service) backend(kind storage.BackendKind) (storage.RemoteStorage, error) {
	be, ok := s.backends[kind]
	if !ok {
		return nil, fmt.Errorf("%w: backend %q is not configured", ErrInvalidInput, kind)
	}
	return be, nil
}

func (s *Service) uploadBackend() storage.RemoteStorage {
	return s.backends[s.opts.UploadBackend]
}

// controlCtx bounds a control-plane call so an unreachable provider fails
// instead of hanging.
func (s *Service) controlCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.BackendTimeout)
}
