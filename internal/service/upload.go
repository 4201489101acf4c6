package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"vidvault/internal/storage"
)

// allowedMimeTypes is the upload allow-list. application/octet-stream is
// tolerated because browsers sometimes fail to detect a video container.
var allowedMimeTypes = map[string]bool{
	"video/mp4":                true,
	"video/webm":               true,
	"video/ogg":                true,
	"video/quicktime":          true,
	"video/x-msvideo":          true,
	"video/x-matroska":         true,
	"video/mpeg":               true,
	"application/octet-stream": true,
}

// MimeAllowed reports whether an upload content type is acceptable.
func MimeAllowed(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return allowedMimeTypes[mimeType] || strings.HasPrefix(mimeType, "video/")
}

// UniqueName derives a collision-resistant destination name from the
// original filename: base + upload timestamp + extension. The backend is not
// probed for an existing object; millisecond granularity is treated as
// sufficient.
func UniqueName(originalName string, now time.Time) string {
	ext := path.Ext(originalName)
	base := strings.TrimSuffix(path.Base(originalName), ext)
	return fmt.Sprintf("%s_%d%s", base, now.UnixMilli(), ext)
}

// UploadFile is one buffered multipart file.
type UploadFile struct {
	OriginalName string
	MimeType     string
	Data         []byte
}

// UploadResult describes one finished (or failed) upload.
type UploadResult struct {
	OriginalName string
	FileName     string
	URL          string
	Identifier   string
	Size         int64
	Err          error
}

// Upload pushes one file to the configured upload backend and returns the
// reference the catalog stores.
func (s *Service) Upload(ctx context.Context, file UploadFile, folder string) (UploadResult, error) {
	if len(file.Data) == 0 {
		return UploadResult{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if int64(len(file.Data)) > s.opts.MaxUploadBytes {
		return UploadResult{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.opts.MaxUploadBytes)
	}
	if !MimeAllowed(file.MimeType) {
		return UploadResult{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, file.MimeType)
	}
	if folder == "" {
		folder = s.opts.UploadFolder
	}

	uploadCtx, cancel := s.controlCtx(ctx)
	defer cancel()
	ref, err := s.uploadBackend().Upload(uploadCtx, storage.UploadInput{
		Folder:      folder,
		Name:        UniqueName(file.OriginalName, time.Now()),
		ContentType: file.MimeType,
		Data:        file.Data,
	})
	if err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		OriginalName: file.OriginalName,
		FileName:     ref.Key,
		URL:          ref.URL,
		Identifier:   ref.Key,
		Size:         ref.Size,
	}, nil
}

// UploadMany processes each file independently: one rejected or failed file
// is recorded in its slot without aborting the rest. Results keep the input
// order.
func (s *Service) UploadMany(ctx context.Context, files []UploadFile, folder string) ([]UploadResult, int) {
	results := make([]UploadResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.UploadConcurrency)
	for i, file := range files {
		g.Go(func() error {
			res, err := s.Upload(gctx, file, folder)
			if err != nil {
				results[i] = UploadResult{OriginalName: file.OriginalName, Err: err}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in results

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	return results, succeeded
}

// ListUploads lists one folder of the upload backend, non-recursive.
func (s *Service) ListUploads(ctx context.Context, folder string) ([]storage.ObjectInfo, error) {
	if folder == "" {
		folder = s.opts.UploadFolder
	}
	listCtx, cancel := s.controlCtx(ctx)
	defer cancel()
	return s.uploadBackend().List(listCtx, folder)
}

// DeleteUpload removes an object by the upload backend's native identifier.
func (s *Service) DeleteUpload(ctx context.Context, identifier string) error {
	if strings.TrimSpace(identifier) == "" {
		return fmt.Errorf("%w: identifier required", ErrInvalidInput)
	}
	delCtx, cancel := s.controlCtx(ctx)
	defer cancel()
	err := s.uploadBackend().Delete(delCtx, identifier)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, identifier)
	}
	return err
}
