package storage

import (
	"errors"
	"testing"
)

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	r := NewResolver("media-gcs", "media-s3", BackendGCS)

	tests := []struct {
		name        string
		locator     string
		wantBackend BackendKind
		wantKey     string
		wantErr     bool
	}{
		{
			name:        "gcs public url",
			locator:     "https://storage.googleapis.com/media-gcs/videos/clip.mp4",
			wantBackend: BackendGCS,
			wantKey:     "videos/clip.mp4",
		},
		{
			name:        "s3 virtual hosted url",
			locator:     "https://media-s3.s3.us-east-1.amazonaws.com/videos/clip.mp4",
			wantBackend: BackendS3,
			wantKey:     "videos/clip.mp4",
		},
		{
			name:        "s3 path style url",
			locator:     "https://s3.us-east-1.amazonaws.com/media-s3/videos/clip.mp4",
			wantBackend: BackendS3,
			wantKey:     "videos/clip.mp4",
		},
		{
			name:        "bare key goes to default backend",
			locator:     "videos/clip.mp4",
			wantBackend: BackendGCS,
			wantKey:     "videos/clip.mp4",
		},
		{
			name:    "empty",
			locator: "   ",
			wantErr: true,
		},
		{
			name:    "absolute path is not a key",
			locator: "/videos/clip.mp4",
			wantErr: true,
		},
		{
			name:    "gcs bucket mismatch",
			locator: "https://storage.googleapis.com/other-bucket/videos/clip.mp4",
			wantErr: true,
		},
		{
			name:    "s3 bucket mismatch",
			locator: "https://other.s3.us-east-1.amazonaws.com/videos/clip.mp4",
			wantErr: true,
		},
		{
			name:    "unknown host",
			locator: "https://cdn.example.com/videos/clip.mp4",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			locator: "ftp://storage.googleapis.com/media-gcs/videos/clip.mp4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ref, err := r.Resolve(tt.locator)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLocator) {
					t.Fatalf("Resolve(%q) error = %v, want ErrInvalidLocator", tt.locator, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.locator, err)
			}
			if ref.Backend != tt.wantBackend || ref.Key != tt.wantKey {
				t.Fatalf("Resolve(%q) = %+v, want backend %s key %s", tt.locator, ref, tt.wantBackend, tt.wantKey)
			}
		})
	}
}

func TestResolverIsDeterministic(t *testing.T) {
	t.Parallel()

	r := NewResolver("media-gcs", "media-s3", BackendS3)
	const locator = "https://storage.googleapis.com/media-gcs/videos/a.mp4"

	first, err := r.Resolve(locator)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(locator)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("resolving the same locator twice differed: %+v vs %+v", first, second)
	}
}

func TestResolverWithoutDefaultRejectsBareKeys(t *testing.T) {
	t.Parallel()

	r := NewResolver("media-gcs", "media-s3", "")
	if _, err := r.Resolve("videos/clip.mp4"); !errors.Is(err, ErrInvalidLocator) {
		t.Fatalf("error = %v, want ErrInvalidLocator", err)
	}
}
