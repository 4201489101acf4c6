package config

import (
	"reflect"
	"testing"
	"time"
)

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "multi delimiters and dedupe",
			raw:  " https://a.example ; https://b.example,\nhttps://a.example ",
			want: []string{"https://a.example", "https://b.example"},
		},
		{
			name: "single value",
			raw:  "https://single.example",
			want: []string{"https://single.example"},
		},
		{
			name: "empty",
			raw:  " , ; \n ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseList(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parseList() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "media")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173;http://example.com")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("JWT_TTL", "24h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GCSBucket != "media" {
		t.Fatalf("GCSBucket = %q, want media", cfg.GCSBucket)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Fatalf("MaxUploadBytes = %d, want 1048576", cfg.MaxUploadBytes)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL = %v, want 24h", cfg.JWTTTL)
	}
	wantOrigins := []string{"http://localhost:5173", "http://example.com"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, wantOrigins) {
		t.Fatalf("CORSAllowedOrigins = %#v, want %#v", cfg.CORSAllowedOrigins, wantOrigins)
	}
	if cfg.HTTPWriteTimeout != 0 {
		t.Fatalf("HTTPWriteTimeout = %v, want 0", cfg.HTTPWriteTimeout)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing jwt secret",
			env: map[string]string{
				"STORAGE_BACKEND": "gcs",
				"GCS_BUCKET":      "media",
			},
		},
		{
			name: "unknown backend",
			env: map[string]string{
				"JWT_SECRET":      "secret",
				"STORAGE_BACKEND": "ftp",
			},
		},
		{
			name: "s3 backend without bucket",
			env: map[string]string{
				"JWT_SECRET":      "secret",
				"STORAGE_BACKEND": "s3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("Load() should fail")
			}
		})
	}
}
