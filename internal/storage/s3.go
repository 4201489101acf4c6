package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by the backend. *s3.Client
// satisfies it directly; tests substitute a fake.
type S3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Backend serves range reads and uploads against one S3-compatible bucket
// (AWS S3, MinIO, etc.).
type S3Backend struct {
	client S3API
	bucket string
}

var _ RemoteStorage = (*S3Backend)(nil)

type S3Options struct {
	Client S3API
	Bucket string
}

func NewS3Backend(opts S3Options) *S3Backend {
	return &S3Backend{client: opts.Client, bucket: opts.Bucket}
}

func (b *S3Backend) Kind() BackendKind { return BackendS3 }

func (b *S3Backend) Stat(ctx context.Context, key string) (int64, string, error) {
	head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, "", mapS3Error(err, key)
	}
	return aws.ToInt64(head.ContentLength), aws.ToString(head.ContentType), nil
}

func (b *S3Backend) Open(ctx context.Context, key string, rng *ByteRange) (io.ReadCloser, int64, string, error) {
	size, contentType, err := b.Stat(ctx, key)
	if err != nil {
		return nil, 0, "", err
	}

	in := &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}
	if rng != nil {
		clamped, err := clampRange(rng, size)
		if err != nil {
			return nil, 0, "", err
		}
		in.Range = aws.String(fmt.Sprintf("bytes=%d-%d", clamped.Start, clamped.End))
	}

	resp, err := b.client.GetObject(ctx, in)
	if err != nil {
		return nil, 0, "", mapS3Error(err, key)
	}
	return resp.Body, size, contentType, nil
}

func (b *S3Backend) Upload(ctx context.Context, in UploadInput) (ObjectRef, error) {
	key := in.Folder + "/" + in.Name
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(in.Data),
		ContentLength: aws.Int64(int64(len(in.Data))),
		ContentType:   aws.String(in.ContentType),
	})
	if err != nil {
		return ObjectRef{}, fmt.Errorf("%w: put %s: %v", ErrBackendUnavailable, key, err)
	}
	return ObjectRef{
		Backend:     BackendS3,
		Key:         key,
		URL:         b.publicURL(key),
		Size:        int64(len(in.Data)),
		ContentType: in.ContentType,
	}, nil
}

func (b *S3Backend) List(ctx context.Context, folder string) ([]ObjectInfo, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"
	resp, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, mapS3Error(err, prefix)
	}
	out := make([]ObjectInfo, 0, len(resp.Contents))
	for _, obj := range resp.Contents {
		name := aws.ToString(obj.Key)
		out = append(out, ObjectInfo{
			Name: name,
			Size: aws.ToInt64(obj.Size),
			URL:  b.publicURL(name),
		})
	}
	return out, nil
}

func (b *S3Backend) Delete(ctx context.Context, identifier string) error {
	// S3 deletes are idempotent, so probe first to honor not-found.
	if _, _, err := b.Stat(ctx, identifier); err != nil {
		return err
	}
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(identifier),
	})
	if err != nil {
		return mapS3Error(err, identifier)
	}
	return nil
}

func (b *S3Backend) publicURL(key string) string {
	return "https://" + b.bucket + ".s3.amazonaws.com/" + key
}

func mapS3Error(err error, key string) error {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return fmt.Errorf("%w: s3 %s: %v", ErrBackendUnavailable, key, err)
}
