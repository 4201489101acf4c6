package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidvault/internal/auth"
	"vidvault/internal/config"
	"vidvault/internal/db"
	"vidvault/internal/httpapi"
	"vidvault/internal/service"
	"vidvault/internal/storage"
	"vidvault/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	backends, err := buildBackends(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage backends: %v", err)
	}
	resolver := storage.NewResolver(cfg.GCSBucket, cfg.S3Bucket, storage.BackendKind(cfg.StorageBackend))

	st := store.New(pool)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	svc, err := service.New(st, backends, resolver, tokens, service.Options{
		UploadBackend:  storage.BackendKind(cfg.StorageBackend),
		UploadFolder:   cfg.UploadFolder,
		MaxUploadBytes: cfg.MaxUploadBytes,
		BackendTimeout: cfg.BackendTimeout,
	})
	if err != nil {
		log.Fatalf("init service: %v", err)
	}

	authn := auth.NewAuthenticator(tokens)

	api := httpapi.New(cfg, svc, authn)
	echoServer := api.NewEcho()

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      echoServer,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Printf("listening on %s (upload backend: %s)", cfg.ListenAddr, cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
		os.Exit(1)
	}
}

// buildBackends constructs every configured provider once; the same
// instances serve all requests for the life of the process.
func buildBackends(ctx context.Context, cfg config.Config) (map[storage.BackendKind]storage.RemoteStorage, error) {
	backends := make(map[storage.BackendKind]storage.RemoteStorage)

	if cfg.GCSBucket != "" {
		gcsBackend, err := storage.NewGCSBackend(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, err
		}
		backends[storage.BackendGCS] = gcsBackend
		log.Printf("gcs backend ready (bucket: %s)", cfg.GCSBucket)
	}

	if cfg.S3Bucket != "" {
		client, err := buildS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		backends[storage.BackendS3] = storage.NewS3Backend(storage.S3Options{
			Client: client,
			Bucket: cfg.S3Bucket,
		})
		log.Printf("s3 backend ready (bucket: %s)", cfg.S3Bucket)
	}

	return backends, nil
}

func buildS3Client(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
