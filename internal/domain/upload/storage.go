package upload

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage persists file bytes under a key and returns the public URL.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// LocalStorage writes under baseDir; files are served at staticBase.
type LocalStorage struct {
	baseDir    string
	staticBase string
}

func NewLocalStorage(baseDir, staticBase string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir, staticBase: strings.TrimRight(staticBase, "/")}
}

func (s *LocalStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.staticBase + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

type MinioOptions struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PublicBase      string // e.g. https://cdn.example.com/worktide; defaults to the endpoint
}

// MinioStorage keeps files in an S3-compatible bucket.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStorage connects and makes sure the bucket exists.
func NewMinioStorage(ctx context.Context, opts MinioOptions) (*MinioStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, opts.Bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("minio bucket %s: %w", opts.Bucket, err)
		}
	} else {
		log.Printf("minio_bucket_created bucket=%s", opts.Bucket)
	}

	return &MinioStorage{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: minioPublicBase(opts),
	}, nil
}

func minioPublicBase(opts MinioOptions) string {
	if opts.PublicBase != "" {
		return strings.TrimRight(opts.PublicBase, "/")
	}
	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket)
}

func (s *MinioStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio put: %w", err)
	}
	return s.publicBase + "/" + info.Key, nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
