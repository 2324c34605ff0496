package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mrkuros/scenebucket/internal/config"
)

// minioBackend talks to MinIO (or any S3-compatible server minio-go can
// reach) through object-level calls only.
type minioBackend struct {
	client *minio.Client
	bucket string
}

func newMinioBackend(conn config.Connection) (Backend, error) {
	endpoint, secure := splitEndpoint(conn.EndpointURL)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conn.AccessKey, conn.SecretKey, ""),
		Secure: secure,
		Region: conn.RegionName,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &minioBackend{client: client, bucket: conn.BucketName}, nil
}

// splitEndpoint strips the URL scheme minio.New does not accept and derives
// the TLS flag from it. Bare host:port defaults to TLS, matching hosted
// object stores.
func splitEndpoint(endpointURL string) (endpoint string, secure bool) {
	switch {
	case strings.HasPrefix(endpointURL, "https://"):
		return strings.TrimPrefix(endpointURL, "https://"), true
	case strings.HasPrefix(endpointURL, "http://"):
		return strings.TrimPrefix(endpointURL, "http://"), false
	default:
		return endpointURL, true
	}
}

func (b *minioBackend) List(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", b.bucket, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (b *minioBackend) Upload(ctx context.Context, localPath, key string) error {
	key = NormalizeKey(key)
	_, err := b.client.FPutObject(ctx, b.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: detectContentType(localPath),
	})
	if err != nil {
		return fmt.Errorf("upload %s as %s: %w", localPath, key, err)
	}
	return nil
}

func (b *minioBackend) Download(ctx context.Context, key, destDir string) (string, error) {
	key = NormalizeKey(key)
	localPath := filepath.Join(destDir, path.Base(key))
	if err := b.client.FGetObject(ctx, b.bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	return localPath, nil
}

func (b *minioBackend) Delete(ctx context.Context, key string) error {
	key = NormalizeKey(key)
	if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
