package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mrkuros/scenebucket/internal/config"
)

// s3Backend talks to AWS S3 through the v2 SDK. A non-empty endpoint URL on
// the connection switches the client to path-style addressing so the same
// backend works against S3-compatible servers.
type s3Backend struct {
	client *s3.Client
	bucket string
}

func newS3Backend(ctx context.Context, conn config.Connection) (Backend, error) {
	region := conn.RegionName
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(conn.AccessKey, conn.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conn.EndpointURL != "" {
			o.BaseEndpoint = aws.String(conn.EndpointURL)
			o.UsePathStyle = true
		}
	})
	return &s3Backend{client: client, bucket: conn.BucketName}, nil
}

func (b *s3Backend) List(ctx context.Context) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", b.bucket, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

func (b *s3Backend) Upload(ctx context.Context, localPath, key string) error {
	key = NormalizeKey(key)
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("upload %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(detectContentType(localPath)),
	})
	if err != nil {
		return fmt.Errorf("upload %s as %s: %w", localPath, key, err)
	}
	return nil
}

func (b *s3Backend) Download(ctx context.Context, key, destDir string) (string, error) {
	key = NormalizeKey(key)
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	localPath := filepath.Join(destDir, path.Base(key))
	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, out.Body); err != nil {
		_ = os.Remove(localPath)
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	return localPath, nil
}

func (b *s3Backend) Delete(ctx context.Context, key string) error {
	key = NormalizeKey(key)
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
