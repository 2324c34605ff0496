// Package storage provides object-store backends behind one interface.
//
// Handlers depend only on Backend; the concrete SDK (minio-go or the AWS
// SDK) is chosen from the active connection's cloud type.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnknownCloudType is returned for cloud types no backend implements.
var ErrUnknownCloudType = errors.New("unknown cloud type")

// Backend is the narrow object-store surface the panel needs. The bucket is
// fixed by the connection the backend was built from.
type Backend interface {
	// List returns every object key in the bucket, recursively.
	List(ctx context.Context) ([]string, error)

	// Upload stores the file at localPath under key.
	Upload(ctx context.Context, localPath, key string) error

	// Download fetches key into destDir under the key's basename and
	// returns the local path.
	Download(ctx context.Context, key, destDir string) (string, error)

	// Delete removes key from the bucket.
	Delete(ctx context.Context, key string) error
}

// NormalizeKey rewrites OS path separators to the bucket's '/' delimiter.
func NormalizeKey(key string) string {
	return strings.ReplaceAll(key, "\\", "/")
}

// detectContentType sniffs the file's content type, falling back to the
// generic binary type when the file cannot be read.
func detectContentType(localPath string) string {
	mtype, err := mimetype.DetectFile(localPath)
	if err != nil {
		return "application/octet-stream"
	}
	return mtype.String()
}
