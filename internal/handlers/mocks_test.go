package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrkuros/scenebucket/internal/config"
	"github.com/mrkuros/scenebucket/internal/storage"
)

// MockBackend implements storage.Backend for testing
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var keys []string
	if v := args.Get(0); v != nil {
		keys = v.([]string)
	}
	return keys, args.Error(1)
}

func (m *MockBackend) Upload(ctx context.Context, localPath, key string) error {
	args := m.Called(ctx, localPath, key)
	return args.Error(0)
}

func (m *MockBackend) Download(ctx context.Context, key, destDir string) (string, error) {
	args := m.Called(ctx, key, destDir)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// stubFactory hands out a fixed backend regardless of connection
type stubFactory struct {
	backend storage.Backend
	err     error
}

func (f stubFactory) Backend(ctx context.Context, conn config.Connection) (storage.Backend, error) {
	return f.backend, f.err
}

// newTestStore returns a store with one active minio connection.
func newTestStore(t *testing.T) *config.Store {
	t.Helper()
	store, err := config.Load(filepath.Join(t.TempDir(), "scenebucket.yaml"))
	require.NoError(t, err)
	require.NoError(t, store.Add(config.Connection{
		Name:        "local",
		CloudType:   config.CloudMinio,
		EndpointURL: "http://127.0.0.1:9000",
		AccessKey:   "minioadmin",
		SecretKey:   "minioadmin",
		BucketName:  "assets",
	}))
	return store
}

// newEmptyStore returns a store with no connections at all.
func newEmptyStore(t *testing.T) *config.Store {
	t.Helper()
	store, err := config.Load(filepath.Join(t.TempDir(), "scenebucket.yaml"))
	require.NoError(t, err)
	return store
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
