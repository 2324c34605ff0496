package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrkuros/scenebucket/internal/config"
)

// Factory builds a Backend for a connection. Handlers hold a Factory, not a
// concrete client, so tests can substitute a mock.
type Factory interface {
	Backend(ctx context.Context, conn config.Connection) (Backend, error)
}

// SDKFactory constructs a fresh SDK client on every call, so credential
// edits on a connection take effect immediately.
type SDKFactory struct{}

func (SDKFactory) Backend(ctx context.Context, conn config.Connection) (Backend, error) {
	switch conn.CloudType {
	case config.CloudMinio:
		return newMinioBackend(conn)
	case config.CloudS3:
		return newS3Backend(ctx, conn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCloudType, conn.CloudType)
	}
}

// CachingFactory reuses one backend per connection until any client-relevant
// field of the connection changes.
type CachingFactory struct {
	inner Factory

	mu    sync.Mutex
	cache map[string]cachedBackend
}

type cachedBackend struct {
	fingerprint string
	backend     Backend
}

// NewCachingFactory wraps inner with per-connection reuse.
func NewCachingFactory(inner Factory) *CachingFactory {
	return &CachingFactory{inner: inner, cache: make(map[string]cachedBackend)}
}

func (f *CachingFactory) Backend(ctx context.Context, conn config.Connection) (Backend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cache[conn.Name]; ok && c.fingerprint == conn.Fingerprint() {
		return c.backend, nil
	}
	backend, err := f.inner.Backend(ctx, conn)
	if err != nil {
		return nil, err
	}
	f.cache[conn.Name] = cachedBackend{fingerprint: conn.Fingerprint(), backend: backend}
	return backend, nil
}

// NewFactory returns the factory matching the reuse setting: reuse picks up
// the original behavior of rebuilding per call when false.
func NewFactory(reuseClients bool) Factory {
	if reuseClients {
		return NewCachingFactory(SDKFactory{})
	}
	return SDKFactory{}
}
