// Package config holds the connection registry and server settings.
//
// Connections are named records pointing at an S3-compatible bucket. Exactly
// one connection is active at a time; handlers resolve it through the Store
// rather than reading process-wide state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.yaml.in/yaml/v3"
)

// CloudType selects the storage SDK used for a connection.
type CloudType string

const (
	CloudMinio CloudType = "minio"
	CloudS3    CloudType = "s3"
)

// ErrNoActiveConnection is returned when no usable connection is selected.
var ErrNoActiveConnection = errors.New("no active connection configured")

// Connection describes one S3-compatible target bucket.
type Connection struct {
	Name        string    `yaml:"name"`
	CloudType   CloudType `yaml:"cloud_type"`
	EndpointURL string    `yaml:"endpoint_url"`
	AccessKey   string    `yaml:"access_key"`
	SecretKey   string    `yaml:"secret_key"`
	RegionName  string    `yaml:"region_name"`
	BucketName  string    `yaml:"bucket_name"`
}

// Validate checks the fields a backend cannot work without.
func (c Connection) Validate() error {
	if c.Name == "" {
		return errors.New("connection name is required")
	}
	if c.CloudType != CloudMinio && c.CloudType != CloudS3 {
		return fmt.Errorf("unknown cloud type %q", c.CloudType)
	}
	if c.BucketName == "" {
		return errors.New("bucket name is required")
	}
	if c.CloudType == CloudMinio && c.EndpointURL == "" {
		return errors.New("endpoint URL is required for minio connections")
	}
	return nil
}

// Fingerprint identifies the client-relevant fields of a connection. Cached
// SDK clients are rebuilt whenever the fingerprint changes.
func (c Connection) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s", c.CloudType, c.EndpointURL, c.AccessKey, c.SecretKey, c.RegionName, c.BucketName)
}

// Config is the on-disk file shape.
type Config struct {
	ListenAddr   string       `yaml:"listen_addr"`
	StagingDir   string       `yaml:"staging_dir"`
	ReuseClients bool         `yaml:"reuse_clients"`
	LogLevel     string       `yaml:"log_level"`
	Active       int          `yaml:"active"`
	Connections  []Connection `yaml:"connections"`
}

// Default returns the config used when no file exists yet.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		StagingDir: os.TempDir(),
		LogLevel:   "info",
		Active:     0,
	}
}

// Store wraps a Config with concurrency-safe access and persistence.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. The file is created on first Save.
func Load(path string) (*Store, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// First run, defaults apply.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.StagingDir == "" {
		cfg.StagingDir = os.TempDir()
	}
	return &Store{path: path, cfg: cfg}, nil
}

// Settings returns a copy of the non-connection settings.
func (s *Store) Settings() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cfg
	cfg.Connections = nil
	return cfg
}

// Connections returns a copy of the connection list.
func (s *Store) Connections() []Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Connection, len(s.cfg.Connections))
	copy(out, s.cfg.Connections)
	return out
}

// Active returns the currently selected connection.
func (s *Store) Active() (Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.cfg.Connections) == 0 || s.cfg.Active < 0 || s.cfg.Active >= len(s.cfg.Connections) {
		return Connection{}, ErrNoActiveConnection
	}
	return s.cfg.Connections[s.cfg.Active], nil
}

// Add appends a new named connection and persists.
func (s *Store) Add(conn Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(conn.Name) >= 0 {
		return fmt.Errorf("connection %q already exists", conn.Name)
	}
	s.cfg.Connections = append(s.cfg.Connections, conn)
	return s.save()
}

// Update replaces the connection called name and persists.
func (s *Store) Update(name string, conn Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("connection %q not found", name)
	}
	if conn.Name != name && s.indexOf(conn.Name) >= 0 {
		return fmt.Errorf("connection %q already exists", conn.Name)
	}
	s.cfg.Connections[i] = conn
	return s.save()
}

// Remove deletes the connection called name and persists. The active index
// is clamped so it never points past the end of the list.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("connection %q not found", name)
	}
	s.cfg.Connections = append(s.cfg.Connections[:i], s.cfg.Connections[i+1:]...)
	if s.cfg.Active >= len(s.cfg.Connections) {
		s.cfg.Active = len(s.cfg.Connections) - 1
	}
	if s.cfg.Active < 0 {
		s.cfg.Active = 0
	}
	return s.save()
}

// Activate selects the connection called name and persists. Unknown names
// leave the current selection untouched.
func (s *Store) Activate(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("connection %q not found", name)
	}
	s.cfg.Active = i
	return s.save()
}

func (s *Store) indexOf(name string) int {
	for i, c := range s.cfg.Connections {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// save writes the file; callers hold the lock.
func (s *Store) save() error {
	data, err := yaml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}
