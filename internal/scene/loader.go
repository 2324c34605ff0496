// Package scene stages downloaded mesh files for import into the active
// scene. The actual import is performed by the host tool; this package only
// recognizes supported formats, downloads the object, and hands the staged
// path to whatever Importer is configured.
package scene

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrkuros/scenebucket/internal/storage"
)

// ErrUnsupportedFormat is returned for keys whose extension no importer
// understands.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// supportedExtensions are the mesh formats the host tool can import.
var supportedExtensions = map[string]struct{}{
	".stl":  {},
	".obj":  {},
	".ply":  {},
	".usd":  {},
	".usda": {},
	".usdc": {},
}

// Supported reports whether the key's extension is an importable mesh
// format. The check is case-insensitive.
func Supported(key string) bool {
	_, ok := supportedExtensions[strings.ToLower(path.Ext(key))]
	return ok
}

// Importer receives the staged local path of a downloaded mesh.
type Importer interface {
	Import(ctx context.Context, localPath string) error
}

// ImporterFunc adapts a function to the Importer interface.
type ImporterFunc func(ctx context.Context, localPath string) error

func (f ImporterFunc) Import(ctx context.Context, localPath string) error {
	return f(ctx, localPath)
}

// NopImporter stages the file and does nothing else; the host tool watches
// the staging directory and performs the import itself.
func NopImporter() Importer {
	return ImporterFunc(func(context.Context, string) error { return nil })
}

// CommandImporter runs command with the staged path appended, for hosts
// that expose their import operator as a CLI.
func CommandImporter(command string, args ...string) Importer {
	return ImporterFunc(func(ctx context.Context, localPath string) error {
		cmd := exec.CommandContext(ctx, command, append(append([]string{}, args...), localPath)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("import command: %w: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	})
}

// Loader downloads supported meshes into the staging directory and invokes
// the importer.
type Loader struct {
	stagingDir string
	importer   Importer
	log        zerolog.Logger
}

// NewLoader builds a Loader. A nil importer means stage-only.
func NewLoader(stagingDir string, importer Importer, log zerolog.Logger) *Loader {
	if importer == nil {
		importer = NopImporter()
	}
	return &Loader{stagingDir: stagingDir, importer: importer, log: log}
}

// Load rejects unsupported formats before any download happens, then
// downloads the object and hands the staged path to the importer. It
// returns the staged local path.
func (l *Loader) Load(ctx context.Context, backend storage.Backend, key string) (string, error) {
	if !Supported(key) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path.Ext(key))
	}
	localPath, err := backend.Download(ctx, key, l.stagingDir)
	if err != nil {
		return "", err
	}
	if err := l.importer.Import(ctx, localPath); err != nil {
		return "", err
	}
	l.log.Info().Str("key", key).Str("path", localPath).Msg("staged mesh for import")
	return localPath, nil
}
