package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/wagiedev/codex-proto-go/internal/config"
	"github.com/wagiedev/codex-proto-go/internal/errors"
)

const (
	// BinaryName is the executable name searched for in PATH.
	BinaryName = "codex"

	// VersionCheckTimeout is the timeout for the codex version probe.
	VersionCheckTimeout = 2 * time.Second
)

// Config holds configuration for codex discovery.
type Config struct {
	// ExtraPaths are checked after PATH and before the built-in common locations.
	ExtraPaths []string

	// Logger is an optional logger for discovery operations.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// discoverer implements config.Discoverer by searching the filesystem.
type discoverer struct {
	cfg    *Config
	log    *slog.Logger
	common func() []string
}

// Compile-time verification that discoverer implements config.Discoverer.
var _ config.Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new codex discoverer with the given configuration.
func NewDiscoverer(cfg *Config) config.Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &discoverer{
		cfg:    cfg,
		log:    log.With("component", "discovery"),
		common: commonPaths,
	}
}

// Discover locates the codex binary.
func (d *discoverer) Discover(_ context.Context) (string, error) {
	d.log.Debug("Searching for codex in PATH")

	if path, err := exec.LookPath(BinaryName); err == nil {
		d.log.Debug("Found codex in PATH", "path", path)

		return path, nil
	}

	searched := []string{"$PATH"}

	for _, path := range d.candidates() {
		searched = append(searched, path)

		if isExecutable(path) {
			d.log.Debug("Found codex at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("codex not found in any searched paths", "searched_paths", searched)

	return "", &errors.DiscoveryError{SearchedPaths: searched}
}

// candidates lists the non-PATH locations to probe, in order.
func (d *discoverer) candidates() []string {
	paths := make([]string, 0, len(d.cfg.ExtraPaths)+8)
	paths = append(paths, d.cfg.ExtraPaths...)

	if d.common != nil {
		paths = append(paths, d.common()...)
	}

	return paths
}

// commonPaths lists the usual codex installation locations.
func commonPaths() []string {
	paths := []string{
		"/usr/local/bin/codex",
		"/opt/homebrew/bin/codex",
		"/usr/bin/codex",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".local", "bin", BinaryName),
			filepath.Join(home, ".npm-global", "bin", BinaryName),
			filepath.Join(home, ".bun", "bin", BinaryName),
			filepath.Join(home, ".cargo", "bin", BinaryName),
		)
	}

	return paths
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	return info.Mode().Perm()&0o111 != 0
}

// Version runs `<codexPath> -V` and returns its trimmed stdout.
//
// A non-zero exit is reported as a ProcessError carrying the trimmed stderr.
func Version(ctx context.Context, codexPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, VersionCheckTimeout)
	defer cancel()

	//nolint:gosec // G204: the codex path is configuration, not user input
	cmd := exec.CommandContext(ctx, codexPath, "-V")

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
			return "", &errors.ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      err,
			}
		}

		return "", &errors.SpawnError{Path: codexPath, Err: err}
	}

	return strings.TrimSpace(stdout.String()), nil
}
