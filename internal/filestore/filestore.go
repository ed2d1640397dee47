package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"fieldbook/internal/fileutil"
)

// Phase identifies which owned directory a stored image belongs to.
type Phase string

const (
	PhaseBefore  Phase = "before"
	PhaseDuring  Phase = "during"
	PhaseAfter   Phase = "after"
	PhaseTesting Phase = "testing"
)

// Phases lists every phase in its fixed report order.
var Phases = []Phase{PhaseBefore, PhaseDuring, PhaseAfter, PhaseTesting}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseBefore, PhaseDuring, PhaseAfter, PhaseTesting:
		return true
	}
	return false
}

// ErrSourceNotFound indicates a candidate image path no longer exists on disk.
var ErrSourceNotFound = errors.New("source image not found")

// Store manages physical copies of accepted images under per-phase
// directories rooted at a single images directory.
type Store struct {
	root   string
	logger *slog.Logger
}

// New constructs a file store rooted at root. The logger may be nil.
func New(root string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{root: root, logger: logger.With("component", "filestore")}
}

// Root returns the images root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the owned directory for a phase.
func (s *Store) Dir(phase Phase) string {
	return filepath.Join(s.root, string(phase))
}

// Owns reports whether path sits inside the owned directory for phase.
func (s *Store) Owns(path string, phase Phase) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return false
	}
	dir := s.Dir(phase)
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Resolve turns a candidate source path into a path the store owns,
// performing at most one copy.
//
// An empty source resolves to "" without touching the filesystem. A source
// already inside the phase directory is reused unchanged. Anything else is
// copied into the phase directory under a collision-proof name; a missing
// source fails with ErrSourceNotFound.
func (s *Store) Resolve(source string, phase Phase) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}
	if !phase.Valid() {
		return "", fmt.Errorf("resolve: unknown phase %q", phase)
	}

	abs, err := filepath.Abs(filepath.Clean(source))
	if err != nil {
		return "", fmt.Errorf("resolve %s image: %w", phase, err)
	}

	if s.Owns(abs, phase) {
		return abs, nil
	}

	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("resolve %s image %s: %w", phase, abs, ErrSourceNotFound)
		}
		return "", fmt.Errorf("resolve %s image %s: %w", phase, abs, err)
	}

	dir := s.Dir(phase)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s directory: %w", phase, err)
	}

	dst := filepath.Join(dir, uniqueName(filepath.Base(abs)))
	if err := fileutil.CopyFileVerified(abs, dst); err != nil {
		return "", fmt.Errorf("copy %s image %s: %w", phase, abs, err)
	}

	s.logger.Debug("image copied in", "phase", string(phase), "source", abs, "stored", dst)
	return dst, nil
}

// Release deletes an owned file. Already-missing files and empty paths are
// benign; removed reports whether a file was actually deleted.
func (s *Store) Release(path string) (removed bool, err error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("release skipped, file already absent", "path", path)
			return false, nil
		}
		return false, fmt.Errorf("release %s: %w", path, err)
	}
	s.logger.Debug("image released", "path", path)
	return true, nil
}

// uniqueName keeps the original stem and extension while inserting a short
// unique suffix so repeated uploads of the same filename never collide.
func uniqueName(base string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "image"
	}
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return stem + "_" + suffix + ext
}
