package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	apperr "videoverse/pkg/errors"

	"github.com/google/uuid"
)

// Store owns the on-disk layout of video files: stable paths for uploads,
// uniquely named output paths for derived artifacts and per-invocation
// temporary manifests under <root>/tmp.
type Store struct {
	root string
}

// StoredUpload describes an upload placed under the managed root.
type StoredUpload struct {
	Filename  string
	Path      string // relative to the root, persisted in metadata
	AbsPath   string
	SizeBytes int64
}

func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0755); err != nil {
		return nil, fmt.Errorf("creating storage directories: %w", err)
	}
	return &Store{root: abs}, nil
}

func (s *Store) Root() string { return s.root }

// SaveUpload copies the multipart file into the root under a uuid-prefixed
// sanitized name so concurrent uploads of the same filename never collide.
func (s *Store) SaveUpload(file *multipart.FileHeader) (*StoredUpload, error) {
	name := fmt.Sprintf("%s-%s", uuid.NewString(), sanitizeFilename(file.Filename))
	abs := filepath.Join(s.root, name)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(abs)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredUpload{
		Filename:  name,
		Path:      name,
		AbsPath:   abs,
		SizeBytes: written,
	}, nil
}

// AllocateOutputPath returns a relative filename for a derived artifact that
// does not exist under the root at call time. The random component keeps
// concurrent trims and merges from ever sharing an output path.
func (s *Store) AllocateOutputPath(kind string) (string, error) {
	var prefix string
	switch kind {
	case "trim":
		prefix = "trimmed"
	case "merge":
		prefix = "merged"
	default:
		return "", fmt.Errorf("unknown artifact kind: %s", kind)
	}

	for {
		name := fmt.Sprintf("%s-%s.mp4", prefix, uuid.NewString())
		if _, err := os.Stat(filepath.Join(s.root, name)); os.IsNotExist(err) {
			return name, nil
		}
	}
}

// AllocateManifestPath returns an absolute path for a concat manifest,
// unique per invocation.
func (s *Store) AllocateManifestPath() (string, error) {
	for {
		abs := filepath.Join(s.root, "tmp", fmt.Sprintf("concat-%s.txt", uuid.NewString()))
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			return abs, nil
		}
	}
}

// Resolve turns a stored relative path into an absolute one, rejecting any
// path that would escape the managed root.
func (s *Store) Resolve(storedPath string) (string, error) {
	if storedPath == "" {
		return "", apperr.InvalidPath(storedPath)
	}
	abs := filepath.Clean(filepath.Join(s.root, storedPath))
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", apperr.InvalidPath(storedPath)
	}
	return abs, nil
}

// Discard removes an artifact, ignoring errors. Used for best-effort cleanup
// after failed operations.
func (s *Store) Discard(absPath string) {
	if absPath != "" {
		os.Remove(absPath)
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
