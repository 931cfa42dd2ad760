package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StoredFile is the opaque handle returned after a successful write.
type StoredFile struct {
	Name string // generated file name on disk
	URL  string // public path the API serves the file under
	Size int64
}

// Store persists an uploaded file and returns its handle.
type Store interface {
	Save(originalName string, r io.Reader) (*StoredFile, error)
}

// LocalStore writes uploads to a directory on local disk. File names are
// random so uploads can never collide or overwrite each other, with the
// original extension kept for content-type sniffing.
type LocalStore struct {
	dir       string
	publicURL string
}

func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *LocalStore) Save(originalName string, r io.Reader) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", name, err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return &StoredFile{Name: name, URL: s.publicURL + "/" + name, Size: size}, nil
}

// Dir exposes the backing directory so the router can mount a static route.
func (s *LocalStore) Dir() string {
	return s.dir
}
