package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	ErrTooLarge    = errors.New("storage: file exceeds upload limit")
	ErrInvalidPath = errors.New("storage: invalid path")
	ErrNotFound    = errors.New("storage: file not found")
)

// StoredFile describes a file written by Save
type StoredFile struct {
	Path   string
	Size   int64
	SHA256 string
}

// LocalStorage keeps generated PDFs under a root directory
type LocalStorage struct {
	fs      afero.Fs
	root    string
	maxSize int64
}

// NewLocalStorage roots a store at dir on the OS filesystem
func NewLocalStorage(dir string, maxSize int64) (*LocalStorage, error) {
	return NewStorage(afero.NewOsFs(), dir, maxSize)
}

// NewStorage roots a store at dir on fs. A maxSize of zero disables the limit.
func NewStorage(fs afero.Fs, dir string, maxSize int64) (*LocalStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", dir, err)
	}
	return &LocalStorage{fs: fs, root: dir, maxSize: maxSize}, nil
}

// MaxSize returns the configured upload limit. Upload handlers share it so a
// body they accept is never rejected by Save.
func (s *LocalStorage) MaxSize() int64 {
	return s.maxSize
}

// Save writes data at the slash separated relative path name. The file is
// written next to its destination first so readers never see a partial PDF.
func (s *LocalStorage) Save(name string, data []byte) (*StoredFile, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, ErrTooLarge
	}
	full, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}
	tmp := full + ".part"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return nil, fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := s.fs.Rename(tmp, full); err != nil {
		_ = s.fs.Remove(tmp)
		return nil, fmt.Errorf("storage: move %s: %w", name, err)
	}

	sum := sha256.Sum256(data)
	return &StoredFile{
		Path:   path.Clean(name),
		Size:   int64(len(data)),
		SHA256: hex.EncodeToString(sum[:]),
	}, nil
}

// Open returns a reader on a stored file
func (s *LocalStorage) Open(name string) (io.ReadCloser, error) {
	full, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(full)
	if err != nil {
		if errors.Is(err, afero.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: open %s: %w", name, err)
	}
	return f, nil
}

// Read loads a whole stored file
func (s *LocalStorage) Read(name string) ([]byte, error) {
	f, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// resolve maps a relative name into the root, rejecting escapes
func (s *LocalStorage) resolve(name string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	if clean == "/" || strings.Contains(name, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
