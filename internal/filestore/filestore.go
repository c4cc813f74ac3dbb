// Package filestore manages the flat directory of uploaded binaries. Stored
// names are opaque tokens, never derived from client-supplied file names.
package filestore

import (
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a generated name, keeping only the
// original extension, and returns the stored name.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file. A file that is already gone is not an error:
// metadata and binaries are not transactional with each other.
func (s *Store) Remove(name string) error {
	if name == "" || filepath.Base(name) != name {
		return errors.New("invalid stored file name")
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) Exists(name string) bool {
	if filepath.Base(name) != name {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}
