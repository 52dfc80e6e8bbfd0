// Package upload is the file-storage collaborator: it writes multipart
// images to disk and hands back the path the caller records on the resource.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
)

type Storage struct {
	dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Save stores one uploaded file under a unique name derived from the form
// field and the current time, and returns the stored relative path.
func (s *Storage) Save(file *multipart.FileHeader, field string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", apierr.Validation("could not read uploaded file")
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%d%s", field, time.Now().UnixNano(), filepath.Ext(file.Filename))
	path := filepath.Join(s.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", apierr.Internal(err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", apierr.Internal(err)
	}
	return path, nil
}

func (s *Storage) Dir() string { return s.dir }
