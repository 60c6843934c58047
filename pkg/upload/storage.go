package upload

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// Storage persists uploaded files under a local directory and returns the
// URL path they are served from.
type Storage interface {
	Save(file *multipart.FileHeader) (string, error)
}

type diskStorage struct {
	dir       string
	urlPrefix string
}

// NewDiskStorage ensures the upload directory exists.
func NewDiskStorage(dir, urlPrefix string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &diskStorage{dir: dir, urlPrefix: urlPrefix}, nil
}

// Save writes the file under a collision-resistant name and returns its URL path.
func (s *diskStorage) Save(file *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1e9), filepath.Ext(file.Filename))
	dst := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return s.urlPrefix + "/" + name, nil
}
