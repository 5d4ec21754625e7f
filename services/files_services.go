package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"api/config"

	"github.com/google/uuid"
)

// FileStore abstracts the storage of entry attachments. The core only
// persists the returned reference string.
type FileStore interface {
	Store(file *multipart.FileHeader) (string, error)
	Delete(ref string) bool
	Exists(ref string) bool
}

// Files is the store used by the entry services. Replaced in tests.
var Files FileStore = &LocalFileStore{}

// LocalFileStore keeps attachments on the local disk under config.UploadDir
type LocalFileStore struct{}

func (s *LocalFileStore) Store(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(config.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ref := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(config.UploadDir, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return ref, nil
}

func (s *LocalFileStore) Delete(ref string) bool {
	return os.Remove(filepath.Join(config.UploadDir, ref)) == nil
}

func (s *LocalFileStore) Exists(ref string) bool {
	_, err := os.Stat(filepath.Join(config.UploadDir, ref))
	return err == nil
}
