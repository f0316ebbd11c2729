package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"content_hub/internal/storage"
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalFileStorage keeps uploaded images under baseDir and serves them from
// baseURL.
type LocalFileStorage struct {
	baseDir string
	baseURL string
	maxSize int64
}

func NewLocalFileStorage(baseDir, baseURL string, maxSize int64) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

// Save copies an uploaded image below subPath under a generated name and
// returns its path relative to the base dir.
func (s *LocalFileStorage) Save(ctx context.Context, file *multipart.FileHeader, subPath string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", 0, storage.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", 0, fmt.Errorf("failed to read source file: %w", err)
	}
	ext, ok := imageTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", 0, storage.ErrInvalidFileType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("failed to rewind source file: %w", err)
	}

	rel := path.Join(cleanSubPath(subPath), uuid.NewString()+ext)
	fullPath := s.GetFullPath(rel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, io.LimitReader(src, s.limit()))
	if err != nil {
		_ = os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to copy file: %w", err)
	}
	if s.maxSize > 0 && size > s.maxSize {
		_ = os.Remove(fullPath)
		return "", 0, storage.ErrFileTooLarge
	}

	return rel, size, nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, filePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.GetFullPath(filePath))
	if os.IsNotExist(err) {
		return storage.ErrFileNotFound
	}
	return err
}

func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(cleanSubPath(relativePath)))
}

// URL returns the public address of a stored file.
func (s *LocalFileStorage) URL(relativePath string) string {
	return s.baseURL + "/" + cleanSubPath(relativePath)
}

func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}

func (s *LocalFileStorage) limit() int64 {
	if s.maxSize > 0 {
		return s.maxSize + 1
	}
	return 1<<63 - 1
}

// cleanSubPath keeps p inside the base dir.
func cleanSubPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(p)), "/")
}
